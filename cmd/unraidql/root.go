// Copyright 2026 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sirseerhq/unraidql/internal/catalog"
	"github.com/sirseerhq/unraidql/internal/config"
	uqerrors "github.com/sirseerhq/unraidql/internal/errors"
	"github.com/sirseerhq/unraidql/internal/render"
	"github.com/sirseerhq/unraidql/internal/unraid"
	"github.com/sirseerhq/unraidql/pkg/version"
)

// probeTimeout bounds the redirect probe. A server that cannot answer
// a HEAD request in this window is treated as directly reachable.
// Dispatch itself carries no deadline, a slow query holds the run.
const probeTimeout = 5 * time.Second

// rootOptions collects every flag on the root command.
type rootOptions struct {
	// Connection
	ip     string
	key    string
	port   int
	https  bool
	direct bool

	// Query selection
	query  string
	custom string

	// Output
	outputFile string
	noColor    bool
	check      bool

	// System control
	reboot   bool
	shutdown bool

	// Array control
	startArray bool
	stopArray  bool

	// Parity control
	startParity  bool
	correct      bool
	pauseParity  bool
	resumeParity bool
	cancelParity bool

	// User management
	addUser     bool
	deleteUser  bool
	username    string
	password    string
	description string

	// API key management
	createAPIKey bool
	apikeyName   string
	apikeyRoles  string

	// Notification management
	createNotification  bool
	title               string
	subject             string
	message             string
	importance          string
	link                string
	archiveNotification string
	archiveAll          bool
	importantOnly       bool

	// Remote access
	setupRemote bool
	accessType  string
	forwardType string
	remotePort  int

	// Docker and VM control (not exposed by the GraphQL API)
	startContainer   string
	stopContainer    string
	restartContainer string
	startVM          string
	stopVM           string
	pauseVM          string
	resumeVM         string
}

// newRootCommand builds the unraidql command
func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "unraidql",
		Short: "Query and control an Unraid server over its GraphQL API",
		Long: `unraidql queries and controls an Unraid server through its GraphQL API.

It discovers the server's reverse-proxy hostname automatically, so it
works with servers behind myunraid.net style proxies as well as direct
LAN connections. Data payloads print as indented JSON in the order the
server returned them; section banners and errors go to stderr so piped
output stays clean.

Run a named query with --query, every query at once with --query all,
or a raw document with --custom. Action flags such as --reboot or
--start-array dispatch a single mutation; only one action is allowed
per invocation.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.noColor {
				color.NoColor = true
			}
			return runRoot(cmd.Context(), cmd, opts)
		},
	}

	flags := cmd.Flags()

	// Connection
	flags.StringVar(&opts.ip, "ip", "", "Unraid server IP address or hostname (required)")
	flags.StringVar(&opts.key, "key", "", "API key (required)")
	flags.IntVar(&opts.port, "port", 0, "Port of the GraphQL endpoint")
	flags.BoolVar(&opts.https, "https", false, "Connect over HTTPS")
	flags.BoolVar(&opts.direct, "direct", false, "Use a direct connection without checking for redirects")

	// Query selection
	flags.StringVar(&opts.query, "query", "info",
		"Query to execute (info, array, docker, disks, network, shares, vms, parity, vars, users, apikeys, notifications, or all)")
	flags.StringVar(&opts.custom, "custom", "", "Run a custom GraphQL document from a string")

	// Output
	flags.StringVar(&opts.outputFile, "output", "", "Write data payloads to a file (default: stdout)")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored status output")
	flags.BoolVar(&opts.check, "check", false, "Verify connectivity and credentials, then exit")

	// System control
	flags.BoolVar(&opts.reboot, "reboot", false, "Reboot the Unraid system")
	flags.BoolVar(&opts.shutdown, "shutdown", false, "Shutdown the Unraid system")

	// Array control
	flags.BoolVar(&opts.startArray, "start-array", false, "Start the Unraid array")
	flags.BoolVar(&opts.stopArray, "stop-array", false, "Stop the Unraid array")

	// Parity control
	flags.BoolVar(&opts.startParity, "start-parity", false, "Start a parity check")
	flags.BoolVar(&opts.correct, "correct", false, "Write corrections during the parity check")
	flags.BoolVar(&opts.pauseParity, "pause-parity", false, "Pause a running parity check")
	flags.BoolVar(&opts.resumeParity, "resume-parity", false, "Resume a paused parity check")
	flags.BoolVar(&opts.cancelParity, "cancel-parity", false, "Cancel a running parity check")

	// User management
	flags.BoolVar(&opts.addUser, "add-user", false, "Add a new user")
	flags.BoolVar(&opts.deleteUser, "delete-user", false, "Delete a user")
	flags.StringVar(&opts.username, "username", "", "Username for user operations")
	flags.StringVar(&opts.password, "password", "", "Password for user operations")
	flags.StringVar(&opts.description, "description", "", "Description for user or API key")

	// API key management
	flags.BoolVar(&opts.createAPIKey, "create-apikey", false, "Create a new API key")
	flags.StringVar(&opts.apikeyName, "apikey-name", "", "Name for the API key")
	flags.StringVar(&opts.apikeyRoles, "apikey-roles", "", "Comma-separated list of roles for the API key")

	// Notification management
	flags.BoolVar(&opts.createNotification, "create-notification", false, "Create a notification")
	flags.StringVar(&opts.title, "title", "", "Title for the notification")
	flags.StringVar(&opts.subject, "subject", "", "Subject for the notification")
	flags.StringVar(&opts.message, "message", "", "Message content for the notification")
	flags.StringVar(&opts.importance, "importance", "INFO", "Importance level (INFO, WARNING, ALERT)")
	flags.StringVar(&opts.link, "link", "", "Link for the notification")
	flags.StringVar(&opts.archiveNotification, "archive-notification", "", "ID of the notification to archive")
	flags.BoolVar(&opts.archiveAll, "archive-all", false, "Archive all notifications")
	flags.BoolVar(&opts.importantOnly, "important-only", false, "Show only WARNING and ALERT notifications")

	// Remote access
	flags.BoolVar(&opts.setupRemote, "setup-remote", false, "Configure remote access")
	flags.StringVar(&opts.accessType, "access-type", "", "Remote access type (DYNAMIC, ALWAYS, DISABLED)")
	flags.StringVar(&opts.forwardType, "forward-type", "", "Port forwarding type (UPNP, STATIC)")
	flags.IntVar(&opts.remotePort, "remote-port", 0, "Port for remote access")

	// Docker and VM control flags are accepted for interface parity; the
	// GraphQL API does not expose these mutations.
	flags.StringVar(&opts.startContainer, "start-container", "", "ID of the Docker container to start")
	flags.StringVar(&opts.stopContainer, "stop-container", "", "ID of the Docker container to stop")
	flags.StringVar(&opts.restartContainer, "restart-container", "", "ID of the Docker container to restart")
	flags.StringVar(&opts.startVM, "start-vm", "", "UUID of the VM to start")
	flags.StringVar(&opts.stopVM, "stop-vm", "", "UUID of the VM to stop")
	flags.StringVar(&opts.pauseVM, "pause-vm", "", "UUID of the VM to pause")
	flags.StringVar(&opts.resumeVM, "resume-vm", "", "UUID of the VM to resume")

	return cmd
}

// runRoot executes one invocation end to end: validate flags, pick the
// work, resolve the endpoint, dispatch, render.
func runRoot(ctx context.Context, cmd *cobra.Command, opts *rootOptions) error {
	cfg := config.Config{
		Host:              opts.ip,
		Port:              opts.port,
		PreferHTTPS:       opts.https,
		SkipRedirectCheck: opts.direct,
		APIKey:            config.Credential(opts.key),
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := validateChoice("importance", opts.importance, "INFO", "WARNING", "ALERT"); err != nil {
		return err
	}
	if err := validateChoice("access-type", opts.accessType, "DYNAMIC", "ALWAYS", "DISABLED"); err != nil {
		return err
	}
	if err := validateChoice("forward-type", opts.forwardType, "UPNP", "STATIC"); err != nil {
		return err
	}
	if opts.correct && !opts.startParity {
		return fmt.Errorf("--correct requires --start-parity")
	}

	// Pick at most one action before any network I/O.
	act, unsupported, err := selectAction(opts)
	if err != nil {
		return err
	}
	if unsupported != nil {
		return fmt.Errorf("%s is not exposed by the GraphQL API: %w", unsupported.what, uqerrors.ErrUnsupported)
	}

	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	// One endpoint per run.
	resolver := unraid.NewResolver(&http.Client{Timeout: probeTimeout})
	endpoint, probeErr := resolver.Resolve(ctx, cfg.Target(), cfg.PreferHTTPS, cfg.SkipRedirectCheck)
	if probeErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", probeErr)
		fmt.Fprintf(os.Stderr, "Continuing with direct connection to %s\n", cfg.Target())
	}
	if endpoint.RedirectHost != "" {
		fmt.Fprintf(os.Stderr, "Discovered proxy hostname: %s\n", endpoint.RedirectHost)
	}

	client := unraid.NewHTTPClient(endpoint, cfg.APIKey)

	var out render.OutputWriter
	if opts.outputFile == "" {
		out = render.NewWriter(os.Stdout)
	} else {
		fileWriter, fErr := render.NewFileWriter(opts.outputFile)
		if fErr != nil {
			return fErr
		}
		out = fileWriter
	}
	defer out.Close()

	renderer := render.NewRenderer(out, os.Stderr)

	if opts.check {
		return runCheck(ctx, client, renderer)
	}
	if act != nil {
		return runAction(ctx, cmd, client, cat, renderer, act, opts)
	}
	return runQueries(ctx, cmd, client, cat, renderer, opts)
}

// runCheck verifies connectivity and credentials with a single identity
// query and reports who the key authenticates as.
func runCheck(ctx context.Context, client *unraid.HTTPClient, renderer *render.Renderer) error {
	identity, err := client.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("connection check failed: %w", err)
	}
	renderer.Identity(identity)
	return nil
}

// runAction dispatches the single mutation an action flag selected.
func runAction(ctx context.Context, cmd *cobra.Command, client unraid.Client, cat *catalog.Catalog, renderer *render.Renderer, act *action, opts *rootOptions) error {
	entry, err := cat.Lookup(act.key)
	if err != nil {
		return err
	}

	var vars map[string]any
	if act.vars != nil {
		vars, err = act.vars(cmd, opts)
		if err != nil {
			return err
		}
	}
	if missing := entry.MissingVariables(vars); len(missing) > 0 {
		return fmt.Errorf("missing required variables for %s: %s", entry.Key, strings.Join(missing, ", "))
	}

	banner := entry.Section
	if act.detail != nil {
		if d := act.detail(opts); d != "" {
			banner += ": " + d
		}
	}
	renderer.Section(banner)

	resp, err := client.Execute(ctx, entry.Document, vars)
	if err != nil {
		return err
	}
	return renderer.Result(resp)
}

// runQueries dispatches a named query, the full batch, or a custom
// document. Batch dispatch continues past failures and reports them at
// the end so one broken subsystem cannot hide the rest.
func runQueries(ctx context.Context, cmd *cobra.Command, client unraid.Client, cat *catalog.Catalog, renderer *render.Renderer, opts *rootOptions) error {
	if opts.custom != "" {
		entry := catalog.Custom(opts.custom)
		if err := catalog.ValidateDocument(entry.Document); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: custom query failed local validation: %v\n", err)
		}
		renderer.Section(entry.Section)
		resp, err := client.Execute(ctx, entry.Document, nil)
		if err != nil {
			return err
		}
		return renderer.Result(resp)
	}

	entries, err := cat.Expand(opts.query)
	if err != nil {
		return err
	}

	var failed int
	var firstErr error
	for _, entry := range entries {
		vars := queryVariables(cmd, entry, opts)
		renderer.Section(entry.Section)

		resp, dispatchErr := client.Execute(ctx, entry.Document, vars)
		if dispatchErr != nil {
			if len(entries) == 1 {
				return dispatchErr
			}
			renderer.Failure(entry.Key, resp, dispatchErr)
			failed++
			if firstErr == nil {
				firstErr = dispatchErr
			}
			continue
		}

		if entry.Key == "notifications" && opts.importantOnly && resp.HasData() {
			applyImportantFilter(resp)
		}

		if err := renderer.Result(resp); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d queries failed: %w", failed, len(entries), firstErr)
	}
	return nil
}

// queryVariables builds per-entry variables for catalog queries. Only the
// notifications query takes any today: the importance filter is sent to
// the server only when the flag was given explicitly.
func queryVariables(cmd *cobra.Command, entry catalog.Entry, opts *rootOptions) map[string]any {
	if entry.Key != "notifications" {
		return nil
	}
	if cmd != nil && cmd.Flags().Changed("importance") {
		return map[string]any{"importance": opts.importance}
	}
	return nil
}

// applyImportantFilter narrows a notifications payload to WARNING and
// ALERT entries before rendering.
func applyImportantFilter(resp *unraid.Response) {
	filtered, kept, dropped, err := render.FilterImportant(resp.Data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not filter notifications: %v\n", err)
		return
	}
	resp.Data = filtered
	fmt.Fprintf(os.Stderr, "Showing %d important notifications (%d filtered out)\n", kept, dropped)
}

// action binds an action flag to a catalog entry, the banner detail it
// prints, and the variables it dispatches with.
type action struct {
	flag    string
	key     string
	enabled func(*rootOptions) bool
	detail  func(*rootOptions) string
	vars    func(*cobra.Command, *rootOptions) (map[string]any, error)
}

// unsupportedOp names an operation the server's GraphQL API does not
// implement. The flags are accepted for interface parity and always fail
// with a clear error instead of sending a request the server cannot honor.
type unsupportedOp struct {
	flag  string
	what  string
	value func(*rootOptions) string
}

func actionTable() []action {
	return []action{
		{
			flag:    "reboot",
			key:     "reboot",
			enabled: func(o *rootOptions) bool { return o.reboot },
		},
		{
			flag:    "shutdown",
			key:     "shutdown",
			enabled: func(o *rootOptions) bool { return o.shutdown },
		},
		{
			flag:    "start-array",
			key:     "array.start",
			enabled: func(o *rootOptions) bool { return o.startArray },
		},
		{
			flag:    "stop-array",
			key:     "array.stop",
			enabled: func(o *rootOptions) bool { return o.stopArray },
		},
		{
			flag:    "start-parity",
			key:     "parity.start",
			enabled: func(o *rootOptions) bool { return o.startParity },
			vars: func(_ *cobra.Command, o *rootOptions) (map[string]any, error) {
				return map[string]any{"correct": o.correct}, nil
			},
		},
		{
			flag:    "pause-parity",
			key:     "parity.pause",
			enabled: func(o *rootOptions) bool { return o.pauseParity },
		},
		{
			flag:    "resume-parity",
			key:     "parity.resume",
			enabled: func(o *rootOptions) bool { return o.resumeParity },
		},
		{
			flag:    "cancel-parity",
			key:     "parity.cancel",
			enabled: func(o *rootOptions) bool { return o.cancelParity },
		},
		{
			flag:    "add-user",
			key:     "user.add",
			enabled: func(o *rootOptions) bool { return o.addUser },
			detail:  func(o *rootOptions) string { return o.username },
			vars: func(_ *cobra.Command, o *rootOptions) (map[string]any, error) {
				if o.username == "" || o.password == "" {
					return nil, fmt.Errorf("--username and --password are required for --add-user")
				}
				return map[string]any{"input": map[string]any{
					"name":        o.username,
					"password":    o.password,
					"description": o.description,
				}}, nil
			},
		},
		{
			flag:    "delete-user",
			key:     "user.delete",
			enabled: func(o *rootOptions) bool { return o.deleteUser },
			detail:  func(o *rootOptions) string { return o.username },
			vars: func(_ *cobra.Command, o *rootOptions) (map[string]any, error) {
				if o.username == "" {
					return nil, fmt.Errorf("--username is required for --delete-user")
				}
				return map[string]any{"input": map[string]any{"name": o.username}}, nil
			},
		},
		{
			flag:    "create-apikey",
			key:     "apikey.create",
			enabled: func(o *rootOptions) bool { return o.createAPIKey },
			detail:  func(o *rootOptions) string { return o.apikeyName },
			vars: func(_ *cobra.Command, o *rootOptions) (map[string]any, error) {
				if o.apikeyName == "" {
					return nil, fmt.Errorf("--apikey-name is required for --create-apikey")
				}
				input := map[string]any{
					"name":        o.apikeyName,
					"description": o.description,
				}
				if o.apikeyRoles != "" {
					input["roles"] = splitRoles(o.apikeyRoles)
				}
				return map[string]any{"input": input}, nil
			},
		},
		{
			flag:    "create-notification",
			key:     "notification.create",
			enabled: func(o *rootOptions) bool { return o.createNotification },
			detail:  func(o *rootOptions) string { return o.title },
			vars: func(_ *cobra.Command, o *rootOptions) (map[string]any, error) {
				if o.title == "" || o.subject == "" || o.message == "" {
					return nil, fmt.Errorf("--title, --subject, and --message are required for --create-notification")
				}
				input := map[string]any{
					"title":       o.title,
					"subject":     o.subject,
					"description": o.message,
					"importance":  o.importance,
				}
				if o.link != "" {
					input["link"] = o.link
				}
				return map[string]any{"input": input}, nil
			},
		},
		{
			flag:    "archive-notification",
			key:     "notification.archive",
			enabled: func(o *rootOptions) bool { return o.archiveNotification != "" },
			detail:  func(o *rootOptions) string { return o.archiveNotification },
			vars: func(_ *cobra.Command, o *rootOptions) (map[string]any, error) {
				return map[string]any{"id": o.archiveNotification}, nil
			},
		},
		{
			flag:    "archive-all",
			key:     "notification.archiveAll",
			enabled: func(o *rootOptions) bool { return o.archiveAll },
			vars: func(cmd *cobra.Command, o *rootOptions) (map[string]any, error) {
				if cmd != nil && cmd.Flags().Changed("importance") {
					return map[string]any{"importance": o.importance}, nil
				}
				return nil, nil
			},
		},
		{
			flag:    "setup-remote",
			key:     "remote.setup",
			enabled: func(o *rootOptions) bool { return o.setupRemote },
			detail:  func(o *rootOptions) string { return o.accessType },
			vars: func(_ *cobra.Command, o *rootOptions) (map[string]any, error) {
				if o.accessType == "" {
					return nil, fmt.Errorf("--access-type is required for --setup-remote")
				}
				input := map[string]any{"accessType": o.accessType}
				if o.forwardType != "" {
					input["forwardType"] = o.forwardType
				}
				if o.remotePort != 0 {
					input["port"] = o.remotePort
				}
				return map[string]any{"input": input}, nil
			},
		},
	}
}

func unsupportedOps() []unsupportedOp {
	return []unsupportedOp{
		{flag: "start-container", what: "starting Docker containers", value: func(o *rootOptions) string { return o.startContainer }},
		{flag: "stop-container", what: "stopping Docker containers", value: func(o *rootOptions) string { return o.stopContainer }},
		{flag: "restart-container", what: "restarting Docker containers", value: func(o *rootOptions) string { return o.restartContainer }},
		{flag: "start-vm", what: "starting virtual machines", value: func(o *rootOptions) string { return o.startVM }},
		{flag: "stop-vm", what: "stopping virtual machines", value: func(o *rootOptions) string { return o.stopVM }},
		{flag: "pause-vm", what: "pausing virtual machines", value: func(o *rootOptions) string { return o.pauseVM }},
		{flag: "resume-vm", what: "resuming virtual machines", value: func(o *rootOptions) string { return o.resumeVM }},
	}
}

// selectAction picks the action selected on this run. More than one
// action flag is a usage error reported before any request is sent.
func selectAction(opts *rootOptions) (*action, *unsupportedOp, error) {
	table := actionTable()
	ops := unsupportedOps()

	var flags []string
	var picked *action
	var pickedOp *unsupportedOp

	for i := range table {
		if table[i].enabled(opts) {
			flags = append(flags, "--"+table[i].flag)
			picked = &table[i]
		}
	}
	for i := range ops {
		if ops[i].value(opts) != "" {
			flags = append(flags, "--"+ops[i].flag)
			pickedOp = &ops[i]
		}
	}

	if len(flags) > 1 {
		return nil, nil, fmt.Errorf("conflicting action flags: %s (run one action at a time)", strings.Join(flags, ", "))
	}
	if pickedOp != nil {
		return nil, pickedOp, nil
	}
	return picked, nil, nil
}

// validateChoice enforces an enum-valued flag. Empty means unset.
func validateChoice(flag, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid value %q for --%s (choose from %s)", value, flag, strings.Join(allowed, ", "))
}

// splitRoles parses a comma-separated role list, dropping empty segments.
func splitRoles(raw string) []string {
	parts := strings.Split(raw, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			roles = append(roles, trimmed)
		}
	}
	return roles
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, uqerrors.ErrInvalidKey) {
		return 2 // Authentication errors
	}

	if errors.Is(err, uqerrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}

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

package unraid

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shurcooL/graphql"

	uqerrors "github.com/sirseerhq/unraidql/internal/errors"
)

// Identity describes the account an API key authenticates as.
type Identity struct {
	ID    string
	Name  string
	Roles []string
}

// CurrentUser fetches the identity behind the configured API key using a
// typed query. Connection checks use this to verify both reachability and
// credentials in a single round trip before any real work.
func (c *HTTPClient) CurrentUser(ctx context.Context) (*Identity, error) {
	gql := graphql.NewClient(c.endpoint.ResolvedURL, c.client)

	var q struct {
		Me struct {
			ID    graphql.String
			Name  graphql.String
			Roles []graphql.String
		}
	}
	if err := gql.Query(ctx, &q, nil); err != nil {
		return nil, classifyIdentityError(err)
	}

	roles := make([]string, 0, len(q.Me.Roles))
	for _, role := range q.Me.Roles {
		roles = append(roles, string(role))
	}
	return &Identity{
		ID:    string(q.Me.ID),
		Name:  string(q.Me.Name),
		Roles: roles,
	}, nil
}

// classifyIdentityError maps a graphql library error onto our sentinels.
// The library flattens transport and HTTP failures into plain errors, so
// classification falls back to message inspection for status codes.
func classifyIdentityError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %v", uqerrors.ErrNetworkFailure, err)
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"401", "403", "unauthorized", "forbidden"} {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %v", uqerrors.ErrInvalidKey, err)
		}
	}
	return fmt.Errorf("%w: identity check: %v", uqerrors.ErrRequestFailed, err)
}

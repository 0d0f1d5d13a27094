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

package testutil

import (
	"fmt"
	"time"
)

// NotificationBuilder provides a fluent API for creating test notifications
type NotificationBuilder struct {
	id          string
	title       string
	subject     string
	description string
	importance  string
	link        string
	timestamp   time.Time
}

// NewNotificationBuilder creates a notification builder with defaults
func NewNotificationBuilder(n int) *NotificationBuilder {
	return &NotificationBuilder{
		id:          fmt.Sprintf("notif-%d", n),
		title:       fmt.Sprintf("Notification %d", n),
		subject:     fmt.Sprintf("Subject %d", n),
		description: fmt.Sprintf("Description of notification %d", n),
		importance:  "INFO",
		timestamp:   time.Now().Add(-time.Duration(n) * time.Hour),
	}
}

// WithTitle sets the notification title
func (b *NotificationBuilder) WithTitle(title string) *NotificationBuilder {
	b.title = title
	return b
}

// WithSubject sets the notification subject
func (b *NotificationBuilder) WithSubject(subject string) *NotificationBuilder {
	b.subject = subject
	return b
}

// WithDescription sets the notification body text
func (b *NotificationBuilder) WithDescription(description string) *NotificationBuilder {
	b.description = description
	return b
}

// WithImportance sets the importance level (INFO, WARNING, ALERT)
func (b *NotificationBuilder) WithImportance(importance string) *NotificationBuilder {
	b.importance = importance
	return b
}

// WithLink sets the notification link
func (b *NotificationBuilder) WithLink(link string) *NotificationBuilder {
	b.link = link
	return b
}

// WithTimestamp sets when the notification was raised
func (b *NotificationBuilder) WithTimestamp(t time.Time) *NotificationBuilder {
	b.timestamp = t
	return b
}

// Build creates the notification data structure
func (b *NotificationBuilder) Build() map[string]interface{} {
	notification := map[string]interface{}{
		"id":          b.id,
		"title":       b.title,
		"subject":     b.subject,
		"description": b.description,
		"importance":  b.importance,
		"type":        "UNREAD",
		"timestamp":   b.timestamp.Format(time.RFC3339),
	}
	if b.link != "" {
		notification["link"] = b.link
	}
	return notification
}

// GraphQLResponseBuilder builds GraphQL response envelopes
type GraphQLResponseBuilder struct {
	fields map[string]interface{}
	errors []map[string]interface{}
}

// NewGraphQLResponseBuilder creates a new response builder
func NewGraphQLResponseBuilder() *GraphQLResponseBuilder {
	return &GraphQLResponseBuilder{
		fields: map[string]interface{}{},
	}
}

// WithField adds a root data field to the response
func (b *GraphQLResponseBuilder) WithField(name string, value interface{}) *GraphQLResponseBuilder {
	b.fields[name] = value
	return b
}

// WithNotifications adds a notifications payload built from the given entries
func (b *GraphQLResponseBuilder) WithNotifications(notifications ...map[string]interface{}) *GraphQLResponseBuilder {
	list := make([]interface{}, len(notifications))
	counts := map[string]int{}
	for i, n := range notifications {
		list[i] = n
		if level, ok := n["importance"].(string); ok {
			counts[level]++
		}
	}
	b.fields["notifications"] = map[string]interface{}{
		"list": list,
		"overview": map[string]interface{}{
			"unread": map[string]interface{}{
				"info":    counts["INFO"],
				"warning": counts["WARNING"],
				"alert":   counts["ALERT"],
				"total":   len(notifications),
			},
			"archive": map[string]interface{}{"info": 0, "warning": 0, "alert": 0, "total": 0},
		},
	}
	return b
}

// WithError adds an error to the response
func (b *GraphQLResponseBuilder) WithError(message string) *GraphQLResponseBuilder {
	b.errors = append(b.errors, map[string]interface{}{
		"message": message,
	})
	return b
}

// WithErrorAt adds an error with a path to the response
func (b *GraphQLResponseBuilder) WithErrorAt(message string, path ...interface{}) *GraphQLResponseBuilder {
	b.errors = append(b.errors, map[string]interface{}{
		"message": message,
		"path":    path,
	})
	return b
}

// Build creates the GraphQL response envelope. Data and errors can
// coexist; a response with errors and no fields carries a null data.
func (b *GraphQLResponseBuilder) Build() map[string]interface{} {
	response := map[string]interface{}{}
	if len(b.fields) > 0 {
		response["data"] = b.fields
	} else if len(b.errors) > 0 {
		response["data"] = nil
	}
	if len(b.errors) > 0 {
		response["errors"] = b.errors
	}
	return response
}

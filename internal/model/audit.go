package model

import (
	"encoding/json"
	"time"

	"school-admin/pkg/querystring"
)

// AuditEntry records one change to school records.
type AuditEntry struct {
	ID         string          `json:"id"`
	Action     string          `json:"action"`
	Resource   string          `json:"resource"`
	ActorID    string          `json:"actorId,omitempty"`
	ActorName  string          `json:"actorName,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// AuditFilter is the audit list search form. Action matches exactly,
// Actor and Resource match as substrings.
type AuditFilter struct {
	Action   string
	Actor    string
	Resource string
}

func (f AuditFilter) Params() *querystring.Params {
	return querystring.Of(
		"action", optional(f.Action),
		"actor", optional(f.Actor),
		"resource", optional(f.Resource),
	)
}

package domain

import (
	"context"
	"time"
)

// PaginatedResult for list responses
type PaginatedResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// SecurityEventFilter narrows the audit trail. Empty fields match everything.
type SecurityEventFilter struct {
	EventTypes []string
	Severities []string
	SearchIP   string // prefix match
	Subject    string // substring of the (masked) subject value
	Since      *time.Time
	Limit      int
	Offset     int
}

// SecurityEventView is one persisted audit event.
type SecurityEventView struct {
	ID           int64          `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	EventType    string         `json:"event_type"`
	Severity     string         `json:"severity"`
	SubjectType  string         `json:"subject_type,omitempty"`
	SubjectValue string         `json:"subject_value,omitempty"`
	IP           string         `json:"ip,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
	RequestID    string         `json:"request_id,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
}

type SecurityEventRepository interface {
	ListEvents(ctx context.Context, filter SecurityEventFilter) ([]SecurityEventView, int64, error)
}

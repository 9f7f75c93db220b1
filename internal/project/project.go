package project

import (
	"context"
	"errors"
	"time"
)

// Project is a client/developer engagement started from a quote
// request. Tracking data only; the session core does not depend on it.
type Project struct {
	ID           string    `json:"id"`
	ClientUID    string    `json:"client_uid"`
	DeveloperUID string    `json:"developer_uid,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Status       Status    `json:"status"`
	QuoteMinor   int64     `json:"quote_minor,omitempty"`
	Currency     string    `json:"currency,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Status string

const (
	StatusQuoteRequested Status = "quote_requested"
	StatusQuoted         Status = "quoted"
	StatusInProgress     Status = "in_progress"
	StatusDelivered      Status = "delivered"
	StatusClosed         Status = "closed"
)

var ErrNotFound = errors.New("project: not found")

// Store is the persistence contract for projects.
// ListForUser returns projects where uid is the client or the assigned
// developer; that ownership filter is the only authorization here.
type Store interface {
	ListForUser(ctx context.Context, uid string) ([]Project, error)
	Get(ctx context.Context, id string) (Project, error)
	Insert(ctx context.Context, p Project) (Project, error)
}

package domain

import "context"

// NotificationService defines the interface for notification services
type NotificationService interface {
	// SendRefreshSummary reports the outcome of a bulk metadata refresh
	SendRefreshSummary(ctx context.Context, report RefreshReport) error

	// SendError sends an error notification with error details
	SendError(ctx context.Context, err error) error
}

// RefreshReport is the outcome of a bulk metadata refresh. Entries listed in
// Updated were persisted; entries in Failed were left untouched.
type RefreshReport struct {
	Total   int              `json:"total"`
	Updated []int64          `json:"updated"`
	Failed  []RefreshFailure `json:"failed"`
}

type RefreshFailure struct {
	MalID int64  `json:"malId"`
	Title string `json:"title"`
	Error string `json:"error"`
}

package types

// Status is a type for the lifecycle status of a stored document.
// It tracks whether a document should be included in queries and is
// independent of any domain state machine (invoice status, request status).
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusDeleted  Status = "deleted"
)

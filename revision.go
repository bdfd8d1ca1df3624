package imgswap

import (
	"context"
	"time"
)

// Revision records one rewrite of a document.
type Revision struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	InputHash   string    `json:"inputHash"`
	OutputHash  string    `json:"outputHash"`
	ImageCount  int       `json:"imageCount"`
	EditedCount int       `json:"editedCount"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the revision contains invalid fields.
func (r *Revision) Validate() error {
	if r.Name == "" {
		return Errorf(EINVALID, "revision name required")
	}
	if r.OutputHash == "" {
		return Errorf(EINVALID, "revision output hash required")
	}
	return nil
}

// RevisionService represents a service for managing revisions.
type RevisionService interface {
	// CreateRevision stores a new revision, assigning its ID and CreatedAt.
	CreateRevision(ctx context.Context, rev *Revision) error

	// FindRevisionByID retrieves a revision by ID.
	// Returns ENOTFOUND if revision does not exist.
	FindRevisionByID(ctx context.Context, id string) (*Revision, error)

	// FindRevisions retrieves revisions matching the filter, newest first.
	FindRevisions(ctx context.Context, filter RevisionFilter) ([]*Revision, error)
}

// RevisionFilter represents a filter for FindRevisions.
type RevisionFilter struct {
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

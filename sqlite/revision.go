package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/imgswap"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ imgswap.RevisionService = (*RevisionService)(nil)

// RevisionService implements imgswap.RevisionService using SQLite.
type RevisionService struct {
	db *DB
}

// NewRevisionService creates a new RevisionService.
func NewRevisionService(db *DB) *RevisionService {
	return &RevisionService{db: db}
}

const revisionColumns = "id, name, input_hash, output_hash, image_count, edited_count, content, created_at"

// CreateRevision creates a new revision.
func (s *RevisionService) CreateRevision(ctx context.Context, rev *imgswap.Revision) error {
	if err := rev.Validate(); err != nil {
		return err
	}

	rev.ID = uuid.New().String()
	rev.CreatedAt = time.Now().UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO revisions (`+revisionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rev.ID, rev.Name, rev.InputHash, rev.OutputHash, rev.ImageCount, rev.EditedCount,
		rev.Content, rev.CreatedAt.Format(time.RFC3339))

	return err
}

// FindRevisionByID retrieves a revision by ID.
func (s *RevisionService) FindRevisionByID(ctx context.Context, id string) (*imgswap.Revision, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+revisionColumns+` FROM revisions WHERE id = ?`, id)

	rev, err := scanRevision(row)
	if err == sql.ErrNoRows {
		return nil, imgswap.Errorf(imgswap.ENOTFOUND, "revision not found")
	}
	if err != nil {
		return nil, err
	}
	return rev, nil
}

// FindRevisions retrieves revisions matching the filter, newest first.
func (s *RevisionService) FindRevisions(ctx context.Context, filter imgswap.RevisionFilter) ([]*imgswap.Revision, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + revisionColumns + " FROM revisions WHERE 1=1")

	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revs []*imgswap.Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		revs = append(revs, rev)
	}

	return revs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRevision(row scanner) (*imgswap.Revision, error) {
	var rev imgswap.Revision
	var createdAt string

	if err := row.Scan(&rev.ID, &rev.Name, &rev.InputHash, &rev.OutputHash, &rev.ImageCount,
		&rev.EditedCount, &rev.Content, &createdAt); err != nil {
		return nil, err
	}

	var err error
	rev.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

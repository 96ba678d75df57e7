package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/sitechat"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ sitechat.HandoffService = (*HandoffService)(nil)

// HandoffService implements sitechat.HandoffService using SQLite.
type HandoffService struct {
	db *DB
}

// NewHandoffService creates a new HandoffService.
func NewHandoffService(db *DB) *HandoffService {
	return &HandoffService{db: db}
}

// CreateHandoff stores a new handoff request.
func (s *HandoffService) CreateHandoff(ctx context.Context, h *sitechat.Handoff) error {
	if err := h.Validate(); err != nil {
		return err
	}

	h.ID = uuid.New().String()
	h.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO handoffs (id, name, email, phone, summary, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, h.ID, h.Name, h.Email, h.Phone, h.Summary, h.CreatedAt.Format(time.RFC3339))

	return err
}

// FindHandoffs retrieves handoffs matching the filter, newest first.
func (s *HandoffService) FindHandoffs(ctx context.Context, filter sitechat.HandoffFilter) ([]*sitechat.Handoff, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, name, email, phone, summary, created_at FROM handoffs WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}

	query.WriteString(" ORDER BY created_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var handoffs []*sitechat.Handoff
	for rows.Next() {
		h, err := scanHandoff(rows)
		if err != nil {
			return nil, err
		}
		handoffs = append(handoffs, h)
	}

	return handoffs, rows.Err()
}

// scanHandoff scans a handoff row.
func scanHandoff(rows *sql.Rows) (*sitechat.Handoff, error) {
	var h sitechat.Handoff
	var createdAt string

	if err := rows.Scan(&h.ID, &h.Name, &h.Email, &h.Phone, &h.Summary, &createdAt); err != nil {
		return nil, err
	}

	var err error
	h.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, fmt.Errorf("scanning handoff: %w", err)
	}

	return &h, nil
}

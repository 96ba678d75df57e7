package sitechat

import (
	"context"
	"strings"
	"time"
)

// Handoff is a visitor's request to be contacted by a human operator.
type Handoff struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the handoff carries no usable information.
// All fields are individually optional but at least one must be set.
func (h *Handoff) Validate() error {
	if h.Name == "" && h.Email == "" && h.Phone == "" && h.Summary == "" {
		return Errorf(EINVALID, "handoff requires at least one of name, email, phone, or summary")
	}
	return nil
}

// FormatHandoff renders a handoff as the plain text summary delivered to
// the notification webhook. Empty fields are omitted.
func FormatHandoff(h *Handoff) string {
	var sb strings.Builder
	sb.WriteString("New support handoff request")
	if h.Name != "" {
		sb.WriteString("\nName: " + h.Name)
	}
	if h.Email != "" {
		sb.WriteString("\nEmail: " + h.Email)
	}
	if h.Phone != "" {
		sb.WriteString("\nPhone: " + h.Phone)
	}
	if h.Summary != "" {
		sb.WriteString("\nSummary: " + h.Summary)
	}
	return sb.String()
}

// Notifier delivers handoff requests to a human operator channel.
type Notifier interface {
	// Notify delivers the handoff. Implementations with no configured
	// destination return nil.
	Notify(ctx context.Context, h *Handoff) error
}

// HandoffService persists handoff requests.
type HandoffService interface {
	// CreateHandoff stores a new handoff, assigning ID and CreatedAt.
	CreateHandoff(ctx context.Context, h *Handoff) error

	// FindHandoffs retrieves handoffs matching the filter, newest first.
	FindHandoffs(ctx context.Context, filter HandoffFilter) ([]*Handoff, error)
}

// HandoffFilter represents a filter for FindHandoffs.
type HandoffFilter struct {
	ID *string `json:"id"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

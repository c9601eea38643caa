package domain

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_contact_repository.go -package mocks github.com/caseyos/caseyos/internal/domain ContactRepository,CompanyRepository

// SuppressionState is terminal for outbound sends once set.
type SuppressionState string

const (
	SuppressionNone      SuppressionState = "none"
	SuppressionBounce    SuppressionState = "bounce"
	SuppressionComplaint SuppressionState = "complaint"
	SuppressionUnsub     SuppressionState = "unsub"
)

// Contact is created on first unseen email. Email is unique and lowercased.
type Contact struct {
	ID           string           `json:"id"`
	Email        string           `json:"email" valid:"required,email"`
	Name         string           `json:"name,omitempty"`
	Company      string           `json:"company,omitempty"`
	Title        string           `json:"title,omitempty"`
	Timezone     string           `json:"timezone,omitempty"`
	ExternalIDs  StringMap        `json:"external_ids"`
	Segments     StringList       `json:"segments"`
	LastReplyAt  *time.Time       `json:"last_reply_at,omitempty"`
	Suppressed   SuppressionState `json:"suppressed"`
	SuppressedAt *time.Time       `json:"suppressed_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (c *Contact) Validate() error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if !govalidator.IsEmail(c.Email) {
		return NewValidationError("invalid contact email: " + c.Email)
	}
	if c.Suppressed == "" {
		c.Suppressed = SuppressionNone
	}
	return nil
}

// IsSuppressed reports whether outbound email to this contact is forbidden.
func (c *Contact) IsSuppressed() bool {
	return c.Suppressed != "" && c.Suppressed != SuppressionNone
}

// EmailDomain returns the part after '@', used for ICP domain matching.
func (c *Contact) EmailDomain() string {
	if i := strings.LastIndex(c.Email, "@"); i >= 0 {
		return c.Email[i+1:]
	}
	return ""
}

// Company groups contacts by email domain.
type Company struct {
	ID        string    `json:"id"`
	Domain    string    `json:"domain" valid:"required"`
	Name      string    `json:"name,omitempty"`
	Industry  string    `json:"industry,omitempty"`
	ICPScore  *float64  `json:"icp_score,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Company) Validate() error {
	c.Domain = strings.ToLower(strings.TrimSpace(c.Domain))
	if c.Domain == "" {
		return NewValidationError("company domain is required")
	}
	if c.ICPScore != nil && (*c.ICPScore < 0 || *c.ICPScore > 1) {
		return NewValidationError("icp_score must be in [0,1]")
	}
	return nil
}

// ContactRepository defines contact persistence.
type ContactRepository interface {
	// Upsert inserts by unique email or updates the mutable fields of the
	// existing row. Suppression is never cleared by an upsert.
	Upsert(ctx context.Context, contact *Contact) error
	UpsertTx(ctx context.Context, tx *sql.Tx, contact *Contact) error
	Get(ctx context.Context, id string) (*Contact, error)
	GetByEmail(ctx context.Context, email string) (*Contact, error)
	SetLastReplyAt(ctx context.Context, email string, at time.Time) error
	// Suppress is monotone: it never downgrades an existing suppression.
	Suppress(ctx context.Context, email string, state SuppressionState, at time.Time) error
	List(ctx context.Context, limit, offset int) ([]*Contact, int, error)
}

// CompanyRepository defines company persistence.
type CompanyRepository interface {
	Upsert(ctx context.Context, company *Company) error
	Get(ctx context.Context, id string) (*Company, error)
	GetByDomain(ctx context.Context, domain string) (*Company, error)
}

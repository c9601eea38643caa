package domain

import (
	"context"
	"sync"
	"time"
)

//go:generate mockgen -destination mocks/mock_connectors.go -package mocks github.com/caseyos/caseyos/internal/domain EmailConnector,CRMConnector,CalendarConnector,AssetConnector,LLMConnector

// EmailThreadRef is a lightweight search result.
type EmailThreadRef struct {
	ID            string    `json:"id"`
	Subject       string    `json:"subject"`
	Snippet       string    `json:"snippet"`
	LastMessageAt time.Time `json:"last_message_at"`
}

// EmailMessage is one message in a thread. Body may be HTML.
type EmailMessage struct {
	MessageID string    `json:"message_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Date      time.Time `json:"date"`
	Body      string    `json:"body"`
	IsHTML    bool      `json:"is_html"`
}

// EmailThread is a full thread fetched by id.
type EmailThread struct {
	ID       string         `json:"id"`
	Subject  string         `json:"subject"`
	Messages []EmailMessage `json:"messages"`
}

// OutboundEmail is the connector-facing shape of a composed email.
type OutboundEmail struct {
	To            string    `json:"to"`
	Subject       string    `json:"subject"`
	BodyText      string    `json:"body_text"`
	BodyHTML      string    `json:"body_html,omitempty"`
	ThreadHeaders StringMap `json:"thread_headers,omitempty"`
}

// SendReceipt identifies the delivered message for outcome detection and
// rate accounting.
type SendReceipt struct {
	MessageID string `json:"message_id"`
	ThreadID  string `json:"thread_id"`
}

// EmailConnector is the email provider capability. All operations fail with
// *ConnectorError.
type EmailConnector interface {
	SearchThreads(ctx context.Context, query string, limit int) ([]EmailThreadRef, error)
	GetThread(ctx context.Context, threadID string) (*EmailThread, error)
	CreateDraft(ctx context.Context, email OutboundEmail) (externalDraftID string, err error)
	Send(ctx context.Context, externalDraftID string, email OutboundEmail) (*SendReceipt, error)
	DeleteDraft(ctx context.Context, externalDraftID string) error
}

// CRMContact is the provider-side contact record.
type CRMContact struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
	Title   string `json:"title,omitempty"`
}

// CRMCompany is the provider-side company record.
type CRMCompany struct {
	ID       string  `json:"id"`
	Domain   string  `json:"domain"`
	Name     string  `json:"name,omitempty"`
	Industry string  `json:"industry,omitempty"`
	ICPScore float64 `json:"icp_score,omitempty"`
}

// CRMAssociations links a contact to its companies and deals.
type CRMAssociations struct {
	CompanyIDs []string  `json:"company_ids"`
	DealIDs    []string  `json:"deal_ids"`
	Deals      []CRMDeal `json:"deals,omitempty"`
}

// CRMDeal carries the amount used by the APS revenue component.
type CRMDeal struct {
	ID     string  `json:"id"`
	Name   string  `json:"name,omitempty"`
	Stage  string  `json:"stage,omitempty"`
	Amount float64 `json:"amount"`
}

// CRMConnector is the CRM capability.
type CRMConnector interface {
	FindContactByEmail(ctx context.Context, email string) (*CRMContact, error)
	FindCompanyByDomain(ctx context.Context, domain string) (*CRMCompany, error)
	Associations(ctx context.Context, contactID string) (*CRMAssociations, error)
	CreateTask(ctx context.Context, contactID, title string, dueAt time.Time) (taskID string, err error)
	UpdateTask(ctx context.Context, taskID string, fields JSONMap) error
	DeleteTask(ctx context.Context, taskID string) error
	UpdateDeal(ctx context.Context, dealID string, fields JSONMap) error
}

// SlotRequest asks for meeting slot proposals.
type SlotRequest struct {
	Duration      time.Duration `json:"duration"`
	Count         int           `json:"count"`
	BusinessStart int           `json:"business_start"` // local hour, inclusive
	BusinessEnd   int           `json:"business_end"`   // local hour, exclusive
	Timezone      string        `json:"timezone"`
	// MinLeadDays/MaxLeadDays bound how far ahead slots are proposed, in
	// business days.
	MinLeadDays int `json:"min_lead_days"`
	MaxLeadDays int `json:"max_lead_days"`
}

// CalendarEvent is a booking request.
type CalendarEvent struct {
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Attendees []string  `json:"attendees"`
}

// CalendarConnector is the calendar capability.
type CalendarConnector interface {
	FreeBusy(ctx context.Context, rng TimeRange, calendars []string) ([]TimeRange, error)
	ProposeSlots(ctx context.Context, req SlotRequest) ([]TimeRange, error)
	CreateEvent(ctx context.Context, event CalendarEvent) (eventID string, err error)
}

// AssetRef points at a shareable asset (case study, one-pager).
type AssetRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// AssetConnector searches the asset store. Results outside the allowlist
// are dropped by the implementation.
type AssetConnector interface {
	Search(ctx context.Context, query string, allowlist []string) ([]AssetRef, error)
}

// LLMOptions tunes a generation call.
type LLMOptions struct {
	Model       string  `json:"model,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// LLMConnector is the text generation capability. Implementations retry
// transient failures with exponential backoff.
type LLMConnector interface {
	Generate(ctx context.Context, prompt string, opts LLMOptions) (string, error)
	Summarize(ctx context.Context, text string) (string, error)
}

// ConnectorStatus is reported by /health/dependencies.
type ConnectorStatus struct {
	Name        string    `json:"name"`
	Healthy     bool      `json:"healthy"`
	LastError   string    `json:"last_error,omitempty"`
	LastErrorAt time.Time `json:"last_error_at,omitempty"`
}

// ConnectorRegistry is the injected set of capabilities. It is initialized
// once at process start and passed to services by parameter; there are no
// package-level connector singletons.
type ConnectorRegistry struct {
	Email    EmailConnector
	CRM      CRMConnector
	Calendar CalendarConnector
	Assets   AssetConnector
	LLM      LLMConnector

	mu         sync.RWMutex
	lastErrors map[string]ConnectorStatus
}

func NewConnectorRegistry(email EmailConnector, crm CRMConnector, calendar CalendarConnector, assets AssetConnector, llm LLMConnector) *ConnectorRegistry {
	return &ConnectorRegistry{
		Email:      email,
		CRM:        crm,
		Calendar:   calendar,
		Assets:     assets,
		LLM:        llm,
		lastErrors: make(map[string]ConnectorStatus),
	}
}

// RecordError remembers the most recent failure per connector for the
// dependencies health endpoint.
func (r *ConnectorRegistry) RecordError(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastErrors[name] = ConnectorStatus{
		Name:        name,
		Healthy:     false,
		LastError:   err.Error(),
		LastErrorAt: time.Now(),
	}
}

// RecordSuccess clears the failure state for a connector.
func (r *ConnectorRegistry) RecordSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastErrors[name] = ConnectorStatus{Name: name, Healthy: true}
}

// Statuses returns the per-connector health snapshot.
func (r *ConnectorRegistry) Statuses() []ConnectorStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := []string{"email", "crm", "calendar", "assets", "llm"}
	statuses := make([]ConnectorStatus, 0, len(names))
	for _, name := range names {
		if status, ok := r.lastErrors[name]; ok {
			statuses = append(statuses, status)
		} else {
			statuses = append(statuses, ConnectorStatus{Name: name, Healthy: true})
		}
	}
	return statuses
}

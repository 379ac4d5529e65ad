// Package models defines the data models used in the application.
package models

import "time"

// RiskState represents the derived lifecycle state of a client.
type RiskState string

// Possible values for RiskState, in escalating urgency.
const (
	StateComplete   RiskState = "complete"
	StateIncomplete RiskState = "incomplete"
	StateAtRisk     RiskState = "at_risk"
	StateEscalated  RiskState = "escalated"
)

// Valid reports whether s is one of the known risk states.
func (s RiskState) Valid() bool {
	switch s {
	case StateComplete, StateIncomplete, StateAtRisk, StateEscalated:
		return true
	}
	return false
}

// ClientType categorizes a client for standard requirement presets.
type ClientType string

// Possible values for ClientType
const (
	TypeIndividual   ClientType = "individual"
	TypeSelfEmployed ClientType = "self_employed"
	TypeBusiness     ClientType = "business"
)

// Client represents an end customer whose tax documents are being tracked.
type Client struct {
	ClientID     string `dynamodbav:"client_id" json:"client_id"`
	ClientName   string `dynamodbav:"client_name" json:"client_name"`
	Email        string `dynamodbav:"email" json:"email"`
	Phone        string `dynamodbav:"phone,omitempty" json:"phone,omitempty"`
	SMSOptIn     bool   `dynamodbav:"sms_opt_in" json:"sms_opt_in"`
	AccountantID string `dynamodbav:"accountant_id" json:"accountant_id"`

	// Accountant display fields, denormalized onto the client record for
	// email personalization.
	AccountantName  string `dynamodbav:"accountant_name,omitempty" json:"-"`
	AccountantFirm  string `dynamodbav:"accountant_firm,omitempty" json:"-"`
	AccountantPhone string `dynamodbav:"accountant_phone,omitempty" json:"-"`

	TaxYear int `dynamodbav:"tax_year" json:"tax_year"`
	ClientType   string `dynamodbav:"client_type,omitempty" json:"client_type,omitempty"`

	// Status is derived by the status engine; persisted only as a cache.
	Status    string `dynamodbav:"status,omitempty" json:"status,omitempty"`
	CreatedAt string `dynamodbav:"created_at" json:"created_at"` // ISO8601

	// Upload portal token, set when an upload link is sent.
	UploadToken      string `dynamodbav:"upload_token,omitempty" json:"-"`
	TokenExpires     string `dynamodbav:"token_expires,omitempty" json:"-"`
	TokenGeneratedAt string `dynamodbav:"token_generated_at,omitempty" json:"-"`
}

// Requirement is a single document a client must (or may) submit for a tax
// year. Identity is (client_id, tax_year, document_type); the sort key
// carries the year so per-year rows never collide.
type Requirement struct {
	// DynamoDB keys
	PK string `dynamodbav:"PK" json:"-"` // CLIENT#<clientID>
	SK string `dynamodbav:"SK" json:"-"` // DOC#<taxYear>#<documentType>

	ClientID     string `dynamodbav:"client_id" json:"client_id"`
	DocumentType string `dynamodbav:"document_type" json:"document_type"`
	TaxYear      int    `dynamodbav:"tax_year" json:"tax_year"`
	Source       string `dynamodbav:"source" json:"source"`
	Required     bool   `dynamodbav:"required" json:"required"`
	Received     bool   `dynamodbav:"received" json:"received"`
	ReceivedDate string `dynamodbav:"received_date,omitempty" json:"received_date,omitempty"`
	FilePath     string `dynamodbav:"file_path,omitempty" json:"file_path,omitempty"`
	CreatedAt    string `dynamodbav:"created_at" json:"-"`
	LastUpdated  string `dynamodbav:"last_updated" json:"-"`
}

// FollowupEvent is one entry in a client's append-only reminder log.
type FollowupEvent struct {
	ClientID       string `dynamodbav:"client_id" json:"client_id"`
	FollowupID     string `dynamodbav:"followup_id" json:"followup_id"` // ULID; sorts by send time
	FollowupNumber int    `dynamodbav:"followup_number" json:"followup_number"`
	SentDate       string `dynamodbav:"sent_date" json:"sent_date"` // ISO8601

	EmailSubject       string   `dynamodbav:"email_subject" json:"email_subject"`
	EmailBody          string   `dynamodbav:"email_body" json:"-"`
	DocumentsRequested []string `dynamodbav:"documents_requested" json:"documents_requested"`

	ResponseReceived    bool   `dynamodbav:"response_received" json:"response_received"`
	NextFollowupDate    string `dynamodbav:"next_followup_date" json:"next_followup_date"`
	EscalationTriggered bool   `dynamodbav:"escalation_triggered" json:"escalation_triggered"`
	AccountantID        string `dynamodbav:"accountant_id" json:"-"`
}

// SentTime parses the event's sent date. The second return is false when the
// stored value is missing or malformed; callers treat that as anomalous and
// bias toward escalation.
func (e FollowupEvent) SentTime() (time.Time, bool) {
	return ParseISO(e.SentDate)
}

// ParseISO parses an ISO8601 timestamp as written by this system. Timestamps
// with and without a zone suffix are both accepted; zoneless values are
// taken as UTC.
func ParseISO(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// NowISO returns the current time in ISO8601 format.
func NowISO() string { return time.Now().UTC().Format(time.RFC3339) }

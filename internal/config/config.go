// Package config loads configuration from environment variables.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Env holds the configuration values for the application.
type Env struct {
	Region string `envconfig:"AWS_REGION" default:"us-east-1"`

	ClientsTable   string `envconfig:"CLIENTS_TABLE" required:"true"`
	DocumentsTable string `envconfig:"DOCUMENTS_TABLE" required:"true"`
	FollowupTable  string `envconfig:"FOLLOWUP_TABLE" required:"true"`
	ClientBucket   string `envconfig:"CLIENT_BUCKET"`

	SESFromEmail string `envconfig:"SES_FROM_EMAIL"`
	SMSSenderID  string `envconfig:"SMS_SENDER_ID" default:"TaxDocs"`
	FrontendURL  string `envconfig:"FRONTEND_URL"`

	PresignTTL     time.Duration `envconfig:"PRESIGN_TTL" default:"5m"`
	UploadLinkDays int           `envconfig:"UPLOAD_LINK_DAYS" default:"30"`
	FollowupDays   int           `envconfig:"FOLLOWUP_INTERVAL_DAYS" default:"7"`

	EscalationThreshold int `envconfig:"ESCALATION_THRESHOLD" default:"3"`
	EscalationDays      int `envconfig:"ESCALATION_DAYS" default:"2"`
	FollowupWindow      int `envconfig:"FOLLOWUP_WINDOW" default:"10"`

	DevBypassAuth bool `envconfig:"DEV_BYPASS_AUTH"`
}

// MustLoad reads the environment and panics on missing required values.
// Lambda cold start is the right place to fail fast on bad deploys.
func MustLoad() Env {
	var e Env
	envconfig.MustProcess("", &e)
	return e
}

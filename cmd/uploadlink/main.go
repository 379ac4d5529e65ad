// Package main mints a secure upload token for a client, presigns an S3
// upload URL and delivers the portal link by email and, when opted in, SMS.
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	snsSvc "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kylejryan/tax-document-portal/internal/awsutil"
	"github.com/kylejryan/tax-document-portal/internal/config"
	"github.com/kylejryan/tax-document-portal/internal/ddb"
	"github.com/kylejryan/tax-document-portal/internal/email"
	"github.com/kylejryan/tax-document-portal/internal/httpx"
	"github.com/kylejryan/tax-document-portal/internal/s3io"
	"github.com/kylejryan/tax-document-portal/internal/sms"
	"github.com/kylejryan/tax-document-portal/internal/status"
)

// App holds the application state, including configuration and AWS clients.
type App struct {
	env    config.Env
	repo   *ddb.Repo
	s3p    *s3.PresignClient
	mail   *email.Sender
	texter *sms.Sender
	log    *logrus.Logger
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	env := config.MustLoad()
	cfg, endpoint, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		log.Fatal(err)
	}

	s3c := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.UsePathStyle = true
		}
	})

	app := &App{
		env: env,
		repo: &ddb.Repo{
			DB:             dynamodb.NewFromConfig(cfg),
			ClientsTable:   env.ClientsTable,
			DocumentsTable: env.DocumentsTable,
			FollowupTable:  env.FollowupTable,
		},
		s3p:  s3.NewPresignClient(s3c),
		mail: &email.Sender{SES: sesv2.NewFromConfig(cfg), From: env.SESFromEmail},
		texter: &sms.Sender{
			SNS:         snsSvc.NewFromConfig(cfg),
			SenderID:    env.SMSSenderID,
			CheckWindow: true,
		},
		log: log,
	}
	lambda.Start(app.handler)
}

type uploadLinkEvent struct {
	ClientID     string `json:"client_id"`
	DaysValid    int    `json:"days_valid"`
	SendSMS      bool   `json:"send_sms"`
	Filename     string `json:"filename"`
	DocumentType string `json:"document_type"`
	ContentType  string `json:"content_type"`
}

type uploadLinkResponse struct {
	Success       bool              `json:"success"`
	ClientID      string            `json:"client_id"`
	UploadURL     string            `json:"upload_url"`
	TokenExpires  string            `json:"token_expires"`
	PresignedURL  string            `json:"presigned_url,omitempty"`
	S3Key         string            `json:"s3_key,omitempty"`
	UploadHeaders map[string]string `json:"upload_headers,omitempty"`
	EmailSent     bool              `json:"email_sent"`
	SMSSent       bool              `json:"sms_sent"`
}

func (a *App) handler(ctx context.Context, ev uploadLinkEvent) (httpx.ToolResult, error) {
	resp, err := a.sendLink(ctx, ev)
	if err != nil {
		a.log.WithError(err).Error("upload link failed")
		return httpx.ToolError(err), nil
	}
	return httpx.ToolJSON(resp)
}

func (a *App) sendLink(ctx context.Context, ev uploadLinkEvent) (*uploadLinkResponse, error) {
	if ev.ClientID == "" {
		return nil, &status.ValidationError{Field: "client_id", Reason: "required"}
	}
	if ev.DaysValid <= 0 {
		ev.DaysValid = a.env.UploadLinkDays
	}

	client, err := a.repo.GetClient(ctx, ev.ClientID)
	if err != nil {
		return nil, err
	}

	token := newToken()
	expires := time.Now().UTC().Add(time.Duration(ev.DaysValid) * 24 * time.Hour).Format(time.RFC3339)
	if err := a.repo.SetUploadToken(ctx, ev.ClientID, token, expires); err != nil {
		return nil, fmt.Errorf("store upload token for %s: %w", ev.ClientID, err)
	}

	portalURL := fmt.Sprintf("%s/upload?client=%s&token=%s", a.env.FrontendURL, ev.ClientID, token)

	resp := &uploadLinkResponse{
		Success:      true,
		ClientID:     ev.ClientID,
		UploadURL:    portalURL,
		TokenExpires: expires,
	}

	// A direct presigned PUT is only minted when the caller names a file.
	if ev.Filename != "" {
		contentType := ev.ContentType
		if contentType == "" {
			contentType = "application/pdf"
		}
		key := s3io.BuildKey(ev.ClientID, client.TaxYear, ev.Filename)
		meta := map[string]string{"client_id": ev.ClientID}
		if ev.DocumentType != "" {
			meta["document-type"] = ev.DocumentType
		}
		url, _, err := s3io.PresignPut(ctx, a.s3p, a.env.ClientBucket, key, contentType, meta, a.env.PresignTTL)
		if err != nil {
			return nil, fmt.Errorf("presign %s: %w", key, err)
		}
		resp.PresignedURL = url
		resp.S3Key = key
		resp.UploadHeaders = s3io.UploadHeaders(ev.ClientID, ev.DocumentType, contentType, client.TaxYear)
	}

	subject := fmt.Sprintf("Secure upload link for your %d tax documents", client.TaxYear)
	body := fmt.Sprintf(`Dear %s,

Use the secure link below to upload your tax documents:

%s

The link is valid for %d days.

Best regards,
%s`, client.ClientName, portalURL, ev.DaysValid, client.AccountantName)
	if _, err := a.mail.Send(ctx, client.Email, subject, body); err != nil {
		a.log.WithError(err).WithField("client_id", ev.ClientID).Error("upload link email failed")
	} else {
		resp.EmailSent = true
	}

	if ev.SendSMS && client.SMSOptIn && client.Phone != "" {
		msg := sms.UploadLinkMessage(firstName(client.ClientName), portalURL, ev.DaysValid)
		if _, err := a.texter.Send(ctx, client.Phone, msg); err != nil {
			a.log.WithError(err).WithField("client_id", ev.ClientID).Warn("upload link SMS failed")
		} else {
			resp.SMSSent = true
		}
	}

	a.log.WithFields(logrus.Fields{
		"client_id": ev.ClientID,
		"expires":   expires,
	}).Info("upload link sent")
	return resp, nil
}

// newToken returns an unguessable URL-safe token.
func newToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

func firstName(full string) string {
	if i := strings.IndexByte(full, ' '); i > 0 {
		return full[:i]
	}
	if full == "" {
		return "there"
	}
	return full
}

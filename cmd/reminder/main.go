// Package main sends the numbered follow-up email requesting missing
// documents and appends the event to the client's follow-up log.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/kylejryan/tax-document-portal/internal/awsutil"
	"github.com/kylejryan/tax-document-portal/internal/config"
	"github.com/kylejryan/tax-document-portal/internal/ddb"
	"github.com/kylejryan/tax-document-portal/internal/email"
	"github.com/kylejryan/tax-document-portal/internal/httpx"
	"github.com/kylejryan/tax-document-portal/internal/models"
	"github.com/kylejryan/tax-document-portal/internal/status"
)

// App holds the application state, including configuration and AWS clients.
type App struct {
	env    config.Env
	repo   *ddb.Repo
	sender *email.Sender
	log    *logrus.Logger
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	env := config.MustLoad()
	cfg, _, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		log.Fatal(err)
	}

	app := &App{
		env: env,
		repo: &ddb.Repo{
			DB:             dynamodb.NewFromConfig(cfg),
			ClientsTable:   env.ClientsTable,
			DocumentsTable: env.DocumentsTable,
			FollowupTable:  env.FollowupTable,
		},
		sender: &email.Sender{SES: sesv2.NewFromConfig(cfg), From: env.SESFromEmail},
		log:    log,
	}
	lambda.Start(app.handler)
}

type reminderEvent struct {
	ClientID         string   `json:"client_id"`
	MissingDocuments []string `json:"missing_documents"`
	FollowupNumber   int      `json:"followup_number"`
	CustomMessage    string   `json:"custom_message"`
}

type reminderResponse struct {
	Success          bool   `json:"success"`
	EmailSent        bool   `json:"email_sent"`
	Recipient        string `json:"recipient"`
	Subject          string `json:"subject"`
	SentAt           string `json:"sent_at"`
	FollowupID       string `json:"followup_id"`
	FollowupNumber   int    `json:"followup_number"`
	NextFollowupDate string `json:"next_followup_date"`
	MessageID        string `json:"message_id"`
}

func (a *App) handler(ctx context.Context, ev reminderEvent) (httpx.ToolResult, error) {
	resp, err := a.send(ctx, ev)
	if err != nil {
		a.log.WithError(err).Error("reminder failed")
		return httpx.ToolError(err), nil
	}
	return httpx.ToolJSON(resp)
}

func (a *App) send(ctx context.Context, ev reminderEvent) (*reminderResponse, error) {
	if ev.ClientID == "" || len(ev.MissingDocuments) == 0 {
		return nil, &status.ValidationError{Field: "client_id/missing_documents", Reason: "required"}
	}
	if ev.FollowupNumber <= 0 {
		ev.FollowupNumber = 1
	}

	client, err := a.repo.GetClient(ctx, ev.ClientID)
	if err != nil {
		return nil, err
	}
	taxYear := client.TaxYear
	if taxYear == 0 {
		taxYear = time.Now().Year()
	}

	msg := email.Personalize(email.DefaultTemplate(ev.FollowupNumber), email.PersonalizeInput{
		ClientName:      client.ClientName,
		TaxYear:         taxYear,
		Missing:         ev.MissingDocuments,
		AccountantName:  client.AccountantName,
		AccountantFirm:  client.AccountantFirm,
		AccountantPhone: client.AccountantPhone,
	})
	if ev.CustomMessage != "" {
		msg.Body = ev.CustomMessage + "\n\n" + msg.Body
	}

	messageID, err := a.sender.Send(ctx, client.Email, msg.Subject, msg.Body)
	if err != nil {
		return nil, fmt.Errorf("send reminder to %s: %w", ev.ClientID, err)
	}

	now := time.Now().UTC()
	next := now.Add(time.Duration(a.env.FollowupDays) * 24 * time.Hour).Format(time.RFC3339)
	event := models.FollowupEvent{
		ClientID:           ev.ClientID,
		FollowupID:         ulid.Make().String(),
		FollowupNumber:     ev.FollowupNumber,
		SentDate:           now.Format(time.RFC3339),
		EmailSubject:       msg.Subject,
		EmailBody:          msg.Body,
		DocumentsRequested: ev.MissingDocuments,
		NextFollowupDate:   next,
		AccountantID:       client.AccountantID,
	}
	if err := a.repo.PutFollowup(ctx, event); err != nil {
		// The email went out; a failed log entry must not look like an
		// unsent reminder to the caller.
		a.log.WithError(err).WithField("client_id", ev.ClientID).Error("follow-up log write failed")
	}

	a.log.WithFields(logrus.Fields{
		"client_id":       ev.ClientID,
		"followup_number": ev.FollowupNumber,
		"recipient":       client.Email,
	}).Info("reminder sent")

	return &reminderResponse{
		Success:          true,
		EmailSent:        true,
		Recipient:        client.Email,
		Subject:          msg.Subject,
		SentAt:           event.SentDate,
		FollowupID:       event.FollowupID,
		FollowupNumber:   ev.FollowupNumber,
		NextFollowupDate: next,
		MessageID:        messageID,
	}, nil
}

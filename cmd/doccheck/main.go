// Package main scans a client's document folder, classifies each upload
// and syncs the received flags on the requirement rows.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/kylejryan/tax-document-portal/internal/awsutil"
	"github.com/kylejryan/tax-document-portal/internal/config"
	"github.com/kylejryan/tax-document-portal/internal/ddb"
	"github.com/kylejryan/tax-document-portal/internal/httpx"
	"github.com/kylejryan/tax-document-portal/internal/models"
	"github.com/kylejryan/tax-document-portal/internal/status"
)

// App holds the application state, including configuration and AWS clients.
type App struct {
	env  config.Env
	s3c  *s3.Client
	repo *ddb.Repo
	cfg  status.Thresholds
	log  *logrus.Logger
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
		s3c: s3c,
		repo: &ddb.Repo{
			DB:             dynamodb.NewFromConfig(cfg),
			ClientsTable:   env.ClientsTable,
			DocumentsTable: env.DocumentsTable,
			FollowupTable:  env.FollowupTable,
		},
		cfg: status.Thresholds{
			EscalationThreshold: env.EscalationThreshold,
			EscalationDays:      env.EscalationDays,
			FollowupWindow:      env.FollowupWindow,
		},
		log: log,
	}
	lambda.Start(app.handler)
}

type checkEvent struct {
	ClientID string `json:"client_id"`
	TaxYear  int    `json:"tax_year"`
}

// receivedDocument is one classified upload in the response.
type receivedDocument struct {
	Filename     string `json:"filename"`
	DocumentType string `json:"document_type"`
	UploadDate   string `json:"upload_date"`
	SizeBytes    int64  `json:"size_bytes"`
	S3Key        string `json:"s3_key"`
}

type checkResponse struct {
	ClientID             string                  `json:"client_id"`
	TaxYear              int                     `json:"tax_year"`
	Status               models.RiskState        `json:"status"`
	CompletionPercentage int                     `json:"completion_percentage"`
	TotalRequired        int                     `json:"total_required"`
	TotalReceived        int                     `json:"total_received"`
	MissingDocuments     []string                `json:"missing_documents"`
	ReceivedDocuments    []receivedDocument      `json:"received_documents"`
	RequiredDocuments    []status.DocumentDetail `json:"required_documents"`
	LastChecked          string                  `json:"last_checked"`
}

func (a *App) handler(ctx context.Context, ev checkEvent) (httpx.ToolResult, error) {
	resp, err := a.check(ctx, ev)
	if err != nil {
		a.log.WithError(err).Error("document check failed")
		return httpx.ToolError(err), nil
	}
	return httpx.ToolJSON(resp)
}

func (a *App) check(ctx context.Context, ev checkEvent) (*checkResponse, error) {
	if ev.ClientID == "" || ev.TaxYear == 0 {
		return nil, &status.ValidationError{Field: "client_id/tax_year", Reason: "required"}
	}

	scanned, err := scanFolder(ctx, a.s3c, a.env.ClientBucket, ev.ClientID, ev.TaxYear)
	if err != nil {
		return nil, fmt.Errorf("scan folder for %s: %w", ev.ClientID, err)
	}

	reqs, err := a.repo.ListRequirements(ctx, ev.ClientID, ev.TaxYear)
	if err != nil {
		return nil, err
	}

	// Sync the received flags against what actually landed in the bucket.
	receivedKeys := map[string]string{}
	for _, doc := range scanned {
		if receivedKeys[doc.DocumentType] == "" {
			receivedKeys[doc.DocumentType] = doc.S3Key
		}
	}
	for i, r := range reqs {
		key, got := receivedKeys[r.DocumentType]
		if got == r.Received {
			continue
		}
		if err := a.repo.MarkReceived(ctx, ev.ClientID, ev.TaxYear, r.DocumentType, got, key); err != nil {
			a.log.WithError(err).WithField("document_type", r.DocumentType).Warn("received-flag update failed")
			continue
		}
		reqs[i].Received = got
		if got {
			reqs[i].ReceivedDate = models.NowISO()
			reqs[i].FilePath = key
		}
	}

	comp := status.MatchCompletion(reqs)

	// Classification runs through the same engine the roster uses so the
	// two views never disagree.
	events, err := a.repo.ListRecentFollowups(ctx, ev.ClientID, a.cfg.FollowupWindow)
	if err != nil {
		a.log.WithError(err).Warn("follow-up read failed, classifying without history")
		events = nil
	}
	fu := status.SummarizeFollowups(events)
	state := status.ClassifyRisk(comp.Percentage, fu.Count, fu.LastSent, time.Now(), a.cfg)

	a.log.WithFields(logrus.Fields{
		"client_id":  ev.ClientID,
		"tax_year":   ev.TaxYear,
		"completion": comp.Percentage,
		"scanned":    len(scanned),
	}).Info("document check complete")

	details := make([]status.DocumentDetail, 0, len(reqs))
	for _, r := range reqs {
		details = append(details, status.DocumentDetail{
			Type:         r.DocumentType,
			Source:       r.Source,
			Received:     r.Received,
			Required:     r.Required,
			ReceivedDate: r.ReceivedDate,
			FilePath:     r.FilePath,
		})
	}

	return &checkResponse{
		ClientID:             ev.ClientID,
		TaxYear:              ev.TaxYear,
		Status:               state,
		CompletionPercentage: comp.Percentage,
		TotalRequired:        comp.TotalRequired,
		TotalReceived:        comp.TotalReceived,
		MissingDocuments:     comp.MissingDocuments,
		ReceivedDocuments:    scanned,
		RequiredDocuments:    details,
		LastChecked:          models.NowISO(),
	}, nil
}

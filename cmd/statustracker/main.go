// Package main serves the client status roster: completion, risk state,
// escalation countdown and next action for an accountant's clients. It
// answers both dashboard requests through API Gateway and agent-gateway
// tool calls.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/sirupsen/logrus"

	"github.com/kylejryan/tax-document-portal/internal/authz"
	"github.com/kylejryan/tax-document-portal/internal/awsutil"
	"github.com/kylejryan/tax-document-portal/internal/config"
	"github.com/kylejryan/tax-document-portal/internal/ddb"
	"github.com/kylejryan/tax-document-portal/internal/httpx"
	"github.com/kylejryan/tax-document-portal/internal/models"
	"github.com/kylejryan/tax-document-portal/internal/status"
)

// App holds the application state, including configuration and AWS clients.
type App struct {
	env config.Env
	agg *status.Aggregator
	log *logrus.Logger
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	env := config.MustLoad()
	cfg, _, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		log.Fatal(err)
	}

	repo := &ddb.Repo{
		DB:             dynamodb.NewFromConfig(cfg),
		ClientsTable:   env.ClientsTable,
		DocumentsTable: env.DocumentsTable,
		FollowupTable:  env.FollowupTable,
	}
	agg := status.NewAggregator(repo, status.Thresholds{
		EscalationThreshold: env.EscalationThreshold,
		EscalationDays:      env.EscalationDays,
		FollowupWindow:      env.FollowupWindow,
	}, log)

	app := &App{env: env, agg: agg, log: log}
	lambda.Start(app.handler)
}

// toolEvent is the flat agent-gateway invocation payload.
type toolEvent struct {
	AccountantID string `json:"accountant_id"`
	ClientID     string `json:"client_id"`
	Filter       string `json:"filter"`
}

// requestTimeout bounds one roster computation, matching the gateway's
// 30-second tool call limit.
const requestTimeout = 30 * time.Second

// handler dispatches on event source: API Gateway proxy requests carry an
// httpMethod, gateway tool calls are flat JSON.
func (a *App) handler(ctx context.Context, raw json.RawMessage) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var probe struct {
		HTTPMethod string `json:"httpMethod"`
	}
	_ = json.Unmarshal(raw, &probe)

	if probe.HTTPMethod != "" {
		var req events.APIGatewayProxyRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return httpx.Error(http.StatusBadRequest, "malformed request", "BadRequest")
		}
		return a.handleAPIGateway(ctx, req)
	}

	var ev toolEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return httpx.ToolError(err), nil
	}
	return a.handleToolCall(ctx, ev)
}

// handleAPIGateway serves the dashboard. The accountant ID comes from the
// Cognito authorizer, never from query parameters.
func (a *App) handleAPIGateway(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	accountantID, err := authz.AccountantFromAPIGW(req, a.env.DevBypassAuth)
	if err != nil {
		return httpx.Error(http.StatusUnauthorized, "unable to determine accountant from authentication token", "Unauthorized")
	}

	q := status.Query{
		AccountantID: accountantID,
		ClientID:     queryParam(req.QueryStringParameters, "client_id"),
		Filter:       filterParam(req.QueryStringParameters),
	}
	roster, err := a.agg.GetRoster(ctx, q)
	if err != nil {
		return a.httpError(err)
	}
	return httpx.JSON(http.StatusOK, roster)
}

// handleToolCall serves the conversational agent through the gateway
// protocol. Failures are reported in-band in the content envelope.
func (a *App) handleToolCall(ctx context.Context, ev toolEvent) (httpx.ToolResult, error) {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		if name := lc.ClientContext.Custom["bedrockAgentCoreToolName"]; name != "" {
			a.log.WithField("tool", trimToolName(name)).Info("tool invoked")
		}
	}

	filter := models.RiskState(ev.Filter)
	if ev.Filter == "" || ev.Filter == "all" {
		filter = ""
	}
	roster, err := a.agg.GetRoster(ctx, status.Query{
		AccountantID: ev.AccountantID,
		ClientID:     ev.ClientID,
		Filter:       filter,
	})
	if err != nil {
		a.log.WithError(err).Error("roster failed")
		return httpx.ToolError(err), nil
	}
	return httpx.ToolJSON(roster)
}

func (a *App) httpError(err error) (events.APIGatewayProxyResponse, error) {
	switch {
	case status.IsValidation(err):
		return httpx.Error(http.StatusBadRequest, err.Error(), "ValidationError")
	case errors.Is(err, status.ErrNotFound):
		return httpx.Error(http.StatusNotFound, err.Error(), "NotFound")
	case errors.Is(err, status.ErrUpstreamUnavailable):
		a.log.WithError(err).Error("upstream unavailable")
		return httpx.Error(http.StatusServiceUnavailable, "store unavailable", "UpstreamUnavailable")
	default:
		a.log.WithError(err).Error("roster failed")
		return httpx.Error(http.StatusInternalServerError, "internal error", "InternalError")
	}
}

func queryParam(params map[string]string, key string) string {
	v := params[key]
	if v == "all" {
		return ""
	}
	return v
}

func filterParam(params map[string]string) models.RiskState {
	v := params["filter"]
	if v == "" || v == "all" {
		return ""
	}
	return models.RiskState(v)
}

// trimToolName strips the gateway target prefix from a qualified tool name.
func trimToolName(name string) string {
	const delimiter = "___"
	if i := strings.Index(name, delimiter); i >= 0 {
		return name[i+len(delimiter):]
	}
	return name
}

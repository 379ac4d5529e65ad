package status

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kylejryan/tax-document-portal/internal/models"
)

// Store is the record lookup surface the aggregator needs. Concrete
// bindings live in internal/ddb; tests inject in-memory fakes.
type Store interface {
	GetClient(ctx context.Context, clientID string) (*models.Client, error)
	ListClients(ctx context.Context, accountantID string) ([]models.Client, error)
	// ListRequirements must drain all pages of the underlying store.
	ListRequirements(ctx context.Context, clientID string, taxYear int) ([]models.Requirement, error)
	// ListRecentFollowups returns up to limit events, newest first.
	ListRecentFollowups(ctx context.Context, clientID string, limit int) ([]models.FollowupEvent, error)
}

// DocumentDetail is one requirement row as exposed on a status record.
type DocumentDetail struct {
	Type         string `json:"type"`
	Source       string `json:"source"`
	Received     bool   `json:"received"`
	Required     bool   `json:"required"`
	ReceivedDate string `json:"received_date,omitempty"`
	FilePath     string `json:"file_path,omitempty"`
}

// ClientStatus is the per-client record of a roster response.
type ClientStatus struct {
	ClientID   string           `json:"client_id"`
	ClientName string           `json:"client_name"`
	Email      string           `json:"email"`
	Phone      string           `json:"phone,omitempty"`
	Status     models.RiskState `json:"status"`

	CompletionPercentage int      `json:"completion_percentage"`
	TotalRequired        int      `json:"total_required"`
	TotalReceived        int      `json:"total_received"`
	MissingDocuments     []string `json:"missing_documents"`

	RequiredDocuments []DocumentDetail `json:"required_documents"`

	FollowupCount       int    `json:"followup_count"`
	LastFollowup        int    `json:"last_followup,omitempty"`
	LastFollowupDate    string `json:"last_followup_date,omitempty"`
	NextFollowupDate    string `json:"next_followup_date,omitempty"`
	DaysUntilEscalation *int   `json:"days_until_escalation"`
	NextAction          string `json:"next_action"`

	// Degraded marks a record whose requirement or follow-up reads failed
	// and fell back to zero values.
	Degraded bool `json:"degraded,omitempty"`
}

// Summary is the roster histogram. Counts always reflect the full
// classification pass, never the filtered list.
type Summary struct {
	TotalClients int `json:"total_clients"`
	Complete     int `json:"complete"`
	Incomplete   int `json:"incomplete"`
	AtRisk       int `json:"at_risk"`
	Escalated    int `json:"escalated"`
}

// Roster is the response contract to the dashboard and the agent gateway.
type Roster struct {
	Summary     Summary        `json:"summary"`
	Clients     []ClientStatus `json:"clients"`
	GeneratedAt string         `json:"generated_at"`
}

// Query selects which clients to classify and how to filter the result.
type Query struct {
	AccountantID string
	// ClientID restricts the roster to exactly one client; an unknown ID is
	// a NotFound error, not an empty roster.
	ClientID string
	// Filter restricts the returned list (not the summary) to one state.
	Filter models.RiskState
}

// Aggregator orchestrates completion matching, follow-up summaries and risk
// classification across an accountant's clients.
type Aggregator struct {
	store Store
	cfg   Thresholds
	log   *logrus.Logger

	// concurrency bounds the per-client fan-out.
	concurrency int
	// now is swappable for tests.
	now func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithConcurrency overrides the fan-out width.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// NewAggregator wires an aggregator over the given store. Zero-value
// threshold fields fall back to the documented defaults.
func NewAggregator(store Store, cfg Thresholds, log *logrus.Logger, opts ...Option) *Aggregator {
	def := DefaultThresholds()
	if cfg.EscalationThreshold <= 0 {
		cfg.EscalationThreshold = def.EscalationThreshold
	}
	if cfg.EscalationDays <= 0 {
		cfg.EscalationDays = def.EscalationDays
	}
	if cfg.FollowupWindow <= 0 {
		cfg.FollowupWindow = def.FollowupWindow
	}
	if log == nil {
		log = logrus.New()
	}
	a := &Aggregator{
		store:       store,
		cfg:         cfg,
		log:         log,
		concurrency: 10,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GetRoster classifies the selected clients and assembles the roster.
// Classification runs on the full set before any filter is applied, so the
// summary stays accurate. One client's storage failure degrades that record
// instead of failing the batch.
func (a *Aggregator) GetRoster(ctx context.Context, q Query) (*Roster, error) {
	if q.AccountantID == "" {
		return nil, &ValidationError{Field: "accountant_id", Reason: "required"}
	}
	if q.Filter != "" && !q.Filter.Valid() {
		return nil, &ValidationError{Field: "filter", Reason: fmt.Sprintf("unknown state %q", q.Filter)}
	}

	clients, err := a.selectClients(ctx, q)
	if err != nil {
		return nil, err
	}

	statuses := make([]ClientStatus, len(clients))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, c := range clients {
		i, c := i, c
		g.Go(func() error {
			statuses[i] = a.buildClientStatus(gctx, c)
			return nil
		})
	}
	// Workers never return errors; Wait only observes ctx cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	roster := &Roster{
		Clients:     statuses,
		GeneratedAt: a.now().UTC().Format(time.RFC3339),
	}
	roster.Summary = summarize(statuses)
	sortByPriority(roster.Clients)
	if q.Filter != "" {
		roster.Clients = filterByState(roster.Clients, q.Filter)
	}

	a.log.WithFields(logrus.Fields{
		"accountant_id": q.AccountantID,
		"clients":       len(roster.Clients),
	}).Info("roster generated")
	return roster, nil
}

// selectClients resolves the all-clients vs single-client lookup modes.
func (a *Aggregator) selectClients(ctx context.Context, q Query) ([]models.Client, error) {
	if q.ClientID == "" || q.ClientID == "all" {
		clients, err := a.store.ListClients(ctx, q.AccountantID)
		if err != nil {
			return nil, fmt.Errorf("list clients for %s: %w", q.AccountantID, err)
		}
		return clients, nil
	}
	client, err := a.store.GetClient(ctx, q.ClientID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, q.ClientID)
		}
		return nil, fmt.Errorf("get client %s: %w", q.ClientID, err)
	}
	return []models.Client{*client}, nil
}

// buildClientStatus computes the full status record for one client. Reads
// that fail degrade to zero values so the rest of the roster survives.
func (a *Aggregator) buildClientStatus(ctx context.Context, c models.Client) ClientStatus {
	degraded := false

	reqs, err := a.store.ListRequirements(ctx, c.ClientID, c.TaxYear)
	if err != nil {
		a.log.WithError(err).WithField("client_id", c.ClientID).Warn("requirement read failed, degrading to empty")
		reqs = nil
		degraded = true
	}
	events, err := a.store.ListRecentFollowups(ctx, c.ClientID, a.cfg.FollowupWindow)
	if err != nil {
		a.log.WithError(err).WithField("client_id", c.ClientID).Warn("follow-up read failed, degrading to empty")
		events = nil
		degraded = true
	}

	comp := MatchCompletion(reqs)
	fu := SummarizeFollowups(events)
	now := a.now()
	state := ClassifyRisk(comp.Percentage, fu.Count, fu.LastSent, now, a.cfg)

	return ClientStatus{
		ClientID:             c.ClientID,
		ClientName:           displayName(c),
		Email:                c.Email,
		Phone:                c.Phone,
		Status:               state,
		CompletionPercentage: comp.Percentage,
		TotalRequired:        comp.TotalRequired,
		TotalReceived:        comp.TotalReceived,
		MissingDocuments:     comp.MissingDocuments,
		RequiredDocuments:    documentDetails(reqs),
		FollowupCount:        fu.Count,
		LastFollowup:         fu.LastNumber,
		LastFollowupDate:     fu.LastDate,
		NextFollowupDate:     fu.NextDate,
		DaysUntilEscalation:  DaysUntilEscalation(fu.Count, fu.LastSent, now, a.cfg),
		NextAction:           NextAction(state, fu.Count, fu.NextDate),
		Degraded:             degraded,
	}
}

func displayName(c models.Client) string {
	if c.ClientName == "" {
		return "Unknown"
	}
	return c.ClientName
}

// documentDetails exposes every requirement row, required first, received
// before missing, then alphabetical.
func documentDetails(reqs []models.Requirement) []DocumentDetail {
	docs := make([]DocumentDetail, 0, len(reqs))
	for _, r := range reqs {
		source := r.Source
		if source == "" {
			source = "Unknown"
		}
		docs = append(docs, DocumentDetail{
			Type:         r.DocumentType,
			Source:       source,
			Received:     r.Received,
			Required:     r.Required,
			ReceivedDate: r.ReceivedDate,
			FilePath:     r.FilePath,
		})
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Required != docs[j].Required {
			return docs[i].Required
		}
		if docs[i].Received != docs[j].Received {
			return docs[i].Received
		}
		return docs[i].Type < docs[j].Type
	})
	return docs
}

func summarize(statuses []ClientStatus) Summary {
	s := Summary{TotalClients: len(statuses)}
	for _, cs := range statuses {
		switch cs.Status {
		case models.StateComplete:
			s.Complete++
		case models.StateIncomplete:
			s.Incomplete++
		case models.StateAtRisk:
			s.AtRisk++
		case models.StateEscalated:
			s.Escalated++
		}
	}
	return s
}

var statePriority = map[models.RiskState]int{
	models.StateEscalated:  0,
	models.StateAtRisk:     1,
	models.StateIncomplete: 2,
	models.StateComplete:   3,
}

// sortByPriority orders most urgent first; client ID breaks ties so the
// order is deterministic.
func sortByPriority(statuses []ClientStatus) {
	sort.SliceStable(statuses, func(i, j int) bool {
		pi, pj := statePriority[statuses[i].Status], statePriority[statuses[j].Status]
		if pi != pj {
			return pi < pj
		}
		return statuses[i].ClientID < statuses[j].ClientID
	})
}

func filterByState(statuses []ClientStatus, state models.RiskState) []ClientStatus {
	out := make([]ClientStatus, 0, len(statuses))
	for _, cs := range statuses {
		if cs.Status == state {
			out = append(out, cs)
		}
	}
	return out
}

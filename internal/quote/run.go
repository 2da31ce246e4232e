package quote

import (
	"context"
	"errors"
	"fmt"
	"starquote/internal/age"
	"starquote/internal/components/assert"
	"starquote/internal/components/chrono"
	"starquote/internal/components/telemetry"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("starquote/quote")

const (
	report_run_fetch            = "run.fetch"
	report_run_open_session     = "run.open-session"
	report_run_close_session    = "run.close-session"
	report_run_missing_premiums = "run.missing-premiums"
)

// DefaultPause is the wait between two consecutive portal requests.
const DefaultPause = 2 * time.Second

// MaxFamilyMembers is the largest family the portal can quote in one go.
const MaxFamilyMembers = 4

type orchestratorConfig struct {
	pause    time.Duration
	progress func(Scenario)
	sleep    func(ctx context.Context, d time.Duration) error
}

type Option func(cfg *orchestratorConfig)

// WithPause overrides DefaultPause, zero disables the pause.
func WithPause(d time.Duration) Option {
	return func(cfg *orchestratorConfig) {
		cfg.pause = d
	}
}

// WithProgress registers a callback invoked right before each scenario is fetched.
func WithProgress(fn func(Scenario)) Option {
	return func(cfg *orchestratorConfig) {
		cfg.progress = fn
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Orchestrator produces quote reports for the fixed scenarios.
type Orchestrator struct {
	opener Opener
	clock  chrono.API
	tel    telemetry.API
	cfg    orchestratorConfig
}

func NewOrchestrator(opener Opener, clock chrono.API, tel telemetry.API, options ...Option) Orchestrator {
	assert.NotNil(opener, "session opener")
	assert.NotNil(clock, "clock")
	assert.NotNil(tel, "telemetry")

	cfg := orchestratorConfig{
		pause: DefaultPause,
		sleep: sleepContext,
	}
	for _, opt := range options {
		opt(&cfg)
	}

	return Orchestrator{
		opener: opener,
		clock:  clock,
		tel:    telemetry.NewScopedAPI("quote", tel),
		cfg:    cfg,
	}
}

// NewRun starts a run, the caller must Close it once done, including on failure.
func (o Orchestrator) NewRun() *Run {
	return &Run{orch: o}
}

// Run owns the portal session for the duration of one invocation.
type Run struct {
	orch    Orchestrator
	session Session
}

// Close releases the session if one was opened, closing an unused run is a no-op.
func (r *Run) Close() error {
	if r.session == nil {
		return nil
	}
	err := r.session.Close()
	r.session = nil
	if err != nil {
		r.orch.tel.ReportWarning(report_run_close_session, err)
		return fmt.Errorf("close session: %w", err)
	}
	return nil
}

func (r *Run) fetch(ctx context.Context, req Request) (string, error) {
	err := ctx.Err()
	if err != nil {
		return "", err
	}
	if r.session == nil {
		session, err := r.orch.opener.Open(ctx)
		if err != nil {
			r.orch.tel.ReportWarning(report_run_open_session, err)
			return "", fmt.Errorf("open session: %w", err)
		}
		r.session = session
	}
	return r.session.Fetch(ctx, req)
}

// quoteAll fetches every scenario in order at the same age, failures become null premiums.
func (r *Run) quoteAll(ctx context.Context, years int) Quotes {
	quotes := make(Quotes, 0, len(scenarios))

	for i, s := range scenarios {
		if i > 0 && r.orch.cfg.pause > 0 {
			// a cancelled context surfaces again through the next fetch
			_ = r.orch.cfg.sleep(ctx, r.orch.cfg.pause)
		}
		if r.orch.cfg.progress != nil {
			r.orch.cfg.progress(s)
		}

		scenarioCtx, span := tracer.Start(ctx, "Run:fetch")
		span.SetAttributes(
			attribute.String("scenario", s.Label),
			attribute.Int("age", years),
		)

		premium, err := r.fetch(scenarioCtx, Request{
			Age:         years,
			SumInsured:  s.SumInsured,
			TenureYears: s.TenureYears,
		})
		if err != nil {
			fetchErr := &FetchError{Scenario: s.Label, Err: err}
			span.RecordError(fetchErr)
			span.SetStatus(codes.Error, "fetch failed")
			span.End()

			r.orch.tel.ReportWarning(report_run_fetch, fetchErr, s.Label)
			quotes = append(quotes, QuoteResult{Label: s.Label})
			continue
		}
		span.End()

		quotes = append(quotes, QuoteResult{Label: s.Label, Premium: &premium})
	}

	r.orch.tel.ReportCount(report_run_missing_premiums, int64(quotes.Missing()))
	return quotes
}

// Single quotes one applicant born on `dob` (YYYY-MM-DD).
func (r *Run) Single(ctx context.Context, dob string) (SingleReport, error) {
	ctx, span := tracer.Start(ctx, "Run:Single")
	defer span.End()

	years, err := age.FromString(dob, r.orch.clock.Now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid date of birth")
		return SingleReport{}, err
	}
	span.SetAttributes(attribute.Int("age", years))

	return SingleReport{
		DOB:    dob,
		Age:    years,
		Quotes: r.quoteAll(ctx, years),
	}, nil
}

// RepresentativeAge is the oldest age among adults and parents, children never count.
func RepresentativeAge(members []Member) (int, error) {
	found := false
	oldest := 0
	for _, m := range members {
		if !m.Role.Qualifies() {
			continue
		}
		if !found || m.Age > oldest {
			oldest = m.Age
			found = true
		}
	}
	if !found {
		return 0, &DomainError{Reason: "no adult or parent among family members"}
	}
	return oldest, nil
}

// Family quotes a family at the age of its eldest adult or parent.
func (r *Run) Family(ctx context.Context, people []Person) (FamilyReport, error) {
	ctx, span := tracer.Start(ctx, "Run:Family")
	defer span.End()

	fail := func(err error) (FamilyReport, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return FamilyReport{}, err
	}

	if len(people) == 0 {
		return fail(&DomainError{Reason: "family has no members"})
	}
	if len(people) > MaxFamilyMembers {
		return fail(&DomainError{Reason: fmt.Sprintf(
			"family has %d members, at most %d are supported",
			len(people), MaxFamilyMembers,
		)})
	}

	now := r.orch.clock.Now()
	members := make([]Member, len(people))
	for i, p := range people {
		members[i] = newMember(p, age.Calculate(p.BirthDate, now))
	}

	representative, err := RepresentativeAge(members)
	if err != nil {
		return fail(err)
	}
	span.SetAttributes(
		attribute.Int("representative_age", representative),
		attribute.Int("member_count", len(members)),
	)

	return FamilyReport{
		FamilyLabel:       FamilyLabel(people),
		Members:           members,
		MemberCount:       len(members),
		RepresentativeAge: representative,
		Quotes:            r.quoteAll(ctx, representative),
	}, nil
}

// IsDomainError reports whether err aborted a run because of its input.
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

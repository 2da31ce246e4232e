// Package history keeps a record of every completed quote run.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"starquote/internal/components/assert"
	"starquote/internal/components/chrono"
	"starquote/internal/components/telemetry"
	"starquote/internal/history/db"
	"starquote/internal/quote"
	"time"

	"github.com/google/uuid"
)

const (
	report_db_query     = "db.query"
	report_store_record = "store.record"
)

type Store struct {
	qry    *db.Queries
	makeTx db.MakeTx
	clock  chrono.API
	tel    telemetry.API
}

func NewStore(database *sql.DB, clock chrono.API, tel telemetry.API) Store {
	assert.NotNil(database, "database")
	assert.NotNil(clock, "clock")
	assert.NotNil(tel, "telemetry")

	return Store{
		qry:    db.New(database),
		makeTx: db.NewMakeTx(database),
		clock:  clock,
		tel:    telemetry.NewScopedAPI("history", tel),
	}
}

// Run is a recorded run.
type Run struct {
	ID        string
	CreatedAt time.Time
	Kind      quote.Kind
	Subject   string
	QuotedAge int
	Quotes    quote.Quotes
	// Report is the JSON document that was saved for the run.
	Report string
}

// Record stores a completed report and returns the id it was stored under.
func (s Store) Record(ctx context.Context, report quote.Report) (string, error) {
	encoded, err := quote.Encode(report)
	if err != nil {
		s.tel.ReportBroken(report_store_record, fmt.Errorf("encode: %w", err))
		return "", err
	}

	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		s.tel.ReportBroken(report_db_query, fmt.Errorf("make tx: %w", err))
		return "", err
	}
	defer discard()

	id := uuid.NewString()
	err = tx.CreateRun(ctx, db.CreateRunParams{
		ID:         id,
		CreatedAt:  s.clock.Now().Unix(),
		Kind:       string(report.Kind()),
		Subject:    report.Subject(),
		QuotedAge:  int64(report.QuotedAge()),
		ReportJson: string(encoded),
	})
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "CreateRun")
		return "", err
	}

	for i, result := range report.Results() {
		premium := sql.NullString{}
		if result.Premium != nil {
			premium = sql.NullString{String: *result.Premium, Valid: true}
		}
		err = tx.CreatePremium(ctx, db.CreatePremiumParams{
			RunID:   id,
			Idx:     int64(i),
			Label:   result.Label,
			Premium: premium,
		})
		if err != nil {
			s.tel.ReportBroken(report_db_query, err, "CreatePremium")
			return "", err
		}
	}

	err = commit()
	if err != nil {
		s.tel.ReportBroken(report_db_query, fmt.Errorf("commit: %w", err))
		return "", err
	}
	return id, nil
}

// List returns up to `limit` runs, newest first.
func (s Store) List(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.qry.ListRuns(ctx, int64(limit))
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "ListRuns")
		return nil, err
	}

	runs := make([]Run, len(rows))
	for i, r := range rows {
		premiums, err := s.qry.GetRunPremiums(ctx, r.ID)
		if err != nil {
			s.tel.ReportBroken(report_db_query, err, "GetRunPremiums")
			return nil, err
		}
		quotes := make(quote.Quotes, len(premiums))
		for j, p := range premiums {
			quotes[j] = quote.QuoteResult{Label: p.Label}
			if p.Premium.Valid {
				value := p.Premium.String
				quotes[j].Premium = &value
			}
		}

		runs[i] = Run{
			ID:        r.ID,
			CreatedAt: time.Unix(r.CreatedAt, 0).In(s.clock.Location()),
			Kind:      quote.Kind(r.Kind),
			Subject:   r.Subject,
			QuotedAge: int(r.QuotedAge),
			Quotes:    quotes,
			Report:    r.ReportJson,
		}
	}
	return runs, nil
}

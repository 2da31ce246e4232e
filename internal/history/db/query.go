package db

import (
	"context"
	"database/sql"
)

type QuoteRun struct {
	ID         string
	CreatedAt  int64
	Kind       string
	Subject    string
	QuotedAge  int64
	ReportJson string
}

type QuotePremium struct {
	RunID   string
	Idx     int64
	Label   string
	Premium sql.NullString
}

const createRun = `insert into quote_run (id, created_at, kind, subject, quoted_age, report_json)
values (?, ?, ?, ?, ?, ?)`

type CreateRunParams struct {
	ID         string
	CreatedAt  int64
	Kind       string
	Subject    string
	QuotedAge  int64
	ReportJson string
}

func (q *Queries) CreateRun(ctx context.Context, arg CreateRunParams) error {
	_, err := q.db.ExecContext(ctx, createRun,
		arg.ID,
		arg.CreatedAt,
		arg.Kind,
		arg.Subject,
		arg.QuotedAge,
		arg.ReportJson,
	)
	return err
}

const createPremium = `insert into quote_premium (run_id, idx, label, premium)
values (?, ?, ?, ?)`

type CreatePremiumParams struct {
	RunID   string
	Idx     int64
	Label   string
	Premium sql.NullString
}

func (q *Queries) CreatePremium(ctx context.Context, arg CreatePremiumParams) error {
	_, err := q.db.ExecContext(ctx, createPremium,
		arg.RunID,
		arg.Idx,
		arg.Label,
		arg.Premium,
	)
	return err
}

const listRuns = `select id, created_at, kind, subject, quoted_age, report_json from quote_run
order by created_at desc, rowid desc
limit ?`

func (q *Queries) ListRuns(ctx context.Context, limit int64) ([]QuoteRun, error) {
	rows, err := q.db.QueryContext(ctx, listRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []QuoteRun
	for rows.Next() {
		var i QuoteRun
		if err := rows.Scan(
			&i.ID,
			&i.CreatedAt,
			&i.Kind,
			&i.Subject,
			&i.QuotedAge,
			&i.ReportJson,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getRunPremiums = `select run_id, idx, label, premium from quote_premium
where run_id = ?
order by idx`

func (q *Queries) GetRunPremiums(ctx context.Context, runID string) ([]QuotePremium, error) {
	rows, err := q.db.QueryContext(ctx, getRunPremiums, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []QuotePremium
	for rows.Next() {
		var i QuotePremium
		if err := rows.Scan(
			&i.RunID,
			&i.Idx,
			&i.Label,
			&i.Premium,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

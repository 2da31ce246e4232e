package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"starquote/internal/components/chrono"
	"starquote/internal/components/telemetry"
	"starquote/internal/history"
	histdb "starquote/internal/history/db"
	"starquote/internal/notify"
	"starquote/internal/quote"
	"starquote/internal/scrapers/starhealth"
)

// app is everything a command needs to quote and record runs.
type app struct {
	cfg   Config
	clock chrono.StandardImpl
	tel   telemetry.API
	orch  quote.Orchestrator
	out   io.Writer

	// store and mailer are nil when not configured
	store  *history.Store
	mailer *notify.Mailer
	db     *sql.DB
}

func newApp(ctx context.Context, out io.Writer) (*app, error) {
	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if *historyDb != "" {
		cfg.History.File = *historyDb
		cfg.History.Url = ""
	}

	clock, err := chrono.NewStandardImpl(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	tel := telemetry.SlogAPI{}

	var dump telemetry.MessageOutput
	if cfg.Portal.DumpDir != "" {
		output, err := telemetry.NewFilesystemOutput(cfg.Portal.DumpDir)
		if err != nil {
			return nil, fmt.Errorf("dump dir: %w", err)
		}
		dump = output
	}
	opener := starhealth.NewOpener(cfg.Portal.Options, tel, dump)

	a := &app{
		cfg:   cfg,
		clock: clock,
		tel:   tel,
		out:   out,
	}
	a.orch = quote.NewOrchestrator(
		opener,
		clock,
		tel,
		quote.WithPause(cfg.Pause()),
		quote.WithProgress(func(s quote.Scenario) {
			fmt.Fprintf(out, "Fetching quote for %s...\n", s.Label)
		}),
	)

	if cfg.History.Enabled() {
		database, err := cfg.History.OpenDB(ctx, histdb.Schema)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		store := history.NewStore(database, clock, tel)
		a.db = database
		a.store = &store
	}

	if *sendMail {
		if cfg.Smtp.Enabled() {
			mailer := notify.NewMailer(cfg.Smtp, tel)
			a.mailer = &mailer
		} else {
			slog.Warn("--mail was given but smtp is not configured, no email will be sent")
		}
	}

	return a, nil
}

func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// execute performs one run with `quoteFn`, prints and saves the report, then
// records and mails it when configured.
func (a *app) execute(ctx context.Context, outPath string, quoteFn func(run *quote.Run) (quote.Report, error)) (quote.Report, error) {
	run := a.orch.NewRun()
	// close failures are already reported by the run
	defer run.Close()

	report, err := quoteFn(run)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(a.out)
	renderSummary(a.out, report)

	if outPath == "" {
		outPath = report.DefaultFile()
	}
	err = quote.SaveReport(report, outPath)
	if err != nil {
		return report, fmt.Errorf("save report: %w", err)
	}
	fmt.Fprintf(a.out, "Results saved to %s\n", outPath)

	a.publish(ctx, report)
	return report, nil
}

// publish records and mails a completed report, failures are reported but never fail the run.
func (a *app) publish(ctx context.Context, report quote.Report) {
	if a.store != nil {
		id, err := a.store.Record(ctx, report)
		if err == nil {
			slog.Debug("recorded run", "id", id)
		}
	}
	if a.mailer != nil {
		subject := fmt.Sprintf("Premium quotes for %s", report.Subject())
		if missing := report.Results().Missing(); missing > 0 {
			subject = fmt.Sprintf("%s (%d missing)", subject, missing)
		}
		_ = a.mailer.Send(ctx, subject, report.Summary())
	}
}

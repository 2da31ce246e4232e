package commands

import (
	"context"
	"fmt"
	"log/slog"
	"starquote/internal/components/chrono"
	"starquote/internal/components/serviceutil"
	"starquote/internal/components/telemetry"

	"github.com/spf13/cobra"
)

const report_watch_run = "watch.run"

var watchCron *string

func init() {
	watchCron = watchCmd.Flags().String("cron", "", "Cron spec of the refresh, defaults to watch.cron of the config.")
	rootCmd.AddCommand(watchCmd)
}

// refresh quotes the configured subject and family once.
func refresh(ctx context.Context, a *app) {
	if a.cfg.Subject.DOB != "" {
		_, err := quoteSingle(ctx, a, a.cfg.Subject.DOB, "")
		if err != nil {
			a.tel.ReportBroken(report_watch_run, err, "single")
		}
	}
	if len(a.cfg.Family) > 0 {
		people, err := a.cfg.People()
		if err != nil {
			a.tel.ReportBroken(report_watch_run, err, "family")
			return
		}
		_, err = quoteFamily(ctx, a, people, "")
		if err != nil {
			a.tel.ReportBroken(report_watch_run, err, "family")
		}
	}
}

var watchCmd = &cobra.Command{
	Use:   "watch [--cron SPEC]",
	Short: "Re-quotes the configured subject and family on a schedule.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		a, err := newApp(ctx, cmd.OutOrStdout())
		if err != nil {
			serviceutil.Fatal("failed to initialize", err)
		}
		defer a.Close()

		if a.cfg.Subject.DOB == "" && len(a.cfg.Family) == 0 {
			serviceutil.Fatal("nothing to watch", fmt.Errorf("set subject.dob or family in the config"))
		}
		if a.store == nil {
			slog.Warn("history is not enabled, runs will only be saved to their report files")
		}

		spec := *watchCron
		if spec == "" {
			spec = a.cfg.Watch.Cron
		}

		telemetry.InstrumentPerfStats(ctx, a.tel)

		cron := chrono.NewStandardCron(a.clock, a.tel)
		err = cron.Cron(spec, func() {
			refresh(ctx, a)
		})
		if err != nil {
			<-cron.Stop()
			serviceutil.Fatal("invalid cron spec", err)
		}
		slog.Info("watching", "cron", spec, "timezone", a.cfg.Timezone)

		<-ctx.Done()
		<-cron.Stop()
	},
}

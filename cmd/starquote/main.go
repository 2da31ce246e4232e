package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"starquote/cmd/starquote/commands"
	"starquote/internal/components/serviceutil"
	"starquote/internal/components/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	otelTel, err := telemetry.SetupFromEnv(ctx, "starquote")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to setup telemetry", "err", err.Error())
	}

	err = commands.ExecuteContext(ctx)
	otelTel.Shutdown(context.Background())
	if err != nil {
		os.Exit(1)
	}
}

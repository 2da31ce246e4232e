package chrono

import (
	"testing"
	"time"

	"starquote/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

func TestStandardCron(t *testing.T) {
	clock := FixedImpl{Time: time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)}
	cron := NewStandardCron(clock, &telemetry.Memory{})
	defer func() { <-cron.Stop() }()

	err := cron.Cron("not a spec", func() {})
	require.Error(t, err)

	fired := make(chan struct{}, 1)
	err = cron.Cron("@every 1s", func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("cron job never ran")
	}
}

func TestCronLoggerFormatsParams(t *testing.T) {
	l := cronLogger{tel: &telemetry.Memory{}}
	require.Equal(t, []any{"now: 1", "entry: 2"}, l.formatParams([]any{"now", 1, "entry", 2}))
	require.Equal(t, []any{}, l.formatParams(nil))
}

package history

import (
	"context"
	"testing"
	"time"

	"starquote/internal/components/chrono"
	componentdb "starquote/internal/components/db"
	"starquote/internal/components/telemetry"
	"starquote/internal/history/db"
	"starquote/internal/quote"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type steppingClock struct {
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

func (c *steppingClock) Location() *time.Location {
	return time.UTC
}

var _ chrono.API = &steppingClock{}

func ptr(s string) *string {
	return &s
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	database, err := componentdb.Config{File: ":memory:"}.OpenDB(ctx, db.Schema)
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()

	clock := &steppingClock{now: time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)}
	store := NewStore(database, clock, &telemetry.Memory{})

	runs, err := store.List(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, runs, 0)

	single := quote.SingleReport{
		DOB: "1990-05-15",
		Age: 33,
		Quotes: quote.Quotes{
			{Label: "5L/1yr", Premium: ptr("₹8,420")},
			{Label: "5L/3yr"},
			{Label: "10L/1yr", Premium: ptr("₹11,002")},
			{Label: "10L/3yr"},
		},
	}
	singleID, err := store.Record(ctx, single)
	if err != nil {
		t.Fatal(err)
	}

	family := quote.FamilyReport{
		FamilyLabel:       "A + B",
		Members:           []quote.Member{{Name: "A", BirthDate: "1960-01-01", Role: quote.RoleAdult, Age: 64}, {Name: "B", BirthDate: "2010-01-01", Role: quote.RoleChild, Age: 14}},
		MemberCount:       2,
		RepresentativeAge: 64,
		Quotes: quote.Quotes{
			{Label: "5L/1yr"},
			{Label: "5L/3yr"},
			{Label: "10L/1yr"},
			{Label: "10L/3yr"},
		},
	}
	familyID, err := store.Record(ctx, family)
	if err != nil {
		t.Fatal(err)
	}
	require.NotEqual(t, singleID, familyID)

	runs, err = store.List(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, runs, 2)

	require.Equal(t, familyID, runs[0].ID)
	require.Equal(t, quote.KindFamily, runs[0].Kind)
	require.Equal(t, "A + B", runs[0].Subject)
	require.Equal(t, 64, runs[0].QuotedAge)
	require.Equal(t, 4, runs[0].Quotes.Missing())

	require.Equal(t, singleID, runs[1].ID)
	require.Equal(t, quote.KindSingle, runs[1].Kind)
	require.Equal(t, "1990-05-15", runs[1].Subject)
	diff := cmp.Diff(single.Quotes, runs[1].Quotes)
	if diff != "" {
		t.Fatal(diff)
	}
	require.Contains(t, runs[1].Report, `"dob": "1990-05-15"`)
	require.True(t, runs[1].CreatedAt.Before(runs[0].CreatedAt))

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, limited, 1)
	require.Equal(t, familyID, limited[0].ID)
}

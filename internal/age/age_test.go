package age

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestFromString(t *testing.T) {
	table := []struct {
		dob      string
		now      time.Time
		expected int
	}{
		{dob: "1990-05-15", now: date(2024, time.January, 10), expected: 33},
		{dob: "1990-05-15", now: date(2024, time.June, 1), expected: 34},
		{dob: "1990-05-15", now: date(2024, time.May, 15), expected: 34},
		{dob: "1990-05-15", now: date(2024, time.May, 14), expected: 33},
		{dob: "1990-05-15", now: date(2024, time.May, 16), expected: 34},
		{dob: "2000-02-29", now: date(2023, time.February, 28), expected: 22},
		{dob: "2000-02-29", now: date(2023, time.March, 1), expected: 23},
		{dob: "2000-02-29", now: date(2024, time.February, 29), expected: 24},
		{dob: "2024-01-10", now: date(2024, time.January, 10), expected: 0},
	}

	for _, row := range table {
		result, err := FromString(row.dob, row.now)
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, row.expected, result, "dob %s at %s", row.dob, row.now.Format(Layout))
	}
}

func TestCalculateIgnoresTimeOfDay(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	birth := date(1990, time.May, 15)
	require.Equal(t, 34, Calculate(birth, time.Date(2024, time.May, 15, 0, 0, 1, 0, ist)))
	require.Equal(t, 33, Calculate(birth, time.Date(2024, time.May, 14, 23, 59, 59, 0, ist)))
}

// counts completed birthdays by walking forward one year at a time.
func countBirthdays(birth, now time.Time) int {
	n := 0
	for {
		next := birth.AddDate(n+1, 0, 0)
		// AddDate normalizes Feb 29 into Mar 1 on non-leap years, which is also when
		// the birthday is considered reached.
		if next.After(now) {
			return n
		}
		n++
	}
}

func TestCalculateMatchesCompletedBirthdays(t *testing.T) {
	rndm := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		birth := date(1920, time.January, 1).AddDate(0, 0, rndm.Intn(365*90))
		now := birth.AddDate(0, 0, rndm.Intn(365*100))
		require.Equal(t, countBirthdays(birth, now), Calculate(birth, now), "birth %s now %s", birth.Format(Layout), now.Format(Layout))
	}
}

func TestParseError(t *testing.T) {
	for _, input := range []string{"", "15-05-1990", "1990/05/15", "1990-13-01", "1990-02-30", "yesterday"} {
		_, err := FromString(input, date(2024, time.January, 1))
		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr), "input %q", input)
		require.Equal(t, input, parseErr.Input)
	}
}

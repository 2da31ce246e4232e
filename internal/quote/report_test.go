package quote

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string {
	return &s
}

func sampleQuotes() Quotes {
	return Quotes{
		{Label: "5L/1yr", Premium: ptr("₹8,420")},
		{Label: "5L/3yr"},
		{Label: "10L/1yr", Premium: ptr("₹11,002")},
		{Label: "10L/3yr", Premium: ptr("₹29,870")},
	}
}

func TestQuotesMarshalPreservesOrder(t *testing.T) {
	encoded, err := json.Marshal(sampleQuotes())
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(
		t,
		`{"5L/1yr":"₹8,420","5L/3yr":null,"10L/1yr":"₹11,002","10L/3yr":"₹29,870"}`,
		string(encoded),
	)
}

func TestSaveSingleReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultSingleFile)
	err := os.WriteFile(path, []byte("stale contents that are longer than nothing"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	report := SingleReport{DOB: "1990-05-15", Age: 33, Quotes: sampleQuotes()}
	err = SaveReport(report, path)
	if err != nil {
		t.Fatal(err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		DOB    string             `json:"dob"`
		Age    int                `json:"age"`
		Quotes map[string]*string `json:"quotes"`
	}
	err = json.Unmarshal(contents, &decoded)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "1990-05-15", decoded.DOB)
	require.Equal(t, 33, decoded.Age)
	require.Len(t, decoded.Quotes, 4)
	require.Contains(t, decoded.Quotes, "5L/3yr")
	require.Nil(t, decoded.Quotes["5L/3yr"])
	require.Equal(t, "₹8,420", *decoded.Quotes["5L/1yr"])
}

func TestSaveFamilyReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFamilyFile)
	report := FamilyReport{
		FamilyLabel: "A + B",
		Members: []Member{
			{Name: "A", BirthDate: "1960-01-01", Role: RoleParent, Age: 64},
			{Name: "B", BirthDate: "2010-01-01", Role: RoleChild, Age: 14},
		},
		MemberCount:       2,
		RepresentativeAge: 64,
		Quotes:            sampleQuotes(),
	}
	err := SaveReport(report, path)
	if err != nil {
		t.Fatal(err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	err = json.Unmarshal(contents, &decoded)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "A + B", decoded["family_label"])
	require.EqualValues(t, 2, decoded["member_count"])
	members := decoded["members"].([]any)
	require.Len(t, members, 2)
	require.Equal(t, "parent", members[0].(map[string]any)["role"])
	require.Len(t, decoded["quotes"], 4)
}

func TestSummary(t *testing.T) {
	report := SingleReport{DOB: "1990-05-15", Age: 33, Quotes: sampleQuotes()}
	require.Equal(t, []Field{
		{Name: "DOB", Value: "1990-05-15"},
		{Name: "Age", Value: "33"},
		{Name: "5L/1yr", Value: "₹8,420"},
		{Name: "5L/3yr", Value: "-"},
		{Name: "10L/1yr", Value: "₹11,002"},
		{Name: "10L/3yr", Value: "₹29,870"},
	}, report.Summary())
	require.Equal(t, KindSingle, report.Kind())
	require.Equal(t, DefaultSingleFile, report.DefaultFile())
}

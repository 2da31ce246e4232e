package quote

import (
	"bytes"
	"fmt"
	"os"
	"starquote/internal/age"

	"github.com/goccy/go-json"
)

const (
	DefaultSingleFile = "quotes.json"
	DefaultFamilyFile = "family_quotes.json"
)

// Kind identifies which mode produced a report.
type Kind string

const (
	KindSingle Kind = "single"
	KindFamily Kind = "family"
)

// QuoteResult is the outcome of one scenario, a nil Premium means the fetch failed.
type QuoteResult struct {
	Label   string
	Premium *string
}

// Quotes holds one result per scenario in fetch order. It serializes to a JSON
// object keyed by label, preserving that order.
type Quotes []QuoteResult

// Get returns the premium for a label, ok is false when the label is missing or its fetch failed.
func (q Quotes) Get(label string) (premium string, ok bool) {
	for _, r := range q {
		if r.Label == label && r.Premium != nil {
			return *r.Premium, true
		}
	}
	return "", false
}

// Missing counts scenarios without a premium.
func (q Quotes) Missing() int {
	n := 0
	for _, r := range q {
		if r.Premium == nil {
			n++
		}
	}
	return n
}

func (q Quotes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range q {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.Label)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.Premium)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Field is a name/value pair of a human readable summary.
type Field struct {
	Name  string
	Value string
}

func (q Quotes) fields() []Field {
	out := make([]Field, len(q))
	for i, r := range q {
		value := "-"
		if r.Premium != nil {
			value = *r.Premium
		}
		out[i] = Field{Name: r.Label, Value: value}
	}
	return out
}

// Report is the result of a completed run.
type Report interface {
	Kind() Kind
	// Subject is the date of birth for single reports and the family label for family reports.
	Subject() string
	// QuotedAge is the age every scenario was priced with.
	QuotedAge() int
	Results() Quotes
	Summary() []Field
	DefaultFile() string
}

// SingleReport is the report of a single applicant run.
type SingleReport struct {
	DOB    string `json:"dob"`
	Age    int    `json:"age"`
	Quotes Quotes `json:"quotes"`
}

func (r SingleReport) Kind() Kind          { return KindSingle }
func (r SingleReport) Subject() string     { return r.DOB }
func (r SingleReport) QuotedAge() int      { return r.Age }
func (r SingleReport) Results() Quotes     { return r.Quotes }
func (r SingleReport) DefaultFile() string { return DefaultSingleFile }

func (r SingleReport) Summary() []Field {
	out := []Field{
		{Name: "DOB", Value: r.DOB},
		{Name: "Age", Value: fmt.Sprint(r.Age)},
	}
	return append(out, r.Quotes.fields()...)
}

// Member is a family member as recorded in a report.
type Member struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	Role      Role   `json:"role"`
	Age       int    `json:"age"`
}

// FamilyReport is the report of a family run.
type FamilyReport struct {
	FamilyLabel       string   `json:"family_label"`
	Members           []Member `json:"members"`
	MemberCount       int      `json:"member_count"`
	RepresentativeAge int      `json:"representative_age"`
	Quotes            Quotes   `json:"quotes"`
}

func (r FamilyReport) Kind() Kind          { return KindFamily }
func (r FamilyReport) Subject() string     { return r.FamilyLabel }
func (r FamilyReport) QuotedAge() int      { return r.RepresentativeAge }
func (r FamilyReport) Results() Quotes     { return r.Quotes }
func (r FamilyReport) DefaultFile() string { return DefaultFamilyFile }

func (r FamilyReport) Summary() []Field {
	out := []Field{{Name: "Family", Value: r.FamilyLabel}}
	for _, m := range r.Members {
		out = append(out, Field{
			Name:  m.Name,
			Value: fmt.Sprintf("%s, age %d (%s)", m.BirthDate, m.Age, m.Role),
		})
	}
	out = append(out, Field{Name: "Quoted age", Value: fmt.Sprint(r.RepresentativeAge)})
	return append(out, r.Quotes.fields()...)
}

func newMember(p Person, years int) Member {
	return Member{
		Name:      p.Name,
		BirthDate: p.BirthDate.Format(age.Layout),
		Role:      p.Role,
		Age:       years,
	}
}

// Encode renders a report as indented JSON.
func Encode(report Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// SaveReport writes the report to `path`, replacing whatever was there.
func SaveReport(report Report, path string) error {
	contents, err := Encode(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	contents = append(contents, '\n')
	err = os.WriteFile(path, contents, 0644)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

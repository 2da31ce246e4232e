package quote

// Scenario is one (sum insured, tenure) combination the portal is asked to quote.
type Scenario struct {
	// SumInsured is in whole rupees.
	SumInsured  int
	TenureYears int
	Label       string
}

var scenarios = [...]Scenario{
	{SumInsured: 500_000, TenureYears: 1, Label: "5L/1yr"},
	{SumInsured: 500_000, TenureYears: 3, Label: "5L/3yr"},
	{SumInsured: 1_000_000, TenureYears: 1, Label: "10L/1yr"},
	{SumInsured: 1_000_000, TenureYears: 3, Label: "10L/3yr"},
}

// Scenarios returns the four scenarios every run quotes, in the order they are fetched.
func Scenarios() []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios[:])
	return out
}

// Labels returns the scenario labels in fetch order.
func Labels() []string {
	out := make([]string, len(scenarios))
	for i, s := range scenarios {
		out[i] = s.Label
	}
	return out
}

package quote

import "fmt"

// DomainError means the input cannot produce a quote at all, it aborts the whole run.
type DomainError struct {
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("quote: %s", e.Reason)
}

// FetchError is a failure of the portal for a single scenario. It never escapes a run,
// the scenario's premium is recorded as null instead.
type FetchError struct {
	Scenario string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Scenario, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

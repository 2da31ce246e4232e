package quote

import "context"

// Request is everything the portal needs to price one scenario.
type Request struct {
	Age         int
	SumInsured  int
	TenureYears int
}

// Session is a live handle on the quote portal. It is owned by one Run and is not
// safe for concurrent use.
//
// note: fault injection point
type Session interface {
	// Fetch returns the premium text displayed by the portal for the request.
	Fetch(ctx context.Context, req Request) (string, error)
	Close() error
}

// Opener creates sessions, a Run calls it lazily on its first fetch.
type Opener interface {
	Open(ctx context.Context) (Session, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context) (Session, error)

func (f OpenerFunc) Open(ctx context.Context) (Session, error) {
	return f(ctx)
}

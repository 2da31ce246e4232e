package chrono

import "time"

// DefaultLocation is the timezone the quick-quote portal computes ages in.
const DefaultLocation = "Asia/Kolkata"

// API is the interface that anything depending on the system clock should use.
//
// note: fault injection point
type API interface {
	// Now returns the current time in Location().
	Now() time.Time
	Location() *time.Location
}

type StandardImpl struct {
	location *time.Location
}

// NewStandardImpl creates a clock for the given IANA timezone name, an empty name
// falls back to DefaultLocation.
func NewStandardImpl(tz string) (StandardImpl, error) {
	if tz == "" {
		tz = DefaultLocation
	}
	location, err := time.LoadLocation(tz)
	if err != nil {
		return StandardImpl{}, err
	}
	return StandardImpl{location: location}, nil
}

func (s StandardImpl) Now() time.Time {
	return time.Now().In(s.location)
}

func (s StandardImpl) Location() *time.Location {
	return s.location
}

// FixedImpl is a clock frozen at a single instant.
type FixedImpl struct {
	Time time.Time
}

func (f FixedImpl) Now() time.Time {
	return f.Time
}

func (f FixedImpl) Location() *time.Location {
	return f.Time.Location()
}

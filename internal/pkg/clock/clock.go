package clock

import "time"

// Clock abstracts "now" so advance-notice checks and the status sweeper can be
// tested against a fixed instant.
type Clock interface {
	Now() time.Time
}

type Real struct{}

func (Real) Now() time.Time { return time.Now().UTC() }

type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

func FixedAt(t time.Time) Fixed { return Fixed{T: t.UTC()} }

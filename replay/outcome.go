package replay

import "fmt"

// Outcome is the result of verifying one frame. It is one of Stale, Okay,
// Failure or EOF; switch on the concrete type to handle it.
type Outcome interface {
	fmt.Stringer
	outcome()
}

// Stale reports a frame identical to the previously verified one. It is
// not checked again and does not consume the queue.
type Stale struct {
	Hash Hash
}

// Okay reports a frame matching the next expected hash.
type Okay struct {
	Hash Hash
}

// Failure reports a frame whose hash differs from the expected one.
type Failure struct {
	Actual   Hash
	Expected Hash
}

// EOF reports a frame arriving after the expected queue ran out: the
// replayed run is longer than the recorded one.
type EOF struct {
	Actual Hash
}

func (Stale) outcome()   {}
func (Okay) outcome()    {}
func (Failure) outcome() {}
func (EOF) outcome()     {}

func (o Stale) String() string { return "stale " + o.Hash.String() }
func (o Okay) String() string  { return "okay " + o.Hash.String() }
func (o Failure) String() string {
	return fmt.Sprintf("failure %s (expected %s)", o.Actual, o.Expected)
}
func (o EOF) String() string { return "eof " + o.Actual.String() }

// Kind returns a short label for o, suitable as a metric label.
func Kind(o Outcome) string {
	switch o.(type) {
	case Stale:
		return "stale"
	case Okay:
		return "okay"
	case Failure:
		return "failure"
	case EOF:
		return "eof"
	default:
		return "unknown"
	}
}

// Passed reports whether o is not a verification error.
func Passed(o Outcome) bool {
	switch o.(type) {
	case Stale, Okay:
		return true
	default:
		return false
	}
}

package replay

import (
	"slices"

	"github.com/gogpu/pixhist"
)

// State holds the expected-hash queue and the last verified hash.
//
// Frames must be fed in render order, one call per rendered frame.
// State is not safe for concurrent use.
type State struct {
	mode     Mode
	expected []Hash

	lastVerified Hash
	verified     bool
}

// NewState returns a state in the given mode with an initial queue.
func NewState(mode Mode, expected []Hash) *State {
	return &State{mode: mode, expected: slices.Clone(expected)}
}

// Mode returns the current mode.
func (s *State) Mode() Mode { return s.mode }

// SetMode switches the mode without touching the queue.
func (s *State) SetMode(m Mode) { s.mode = m }

// Load replaces the expected queue and forgets the last verified hash.
func (s *State) Load(expected []Hash) {
	s.expected = slices.Clone(expected)
	s.verified = false
	s.lastVerified = Hash{}
}

// Expected returns a copy of the pending expected hashes, head first.
func (s *State) Expected() []Hash {
	return slices.Clone(s.expected)
}

// Pending returns the number of hashes left in the queue.
func (s *State) Pending() int { return len(s.expected) }

// LastVerified returns the hash of the last frame checked by Verify.
func (s *State) LastVerified() (Hash, bool) {
	return s.lastVerified, s.verified
}

// Record hashes frame and appends the hash to the queue unless it equals
// the most recently recorded one. It reports whether the hash was added.
func (s *State) Record(frame []byte) (Hash, bool) {
	h := Sum(frame)
	if n := len(s.expected); n > 0 && s.expected[n-1] == h {
		return h, false
	}
	s.expected = append(s.expected, h)
	return h, true
}

// Verify hashes frame and checks it against the queue.
func (s *State) Verify(frame []byte) Outcome {
	h := Sum(frame)
	if s.verified && h == s.lastVerified {
		return Stale{Hash: h}
	}
	s.lastVerified = h
	s.verified = true

	if len(s.expected) == 0 {
		pixhist.Logger().Warn("replay: frame after end of recorded stream", "hash", h)
		return EOF{Actual: h}
	}
	want := s.expected[0]
	s.expected = s.expected[1:]

	if h != want {
		pixhist.Logger().Warn("replay: frame mismatch", "actual", h, "expected", want)
		return Failure{Actual: h, Expected: want}
	}
	return Okay{Hash: h}
}

// Observe dispatches frame according to the mode. It returns the verify
// outcome in ModeVerify and nil otherwise.
func (s *State) Observe(frame []byte) Outcome {
	switch s.mode {
	case ModeRecord:
		s.Record(frame)
	case ModeVerify:
		return s.Verify(frame)
	}
	return nil
}

package replay

import (
	"fmt"
	"strings"
)

// Mode selects what State.Observe does with a frame.
type Mode uint8

const (
	// ModeOff ignores frames.
	ModeOff Mode = iota
	// ModeRecord appends frame hashes to the expected queue.
	ModeRecord
	// ModeVerify checks frame hashes against the expected queue.
	ModeVerify
)

func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeRecord:
		return "record"
	case ModeVerify:
		return "verify"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode parses the names returned by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off":
		return ModeOff, nil
	case "record":
		return ModeRecord, nil
	case "verify", "replay":
		return ModeVerify, nil
	default:
		return ModeOff, fmt.Errorf("replay: unknown mode %q", s)
	}
}

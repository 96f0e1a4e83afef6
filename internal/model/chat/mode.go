package chat

import (
	"errors"
	"strings"
)

// Mode biases which canned reply the generator selects.
type Mode string

const (
	ModeDefault Mode = "Default"
	ModeWedding Mode = "Wedding"
	ModeEid     Mode = "Eid"
	ModeOffice  Mode = "Office"
)

var ErrUnknownMode = errors.New("unknown chat mode")

// Modes lists every mode in display order.
func Modes() []Mode {
	return []Mode{ModeDefault, ModeWedding, ModeEid, ModeOffice}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	for _, known := range Modes() {
		if m == known {
			return true
		}
	}
	return false
}

// ParseMode resolves a mode name case-insensitively.
func ParseMode(raw string) (Mode, error) {
	name := strings.TrimSpace(raw)
	for _, known := range Modes() {
		if strings.EqualFold(name, string(known)) {
			return known, nil
		}
	}
	return "", ErrUnknownMode
}

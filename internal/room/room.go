// Package room defines the canonical identifier scheme for two-party
// conversations. A room key is the two participant ids sorted ascending and
// joined with a separator, so both participants derive the same key.
package room

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Separator joins the two participant ids inside a room key. It can never
// appear in the decimal encoding of a valid (positive) user id.
const Separator = "-"

var (
	// ErrSameParticipant is returned when a user tries to open a room with themself.
	ErrSameParticipant = errors.New("participants must be distinct")
	// ErrInvalidParticipant is returned for ids whose decimal form could collide
	// with the separator (zero and negatives are not valid account ids).
	ErrInvalidParticipant = errors.New("participant id must be positive")
	// ErrMalformedKey is returned when a room key does not decode into exactly
	// two participant ids.
	ErrMalformedKey = errors.New("malformed room key")
	// ErrNotParticipant is returned when the known id is not part of the room key.
	ErrNotParticipant = errors.New("user is not a participant of the room")
)

// Key builds the canonical room key for the pair (a, b).
// Key(a, b) == Key(b, a) for every valid pair.
func Key(a, b int64) (string, error) {
	if a <= 0 || b <= 0 {
		return "", ErrInvalidParticipant
	}
	if a == b {
		return "", ErrSameParticipant
	}
	if a > b {
		a, b = b, a
	}
	return strconv.FormatInt(a, 10) + Separator + strconv.FormatInt(b, 10), nil
}

// OtherParticipant recovers the peer id from a room key, given one known
// participant. The key is parsed structurally: split into exactly two integer
// tokens, then the token that is not the known id is returned. Substring
// tricks would mis-parse pairs like (1, 12), so they are never used here.
func OtherParticipant(key string, known int64) (int64, error) {
	a, b, err := Participants(key)
	if err != nil {
		return 0, err
	}
	switch known {
	case a:
		return b, nil
	case b:
		return a, nil
	}
	return 0, fmt.Errorf("%w: user %d in room %q", ErrNotParticipant, known, key)
}

// Participants decodes a room key into its two participant ids, lower first.
func Participants(key string) (int64, int64, error) {
	tokens := strings.Split(key, Separator)
	if len(tokens) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}
	a, err := strconv.ParseInt(tokens[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}
	b, err := strconv.ParseInt(tokens[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}
	if a <= 0 || b <= 0 || a >= b {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}
	return a, b, nil
}

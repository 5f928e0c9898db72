package protocol

import (
	"fmt"
	"strings"
)

// MessageStatus is the lifecycle phase of a message. The numeric value is its rank.
// Status is always derived from chain state and never persisted.
type MessageStatus int

const (
	StatusUnconfirmed MessageStatus = iota
	StatusFailed
	StatusReadyToProve
	StatusInChallengePeriod
	StatusReadyForRelay
	StatusRelayed
)

var statusNames = map[MessageStatus]string{
	StatusUnconfirmed:       "UNCONFIRMED",
	StatusFailed:            "FAILED",
	StatusReadyToProve:      "READY_TO_PROVE",
	StatusInChallengePeriod: "IN_CHALLENGE_PERIOD",
	StatusReadyForRelay:     "READY_FOR_RELAY",
	StatusRelayed:           "RELAYED",
}

// Rank orders statuses along the lifecycle.
func (s MessageStatus) Rank() int {
	return int(s)
}

// AtLeast reports whether s has reached target.
func (s MessageStatus) AtLeast(target MessageStatus) bool {
	return s.Rank() >= target.Rank()
}

// IsTerminal reports whether no further transition is expected without a reorg.
func (s MessageStatus) IsTerminal() bool {
	return s == StatusRelayed || s == StatusFailed
}

func (s MessageStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("MessageStatus(%d)", int(s))
}

// ParseMessageStatus accepts the canonical names, case-insensitively.
func ParseMessageStatus(s string) (MessageStatus, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for status, name := range statusNames {
		if name == normalized {
			return status, nil
		}
	}
	return 0, fmt.Errorf("unknown message status %q", s)
}

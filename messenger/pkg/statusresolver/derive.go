package statusresolver

import (
	"github.com/joonkeep/kanvas/messenger"
	"github.com/joonkeep/kanvas/protocol"
)

// Derive maps a chain snapshot to a message status. It has no side effects and reads nothing but
// the snapshot, so equal snapshots always derive equal statuses.
func Derive(s messenger.ChainSnapshot) protocol.MessageStatus {
	if s.Relay != nil {
		if s.Relay.Success {
			return protocol.StatusRelayed
		}
		return protocol.StatusFailed
	}

	if !s.Included || !s.LatestOutput.Covers(s.SourceBlock.Number) {
		return protocol.StatusUnconfirmed
	}

	// A proof against an output that was deleted and re-proposed no longer counts.
	if s.Proven == nil || s.ProvenOutput == nil || s.ProvenOutput.OutputRoot != s.Proven.OutputRoot {
		return protocol.StatusReadyToProve
	}

	if s.DestinationTime < s.Proven.ChallengeDeadline(s.ChallengePeriod) {
		return protocol.StatusInChallengePeriod
	}
	return protocol.StatusReadyForRelay
}

package statusresolver

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/joonkeep/kanvas/messenger"
	"github.com/joonkeep/kanvas/protocol"
)

const (
	provenAt = uint64(1_700_000_000)
	period   = uint64(100)
)

var root = common.HexToHash("0x0a")

// provenSnapshot is a message included at block 10, covered by output 3 and proven against it.
func provenSnapshot(destinationTime uint64) messenger.ChainSnapshot {
	output := &protocol.OutputProposal{Index: big.NewInt(3), OutputRoot: root, L2BlockNumber: 11, Timestamp: provenAt - 10}
	return messenger.ChainSnapshot{
		Included:         true,
		SourceBlock:      protocol.BlockRef{Number: 10, Hash: common.HexToHash("0x10")},
		LatestOutput:     output,
		Proven:           &protocol.ProvenWithdrawal{OutputRoot: root, Timestamp: provenAt, L2OutputIndex: big.NewInt(3)},
		ProvenOutput:     output,
		ChallengePeriod:  period,
		DestinationBlock: 500,
		DestinationTime:  destinationTime,
	}
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name     string
		snapshot func() messenger.ChainSnapshot
		want     protocol.MessageStatus
	}{
		{
			name: "successful relay",
			snapshot: func() messenger.ChainSnapshot {
				s := provenSnapshot(provenAt + period)
				s.Relay = &protocol.RelayResult{Success: true}
				return s
			},
			want: protocol.StatusRelayed,
		},
		{
			name: "failed relay",
			snapshot: func() messenger.ChainSnapshot {
				s := provenSnapshot(provenAt + period)
				s.Relay = &protocol.RelayResult{Success: false}
				return s
			},
			want: protocol.StatusFailed,
		},
		{
			name: "relay wins over a missing source receipt",
			snapshot: func() messenger.ChainSnapshot {
				return messenger.ChainSnapshot{Relay: &protocol.RelayResult{Success: true}}
			},
			want: protocol.StatusRelayed,
		},
		{
			name: "source receipt reorged out",
			snapshot: func() messenger.ChainSnapshot {
				s := provenSnapshot(provenAt + period)
				s.Included = false
				return s
			},
			want: protocol.StatusUnconfirmed,
		},
		{
			name: "no output yet",
			snapshot: func() messenger.ChainSnapshot {
				s := provenSnapshot(provenAt)
				s.LatestOutput = nil
				s.Proven, s.ProvenOutput = nil, nil
				return s
			},
			want: protocol.StatusUnconfirmed,
		},
		{
			name: "latest output below the message block",
			snapshot: func() messenger.ChainSnapshot {
				s := provenSnapshot(provenAt)
				s.LatestOutput = &protocol.OutputProposal{Index: big.NewInt(2), L2BlockNumber: 9}
				return s
			},
			want: protocol.StatusUnconfirmed,
		},
		{
			name: "output at exactly the message block covers it",
			snapshot: func() messenger.ChainSnapshot {
				s := provenSnapshot(provenAt)
				s.LatestOutput = &protocol.OutputProposal{Index: big.NewInt(3), L2BlockNumber: 10}
				s.Proven, s.ProvenOutput = nil, nil
				return s
			},
			want: protocol.StatusReadyToProve,
		},
		{
			name: "not proven",
			snapshot: func() messenger.ChainSnapshot {
				s := provenSnapshot(provenAt)
				s.Proven, s.ProvenOutput = nil, nil
				return s
			},
			want: protocol.StatusReadyToProve,
		},
		{
			name: "proven output was replaced",
			snapshot: func() messenger.ChainSnapshot {
				s := provenSnapshot(provenAt + period)
				s.ProvenOutput = &protocol.OutputProposal{Index: big.NewInt(3), OutputRoot: common.HexToHash("0x0b"), L2BlockNumber: 11}
				return s
			},
			want: protocol.StatusReadyToProve,
		},
		{
			name: "proven output was deleted",
			snapshot: func() messenger.ChainSnapshot {
				s := provenSnapshot(provenAt + period)
				s.ProvenOutput = nil
				return s
			},
			want: protocol.StatusReadyToProve,
		},
		{
			name:     "one second before the deadline",
			snapshot: func() messenger.ChainSnapshot { return provenSnapshot(provenAt + period - 1) },
			want:     protocol.StatusInChallengePeriod,
		},
		{
			name:     "exactly at the deadline",
			snapshot: func() messenger.ChainSnapshot { return provenSnapshot(provenAt + period) },
			want:     protocol.StatusReadyForRelay,
		},
		{
			name:     "long after the deadline",
			snapshot: func() messenger.ChainSnapshot { return provenSnapshot(provenAt + 10*period) },
			want:     protocol.StatusReadyForRelay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(tt.snapshot()))
		})
	}
}

func TestDerive_IsPure(t *testing.T) {
	s := provenSnapshot(provenAt + 50)
	first := Derive(s)
	second := Derive(s)
	assert.Equal(t, first, second)
	assert.Equal(t, provenSnapshot(provenAt+50), s)
}

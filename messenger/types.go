package messenger

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/joonkeep/kanvas/protocol"
)

const (
	OperationProve    = "prove"
	OperationFinalize = "finalize"
	OperationWait     = "wait"
)

// DecodedEvent is a bridge contract log decoded against its ABI.
type DecodedEvent struct {
	Contract string
	Name     string
	Address  common.Address
	LogIndex uint
	Fields   map[string]any
	// Message is set when the event carries a withdrawal. Chain ids are filled in by the tracker.
	Message *protocol.Message
}

// ChainSnapshot is the set of chain facts one status resolution is derived from.
type ChainSnapshot struct {
	// Included is false when the source receipt can no longer be found.
	Included    bool
	SourceBlock protocol.BlockRef
	Relay       *protocol.RelayResult
	// LatestOutput is the highest-index committed output.
	LatestOutput *protocol.OutputProposal
	Proven       *protocol.ProvenWithdrawal
	// ProvenOutput is the output currently stored at the proven index.
	ProvenOutput     *protocol.OutputProposal
	ChallengePeriod  uint64
	DestinationBlock uint64
	DestinationTime  uint64
}

// Resolution is a derived status together with the facts it was derived from.
type Resolution struct {
	Status   protocol.MessageStatus
	Snapshot ChainSnapshot
}

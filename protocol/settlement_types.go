package protocol

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// OutputProposal is an output root committed by the output oracle on the destination chain.
type OutputProposal struct {
	Index         *big.Int
	OutputRoot    common.Hash
	Timestamp     uint64
	L2BlockNumber uint64
}

// Covers reports whether the output commits to state at or after the given source block.
func (o *OutputProposal) Covers(blockNumber uint64) bool {
	return o != nil && o.L2BlockNumber >= blockNumber
}

// ProvenWithdrawal is the portal's record of a submitted proof.
type ProvenWithdrawal struct {
	OutputRoot    common.Hash
	Timestamp     uint64
	L2OutputIndex *big.Int
}

// ChallengeDeadline is the first destination timestamp at which the withdrawal may be finalized.
func (p *ProvenWithdrawal) ChallengeDeadline(challengePeriod uint64) uint64 {
	return p.Timestamp + challengePeriod
}

// RelayResult is the portal's finalization record for a withdrawal.
type RelayResult struct {
	WithdrawalHash common.Hash
	Success        bool
	TxHash         common.Hash
	BlockNumber    uint64
}

// OutputRootProof is the preimage of an output root. Field names follow the ABI tuple components.
type OutputRootProof struct {
	Version                  [32]byte
	StateRoot                [32]byte
	MessagePasserStorageRoot [32]byte
	LatestBlockhash          [32]byte
}

// WithdrawalProof is everything the portal needs to prove a withdrawal against an output.
type WithdrawalProof struct {
	L2OutputIndex   *big.Int
	OutputRootProof OutputRootProof
	StorageProof    [][]byte
}

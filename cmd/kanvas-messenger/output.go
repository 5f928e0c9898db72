package main

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/joonkeep/kanvas/messenger"
	"github.com/joonkeep/kanvas/protocol"
)

type statusOutput struct {
	Message          protocol.Message         `json:"message"`
	Status           string                   `json:"status"`
	LatestOutput     *protocol.OutputProposal `json:"latestOutput,omitempty"`
	ProvenAt         uint64                   `json:"provenAt,omitempty"`
	FinalizableAt    uint64                   `json:"finalizableAt,omitempty"`
	DestinationBlock uint64                   `json:"destinationBlock"`
	DestinationTime  uint64                   `json:"destinationTime"`
	RelayTxHash      *common.Hash             `json:"relayTxHash,omitempty"`
}

func newStatusOutput(message protocol.Message, res messenger.Resolution) statusOutput {
	out := statusOutput{
		Message:          message,
		Status:           res.Status.String(),
		LatestOutput:     res.Snapshot.LatestOutput,
		DestinationBlock: res.Snapshot.DestinationBlock,
		DestinationTime:  res.Snapshot.DestinationTime,
	}
	if proven := res.Snapshot.Proven; proven != nil {
		out.ProvenAt = proven.Timestamp
		out.FinalizableAt = proven.ChallengeDeadline(res.Snapshot.ChallengePeriod)
	}
	if relay := res.Snapshot.Relay; relay != nil {
		out.RelayTxHash = &relay.TxHash
	}
	return out
}

type receiptOutput struct {
	TxHash      common.Hash `json:"txHash"`
	BlockNumber uint64      `json:"blockNumber"`
	BlockHash   common.Hash `json:"blockHash"`
	Status      uint64      `json:"status"`
	GasUsed     uint64      `json:"gasUsed"`
}

func newReceiptOutput(receipt *types.Receipt) receiptOutput {
	out := receiptOutput{
		TxHash:    receipt.TxHash,
		BlockHash: receipt.BlockHash,
		Status:    receipt.Status,
		GasUsed:   receipt.GasUsed,
	}
	if receipt.BlockNumber != nil {
		out.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return out
}

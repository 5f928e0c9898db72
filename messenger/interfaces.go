package messenger

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/joonkeep/kanvas/protocol"
)

// ChainClient is the read surface of one chain. *ethclient.Client satisfies it.
type ChainClient interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	// HeaderByNumber returns the latest header when number is nil.
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// EventDecoder decodes the logs emitted by a single bridge contract.
type EventDecoder interface {
	// Contract is the contract name used in logs.
	Contract() string
	// DecodeEvent decodes one log of the contract. Logs with an unknown topic return an error.
	DecodeEvent(log types.Log) (DecodedEvent, error)
}

// SettlementReader reads the destination-chain settlement contracts: the output oracle and the portal.
type SettlementReader interface {
	// LatestOutput returns the highest-index committed output, or nil when none exists.
	LatestOutput(ctx context.Context) (*protocol.OutputProposal, error)
	// OutputAt returns the output stored at index.
	OutputAt(ctx context.Context, index *big.Int) (*protocol.OutputProposal, error)
	// ProvenWithdrawal returns the proof record of a withdrawal, or nil when it was never proven.
	ProvenWithdrawal(ctx context.Context, withdrawalHash common.Hash) (*protocol.ProvenWithdrawal, error)
	// RelayResult returns the finalization record of the message, or nil when it was never finalized.
	RelayResult(ctx context.Context, message protocol.Message) (*protocol.RelayResult, error)
	// ChallengePeriod returns the finalization period in seconds.
	ChallengePeriod(ctx context.Context) (uint64, error)
	// LatestHeader returns the latest destination block; its timestamp is the clock for the challenge window.
	LatestHeader(ctx context.Context) (*types.Header, error)
}

// ProofProvider builds the prove payload for a message against a committed output.
type ProofProvider interface {
	GetWithdrawalProof(ctx context.Context, message protocol.Message, output protocol.OutputProposal) (protocol.WithdrawalProof, error)
}

// Transmitter submits prove and finalize transactions to the destination chain and waits for
// their receipts. A mined but reverted transaction is returned with its receipt and a
// *protocol.TransactionRevertedError.
type Transmitter interface {
	ProveWithdrawal(ctx context.Context, message protocol.Message, proof protocol.WithdrawalProof) (*types.Receipt, error)
	FinalizeWithdrawal(ctx context.Context, message protocol.Message) (*types.Receipt, error)
}

// StatusResolver derives the current status of a message from chain state.
type StatusResolver interface {
	Resolve(ctx context.Context, message protocol.Message) (Resolution, error)
}

// Observer is an auxiliary poller started alongside a wait and closed when the wait returns.
type Observer interface {
	Start(ctx context.Context) error
	Close() error
}

// Monitoring provides all core monitoring functionality for the messenger. Also can be implemented as a no-op.
type Monitoring interface {
	// Metrics returns the metrics labeler for the messenger.
	Metrics() MetricLabeler
}

// MetricLabeler provides all metric recording functionality for the messenger.
type MetricLabeler interface {
	// With returns a new metrics labeler with the given key-value pairs.
	With(keyValues ...string) MetricLabeler
	// IncrementStatusResolutions counts resolved statuses by status.
	IncrementStatusResolutions(ctx context.Context, status protocol.MessageStatus)
	// IncrementReorgsObserved counts block hash changes seen while waiting for stable inclusion.
	IncrementReorgsObserved(ctx context.Context)
	// IncrementSubmissions counts prove and finalize submissions.
	IncrementSubmissions(ctx context.Context, operation string)
	// IncrementSubmissionReverts counts prove and finalize transactions mined with a failed status.
	IncrementSubmissionReverts(ctx context.Context, operation string)
	// RecordWaitDuration records how long a wait for a status took.
	RecordWaitDuration(ctx context.Context, target protocol.MessageStatus, duration time.Duration)
}

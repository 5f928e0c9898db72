package statusresolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/sync/errgroup"

	"github.com/joonkeep/kanvas/messenger"
	"github.com/joonkeep/kanvas/protocol"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

var _ messenger.StatusResolver = (*Resolver)(nil)

// ReceiptSource fetches source-chain receipts.
type ReceiptSource interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Resolver reads the chain facts of a message and derives its status from them.
type Resolver struct {
	lggr       logger.Logger
	source     ReceiptSource
	settlement messenger.SettlementReader
	metrics    messenger.MetricLabeler
}

func NewResolver(lggr logger.Logger, source ReceiptSource, settlement messenger.SettlementReader, metrics messenger.MetricLabeler) (*Resolver, error) {
	var errs []error
	appendIfNil := func(field any, fieldName string) {
		if field == nil {
			errs = append(errs, fmt.Errorf("%s is not set", fieldName))
		}
	}
	appendIfNil(lggr, "logger")
	appendIfNil(source, "source receipt reader")
	appendIfNil(settlement, "settlement reader")
	appendIfNil(metrics, "metrics")
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Resolver{
		lggr:       lggr,
		source:     source,
		settlement: settlement,
		metrics:    metrics,
	}, nil
}

// Resolve snapshots the chain state of the message and derives its status. Nothing is cached
// between calls.
func (r *Resolver) Resolve(ctx context.Context, message protocol.Message) (messenger.Resolution, error) {
	snapshot, err := r.Snapshot(ctx, message)
	if err != nil {
		return messenger.Resolution{}, err
	}
	status := Derive(snapshot)
	r.metrics.IncrementStatusResolutions(ctx, status)
	r.lggr.Debugw("Resolved message status",
		"withdrawalHash", message.WithdrawalHash.Hex(),
		"status", status.String(),
		"destinationTime", snapshot.DestinationTime)
	return messenger.Resolution{Status: status, Snapshot: snapshot}, nil
}

// Snapshot reads every fact a status is derived from. Independent reads run concurrently.
func (r *Resolver) Snapshot(ctx context.Context, message protocol.Message) (messenger.ChainSnapshot, error) {
	var s messenger.ChainSnapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		receipt, err := r.source.TransactionReceipt(gctx, message.TxHash)
		if errors.Is(err, ethereum.NotFound) || (err == nil && receipt == nil) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get source receipt: %w", err)
		}
		s.Included = true
		s.SourceBlock = protocol.BlockRef{Number: receipt.BlockNumber.Uint64(), Hash: receipt.BlockHash}
		return nil
	})
	g.Go(func() error {
		relay, err := r.settlement.RelayResult(gctx, message)
		if err != nil {
			return fmt.Errorf("failed to get relay result: %w", err)
		}
		s.Relay = relay
		return nil
	})
	g.Go(func() error {
		output, err := r.settlement.LatestOutput(gctx)
		if err != nil {
			return fmt.Errorf("failed to get latest output: %w", err)
		}
		s.LatestOutput = output
		return nil
	})
	g.Go(func() error {
		proven, err := r.settlement.ProvenWithdrawal(gctx, message.WithdrawalHash)
		if err != nil {
			return fmt.Errorf("failed to get proven withdrawal: %w", err)
		}
		if proven == nil {
			return nil
		}
		s.Proven = proven
		output, err := r.settlement.OutputAt(gctx, proven.L2OutputIndex)
		if err != nil {
			return fmt.Errorf("failed to get output %s: %w", proven.L2OutputIndex, err)
		}
		s.ProvenOutput = output
		return nil
	})
	g.Go(func() error {
		period, err := r.settlement.ChallengePeriod(gctx)
		if err != nil {
			return fmt.Errorf("failed to get challenge period: %w", err)
		}
		s.ChallengePeriod = period
		return nil
	})
	g.Go(func() error {
		header, err := r.settlement.LatestHeader(gctx)
		if err != nil {
			return fmt.Errorf("failed to get latest destination header: %w", err)
		}
		s.DestinationBlock = header.Number.Uint64()
		s.DestinationTime = header.Time
		return nil
	})
	if err := g.Wait(); err != nil {
		return messenger.ChainSnapshot{}, err
	}
	return s, nil
}

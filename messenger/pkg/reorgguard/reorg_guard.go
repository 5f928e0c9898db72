package reorgguard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/joonkeep/kanvas/messenger"
	"github.com/joonkeep/kanvas/protocol"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

const operationAwaitStable = "await stable inclusion"

// ReceiptSource fetches transaction receipts. messenger.ChainClient satisfies it.
type ReceiptSource interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Guard waits until a transaction's including block stops changing.
type Guard struct {
	lggr    logger.Logger
	client  ReceiptSource
	metrics messenger.MetricLabeler
}

func NewGuard(lggr logger.Logger, client ReceiptSource, metrics messenger.MetricLabeler) (*Guard, error) {
	var errs []error
	if lggr == nil {
		errs = append(errs, errors.New("logger is not set"))
	}
	if client == nil {
		errs = append(errs, errors.New("receipt source is not set"))
	}
	if metrics == nil {
		errs = append(errs, errors.New("metrics are not set"))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &Guard{lggr: lggr, client: client, metrics: metrics}, nil
}

// stability counts consecutive observations of the same block hash.
type stability struct {
	prev  common.Hash
	seen  bool
	count int
}

// observe records one block hash and reports whether it differs from the previous one.
func (s *stability) observe(hash common.Hash) bool {
	if !s.seen {
		s.prev, s.seen, s.count = hash, true, 0
		return false
	}
	if hash != s.prev {
		s.prev, s.count = hash, 0
		return true
	}
	s.count++
	return false
}

func (s *stability) reset() {
	*s = stability{}
}

// AwaitStableInclusion polls the receipt of txHash until the same block hash has been
// re-observed window times in a row. A block hash change or a vanished receipt restarts the
// count. The wait has no deadline of its own; it ends when ctx is cancelled.
func (g *Guard) AwaitStableInclusion(ctx context.Context, txHash common.Hash, window int, pollInterval time.Duration) (*types.Receipt, error) {
	if window < 0 {
		return nil, fmt.Errorf("stability window must not be negative, got %d", window)
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", pollInterval)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var st stability
	for {
		receipt, err := g.client.TransactionReceipt(ctx, txHash)
		switch {
		case ctx.Err() != nil:
			return nil, &protocol.CancellationError{Operation: operationAwaitStable, Cause: ctx.Err()}
		case errors.Is(err, ethereum.NotFound) || (err == nil && receipt == nil):
			if st.seen {
				g.lggr.Warnw("Reorg observed, transaction no longer included",
					"txHash", txHash.Hex(),
					"previousBlockHash", st.prev.Hex())
				g.metrics.IncrementReorgsObserved(ctx)
			} else {
				g.lggr.Debugw("Transaction not yet included", "txHash", txHash.Hex())
			}
			st.reset()
		case err != nil:
			return nil, fmt.Errorf("failed to fetch receipt for tx %s: %w", txHash.Hex(), err)
		default:
			previous := st.prev
			if st.observe(receipt.BlockHash) {
				g.lggr.Warnw("Reorg observed, restarting stability window",
					"txHash", txHash.Hex(),
					"previousBlockHash", previous.Hex(),
					"blockHash", receipt.BlockHash.Hex(),
					"blockNumber", receipt.BlockNumber)
				g.metrics.IncrementReorgsObserved(ctx)
			}
			if st.count >= window {
				if receipt.Status != types.ReceiptStatusSuccessful {
					g.lggr.Warnw("Stable transaction has a failed status", "txHash", txHash.Hex())
				}
				g.lggr.Infow("Transaction inclusion is stable",
					"txHash", txHash.Hex(),
					"blockHash", receipt.BlockHash.Hex(),
					"blockNumber", receipt.BlockNumber,
					"stablePolls", st.count)
				return receipt, nil
			}
			g.lggr.Debugw("Waiting for stable inclusion",
				"txHash", txHash.Hex(),
				"stablePolls", st.count,
				"window", window)
		}

		select {
		case <-ctx.Done():
			return nil, &protocol.CancellationError{Operation: operationAwaitStable, Cause: ctx.Err()}
		case <-ticker.C:
		}
	}
}

package controller

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/joonkeep/kanvas/messenger"
	"github.com/joonkeep/kanvas/protocol"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/smartcontractkit/chainlink-common/pkg/services"
)

const statusReporterName = "controller.StatusReporter"

// HeaderReader reads source-chain headers.
type HeaderReader interface {
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

var _ messenger.Observer = (*StatusReporter)(nil)

// StatusReporter periodically logs the status of one message next to the source chain head.
// It is an Observer: a wait starts it and closes it when the wait returns.
type StatusReporter struct {
	services.StateMachine
	stopCh   services.StopChan
	wg       sync.WaitGroup
	lggr     logger.Logger
	resolver messenger.StatusResolver
	source   HeaderReader
	message  protocol.Message
	interval time.Duration
	reports  atomic.Int64
}

func NewStatusReporter(lggr logger.Logger, resolver messenger.StatusResolver, source HeaderReader, message protocol.Message, interval time.Duration) (*StatusReporter, error) {
	if lggr == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if resolver == nil || source == nil {
		return nil, fmt.Errorf("resolver and source header reader are required")
	}
	if interval <= 0 {
		interval = messenger.DefaultStatusReportInterval
	}
	return &StatusReporter{
		lggr:     logger.Named(lggr, "StatusReporter"),
		resolver: resolver,
		source:   source,
		message:  message,
		interval: interval,
		stopCh:   make(chan struct{}),
	}, nil
}

func (s *StatusReporter) Start(_ context.Context) error {
	return s.StartOnce(statusReporterName, func() error {
		s.wg.Go(s.reportLoop)
		s.lggr.Debugw("Status reporter started", "interval", s.interval, "withdrawalHash", s.message.WithdrawalHash.Hex())
		return nil
	})
}

// Close stops the report loop and waits for it to exit.
func (s *StatusReporter) Close() error {
	return s.StopOnce(statusReporterName, func() error {
		close(s.stopCh)
		s.wg.Wait()
		s.lggr.Debugw("Status reporter stopped", "reports", s.reports.Load())
		return nil
	})
}

// Reports returns how many status lines were logged.
func (s *StatusReporter) Reports() int64 {
	return s.reports.Load()
}

func (s *StatusReporter) reportLoop() {
	ctx, cancel := s.stopCh.NewCtx()
	defer cancel()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.report(ctx)
		}
	}
}

func (s *StatusReporter) report(ctx context.Context) {
	res, err := s.resolver.Resolve(ctx, s.message)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.lggr.Warnw("Failed to resolve status for report", "error", err)
		}
		return
	}
	header, err := s.source.HeaderByNumber(ctx, nil)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.lggr.Warnw("Failed to read source head for report", "error", err)
		}
		return
	}
	s.reports.Add(1)
	s.lggr.Infow("Message status",
		"withdrawalHash", s.message.WithdrawalHash.Hex(),
		"status", res.Status.String(),
		"messageBlock", s.message.Block.Number,
		"latestSourceBlock", header.Number)
}

func (s *StatusReporter) Ready() error {
	return s.StateMachine.Ready()
}

func (s *StatusReporter) HealthReport() map[string]error {
	return map[string]error{s.Name(): s.Ready()}
}

func (s *StatusReporter) Name() string {
	return statusReporterName
}

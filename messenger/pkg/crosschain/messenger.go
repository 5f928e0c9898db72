// Package crosschain ties the tracker, the reorg guard, the status resolver and the controller into
// one messenger for a source and destination chain pair.
package crosschain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/joonkeep/kanvas/messenger"
	"github.com/joonkeep/kanvas/messenger/pkg/controller"
	"github.com/joonkeep/kanvas/messenger/pkg/reorgguard"
	"github.com/joonkeep/kanvas/messenger/pkg/statusresolver"
	"github.com/joonkeep/kanvas/messenger/pkg/tracker"
	"github.com/joonkeep/kanvas/protocol"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

type Params struct {
	Lggr        logger.Logger
	Tracker     *tracker.Tracker
	Source      messenger.ChainClient
	Settlement  messenger.SettlementReader
	Proofs      messenger.ProofProvider
	Transmitter messenger.Transmitter
	Monitoring  messenger.Monitoring

	PollInterval         time.Duration
	StatusReportInterval time.Duration
	ReorgPollInterval    time.Duration
	// ReorgStabilityWindow is the number of unchanged re-observations AwaitStableInclusion needs.
	// Non-positive values use messenger.DefaultReorgStabilityWindow.
	ReorgStabilityWindow int
}

// CrossChainMessenger follows withdrawals from the source chain to their relay on the destination chain.
type CrossChainMessenger struct {
	lggr       logger.Logger
	tracker    *tracker.Tracker
	source     messenger.ChainClient
	guard      *reorgguard.Guard
	resolver   *statusresolver.Resolver
	controller *controller.Controller

	statusReportInterval time.Duration
	reorgPollInterval    time.Duration
	reorgWindow          int
}

func NewCrossChainMessenger(p Params) (*CrossChainMessenger, error) {
	var errs []error
	appendIfNil := func(field any, fieldName string) {
		if field == nil {
			errs = append(errs, fmt.Errorf("%s is not set", fieldName))
		}
	}
	appendIfNil(p.Lggr, "logger")
	appendIfNil(p.Tracker, "tracker")
	appendIfNil(p.Source, "source client")
	appendIfNil(p.Settlement, "settlement reader")
	appendIfNil(p.Monitoring, "monitoring")
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	lggr := logger.Named(p.Lggr, "CrossChainMessenger")
	guard, err := reorgguard.NewGuard(lggr, p.Source, p.Monitoring.Metrics())
	if err != nil {
		return nil, fmt.Errorf("failed to create reorg guard: %w", err)
	}
	resolver, err := statusresolver.NewResolver(lggr, p.Source, p.Settlement, p.Monitoring.Metrics())
	if err != nil {
		return nil, fmt.Errorf("failed to create status resolver: %w", err)
	}
	ctrl, err := controller.NewController(
		controller.WithLogger(lggr),
		controller.WithResolver(resolver),
		controller.WithProofProvider(p.Proofs),
		controller.WithTransmitter(p.Transmitter),
		controller.WithMonitoring(p.Monitoring),
		controller.WithPollInterval(p.PollInterval),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create controller: %w", err)
	}

	m := &CrossChainMessenger{
		lggr:                 lggr,
		tracker:              p.Tracker,
		source:               p.Source,
		guard:                guard,
		resolver:             resolver,
		controller:           ctrl,
		statusReportInterval: p.StatusReportInterval,
		reorgPollInterval:    p.ReorgPollInterval,
		reorgWindow:          p.ReorgStabilityWindow,
	}
	if m.reorgPollInterval <= 0 {
		m.reorgPollInterval = messenger.DefaultReorgPollInterval
	}
	if m.reorgWindow <= 0 {
		m.reorgWindow = messenger.DefaultReorgStabilityWindow
	}
	return m, nil
}

// ResolveMessage extracts the message from a source receipt.
func (m *CrossChainMessenger) ResolveMessage(receipt *types.Receipt) (protocol.Message, error) {
	return m.tracker.Resolve(receipt)
}

// ResolveTransaction fetches the source receipt of txHash and extracts its message.
func (m *CrossChainMessenger) ResolveTransaction(ctx context.Context, txHash common.Hash) (protocol.Message, error) {
	receipt, err := m.source.TransactionReceipt(ctx, txHash)
	if err != nil {
		return protocol.Message{}, fmt.Errorf("failed to get receipt of tx %s: %w", txHash.Hex(), err)
	}
	return m.tracker.Resolve(receipt)
}

// DecodeTransaction returns every bridge event in the source receipt of txHash.
func (m *CrossChainMessenger) DecodeTransaction(ctx context.Context, txHash common.Hash) ([]messenger.DecodedEvent, error) {
	receipt, err := m.source.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt of tx %s: %w", txHash.Hex(), err)
	}
	return m.tracker.DecodeAll(receipt), nil
}

func (m *CrossChainMessenger) GetMessageStatus(ctx context.Context, message protocol.Message) (protocol.MessageStatus, error) {
	res, err := m.controller.GetStatus(ctx, message)
	if err != nil {
		return 0, err
	}
	return res.Status, nil
}

// GetResolution returns the status together with the chain facts it was derived from.
func (m *CrossChainMessenger) GetResolution(ctx context.Context, message protocol.Message) (messenger.Resolution, error) {
	return m.controller.GetStatus(ctx, message)
}

// WaitForStatus blocks until the message reaches target, reporting progress while it waits.
func (m *CrossChainMessenger) WaitForStatus(ctx context.Context, message protocol.Message, target protocol.MessageStatus) (messenger.Resolution, error) {
	reporter, err := controller.NewStatusReporter(m.lggr, m.resolver, m.source, message, m.statusReportInterval)
	if err != nil {
		return messenger.Resolution{}, err
	}
	return m.controller.WaitForStatus(ctx, message, target, reporter)
}

func (m *CrossChainMessenger) ProveMessage(ctx context.Context, message protocol.Message) (*types.Receipt, error) {
	return m.controller.ProveMessage(ctx, message)
}

func (m *CrossChainMessenger) FinalizeMessage(ctx context.Context, message protocol.Message) (*types.Receipt, error) {
	return m.controller.FinalizeMessage(ctx, message)
}

// AwaitStableInclusion waits until the receipt of txHash stays in the same block for the configured window.
func (m *CrossChainMessenger) AwaitStableInclusion(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return m.guard.AwaitStableInclusion(ctx, txHash, m.reorgWindow, m.reorgPollInterval)
}

// FinalizeWithdrawal runs the whole withdrawal of txHash: stable inclusion, prove, the challenge
// period and finalization. Steps the message has already passed are skipped. It stops at the first
// error and returns the finalize receipt, or nil when the message was already relayed.
func (m *CrossChainMessenger) FinalizeWithdrawal(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	receipt, err := m.AwaitStableInclusion(ctx, txHash)
	if err != nil {
		return nil, err
	}
	message, err := m.tracker.Resolve(receipt)
	if err != nil {
		return nil, err
	}
	lggr := logger.With(m.lggr, "withdrawalHash", message.WithdrawalHash.Hex())

	res, err := m.WaitForStatus(ctx, message, protocol.StatusReadyToProve)
	if err != nil {
		return nil, err
	}
	if res.Status == protocol.StatusReadyToProve {
		if _, err = m.ProveMessage(ctx, message); err != nil {
			return nil, err
		}
		if res, err = m.controller.GetStatus(ctx, message); err != nil {
			return nil, err
		}
	}
	if proven := res.Snapshot.Proven; proven != nil {
		lggr.Infow("Withdrawal proven, waiting for the challenge period",
			"provenAt", proven.Timestamp,
			"challengeDeadline", proven.ChallengeDeadline(res.Snapshot.ChallengePeriod))
	}

	if res, err = m.WaitForStatus(ctx, message, protocol.StatusReadyForRelay); err != nil {
		return nil, err
	}
	var finalized *types.Receipt
	if res.Status == protocol.StatusReadyForRelay {
		if finalized, err = m.FinalizeMessage(ctx, message); err != nil {
			return finalized, err
		}
	}

	if _, err = m.WaitForStatus(ctx, message, protocol.StatusRelayed); err != nil {
		return finalized, err
	}
	lggr.Infow("Withdrawal finalized")
	return finalized, nil
}

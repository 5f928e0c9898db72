package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"

	"github.com/joonkeep/kanvas/messenger"
	"github.com/joonkeep/kanvas/protocol"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

// Controller drives a message from proof to relay. It waits for phases by polling the resolver and
// submits prove and finalize transactions only when the resolved phase allows them.
type Controller struct {
	lggr         logger.Logger
	resolver     messenger.StatusResolver
	proofs       messenger.ProofProvider
	transmitter  messenger.Transmitter
	monitoring   messenger.Monitoring
	pollInterval time.Duration

	// inFlight holds the operation currently submitting for a withdrawal hash.
	inFlight sync.Map
}

type Option func(*Controller)

func WithLogger(lggr logger.Logger) Option {
	return func(c *Controller) {
		c.lggr = lggr
	}
}

func WithResolver(resolver messenger.StatusResolver) Option {
	return func(c *Controller) {
		c.resolver = resolver
	}
}

func WithProofProvider(proofs messenger.ProofProvider) Option {
	return func(c *Controller) {
		c.proofs = proofs
	}
}

func WithTransmitter(transmitter messenger.Transmitter) Option {
	return func(c *Controller) {
		c.transmitter = transmitter
	}
}

func WithMonitoring(monitoring messenger.Monitoring) Option {
	return func(c *Controller) {
		c.monitoring = monitoring
	}
}

// WithPollInterval sets how often WaitForStatus re-resolves. Non-positive values keep the default.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Controller) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

func NewController(options ...Option) (*Controller, error) {
	c := &Controller{
		pollInterval: messenger.DefaultPollInterval,
	}
	for _, opt := range options {
		opt(c)
	}

	var errs []error
	appendIfNil := func(field any, fieldName string) {
		if field == nil {
			errs = append(errs, fmt.Errorf("%s is not set", fieldName))
		}
	}
	appendIfNil(c.lggr, "logger")
	appendIfNil(c.resolver, "resolver")
	appendIfNil(c.proofs, "proofProvider")
	appendIfNil(c.transmitter, "transmitter")
	appendIfNil(c.monitoring, "monitoring")
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return c, nil
}

// GetStatus resolves the current status of the message once.
func (c *Controller) GetStatus(ctx context.Context, message protocol.Message) (messenger.Resolution, error) {
	return c.resolver.Resolve(ctx, message)
}

// WaitForStatus polls until the message reaches target or a later status. Observers are started
// before the first poll and closed before returning, whatever the outcome.
func (c *Controller) WaitForStatus(ctx context.Context, message protocol.Message, target protocol.MessageStatus, observers ...messenger.Observer) (messenger.Resolution, error) {
	lggr := logger.With(c.lggr,
		"waitID", uuid.NewString(),
		"withdrawalHash", message.WithdrawalHash.Hex(),
		"target", target.String())

	started := make([]messenger.Observer, 0, len(observers))
	defer func() {
		for _, o := range started {
			if err := o.Close(); err != nil {
				lggr.Warnw("Failed to close observer", "error", err)
			}
		}
	}()
	for _, o := range observers {
		if err := o.Start(ctx); err != nil {
			return messenger.Resolution{}, fmt.Errorf("failed to start observer: %w", err)
		}
		started = append(started, o)
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	begin := time.Now()
	var previous *protocol.MessageStatus
	lggr.Infow("Waiting for message status")
	for {
		res, err := c.resolver.Resolve(ctx, message)
		if err != nil {
			if ctx.Err() != nil {
				return messenger.Resolution{}, &protocol.CancellationError{Operation: messenger.OperationWait, Cause: ctx.Err()}
			}
			return messenger.Resolution{}, fmt.Errorf("failed to resolve message status: %w", err)
		}

		if previous != nil && res.Status.Rank() < previous.Rank() {
			lggr.Warnw("Message status regressed, continuing to wait",
				"previous", previous.String(),
				"status", res.Status.String())
		}
		status := res.Status
		previous = &status

		if status.AtLeast(target) {
			elapsed := time.Since(begin)
			c.monitoring.Metrics().RecordWaitDuration(ctx, target, elapsed)
			lggr.Infow("Message reached status", "status", status.String(), "elapsed", elapsed)
			return res, nil
		}
		if status == protocol.StatusFailed {
			return res, &protocol.MessageFailedError{WithdrawalHash: message.WithdrawalHash, Target: target}
		}

		select {
		case <-ctx.Done():
			return messenger.Resolution{}, &protocol.CancellationError{Operation: messenger.OperationWait, Cause: ctx.Err()}
		case <-ticker.C:
		}
	}
}

// ProveMessage submits the withdrawal proof against the latest output. The message must be
// READY_TO_PROVE; otherwise nothing is submitted.
func (c *Controller) ProveMessage(ctx context.Context, message protocol.Message) (*types.Receipt, error) {
	release, err := c.acquire(message.WithdrawalHash, messenger.OperationProve, protocol.StatusReadyToProve)
	if err != nil {
		return nil, err
	}
	defer release()

	res, err := c.requireStatus(ctx, message, messenger.OperationProve, protocol.StatusReadyToProve)
	if err != nil {
		return nil, err
	}

	output := res.Snapshot.LatestOutput
	proof, err := c.proofs.GetWithdrawalProof(ctx, message, *output)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal proof for output %s: %w", output.Index, err)
	}

	c.lggr.Infow("Submitting withdrawal proof",
		"withdrawalHash", message.WithdrawalHash.Hex(),
		"l2OutputIndex", proof.L2OutputIndex,
		"l2BlockNumber", output.L2BlockNumber)
	c.monitoring.Metrics().IncrementSubmissions(ctx, messenger.OperationProve)
	receipt, err := c.transmitter.ProveWithdrawal(ctx, message, proof)
	return c.checkReceipt(ctx, messenger.OperationProve, receipt, err)
}

// FinalizeMessage relays the withdrawal once its challenge period has passed. The message must be
// READY_FOR_RELAY; otherwise nothing is submitted.
func (c *Controller) FinalizeMessage(ctx context.Context, message protocol.Message) (*types.Receipt, error) {
	release, err := c.acquire(message.WithdrawalHash, messenger.OperationFinalize, protocol.StatusReadyForRelay)
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := c.requireStatus(ctx, message, messenger.OperationFinalize, protocol.StatusReadyForRelay); err != nil {
		return nil, err
	}

	c.lggr.Infow("Submitting withdrawal finalization", "withdrawalHash", message.WithdrawalHash.Hex())
	c.monitoring.Metrics().IncrementSubmissions(ctx, messenger.OperationFinalize)
	receipt, err := c.transmitter.FinalizeWithdrawal(ctx, message)
	return c.checkReceipt(ctx, messenger.OperationFinalize, receipt, err)
}

// acquire marks a submission for the withdrawal as in flight. The returned func clears the mark.
func (c *Controller) acquire(withdrawalHash common.Hash, operation string, required protocol.MessageStatus) (func(), error) {
	if current, loaded := c.inFlight.LoadOrStore(withdrawalHash, operation); loaded {
		return nil, &protocol.IllegalTransitionError{
			Operation: operation,
			Required:  required,
			Reason:    fmt.Sprintf("a %s submission for withdrawal %s is already in flight", current, withdrawalHash.Hex()),
		}
	}
	return func() { c.inFlight.Delete(withdrawalHash) }, nil
}

func (c *Controller) requireStatus(ctx context.Context, message protocol.Message, operation string, required protocol.MessageStatus) (messenger.Resolution, error) {
	res, err := c.resolver.Resolve(ctx, message)
	if err != nil {
		if ctx.Err() != nil {
			return messenger.Resolution{}, &protocol.CancellationError{Operation: operation, Cause: ctx.Err()}
		}
		return messenger.Resolution{}, fmt.Errorf("failed to resolve message status: %w", err)
	}
	if res.Status != required {
		return res, &protocol.IllegalTransitionError{
			Operation: operation,
			Current:   res.Status,
			Required:  required,
		}
	}
	return res, nil
}

func (c *Controller) checkReceipt(ctx context.Context, operation string, receipt *types.Receipt, err error) (*types.Receipt, error) {
	var reverted *protocol.TransactionRevertedError
	switch {
	case errors.As(err, &reverted):
		c.monitoring.Metrics().IncrementSubmissionReverts(ctx, operation)
		c.lggr.Errorw("Transaction reverted", "operation", operation, "txHash", reverted.TxHash.Hex(), "reason", reverted.Reason)
		return receipt, err
	case err != nil:
		if ctx.Err() != nil {
			return receipt, &protocol.CancellationError{Operation: operation, Cause: ctx.Err()}
		}
		return receipt, fmt.Errorf("failed to submit %s transaction: %w", operation, err)
	case receipt == nil:
		return nil, fmt.Errorf("%s transaction returned no receipt", operation)
	case receipt.Status != types.ReceiptStatusSuccessful:
		c.monitoring.Metrics().IncrementSubmissionReverts(ctx, operation)
		c.lggr.Errorw("Transaction reverted", "operation", operation, "txHash", receipt.TxHash.Hex())
		return receipt, &protocol.TransactionRevertedError{Operation: operation, TxHash: receipt.TxHash}
	}

	c.lggr.Infow("Transaction succeeded",
		"operation", operation,
		"txHash", receipt.TxHash.Hex(),
		"blockNumber", receipt.BlockNumber)
	return receipt, nil
}

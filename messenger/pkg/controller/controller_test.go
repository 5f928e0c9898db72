package controller

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joonkeep/kanvas/internal/mocks"
	"github.com/joonkeep/kanvas/messenger"
	"github.com/joonkeep/kanvas/messenger/pkg/monitoring"
	"github.com/joonkeep/kanvas/protocol"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

var (
	message = protocol.Message{
		Nonce:          big.NewInt(7),
		WithdrawalHash: common.HexToHash("0xbeef"),
		TxHash:         common.HexToHash("0xfeed"),
		Block:          protocol.BlockRef{Number: 10},
	}
	latestOutput = &protocol.OutputProposal{Index: big.NewInt(3), OutputRoot: common.HexToHash("0x0a"), L2BlockNumber: 11}
	proof        = protocol.WithdrawalProof{L2OutputIndex: big.NewInt(3), StorageProof: [][]byte{{0x01}}}
)

type fixture struct {
	resolver    *mocks.MockStatusResolver
	proofs      *mocks.MockProofProvider
	transmitter *mocks.MockTransmitter
	controller  *Controller
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		resolver:    mocks.NewMockStatusResolver(t),
		proofs:      mocks.NewMockProofProvider(t),
		transmitter: mocks.NewMockTransmitter(t),
	}
	c, err := NewController(
		WithLogger(logger.Test(t)),
		WithResolver(f.resolver),
		WithProofProvider(f.proofs),
		WithTransmitter(f.transmitter),
		WithMonitoring(monitoring.NewNoopMessengerMonitoring()),
		WithPollInterval(time.Millisecond),
	)
	require.NoError(t, err)
	f.controller = c
	return f
}

func resolution(status protocol.MessageStatus) messenger.Resolution {
	return messenger.Resolution{
		Status:   status,
		Snapshot: messenger.ChainSnapshot{Included: true, LatestOutput: latestOutput},
	}
}

// sequence answers successive Resolve calls with statuses, repeating the last one.
func sequence(statuses ...protocol.MessageStatus) (func(context.Context, protocol.Message) (messenger.Resolution, error), *atomic.Int32) {
	var calls atomic.Int32
	return func(context.Context, protocol.Message) (messenger.Resolution, error) {
		i := int(calls.Add(1)) - 1
		if i >= len(statuses) {
			i = len(statuses) - 1
		}
		return resolution(statuses[i]), nil
	}, &calls
}

func successReceipt() *types.Receipt {
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: common.HexToHash("0x01"), BlockNumber: big.NewInt(200)}
}

func TestNewController_RequiresDependencies(t *testing.T) {
	_, err := NewController(WithLogger(logger.Test(t)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolver is not set")
	assert.Contains(t, err.Error(), "transmitter is not set")
	assert.NotContains(t, err.Error(), "logger is not set")
}

func TestProveMessage_WrongStatusSubmitsNothing(t *testing.T) {
	for _, status := range []protocol.MessageStatus{
		protocol.StatusUnconfirmed,
		protocol.StatusFailed,
		protocol.StatusInChallengePeriod,
		protocol.StatusReadyForRelay,
		protocol.StatusRelayed,
	} {
		t.Run(status.String(), func(t *testing.T) {
			f := newFixture(t)
			f.resolver.EXPECT().Resolve(mock.Anything, message).Return(resolution(status), nil).Once()

			_, err := f.controller.ProveMessage(context.Background(), message)
			var illegal *protocol.IllegalTransitionError
			require.ErrorAs(t, err, &illegal)
			assert.Equal(t, status, illegal.Current)
			assert.Equal(t, protocol.StatusReadyToProve, illegal.Required)
			f.transmitter.AssertNotCalled(t, "ProveWithdrawal", mock.Anything, mock.Anything, mock.Anything)
			f.proofs.AssertNotCalled(t, "GetWithdrawalProof", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestProveMessage_SubmitsProofForLatestOutput(t *testing.T) {
	f := newFixture(t)
	f.resolver.EXPECT().Resolve(mock.Anything, message).Return(resolution(protocol.StatusReadyToProve), nil).Once()
	f.proofs.EXPECT().GetWithdrawalProof(mock.Anything, message, *latestOutput).Return(proof, nil).Once()
	f.transmitter.EXPECT().ProveWithdrawal(mock.Anything, message, proof).Return(successReceipt(), nil).Once()

	receipt, err := f.controller.ProveMessage(context.Background(), message)
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0x01"), receipt.TxHash)
}

func TestProveMessage_RevertedReceipt(t *testing.T) {
	f := newFixture(t)
	f.resolver.EXPECT().Resolve(mock.Anything, message).Return(resolution(protocol.StatusReadyToProve), nil).Once()
	f.proofs.EXPECT().GetWithdrawalProof(mock.Anything, message, *latestOutput).Return(proof, nil).Once()
	reverted := successReceipt()
	reverted.Status = types.ReceiptStatusFailed
	f.transmitter.EXPECT().ProveWithdrawal(mock.Anything, message, proof).Return(reverted, nil).Once()

	receipt, err := f.controller.ProveMessage(context.Background(), message)
	var revertErr *protocol.TransactionRevertedError
	require.ErrorAs(t, err, &revertErr)
	assert.Equal(t, messenger.OperationProve, revertErr.Operation)
	assert.Equal(t, reverted.TxHash, revertErr.TxHash)
	assert.Same(t, reverted, receipt)
}

func TestProveMessage_ProofErrorSubmitsNothing(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("rollup node unavailable")
	f.resolver.EXPECT().Resolve(mock.Anything, message).Return(resolution(protocol.StatusReadyToProve), nil).Once()
	f.proofs.EXPECT().GetWithdrawalProof(mock.Anything, message, *latestOutput).Return(protocol.WithdrawalProof{}, boom).Once()

	_, err := f.controller.ProveMessage(context.Background(), message)
	require.ErrorIs(t, err, boom)
}

func TestFinalizeMessage_TransmitterRevertPassesThrough(t *testing.T) {
	f := newFixture(t)
	f.resolver.EXPECT().Resolve(mock.Anything, message).Return(resolution(protocol.StatusReadyForRelay), nil).Once()
	revertErr := &protocol.TransactionRevertedError{Operation: messenger.OperationFinalize, TxHash: common.HexToHash("0x02"), Reason: "KanvasPortal: withdrawal has already been finalized"}
	f.transmitter.EXPECT().FinalizeWithdrawal(mock.Anything, message).Return(nil, revertErr).Once()

	_, err := f.controller.FinalizeMessage(context.Background(), message)
	require.ErrorIs(t, err, revertErr)
}

func TestFinalizeMessage_DuringChallengePeriod(t *testing.T) {
	f := newFixture(t)
	f.resolver.EXPECT().Resolve(mock.Anything, message).Return(resolution(protocol.StatusInChallengePeriod), nil).Once()

	_, err := f.controller.FinalizeMessage(context.Background(), message)
	var illegal *protocol.IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, protocol.StatusReadyForRelay, illegal.Required)
	f.transmitter.AssertNotCalled(t, "FinalizeWithdrawal", mock.Anything, mock.Anything)
}

func TestFinalizeMessage_Success(t *testing.T) {
	f := newFixture(t)
	f.resolver.EXPECT().Resolve(mock.Anything, message).Return(resolution(protocol.StatusReadyForRelay), nil).Once()
	f.transmitter.EXPECT().FinalizeWithdrawal(mock.Anything, message).Return(successReceipt(), nil).Once()

	_, err := f.controller.FinalizeMessage(context.Background(), message)
	require.NoError(t, err)
}

func TestSubmission_InFlightDuplicateIsRejected(t *testing.T) {
	f := newFixture(t)
	entered := make(chan struct{})
	unblock := make(chan struct{})
	f.resolver.EXPECT().Resolve(mock.Anything, message).Return(resolution(protocol.StatusReadyForRelay), nil).Once()
	f.transmitter.EXPECT().FinalizeWithdrawal(mock.Anything, message).
		RunAndReturn(func(context.Context, protocol.Message) (*types.Receipt, error) {
			close(entered)
			<-unblock
			return successReceipt(), nil
		}).Once()

	done := make(chan error, 1)
	go func() {
		_, err := f.controller.FinalizeMessage(context.Background(), message)
		done <- err
	}()
	<-entered

	_, err := f.controller.FinalizeMessage(context.Background(), message)
	var illegal *protocol.IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.Contains(t, illegal.Reason, "already in flight")

	_, err = f.controller.ProveMessage(context.Background(), message)
	require.ErrorAs(t, err, &illegal)

	close(unblock)
	require.NoError(t, <-done)

	// The marker is released once the first submission returns.
	f.resolver.EXPECT().Resolve(mock.Anything, message).Return(resolution(protocol.StatusRelayed), nil).Once()
	_, err = f.controller.FinalizeMessage(context.Background(), message)
	require.ErrorAs(t, err, &illegal)
	assert.Empty(t, illegal.Reason)
	assert.Equal(t, protocol.StatusRelayed, illegal.Current)
}

func TestWaitForStatus_ContinuesAfterRegression(t *testing.T) {
	f := newFixture(t)
	resolve, calls := sequence(
		protocol.StatusReadyToProve,
		protocol.StatusUnconfirmed,
		protocol.StatusReadyToProve,
		protocol.StatusInChallengePeriod,
	)
	f.resolver.EXPECT().Resolve(mock.Anything, message).RunAndReturn(resolve)

	observer := mocks.NewMockObserver(t)
	observer.EXPECT().Start(mock.Anything).Return(nil).Once()
	observer.EXPECT().Close().Return(nil).Once()

	res, err := f.controller.WaitForStatus(context.Background(), message, protocol.StatusInChallengePeriod, observer)
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusInChallengePeriod, res.Status)
	assert.Equal(t, int32(4), calls.Load())
}

func TestWaitForStatus_ReturnsImmediatelyWhenPastTarget(t *testing.T) {
	f := newFixture(t)
	f.resolver.EXPECT().Resolve(mock.Anything, message).Return(resolution(protocol.StatusRelayed), nil).Once()

	res, err := f.controller.WaitForStatus(context.Background(), message, protocol.StatusReadyToProve)
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusRelayed, res.Status)
}

func TestWaitForStatus_FailedIsTerminal(t *testing.T) {
	f := newFixture(t)
	resolve, _ := sequence(protocol.StatusReadyForRelay, protocol.StatusFailed)
	f.resolver.EXPECT().Resolve(mock.Anything, message).RunAndReturn(resolve)

	_, err := f.controller.WaitForStatus(context.Background(), message, protocol.StatusRelayed)
	var failed *protocol.MessageFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, message.WithdrawalHash, failed.WithdrawalHash)
}

func TestWaitForStatus_CancellationClosesObservers(t *testing.T) {
	f := newFixture(t)
	f.resolver.EXPECT().Resolve(mock.Anything, message).Return(resolution(protocol.StatusUnconfirmed), nil)

	observer := mocks.NewMockObserver(t)
	observer.EXPECT().Start(mock.Anything).Return(nil).Once()
	observer.EXPECT().Close().Return(nil).Once()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.controller.WaitForStatus(ctx, message, protocol.StatusReadyToProve, observer)
	var cancelled *protocol.CancellationError
	require.ErrorAs(t, err, &cancelled)
	assert.Equal(t, messenger.OperationWait, cancelled.Operation)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitForStatus_ObserverStartFailureClosesStartedOnes(t *testing.T) {
	f := newFixture(t)
	first := mocks.NewMockObserver(t)
	first.EXPECT().Start(mock.Anything).Return(nil).Once()
	first.EXPECT().Close().Return(nil).Once()
	second := mocks.NewMockObserver(t)
	second.EXPECT().Start(mock.Anything).Return(errors.New("already started")).Once()

	_, err := f.controller.WaitForStatus(context.Background(), message, protocol.StatusReadyToProve, first, second)
	require.Error(t, err)
	f.resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestWaitForStatus_ResolverErrorPropagates(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("destination rpc down")
	f.resolver.EXPECT().Resolve(mock.Anything, message).Return(messenger.Resolution{}, boom).Once()

	_, err := f.controller.WaitForStatus(context.Background(), message, protocol.StatusReadyToProve)
	require.ErrorIs(t, err, boom)
}

func TestSubmission_CancelledResolveIsCancellation(t *testing.T) {
	for _, op := range []string{messenger.OperationProve, messenger.OperationFinalize} {
		t.Run(op, func(t *testing.T) {
			f := newFixture(t)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			f.resolver.EXPECT().Resolve(mock.Anything, message).RunAndReturn(
				func(ctx context.Context, _ protocol.Message) (messenger.Resolution, error) {
					return messenger.Resolution{}, ctx.Err()
				}).Once()

			var err error
			if op == messenger.OperationProve {
				_, err = f.controller.ProveMessage(ctx, message)
			} else {
				_, err = f.controller.FinalizeMessage(ctx, message)
			}
			var cancelled *protocol.CancellationError
			require.ErrorAs(t, err, &cancelled)
			assert.Equal(t, op, cancelled.Operation)
			require.ErrorIs(t, err, context.Canceled)
			f.transmitter.AssertNotCalled(t, "ProveWithdrawal", mock.Anything, mock.Anything, mock.Anything)
			f.transmitter.AssertNotCalled(t, "FinalizeWithdrawal", mock.Anything, mock.Anything)
		})
	}
}

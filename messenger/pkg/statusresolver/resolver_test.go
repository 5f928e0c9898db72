package statusresolver

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joonkeep/kanvas/internal/mocks"
	"github.com/joonkeep/kanvas/messenger/pkg/monitoring"
	"github.com/joonkeep/kanvas/protocol"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

var message = protocol.Message{
	Nonce:          big.NewInt(7),
	WithdrawalHash: common.HexToHash("0xbeef"),
	TxHash:         common.HexToHash("0xfeed"),
	Block:          protocol.BlockRef{Number: 10, Hash: common.HexToHash("0x10")},
}

type fixture struct {
	source     *mocks.MockChainClient
	settlement *mocks.MockSettlementReader
	resolver   *Resolver
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		source:     mocks.NewMockChainClient(t),
		settlement: mocks.NewMockSettlementReader(t),
	}
	r, err := NewResolver(logger.Test(t), f.source, f.settlement, monitoring.NewNoopMessengerMetricLabeler())
	require.NoError(t, err)
	f.resolver = r
	return f
}

func sourceReceipt(number uint64) *types.Receipt {
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      message.TxHash,
		BlockNumber: new(big.Int).SetUint64(number),
		BlockHash:   common.BigToHash(new(big.Int).SetUint64(number)),
	}
}

// expectUnproven sets up a message included at block 10 with output 3 covering block 11.
func (f fixture) expectUnproven(destinationTime uint64) {
	f.source.EXPECT().TransactionReceipt(mock.Anything, message.TxHash).Return(sourceReceipt(10), nil)
	f.settlement.EXPECT().RelayResult(mock.Anything, message).Return(nil, nil)
	f.settlement.EXPECT().LatestOutput(mock.Anything).Return(&protocol.OutputProposal{Index: big.NewInt(3), OutputRoot: root, L2BlockNumber: 11}, nil)
	f.settlement.EXPECT().ChallengePeriod(mock.Anything).Return(period, nil)
	f.settlement.EXPECT().LatestHeader(mock.Anything).Return(&types.Header{Number: big.NewInt(500), Time: destinationTime}, nil)
}

func TestNewResolver_RequiresDependencies(t *testing.T) {
	_, err := NewResolver(nil, nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settlement reader is not set")
}

func TestResolve_ReadyToProveWithoutProofRecord(t *testing.T) {
	f := newFixture(t)
	f.expectUnproven(provenAt)
	f.settlement.EXPECT().ProvenWithdrawal(mock.Anything, message.WithdrawalHash).Return(nil, nil)

	res, err := f.resolver.Resolve(context.Background(), message)
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusReadyToProve, res.Status)
	assert.True(t, res.Snapshot.Included)
	assert.Equal(t, uint64(500), res.Snapshot.DestinationBlock)
	f.settlement.AssertNotCalled(t, "OutputAt", mock.Anything, mock.Anything)
}

func TestResolve_ChallengeBoundary(t *testing.T) {
	for _, tc := range []struct {
		destinationTime uint64
		want            protocol.MessageStatus
	}{
		{provenAt + 99, protocol.StatusInChallengePeriod},
		{provenAt + 100, protocol.StatusReadyForRelay},
	} {
		f := newFixture(t)
		f.expectUnproven(tc.destinationTime)
		f.settlement.EXPECT().ProvenWithdrawal(mock.Anything, message.WithdrawalHash).
			Return(&protocol.ProvenWithdrawal{OutputRoot: root, Timestamp: provenAt, L2OutputIndex: big.NewInt(3)}, nil)
		f.settlement.EXPECT().OutputAt(mock.Anything, big.NewInt(3)).
			Return(&protocol.OutputProposal{Index: big.NewInt(3), OutputRoot: root, L2BlockNumber: 11}, nil)

		res, err := f.resolver.Resolve(context.Background(), message)
		require.NoError(t, err)
		assert.Equal(t, tc.want, res.Status, "destination time %d", tc.destinationTime)
	}
}

func TestResolve_IsPureWithoutStateChange(t *testing.T) {
	f := newFixture(t)
	f.expectUnproven(provenAt)
	f.settlement.EXPECT().ProvenWithdrawal(mock.Anything, message.WithdrawalHash).Return(nil, nil)

	first, err := f.resolver.Resolve(context.Background(), message)
	require.NoError(t, err)
	second, err := f.resolver.Resolve(context.Background(), message)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolve_RegressesAfterSourceReorg(t *testing.T) {
	f := newFixture(t)
	f.source.EXPECT().TransactionReceipt(mock.Anything, message.TxHash).Return(sourceReceipt(10), nil).Once()
	// The reorg moves the transaction past the latest output.
	f.source.EXPECT().TransactionReceipt(mock.Anything, message.TxHash).Return(sourceReceipt(12), nil).Once()
	f.settlement.EXPECT().RelayResult(mock.Anything, message).Return(nil, nil)
	f.settlement.EXPECT().LatestOutput(mock.Anything).Return(&protocol.OutputProposal{Index: big.NewInt(3), OutputRoot: root, L2BlockNumber: 11}, nil)
	f.settlement.EXPECT().ProvenWithdrawal(mock.Anything, message.WithdrawalHash).Return(nil, nil)
	f.settlement.EXPECT().ChallengePeriod(mock.Anything).Return(period, nil)
	f.settlement.EXPECT().LatestHeader(mock.Anything).Return(&types.Header{Number: big.NewInt(500), Time: provenAt}, nil)

	res, err := f.resolver.Resolve(context.Background(), message)
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusReadyToProve, res.Status)

	res, err = f.resolver.Resolve(context.Background(), message)
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusUnconfirmed, res.Status)
	assert.Equal(t, uint64(12), res.Snapshot.SourceBlock.Number)
}

func TestResolve_MissingSourceReceiptIsUnconfirmed(t *testing.T) {
	f := newFixture(t)
	f.source.EXPECT().TransactionReceipt(mock.Anything, message.TxHash).Return(nil, ethereum.NotFound)
	f.settlement.EXPECT().RelayResult(mock.Anything, message).Return(nil, nil)
	f.settlement.EXPECT().LatestOutput(mock.Anything).Return(&protocol.OutputProposal{Index: big.NewInt(3), OutputRoot: root, L2BlockNumber: 11}, nil)
	f.settlement.EXPECT().ProvenWithdrawal(mock.Anything, message.WithdrawalHash).Return(nil, nil)
	f.settlement.EXPECT().ChallengePeriod(mock.Anything).Return(period, nil)
	f.settlement.EXPECT().LatestHeader(mock.Anything).Return(&types.Header{Number: big.NewInt(500), Time: provenAt}, nil)

	res, err := f.resolver.Resolve(context.Background(), message)
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusUnconfirmed, res.Status)
	assert.False(t, res.Snapshot.Included)
}

func TestResolve_FailedRelay(t *testing.T) {
	f := newFixture(t)
	f.source.EXPECT().TransactionReceipt(mock.Anything, message.TxHash).Return(sourceReceipt(10), nil)
	f.settlement.EXPECT().RelayResult(mock.Anything, message).Return(&protocol.RelayResult{WithdrawalHash: message.WithdrawalHash}, nil)
	f.settlement.EXPECT().LatestOutput(mock.Anything).Return(nil, nil)
	f.settlement.EXPECT().ProvenWithdrawal(mock.Anything, message.WithdrawalHash).Return(nil, nil)
	f.settlement.EXPECT().ChallengePeriod(mock.Anything).Return(period, nil)
	f.settlement.EXPECT().LatestHeader(mock.Anything).Return(&types.Header{Number: big.NewInt(500), Time: provenAt}, nil)

	res, err := f.resolver.Resolve(context.Background(), message)
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusFailed, res.Status)
}

func TestResolve_PropagatesReadErrors(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("rpc unavailable")
	f.source.EXPECT().TransactionReceipt(mock.Anything, message.TxHash).Return(sourceReceipt(10), nil).Maybe()
	f.settlement.EXPECT().RelayResult(mock.Anything, message).Return(nil, nil).Maybe()
	f.settlement.EXPECT().LatestOutput(mock.Anything).Return(nil, boom)
	f.settlement.EXPECT().ProvenWithdrawal(mock.Anything, message.WithdrawalHash).Return(nil, nil).Maybe()
	f.settlement.EXPECT().ChallengePeriod(mock.Anything).Return(period, nil).Maybe()
	f.settlement.EXPECT().LatestHeader(mock.Anything).Return(&types.Header{Number: big.NewInt(500), Time: provenAt}, nil).Maybe()

	_, err := f.resolver.Resolve(context.Background(), message)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to get latest output")
}

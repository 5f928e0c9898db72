package controller

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joonkeep/kanvas/internal/mocks"
	"github.com/joonkeep/kanvas/protocol"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

func TestStatusReporter_ReportsUntilClosed(t *testing.T) {
	resolver := mocks.NewMockStatusResolver(t)
	resolver.EXPECT().Resolve(mock.Anything, message).Return(resolution(protocol.StatusInChallengePeriod), nil)
	source := mocks.NewMockChainClient(t)
	source.EXPECT().HeaderByNumber(mock.Anything, (*big.Int)(nil)).Return(&types.Header{Number: big.NewInt(42)}, nil)

	reporter, err := NewStatusReporter(logger.Test(t), resolver, source, message, 2*time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, reporter.Start(context.Background()))
	require.NoError(t, reporter.Ready())
	require.Eventually(t, func() bool { return reporter.Reports() >= 2 }, time.Second, time.Millisecond)

	require.NoError(t, reporter.Close())
	after := reporter.Reports()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, after, reporter.Reports())

	assert.Error(t, reporter.Close())
	assert.Error(t, reporter.Start(context.Background()))
}

func TestStatusReporter_DefaultsInterval(t *testing.T) {
	reporter, err := NewStatusReporter(logger.Test(t), mocks.NewMockStatusResolver(t), mocks.NewMockChainClient(t), message, 0)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, reporter.interval)
	assert.Equal(t, statusReporterName, reporter.Name())
}

func TestStatusReporter_ClosedByWait(t *testing.T) {
	f := newFixture(t)
	resolve, _ := sequence(protocol.StatusUnconfirmed, protocol.StatusUnconfirmed, protocol.StatusReadyToProve)
	f.resolver.EXPECT().Resolve(mock.Anything, message).RunAndReturn(resolve)
	source := mocks.NewMockChainClient(t)
	source.EXPECT().HeaderByNumber(mock.Anything, (*big.Int)(nil)).Return(&types.Header{Number: big.NewInt(42)}, nil).Maybe()

	reporter, err := NewStatusReporter(logger.Test(t), f.resolver, source, message, time.Millisecond)
	require.NoError(t, err)

	_, err = f.controller.WaitForStatus(context.Background(), message, protocol.StatusReadyToProve, reporter)
	require.NoError(t, err)
	assert.Error(t, reporter.Ready())
}

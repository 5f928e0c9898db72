package tracker_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/joonkeep/kanvas/integration/pkg/contracts"
	"github.com/joonkeep/kanvas/messenger/pkg/tracker"
	"github.com/joonkeep/kanvas/protocol"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

const (
	sourceChain = protocol.ChainID(2357)
	destChain   = protocol.ChainID(5)
)

var (
	passer = common.HexToAddress("0x4200000000000000000000000000000000000016")
	bridge = common.HexToAddress("0x4200000000000000000000000000000000000010")
	txHash = common.HexToHash("0xfeed")
)

func newRegistry(t *testing.T) *tracker.Registry {
	t.Helper()
	registry := tracker.NewRegistry()
	set := protocol.ContractSet{MessagePasser: passer, L2StandardBridge: bridge}
	for address, decoder := range contracts.SourceDecoders(set) {
		require.NoError(t, registry.Register(address, decoder))
	}
	return registry
}

func newTracker(t *testing.T) *tracker.Tracker {
	t.Helper()
	tr, err := tracker.NewTracker(logger.Test(t), newRegistry(t), sourceChain, destChain)
	require.NoError(t, err)
	return tr
}

func messagePassedLog(t *testing.T, nonce int64, index uint) *types.Log {
	t.Helper()
	msg := protocol.Message{
		Nonce:    big.NewInt(nonce),
		Sender:   common.HexToAddress("0x4200000000000000000000000000000000000007"),
		Target:   common.HexToAddress("0x9999999999999999999999999999999999999999"),
		Value:    big.NewInt(1e18),
		GasLimit: big.NewInt(100_000),
		Data:     []byte{},
		LogIndex: index,
		TxHash:   txHash,
		Block:    protocol.BlockRef{Number: 42, Hash: common.HexToHash("0x42")},
	}
	hash, err := protocol.HashWithdrawal(msg.WithdrawalTransaction())
	require.NoError(t, err)
	msg.WithdrawalHash = hash

	log, err := contracts.EncodeMessagePassedLog(passer, msg)
	require.NoError(t, err)
	return &log
}

func ethBridgeInitiatedLog(t *testing.T, index uint) *types.Log {
	t.Helper()
	event := contracts.L2StandardBridgeABI.Events["ETHBridgeInitiated"]
	data, err := event.Inputs.NonIndexed().Pack(big.NewInt(1e18), []byte{})
	require.NoError(t, err)
	return &types.Log{
		Address: bridge,
		Topics: []common.Hash{
			event.ID,
			common.BytesToHash(common.HexToAddress("0x01").Bytes()),
			common.BytesToHash(common.HexToAddress("0x02").Bytes()),
		},
		Data:   data,
		TxHash: txHash,
		Index:  index,
	}
}

func TestTracker_Resolve(t *testing.T) {
	tr := newTracker(t)
	receipt := &types.Receipt{
		TxHash: txHash,
		Logs: []*types.Log{
			ethBridgeInitiatedLog(t, 0),
			// Unregistered contract, ignored even though it carries the same topic.
			func() *types.Log {
				l := messagePassedLog(t, 99, 1)
				l.Address = common.HexToAddress("0xbad")
				return l
			}(),
			messagePassedLog(t, 7, 2),
		},
	}

	msg, err := tr.Resolve(receipt)
	require.NoError(t, err)
	require.Equal(t, 0, msg.Nonce.Cmp(big.NewInt(7)))
	require.Equal(t, sourceChain, msg.SourceChain)
	require.Equal(t, destChain, msg.DestChain)
	require.Equal(t, uint(2), msg.LogIndex)
	require.Equal(t, uint64(42), msg.Block.Number)
}

func TestTracker_Resolve_EventNotFound(t *testing.T) {
	tr := newTracker(t)
	receipt := &types.Receipt{
		TxHash: txHash,
		Logs:   []*types.Log{ethBridgeInitiatedLog(t, 0)},
	}

	_, err := tr.Resolve(receipt)
	var notFound *protocol.EventNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, txHash, notFound.TxHash)
	require.Equal(t, tracker.DefaultExpectedEvent, notFound.Event)

	_, err = tr.Resolve(&types.Receipt{TxHash: txHash})
	require.ErrorAs(t, err, &notFound)
}

func TestTracker_Resolve_MultipleEvents(t *testing.T) {
	tr := newTracker(t)
	receipt := &types.Receipt{
		TxHash: txHash,
		Logs:   []*types.Log{messagePassedLog(t, 7, 0), messagePassedLog(t, 8, 1)},
	}
	_, err := tr.Resolve(receipt)
	require.ErrorContains(t, err, "carries 2 MessagePassed events")
}

func TestTracker_Resolve_TamperedHash(t *testing.T) {
	tr := newTracker(t)
	log := messagePassedLog(t, 7, 0)
	// Rewrite the nonce topic so the event no longer matches its withdrawal hash.
	log.Topics[1] = common.BigToHash(big.NewInt(8))
	_, err := tr.Resolve(&types.Receipt{TxHash: txHash, Logs: []*types.Log{log}})
	require.ErrorContains(t, err, "withdrawal hash mismatch")
}

func TestTracker_DecodeAll(t *testing.T) {
	tr := newTracker(t)
	receipt := &types.Receipt{
		TxHash: txHash,
		Logs: []*types.Log{
			ethBridgeInitiatedLog(t, 0),
			{Address: passer, Topics: []common.Hash{common.HexToHash("0x01")}},
			messagePassedLog(t, 7, 2),
		},
	}
	events := tr.DecodeAll(receipt)
	require.Len(t, events, 2)
	require.Equal(t, "ETHBridgeInitiated", events[0].Name)
	require.Equal(t, "MessagePassed", events[1].Name)
}

func TestNewTracker_Validation(t *testing.T) {
	_, err := tracker.NewTracker(nil, nil, 0, 0)
	require.ErrorContains(t, err, "logger is not set")
	require.ErrorContains(t, err, "registry is not set")
	require.ErrorContains(t, err, "chain ids are required")
}

func TestRegistry(t *testing.T) {
	registry := newRegistry(t)
	require.Equal(t, []common.Address{bridge, passer}, registry.Addresses())

	err := registry.Register(passer, contracts.NewMessagePasserDecoder())
	require.ErrorContains(t, err, "already registered")

	err = registry.Register(common.Address{}, contracts.NewMessagePasserDecoder())
	require.ErrorContains(t, err, "zero address")

	decoder, ok := registry.GetDecoder(passer)
	require.True(t, ok)
	require.Equal(t, contracts.MessagePasser, decoder.Contract())

	_, ok = registry.GetDecoder(common.HexToAddress("0x01"))
	require.False(t, ok)
}

package proofprovider

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient/gethclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joonkeep/kanvas/integration/pkg/rollupclient"
	"github.com/joonkeep/kanvas/protocol"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

var (
	passer      = common.HexToAddress("0x4200000000000000000000000000000000000016")
	storageRoot = common.HexToHash("0x5e")
	stateRoot   = common.HexToHash("0x57")
	blockHash   = common.HexToHash("0xb1")
	message     = protocol.Message{WithdrawalHash: common.HexToHash("0xbeef"), Block: protocol.BlockRef{Number: 10}}
)

type fakeProofs struct {
	account *gethclient.AccountResult
	keys    []string
	block   *big.Int
}

func (f *fakeProofs) GetProof(_ context.Context, account common.Address, keys []string, blockNumber *big.Int) (*gethclient.AccountResult, error) {
	f.keys, f.block = keys, blockNumber
	return f.account, nil
}

type fakeOutputs map[uint64]*rollupclient.OutputResponse

func (f fakeOutputs) OutputAtBlock(_ context.Context, blockNumber uint64) (*rollupclient.OutputResponse, error) {
	return f[blockNumber], nil
}

func committedOutput() protocol.OutputProposal {
	root := protocol.OutputRoot(protocol.OutputRootProof{
		StateRoot:                stateRoot,
		MessagePasserStorageRoot: storageRoot,
		LatestBlockhash:          blockHash,
	})
	return protocol.OutputProposal{Index: big.NewInt(3), OutputRoot: root, L2BlockNumber: 11}
}

func newProvider(t *testing.T, value int64) (*EvmProofProvider, *fakeProofs) {
	t.Helper()
	proofs := &fakeProofs{account: &gethclient.AccountResult{
		Address:     passer,
		StorageHash: storageRoot,
		StorageProof: []gethclient.StorageResult{{
			Value: big.NewInt(value),
			Proof: []string{"0xf851", "0xe2a0"},
		}},
	}}
	outputs := fakeOutputs{11: {
		BlockRef:              rollupclient.L2BlockRef{Hash: blockHash, Number: 11},
		WithdrawalStorageRoot: storageRoot,
		StateRoot:             stateRoot,
	}}
	p, err := NewEvmProofProvider(logger.Test(t), proofs, outputs, passer)
	require.NoError(t, err)
	return p, proofs
}

func TestGetWithdrawalProof(t *testing.T) {
	p, proofs := newProvider(t, 1)

	proof, err := p.GetWithdrawalProof(context.Background(), message, committedOutput())
	require.NoError(t, err)

	slot, err := protocol.WithdrawalStorageSlot(message.WithdrawalHash)
	require.NoError(t, err)
	assert.Equal(t, []string{slot.Hex()}, proofs.keys)
	assert.Equal(t, uint64(11), proofs.block.Uint64())

	assert.Equal(t, big.NewInt(3), proof.L2OutputIndex)
	assert.Equal(t, [32]byte(storageRoot), proof.OutputRootProof.MessagePasserStorageRoot)
	assert.Equal(t, [][]byte{{0xf8, 0x51}, {0xe2, 0xa0}}, proof.StorageProof)
}

func TestGetWithdrawalProof_RejectsMismatchedOutputRoot(t *testing.T) {
	p, _ := newProvider(t, 1)
	output := committedOutput()
	output.OutputRoot = common.HexToHash("0xdead")

	_, err := p.GetWithdrawalProof(context.Background(), message, output)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output root mismatch")
}

func TestGetWithdrawalProof_RejectsUnsentWithdrawal(t *testing.T) {
	p, _ := newProvider(t, 0)

	_, err := p.GetWithdrawalProof(context.Background(), message, committedOutput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not recorded in the message passer")
}

func TestGetWithdrawalProof_RejectsUncoveringOutput(t *testing.T) {
	p, _ := newProvider(t, 1)
	output := committedOutput()
	output.L2BlockNumber = 9

	_, err := p.GetWithdrawalProof(context.Background(), message, output)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not cover")
}

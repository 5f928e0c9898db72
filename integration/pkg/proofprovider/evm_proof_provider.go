package proofprovider

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient/gethclient"

	"github.com/joonkeep/kanvas/integration/pkg/rollupclient"
	"github.com/joonkeep/kanvas/messenger"
	"github.com/joonkeep/kanvas/protocol"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

var _ messenger.ProofProvider = (*EvmProofProvider)(nil)

// StateProofSource serves eth_getProof on the source chain. *gethclient.Client satisfies it.
type StateProofSource interface {
	GetProof(ctx context.Context, account common.Address, keys []string, blockNumber *big.Int) (*gethclient.AccountResult, error)
}

// OutputSource serves output root preimages. *rollupclient.Client satisfies it.
type OutputSource interface {
	OutputAtBlock(ctx context.Context, blockNumber uint64) (*rollupclient.OutputResponse, error)
}

// EvmProofProvider builds prove payloads from the source chain state at a committed output's block.
type EvmProofProvider struct {
	lggr          logger.Logger
	proofs        StateProofSource
	outputs       OutputSource
	messagePasser common.Address
}

func NewEvmProofProvider(lggr logger.Logger, proofs StateProofSource, outputs OutputSource, messagePasser common.Address) (*EvmProofProvider, error) {
	var errs []error
	if lggr == nil {
		errs = append(errs, errors.New("logger is not set"))
	}
	if proofs == nil {
		errs = append(errs, errors.New("state proof source is not set"))
	}
	if outputs == nil {
		errs = append(errs, errors.New("output source is not set"))
	}
	if messagePasser == (common.Address{}) {
		errs = append(errs, errors.New("message passer address is not set"))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &EvmProofProvider{lggr: lggr, proofs: proofs, outputs: outputs, messagePasser: messagePasser}, nil
}

// GetWithdrawalProof proves sentMessages[withdrawalHash] in the message passer at the output's L2
// block and checks that the recomputed output root matches the committed one.
func (p *EvmProofProvider) GetWithdrawalProof(ctx context.Context, message protocol.Message, output protocol.OutputProposal) (protocol.WithdrawalProof, error) {
	if output.L2BlockNumber < message.Block.Number {
		return protocol.WithdrawalProof{}, fmt.Errorf("output %s at block %d does not cover message block %d", output.Index, output.L2BlockNumber, message.Block.Number)
	}

	slot, err := protocol.WithdrawalStorageSlot(message.WithdrawalHash)
	if err != nil {
		return protocol.WithdrawalProof{}, err
	}

	account, err := p.proofs.GetProof(ctx, p.messagePasser, []string{slot.Hex()}, new(big.Int).SetUint64(output.L2BlockNumber))
	if err != nil {
		return protocol.WithdrawalProof{}, fmt.Errorf("failed to get storage proof at block %d: %w", output.L2BlockNumber, err)
	}
	if account == nil || len(account.StorageProof) != 1 {
		return protocol.WithdrawalProof{}, fmt.Errorf("expected exactly one storage proof at block %d", output.L2BlockNumber)
	}
	storage := account.StorageProof[0]
	if storage.Value == nil || storage.Value.Sign() == 0 {
		return protocol.WithdrawalProof{}, fmt.Errorf("withdrawal %s is not recorded in the message passer at block %d", message.WithdrawalHash.Hex(), output.L2BlockNumber)
	}

	preimage, err := p.outputs.OutputAtBlock(ctx, output.L2BlockNumber)
	if err != nil {
		return protocol.WithdrawalProof{}, err
	}
	if preimage.WithdrawalStorageRoot != account.StorageHash {
		return protocol.WithdrawalProof{}, fmt.Errorf("message passer storage root mismatch at block %d: node has %s, proof has %s",
			output.L2BlockNumber, preimage.WithdrawalStorageRoot.Hex(), account.StorageHash.Hex())
	}

	rootProof := protocol.OutputRootProof{
		Version:                  preimage.Version,
		StateRoot:                preimage.StateRoot,
		MessagePasserStorageRoot: account.StorageHash,
		LatestBlockhash:          preimage.BlockRef.Hash,
	}
	if computed := protocol.OutputRoot(rootProof); computed != output.OutputRoot {
		return protocol.WithdrawalProof{}, fmt.Errorf("output root mismatch for output %s: committed %s, computed %s",
			output.Index, output.OutputRoot.Hex(), computed.Hex())
	}

	nodes := make([][]byte, 0, len(storage.Proof))
	for i, node := range storage.Proof {
		decoded, err := hexutil.Decode(node)
		if err != nil {
			return protocol.WithdrawalProof{}, fmt.Errorf("failed to decode storage proof node %d: %w", i, err)
		}
		nodes = append(nodes, decoded)
	}

	p.lggr.Debugw("Built withdrawal proof",
		"withdrawalHash", message.WithdrawalHash.Hex(),
		"l2OutputIndex", output.Index,
		"l2BlockNumber", output.L2BlockNumber,
		"proofNodes", len(nodes))

	return protocol.WithdrawalProof{
		L2OutputIndex:   output.Index,
		OutputRootProof: rootProof,
		StorageProof:    nodes,
	}, nil
}

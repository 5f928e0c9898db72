package contracttransmitter

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/joonkeep/kanvas/integration/pkg/contracts"
	"github.com/joonkeep/kanvas/messenger"
	"github.com/joonkeep/kanvas/protocol"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

var _ messenger.Transmitter = &EVMContractTransmitter{}

// Backend is what the transmitter needs from the destination chain. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// EVMContractTransmitter submits portal transactions from a single key and waits for them to be mined.
type EVMContractTransmitter struct {
	lggr             logger.Logger
	backend          Backend
	portal           *bind.BoundContract
	transactOpts     *bind.TransactOpts
	from             common.Address
	proveGasLimit    uint64
	finalizeGasLimit uint64
	// mu serializes nonce assignment and sending.
	mu sync.Mutex
}

type Params struct {
	Lggr             logger.Logger
	Backend          Backend
	ChainID          *big.Int
	PrivateKey       *ecdsa.PrivateKey
	PortalAddress    common.Address
	ProveGasLimit    uint64
	FinalizeGasLimit uint64
}

func NewEVMContractTransmitter(params Params) (*EVMContractTransmitter, error) {
	var errs []error
	if params.Lggr == nil {
		errs = append(errs, errors.New("logger is not set"))
	}
	if params.Backend == nil {
		errs = append(errs, errors.New("backend is not set"))
	}
	if params.ChainID == nil || params.ChainID.Sign() <= 0 {
		errs = append(errs, errors.New("chain id is not set"))
	}
	if params.PrivateKey == nil {
		errs = append(errs, errors.New("private key is not set"))
	}
	if params.PortalAddress == (common.Address{}) {
		errs = append(errs, errors.New("portal address is not set"))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	proveGasLimit, finalizeGasLimit := params.ProveGasLimit, params.FinalizeGasLimit
	if proveGasLimit == 0 {
		proveGasLimit = messenger.DefaultProveGasLimit
	}
	if finalizeGasLimit == 0 {
		finalizeGasLimit = messenger.DefaultFinalizeGasLimit
	}

	auth := bind.NewKeyedTransactor(params.PrivateKey, params.ChainID)
	auth.Value = big.NewInt(0)

	return &EVMContractTransmitter{
		lggr:             params.Lggr,
		backend:          params.Backend,
		portal:           bind.NewBoundContract(params.PortalAddress, contracts.PortalABI, params.Backend, params.Backend, params.Backend),
		transactOpts:     auth,
		from:             crypto.PubkeyToAddress(params.PrivateKey.PublicKey),
		proveGasLimit:    proveGasLimit,
		finalizeGasLimit: finalizeGasLimit,
	}, nil
}

// NewEVMContractTransmitterFromRPC dials the destination chain and loads a hex private key.
func NewEVMContractTransmitterFromRPC(ctx context.Context, lggr logger.Logger, rpcURL, privateKey string, portal common.Address, proveGasLimit, finalizeGasLimit uint64) (*EVMContractTransmitter, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial destination chain: %w", err)
	}

	pk, err := crypto.HexToECDSA(privateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get destination chain id: %w", err)
	}

	return NewEVMContractTransmitter(Params{
		Lggr:             lggr,
		Backend:          client,
		ChainID:          chainID,
		PrivateKey:       pk,
		PortalAddress:    portal,
		ProveGasLimit:    proveGasLimit,
		FinalizeGasLimit: finalizeGasLimit,
	})
}

// From is the address transactions are sent from.
func (ct *EVMContractTransmitter) From() common.Address {
	return ct.from
}

func (ct *EVMContractTransmitter) ProveWithdrawal(ctx context.Context, message protocol.Message, proof protocol.WithdrawalProof) (*types.Receipt, error) {
	return ct.transact(ctx, messenger.OperationProve, ct.proveGasLimit, "proveWithdrawalTransaction",
		message.WithdrawalTransaction(), proof.L2OutputIndex, proof.OutputRootProof, proof.StorageProof)
}

func (ct *EVMContractTransmitter) FinalizeWithdrawal(ctx context.Context, message protocol.Message) (*types.Receipt, error) {
	return ct.transact(ctx, messenger.OperationFinalize, ct.finalizeGasLimit, "finalizeWithdrawalTransaction",
		message.WithdrawalTransaction())
}

func (ct *EVMContractTransmitter) getTransactOpts(ctx context.Context, gasLimit uint64) (*bind.TransactOpts, error) {
	nonce, err := ct.backend.PendingNonceAt(ctx, ct.from)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending nonce: %w", err)
	}

	gasPrice, err := ct.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest gas price: %w", err)
	}

	auth := *ct.transactOpts
	auth.Context = ctx
	auth.Nonce = new(big.Int).SetUint64(nonce)
	auth.GasPrice = gasPrice
	auth.GasLimit = gasLimit
	return &auth, nil
}

func (ct *EVMContractTransmitter) send(ctx context.Context, gasLimit uint64, method string, args ...any) (*types.Transaction, error) {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	opts, err := ct.getTransactOpts(ctx, gasLimit)
	if err != nil {
		return nil, err
	}
	return ct.portal.Transact(opts, method, args...)
}

func (ct *EVMContractTransmitter) transact(ctx context.Context, operation string, gasLimit uint64, method string, args ...any) (*types.Receipt, error) {
	tx, err := ct.send(ctx, gasLimit, method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s transaction: %w", operation, err)
	}
	ct.lggr.Infow("Submitted tx to chain", "operation", operation, "txHash", tx.Hash().Hex(), "nonce", tx.Nonce())

	receipt, err := bind.WaitMined(ctx, ct.backend, tx.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s tx %s: %w", operation, tx.Hash().Hex(), err)
	}

	if receipt.Status == types.ReceiptStatusFailed {
		reason := ct.revertReason(ctx, tx, receipt)
		return receipt, &protocol.TransactionRevertedError{Operation: operation, TxHash: tx.Hash(), Reason: reason}
	}
	return receipt, nil
}

// revertReason replays the transaction at its block to recover the revert message.
func (ct *EVMContractTransmitter) revertReason(ctx context.Context, tx *types.Transaction, receipt *types.Receipt) string {
	call := ethereum.CallMsg{
		From:     ct.from,
		To:       tx.To(),
		Data:     tx.Data(),
		Value:    tx.Value(),
		Gas:      tx.Gas(),
		GasPrice: tx.GasPrice(),
	}
	_, err := ct.backend.CallContract(ctx, call, receipt.BlockNumber)
	if err == nil {
		ct.lggr.Warnw("Replayed reverted tx succeeded, no reason available", "txHash", tx.Hash().Hex())
		return ""
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data, ok := dataErr.ErrorData().(string); ok {
			if raw, decodeErr := hexutil.Decode(data); decodeErr == nil {
				if reason, unpackErr := abi.UnpackRevert(raw); unpackErr == nil {
					return reason
				}
			}
			return data
		}
	}
	return err.Error()
}

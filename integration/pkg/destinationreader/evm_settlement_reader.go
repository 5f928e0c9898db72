package destinationreader

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/joonkeep/kanvas/integration/pkg/contracts"
	"github.com/joonkeep/kanvas/messenger"
	"github.com/joonkeep/kanvas/protocol"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

var (
	// Ensure EvmSettlementReader implements the SettlementReader interface.
	_ messenger.SettlementReader = (*EvmSettlementReader)(nil)

	periodCacheMaxEntries = 16
)

// EvmSettlementReader reads the output oracle and the portal on the destination chain.
type EvmSettlementReader struct {
	lggr         logger.Logger
	client       messenger.ChainClient
	portal       common.Address
	outputOracle common.Address
	// fromBlock bounds the WithdrawalFinalized log search.
	fromBlock   uint64
	periodCache *expirable.LRU[common.Address, uint64]
}

type Params struct {
	Lggr                   logger.Logger
	ChainClient            messenger.ChainClient
	PortalAddress          common.Address
	OutputOracleAddress    common.Address
	// FinalizationStartBlock is the first block RelayResult searches for WithdrawalFinalized logs.
	// Every poll queries from here to head, so set it to the portal's deployment block; many hosted
	// RPC endpoints reject eth_getLogs ranges that start at genesis.
	FinalizationStartBlock uint64
	CacheExpiry            time.Duration
}

func NewEvmSettlementReader(params Params) (*EvmSettlementReader, error) {
	var errs []error
	if params.Lggr == nil {
		errs = append(errs, errors.New("logger is not set"))
	}
	if params.ChainClient == nil {
		errs = append(errs, errors.New("chain client is not set"))
	}
	if params.PortalAddress == (common.Address{}) {
		errs = append(errs, errors.New("portal address is not set"))
	}
	if params.OutputOracleAddress == (common.Address{}) {
		errs = append(errs, errors.New("output oracle address is not set"))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	expiry := params.CacheExpiry
	if expiry <= 0 {
		expiry = messenger.DefaultChallengePeriodCacheExpiry
	}

	return &EvmSettlementReader{
		lggr:         params.Lggr,
		client:       params.ChainClient,
		portal:       params.PortalAddress,
		outputOracle: params.OutputOracleAddress,
		fromBlock:    params.FinalizationStartBlock,
		periodCache:  expirable.NewLRU[common.Address, uint64](periodCacheMaxEntries, nil, expiry),
	}, nil
}

// LatestOutput returns the output at nextOutputIndex-1, or nil while the oracle is empty.
func (r *EvmSettlementReader) LatestOutput(ctx context.Context) (*protocol.OutputProposal, error) {
	out, err := r.call(ctx, contracts.OutputOracleABI, r.outputOracle, "nextOutputIndex")
	if err != nil {
		return nil, err
	}
	next := abi.ConvertType(out[0], new(big.Int)).(*big.Int)
	if next.Sign() == 0 {
		return nil, nil
	}
	return r.OutputAt(ctx, new(big.Int).Sub(next, big.NewInt(1)))
}

type l2Output struct {
	OutputRoot    [32]byte
	Timestamp     *big.Int
	L2BlockNumber *big.Int
}

// OutputAt reads getL2Output. The oracle reverts for indexes it does not hold.
func (r *EvmSettlementReader) OutputAt(ctx context.Context, index *big.Int) (*protocol.OutputProposal, error) {
	out, err := r.call(ctx, contracts.OutputOracleABI, r.outputOracle, "getL2Output", index)
	if err != nil {
		return nil, err
	}
	output := *abi.ConvertType(out[0], new(l2Output)).(*l2Output)
	return &protocol.OutputProposal{
		Index:         new(big.Int).Set(index),
		OutputRoot:    output.OutputRoot,
		Timestamp:     output.Timestamp.Uint64(),
		L2BlockNumber: output.L2BlockNumber.Uint64(),
	}, nil
}

// ProvenWithdrawal reads the portal's provenWithdrawals entry. A zero timestamp means never proven.
func (r *EvmSettlementReader) ProvenWithdrawal(ctx context.Context, withdrawalHash common.Hash) (*protocol.ProvenWithdrawal, error) {
	out, err := r.call(ctx, contracts.PortalABI, r.portal, "provenWithdrawals", withdrawalHash)
	if err != nil {
		return nil, err
	}
	if len(out) != 3 {
		return nil, fmt.Errorf("provenWithdrawals returned %d values, expected 3", len(out))
	}
	timestamp := abi.ConvertType(out[1], new(big.Int)).(*big.Int)
	if timestamp.Sign() == 0 {
		return nil, nil
	}
	return &protocol.ProvenWithdrawal{
		OutputRoot:    *abi.ConvertType(out[0], new([32]byte)).(*[32]byte),
		Timestamp:     timestamp.Uint64(),
		L2OutputIndex: abi.ConvertType(out[2], new(big.Int)).(*big.Int),
	}, nil
}

// RelayResult looks for the portal's WithdrawalFinalized log of the message. When several exist
// the latest one wins.
func (r *EvmSettlementReader) RelayResult(ctx context.Context, message protocol.Message) (*protocol.RelayResult, error) {
	event := contracts.PortalABI.Events["WithdrawalFinalized"]
	logs, err := r.client.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(r.fromBlock),
		Addresses: []common.Address{r.portal},
		Topics:    [][]common.Hash{{event.ID}, {message.WithdrawalHash}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to filter WithdrawalFinalized logs: %w", err)
	}

	var latest *types.Log
	for i := range logs {
		if logs[i].Removed {
			continue
		}
		latest = &logs[i]
	}
	if latest == nil {
		return nil, nil
	}

	values, err := contracts.PortalABI.Unpack(event.Name, latest.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode WithdrawalFinalized log in tx %s: %w", latest.TxHash.Hex(), err)
	}
	success, ok := values[0].(bool)
	if !ok {
		return nil, fmt.Errorf("unexpected WithdrawalFinalized success field %T", values[0])
	}
	return &protocol.RelayResult{
		WithdrawalHash: message.WithdrawalHash,
		Success:        success,
		TxHash:         latest.TxHash,
		BlockNumber:    latest.BlockNumber,
	}, nil
}

// ChallengePeriod reads FINALIZATION_PERIOD_SECONDS. It is immutable in the oracle, so it is cached.
func (r *EvmSettlementReader) ChallengePeriod(ctx context.Context) (uint64, error) {
	if period, found := r.periodCache.Get(r.outputOracle); found {
		return period, nil
	}
	out, err := r.call(ctx, contracts.OutputOracleABI, r.outputOracle, "FINALIZATION_PERIOD_SECONDS")
	if err != nil {
		return 0, err
	}
	period := abi.ConvertType(out[0], new(big.Int)).(*big.Int).Uint64()
	r.periodCache.Add(r.outputOracle, period)
	r.lggr.Debugw("Challenge period cached", "outputOracle", r.outputOracle.Hex(), "seconds", period)
	return period, nil
}

func (r *EvmSettlementReader) LatestHeader(ctx context.Context) (*types.Header, error) {
	header, err := r.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest destination header: %w", err)
	}
	return header, nil
}

func (r *EvmSettlementReader) call(ctx context.Context, contract abi.ABI, to common.Address, method string, args ...any) ([]any, error) {
	data, err := contract.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	raw, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s on %s: %w", method, to.Hex(), err)
	}
	out, err := contract.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return out, nil
}

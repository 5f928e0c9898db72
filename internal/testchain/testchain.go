// Package testchain is an in-memory source and destination chain pair for scenario tests. The
// destination side models the output oracle and the portal closely enough to drive a withdrawal
// through prove, the challenge period and finalization.
package testchain

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/joonkeep/kanvas/integration/pkg/contracts"
	"github.com/joonkeep/kanvas/messenger"
	"github.com/joonkeep/kanvas/protocol"
)

var (
	MessagePasser = common.HexToAddress("0x4200000000000000000000000000000000000016")
	Portal        = common.HexToAddress("0x6900000000000000000000000000000000000001")
	OutputOracle  = common.HexToAddress("0x6900000000000000000000000000000000000002")

	errUnsupported = errors.New("not supported by testchain")
)

// Contracts is the address set the chain pair is deployed at.
func Contracts() protocol.ContractSet {
	return protocol.ContractSet{MessagePasser: MessagePasser, Portal: Portal, OutputOracle: OutputOracle}
}

// Chain holds both chains. All methods are safe for concurrent use.
type Chain struct {
	mu sync.Mutex

	sourceHead uint64
	receipts   map[common.Hash]*types.Receipt
	// sent mirrors the message passer's sentMessages mapping.
	sent map[common.Hash]bool
	// sourceTxs makes every source transaction hash unique.
	sourceTxs uint64

	destBlock uint64
	destTime  uint64
	// timeStep is added to destTime on every destination head read.
	timeStep        uint64
	challengePeriod uint64
	outputs         []protocol.OutputProposal
	proven          map[common.Hash]protocol.ProvenWithdrawal
	relays          map[common.Hash]protocol.RelayResult
	failingTargets  map[common.Address]bool
	submissions     int
}

func New(challengePeriod, destTime uint64) *Chain {
	return &Chain{
		sourceHead:      100,
		receipts:        make(map[common.Hash]*types.Receipt),
		sent:            make(map[common.Hash]bool),
		destBlock:       1000,
		destTime:        destTime,
		challengePeriod: challengePeriod,
		proven:          make(map[common.Hash]protocol.ProvenWithdrawal),
		relays:          make(map[common.Hash]protocol.RelayResult),
		failingTargets:  make(map[common.Address]bool),
	}
}

// NewWithdrawal builds a message with its withdrawal hash filled in.
func NewWithdrawal(nonce int64, sender, target common.Address, value *big.Int, gasLimit uint64, data []byte) protocol.Message {
	msg := protocol.Message{
		Nonce:    big.NewInt(nonce),
		Sender:   sender,
		Target:   target,
		Value:    value,
		GasLimit: new(big.Int).SetUint64(gasLimit),
		Data:     data,
	}
	hash, err := protocol.HashWithdrawal(msg.WithdrawalTransaction())
	if err != nil {
		panic(err)
	}
	msg.WithdrawalHash = hash
	return msg
}

func blockHash(chain byte, number uint64, salt uint64) common.Hash {
	var buf [17]byte
	buf[0] = chain
	binary.BigEndian.PutUint64(buf[1:9], number)
	binary.BigEndian.PutUint64(buf[9:], salt)
	return protocol.Keccak256(buf[:])
}

// SendWithdrawal includes msg in the next source block and returns its receipt.
func (c *Chain) SendWithdrawal(msg protocol.Message) (*types.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sourceHead++
	c.sourceTxs++
	msg.TxHash = protocol.Keccak256([]byte("tx"), new(big.Int).SetUint64(c.sourceTxs).Bytes())
	msg.Block = protocol.BlockRef{Number: c.sourceHead, Hash: blockHash('s', c.sourceHead, 0)}

	log, err := contracts.EncodeMessagePassedLog(MessagePasser, msg)
	if err != nil {
		return nil, err
	}
	receipt := &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      msg.TxHash,
		BlockHash:   msg.Block.Hash,
		BlockNumber: new(big.Int).SetUint64(msg.Block.Number),
		Logs:        []*types.Log{&log},
	}
	c.receipts[msg.TxHash] = receipt
	c.sent[msg.WithdrawalHash] = true
	return copyReceipt(receipt), nil
}

// Reorg moves a source transaction into a new block at number.
func (c *Chain) Reorg(txHash common.Hash, number uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	receipt, ok := c.receipts[txHash]
	if !ok {
		return
	}
	c.sourceTxs++
	receipt.BlockNumber = new(big.Int).SetUint64(number)
	receipt.BlockHash = blockHash('s', number, c.sourceTxs)
	logs := make([]*types.Log, 0, len(receipt.Logs))
	for _, l := range receipt.Logs {
		moved := *l
		moved.BlockNumber, moved.BlockHash = number, receipt.BlockHash
		logs = append(logs, &moved)
	}
	receipt.Logs = logs
	if number > c.sourceHead {
		c.sourceHead = number
	}
}

// Drop removes a source transaction from the chain.
func (c *Chain) Drop(txHash common.Hash) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.receipts, txHash)
}

// ProposeOutput commits an output for the given source block and returns it.
func (c *Chain) ProposeOutput(l2BlockNumber uint64) protocol.OutputProposal {
	c.mu.Lock()
	defer c.mu.Unlock()
	output := protocol.OutputProposal{
		Index:         big.NewInt(int64(len(c.outputs))),
		OutputRoot:    blockHash('o', l2BlockNumber, uint64(len(c.outputs))),
		Timestamp:     c.destTime,
		L2BlockNumber: l2BlockNumber,
	}
	c.outputs = append(c.outputs, output)
	return output
}

// ReplaceOutput swaps the root stored at index, as a successful challenge would.
func (c *Chain) ReplaceOutput(index int, root common.Hash) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outputs[index].OutputRoot = root
}

func (c *Chain) SetTime(ts uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destTime = ts
}

// SetTimeStep makes every destination head read advance the clock by step seconds.
func (c *Chain) SetTimeStep(step uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeStep = step
}

func (c *Chain) Time() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destTime
}

// FailTarget makes relays to target report success=false.
func (c *Chain) FailTarget(target common.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failingTargets[target] = true
}

// Submissions counts prove and finalize transactions, reverted ones included.
func (c *Chain) Submissions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submissions
}

func (c *Chain) Source() messenger.ChainClient {
	return (*sourceClient)(c)
}

func (c *Chain) Settlement() messenger.SettlementReader {
	return (*settlement)(c)
}

func (c *Chain) Proofs() messenger.ProofProvider {
	return (*proofs)(c)
}

func (c *Chain) Transmitter() messenger.Transmitter {
	return (*transmitter)(c)
}

func copyReceipt(r *types.Receipt) *types.Receipt {
	cp := *r
	cp.BlockNumber = new(big.Int).Set(r.BlockNumber)
	return &cp
}

type sourceClient Chain

func (s *sourceClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	receipt, ok := s.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return copyReceipt(receipt), nil
}

func (s *sourceClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.sourceHead
	if number != nil {
		n = number.Uint64()
	}
	return &types.Header{Number: new(big.Int).SetUint64(n)}, nil
}

func (s *sourceClient) FilterLogs(context.Context, ethereum.FilterQuery) ([]types.Log, error) {
	return nil, errUnsupported
}

func (s *sourceClient) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	return nil, errUnsupported
}

type settlement Chain

func (d *settlement) LatestOutput(ctx context.Context) (*protocol.OutputProposal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.outputs) == 0 {
		return nil, nil
	}
	output := d.outputs[len(d.outputs)-1]
	return &output, nil
}

func (d *settlement) OutputAt(ctx context.Context, index *big.Int) (*protocol.OutputProposal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !index.IsUint64() || index.Uint64() >= uint64(len(d.outputs)) {
		return nil, fmt.Errorf("execution reverted: L2OutputOracle: output index %s out of range", index)
	}
	output := d.outputs[index.Uint64()]
	return &output, nil
}

func (d *settlement) ProvenWithdrawal(ctx context.Context, withdrawalHash common.Hash) (*protocol.ProvenWithdrawal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	proven, ok := d.proven[withdrawalHash]
	if !ok {
		return nil, nil
	}
	return &proven, nil
}

func (d *settlement) RelayResult(ctx context.Context, message protocol.Message) (*protocol.RelayResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	relay, ok := d.relays[message.WithdrawalHash]
	if !ok {
		return nil, nil
	}
	return &relay, nil
}

func (d *settlement) ChallengePeriod(ctx context.Context) (uint64, error) {
	return d.challengePeriod, ctx.Err()
}

func (d *settlement) LatestHeader(ctx context.Context) (*types.Header, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destTime += d.timeStep
	return &types.Header{Number: new(big.Int).SetUint64(d.destBlock), Time: d.destTime}, nil
}

type proofs Chain

func (p *proofs) GetWithdrawalProof(ctx context.Context, message protocol.Message, output protocol.OutputProposal) (protocol.WithdrawalProof, error) {
	if err := ctx.Err(); err != nil {
		return protocol.WithdrawalProof{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.sent[message.WithdrawalHash] {
		return protocol.WithdrawalProof{}, fmt.Errorf("withdrawal %s was never sent", message.WithdrawalHash.Hex())
	}
	return protocol.WithdrawalProof{
		L2OutputIndex:   output.Index,
		OutputRootProof: protocol.OutputRootProof{LatestBlockhash: blockHash('s', output.L2BlockNumber, 0)},
		StorageProof:    [][]byte{message.WithdrawalHash.Bytes()},
	}, nil
}

type transmitter Chain

// mine records a destination transaction and returns its receipt.
func (t *transmitter) mine(status uint64, operation string) *types.Receipt {
	t.destBlock++
	t.submissions++
	return &types.Receipt{
		Status:      status,
		TxHash:      protocol.Keccak256([]byte(operation), new(big.Int).SetUint64(t.destBlock).Bytes()),
		BlockHash:   blockHash('d', t.destBlock, 0),
		BlockNumber: new(big.Int).SetUint64(t.destBlock),
	}
}

func (t *transmitter) revert(operation, reason string) (*types.Receipt, error) {
	receipt := t.mine(types.ReceiptStatusFailed, operation)
	return receipt, &protocol.TransactionRevertedError{Operation: operation, TxHash: receipt.TxHash, Reason: reason}
}

func (t *transmitter) ProveWithdrawal(ctx context.Context, message protocol.Message, proof protocol.WithdrawalProof) (*types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	index := proof.L2OutputIndex
	if index == nil || !index.IsUint64() || index.Uint64() >= uint64(len(t.outputs)) || !t.sent[message.WithdrawalHash] {
		return t.revert(messenger.OperationProve, "KanvasPortal: invalid withdrawal inclusion proof")
	}
	if existing, ok := t.proven[message.WithdrawalHash]; ok && existing.OutputRoot == t.outputs[existing.L2OutputIndex.Uint64()].OutputRoot {
		return t.revert(messenger.OperationProve, "KanvasPortal: withdrawal hash has already been proven")
	}

	receipt := t.mine(types.ReceiptStatusSuccessful, messenger.OperationProve)
	t.proven[message.WithdrawalHash] = protocol.ProvenWithdrawal{
		OutputRoot:    t.outputs[index.Uint64()].OutputRoot,
		Timestamp:     t.destTime,
		L2OutputIndex: new(big.Int).Set(index),
	}
	return receipt, nil
}

func (t *transmitter) FinalizeWithdrawal(ctx context.Context, message protocol.Message) (*types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	proven, ok := t.proven[message.WithdrawalHash]
	switch {
	case !ok:
		return t.revert(messenger.OperationFinalize, "KanvasPortal: withdrawal has not been proven yet")
	case t.destTime < proven.ChallengeDeadline(t.challengePeriod):
		return t.revert(messenger.OperationFinalize, "KanvasPortal: proven withdrawal finalization period has not elapsed")
	}
	if _, relayed := t.relays[message.WithdrawalHash]; relayed {
		return t.revert(messenger.OperationFinalize, "KanvasPortal: withdrawal has already been finalized")
	}

	receipt := t.mine(types.ReceiptStatusSuccessful, messenger.OperationFinalize)
	t.relays[message.WithdrawalHash] = protocol.RelayResult{
		WithdrawalHash: message.WithdrawalHash,
		Success:        !t.failingTargets[message.Target],
		TxHash:         receipt.TxHash,
		BlockNumber:    receipt.BlockNumber.Uint64(),
	}
	return receipt, nil
}

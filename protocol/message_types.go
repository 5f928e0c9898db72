package protocol

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Message is one withdrawal sent from the source chain through the message passer.
// It is resolved once from the source receipt and never mutated afterwards.
type Message struct {
	SourceChain    ChainID        `json:"sourceChain"`
	DestChain      ChainID        `json:"destChain"`
	Nonce          *big.Int       `json:"nonce"`
	Sender         common.Address `json:"sender"`
	Target         common.Address `json:"target"`
	Value          *big.Int       `json:"value"`
	GasLimit       *big.Int       `json:"gasLimit"`
	Data           hexutil.Bytes  `json:"data"`
	WithdrawalHash common.Hash    `json:"withdrawalHash"`
	LogIndex       uint           `json:"logIndex"`
	TxHash         common.Hash    `json:"txHash"`
	Block          BlockRef       `json:"block"`
}

// WithdrawalTransaction is the tuple the portal takes in proveWithdrawalTransaction and
// finalizeWithdrawalTransaction. Field names follow the ABI tuple components.
type WithdrawalTransaction struct {
	Nonce    *big.Int
	Sender   common.Address
	Target   common.Address
	Value    *big.Int
	GasLimit *big.Int
	Data     []byte
}

// WithdrawalTransaction returns the portal tuple for the message.
func (m Message) WithdrawalTransaction() WithdrawalTransaction {
	return WithdrawalTransaction{
		Nonce:    m.Nonce,
		Sender:   m.Sender,
		Target:   m.Target,
		Value:    m.Value,
		GasLimit: m.GasLimit,
		Data:     m.Data,
	}
}

// Validate checks that the fields needed to hash and relay the message are present and
// that the recorded withdrawal hash matches the message contents.
func (m Message) Validate() error {
	hash, err := HashWithdrawal(m.WithdrawalTransaction())
	if err != nil {
		return fmt.Errorf("failed to hash withdrawal: %w", err)
	}
	if hash != m.WithdrawalHash {
		return fmt.Errorf("withdrawal hash mismatch: event has %s, computed %s", m.WithdrawalHash, hash)
	}
	return nil
}

func (m Message) String() string {
	return fmt.Sprintf("Message{nonce: %s, %s->%s, withdrawalHash: %s, block: %s}",
		m.Nonce, m.SourceChain, m.DestChain, m.WithdrawalHash.Hex(), m.Block)
}

package protocol

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// ChainID is the EIP-155 id of an EVM chain.
type ChainID uint64

func (c ChainID) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// BigInt returns the chain id in the form expected by signers.
func (c ChainID) BigInt() *big.Int {
	return new(big.Int).SetUint64(uint64(c))
}

// BlockRef points at the block that included a transaction.
type BlockRef struct {
	Number uint64      `json:"number"`
	Hash   common.Hash `json:"hash"`
}

func (b BlockRef) String() string {
	return fmt.Sprintf("%d:%s", b.Number, b.Hash.TerminalString())
}

// IsZero reports whether the reference was never set.
func (b BlockRef) IsZero() bool {
	return b.Number == 0 && b.Hash == (common.Hash{})
}

// ContractSet is the set of bridge contract addresses on both chains.
type ContractSet struct {
	// Source side.
	MessagePasser          common.Address
	L2CrossDomainMessenger common.Address
	L2StandardBridge       common.Address
	// Destination side.
	Portal       common.Address
	OutputOracle common.Address
}

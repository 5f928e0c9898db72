package protocol

import (
	"fmt"
	"hash"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

var hasherPool = sync.Pool{
	New: func() any {
		return sha3.NewLegacyKeccak256()
	},
}

// Keccak256 computes the Keccak256 hash of the concatenated inputs.
func Keccak256(data ...[]byte) common.Hash {
	h, ok := hasherPool.Get().(hash.Hash)
	if !ok {
		panic("cannot get hasher")
	}

	h.Reset()
	for _, d := range data {
		h.Write(d) // nolint:revive // keccak256 never returns an error
	}
	var out common.Hash
	copy(out[:], h.Sum(nil))
	h.Reset()
	hasherPool.Put(h)
	return out
}

var (
	uint256Type, _ = abi.NewType("uint256", "", nil)
	addressType, _ = abi.NewType("address", "", nil)
	bytesType, _   = abi.NewType("bytes", "", nil)
	bytes32Type, _ = abi.NewType("bytes32", "", nil)

	withdrawalArgs = abi.Arguments{
		{Type: uint256Type},
		{Type: addressType},
		{Type: addressType},
		{Type: uint256Type},
		{Type: uint256Type},
		{Type: bytesType},
	}
	storageSlotArgs = abi.Arguments{
		{Type: bytes32Type},
		{Type: uint256Type},
	}
)

// sentMessagesSlot is the storage slot of the message passer's sentMessages mapping.
var sentMessagesSlot = big.NewInt(0)

// HashWithdrawal returns keccak256(abi.encode(nonce, sender, target, value, gasLimit, data)).
func HashWithdrawal(tx WithdrawalTransaction) (common.Hash, error) {
	if tx.Nonce == nil || tx.Value == nil || tx.GasLimit == nil {
		return common.Hash{}, fmt.Errorf("withdrawal is missing nonce, value or gas limit")
	}
	encoded, err := withdrawalArgs.Pack(tx.Nonce, tx.Sender, tx.Target, tx.Value, tx.GasLimit, tx.Data)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode withdrawal: %w", err)
	}
	return Keccak256(encoded), nil
}

// WithdrawalStorageSlot returns the message passer storage slot that marks a withdrawal as sent.
func WithdrawalStorageSlot(withdrawalHash common.Hash) (common.Hash, error) {
	encoded, err := storageSlotArgs.Pack([32]byte(withdrawalHash), sentMessagesSlot)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode storage key: %w", err)
	}
	return Keccak256(encoded), nil
}

// OutputRoot hashes an output root preimage.
func OutputRoot(proof OutputRootProof) common.Hash {
	return Keccak256(proof.Version[:], proof.StateRoot[:], proof.MessagePasserStorageRoot[:], proof.LatestBlockhash[:])
}

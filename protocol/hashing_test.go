package protocol

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

var data = []byte("The quick brown fox jumps over the lazy dogThe quick brown fox jumps over the lazy dogThe quick brown fox jumps over the lazy dog")

func TestKeccak256MatchesGeth(t *testing.T) {
	require.Equal(t, crypto.Keccak256Hash(data), Keccak256(data))
	require.Equal(t, crypto.Keccak256Hash(data[:10], data[10:]), Keccak256(data[:10], data[10:]))
	require.Equal(t, crypto.Keccak256Hash(), Keccak256())
}

func TestOutputRoot(t *testing.T) {
	proof := OutputRootProof{
		StateRoot:                common.HexToHash("0x01"),
		MessagePasserStorageRoot: common.HexToHash("0x02"),
		LatestBlockhash:          common.HexToHash("0x03"),
	}
	expected := crypto.Keccak256Hash(
		make([]byte, 32),
		common.HexToHash("0x01").Bytes(),
		common.HexToHash("0x02").Bytes(),
		common.HexToHash("0x03").Bytes(),
	)
	require.Equal(t, expected, OutputRoot(proof))
}

func TestHashWithdrawal(t *testing.T) {
	tx := WithdrawalTransaction{
		Nonce:    big.NewInt(7),
		Sender:   common.HexToAddress("0x4200000000000000000000000000000000000007"),
		Target:   common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Value:    big.NewInt(1e18),
		GasLimit: big.NewInt(200_000),
		Data:     []byte{0xde, 0xad},
	}

	h1, err := HashWithdrawal(tx)
	require.NoError(t, err)
	h2, err := HashWithdrawal(tx)
	require.NoError(t, err)
	require.Equal(t, h1, h2)

	other := tx
	other.Nonce = big.NewInt(8)
	h3, err := HashWithdrawal(other)
	require.NoError(t, err)
	require.NotEqual(t, h1, h3, "nonce must be part of the withdrawal hash")

	// abi.encode of the static head: six 32-byte words, then the data length and padded data.
	encoded, err := withdrawalArgs.Pack(tx.Nonce, tx.Sender, tx.Target, tx.Value, tx.GasLimit, tx.Data)
	require.NoError(t, err)
	require.Len(t, encoded, 32*6+32+32)
	require.Equal(t, crypto.Keccak256Hash(encoded), h1)

	_, err = HashWithdrawal(WithdrawalTransaction{})
	require.Error(t, err)
}

func TestWithdrawalStorageSlot(t *testing.T) {
	hash := common.HexToHash("0xabcdef")
	slot, err := WithdrawalStorageSlot(hash)
	require.NoError(t, err)
	expected := crypto.Keccak256Hash(hash.Bytes(), make([]byte, 32))
	require.Equal(t, expected, slot)
}

func BenchmarkHashing(b *testing.B) {
	for b.Loop() {
		Keccak256(data)
	}
}

func BenchmarkHashingBaseline(b *testing.B) {
	for b.Loop() {
		h := sha3.NewLegacyKeccak256()
		h.Write(data)
		var out [32]byte
		copy(out[:], h.Sum(nil))
	}
}

package contracts

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/joonkeep/kanvas/protocol"
)

// EncodeMessagePassedLog builds the log the message passer emits for msg.
func EncodeMessagePassedLog(passer common.Address, msg protocol.Message) (types.Log, error) {
	event := MessagePasserABI.Events["MessagePassed"]
	data, err := event.Inputs.NonIndexed().Pack(msg.Value, msg.GasLimit, []byte(msg.Data), [32]byte(msg.WithdrawalHash))
	if err != nil {
		return types.Log{}, fmt.Errorf("failed to pack MessagePassed: %w", err)
	}
	return types.Log{
		Address: passer,
		Topics: []common.Hash{
			event.ID,
			common.BigToHash(msg.Nonce),
			common.BytesToHash(msg.Sender.Bytes()),
			common.BytesToHash(msg.Target.Bytes()),
		},
		Data:        data,
		BlockNumber: msg.Block.Number,
		BlockHash:   msg.Block.Hash,
		TxHash:      msg.TxHash,
		Index:       msg.LogIndex,
	}, nil
}

// EncodeWithdrawalFinalizedLog builds the log the portal emits when a withdrawal is finalized.
func EncodeWithdrawalFinalizedLog(portal common.Address, withdrawalHash common.Hash, success bool) (types.Log, error) {
	event := PortalABI.Events["WithdrawalFinalized"]
	data, err := event.Inputs.NonIndexed().Pack(success)
	if err != nil {
		return types.Log{}, fmt.Errorf("failed to pack WithdrawalFinalized: %w", err)
	}
	return types.Log{
		Address: portal,
		Topics:  []common.Hash{event.ID, withdrawalHash},
		Data:    data,
	}, nil
}

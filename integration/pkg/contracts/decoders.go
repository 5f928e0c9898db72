package contracts

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/joonkeep/kanvas/messenger"
	"github.com/joonkeep/kanvas/protocol"
)

var _ messenger.EventDecoder = (*EventDecoder)(nil)

// messageBuilder turns the decoded fields of an event into a message.
type messageBuilder func(fields map[string]any, log types.Log) (*protocol.Message, error)

// EventDecoder decodes the events of one contract against its ABI.
type EventDecoder struct {
	contract string
	abi      abi.ABI
	builders map[string]messageBuilder
}

// NewEventDecoder creates a decoder for a contract ABI.
func NewEventDecoder(contract string, contractABI abi.ABI) *EventDecoder {
	return &EventDecoder{
		contract: contract,
		abi:      contractABI,
		builders: make(map[string]messageBuilder),
	}
}

// NewMessagePasserDecoder decodes L2ToL1MessagePasser logs; MessagePassed events carry a message.
func NewMessagePasserDecoder() *EventDecoder {
	d := NewEventDecoder(MessagePasser, MessagePasserABI)
	d.builders["MessagePassed"] = messageFromMessagePassed
	return d
}

func (d *EventDecoder) Contract() string {
	return d.contract
}

func (d *EventDecoder) DecodeEvent(log types.Log) (messenger.DecodedEvent, error) {
	if len(log.Topics) == 0 {
		return messenger.DecodedEvent{}, fmt.Errorf("anonymous log at index %d", log.Index)
	}
	event, err := d.abi.EventByID(log.Topics[0])
	if err != nil {
		return messenger.DecodedEvent{}, fmt.Errorf("unknown %s event %s: %w", d.contract, log.Topics[0].Hex(), err)
	}

	fields := make(map[string]any, len(event.Inputs))
	if err := event.Inputs.UnpackIntoMap(fields, log.Data); err != nil {
		return messenger.DecodedEvent{}, fmt.Errorf("failed to unpack %s data: %w", event.Name, err)
	}
	var indexed abi.Arguments
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if err := abi.ParseTopicsIntoMap(fields, indexed, log.Topics[1:]); err != nil {
		return messenger.DecodedEvent{}, fmt.Errorf("failed to parse %s topics: %w", event.Name, err)
	}

	decoded := messenger.DecodedEvent{
		Contract: d.contract,
		Name:     event.Name,
		Address:  log.Address,
		LogIndex: log.Index,
		Fields:   fields,
	}
	if build, ok := d.builders[event.Name]; ok {
		message, err := build(fields, log)
		if err != nil {
			return messenger.DecodedEvent{}, fmt.Errorf("failed to build message from %s: %w", event.Name, err)
		}
		decoded.Message = message
	}
	return decoded, nil
}

func messageFromMessagePassed(fields map[string]any, log types.Log) (*protocol.Message, error) {
	nonce, err := field[*big.Int](fields, "nonce")
	if err != nil {
		return nil, err
	}
	sender, err := field[common.Address](fields, "sender")
	if err != nil {
		return nil, err
	}
	target, err := field[common.Address](fields, "target")
	if err != nil {
		return nil, err
	}
	value, err := field[*big.Int](fields, "value")
	if err != nil {
		return nil, err
	}
	gasLimit, err := field[*big.Int](fields, "gasLimit")
	if err != nil {
		return nil, err
	}
	data, err := field[[]byte](fields, "data")
	if err != nil {
		return nil, err
	}
	withdrawalHash, err := field[[32]byte](fields, "withdrawalHash")
	if err != nil {
		return nil, err
	}

	return &protocol.Message{
		Nonce:          nonce,
		Sender:         sender,
		Target:         target,
		Value:          value,
		GasLimit:       gasLimit,
		Data:           data,
		WithdrawalHash: withdrawalHash,
		LogIndex:       log.Index,
		TxHash:         log.TxHash,
		Block:          protocol.BlockRef{Number: log.BlockNumber, Hash: log.BlockHash},
	}, nil
}

func field[T any](fields map[string]any, name string) (T, error) {
	var zero T
	raw, ok := fields[name]
	if !ok {
		return zero, fmt.Errorf("missing field %s", name)
	}
	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("field %s has type %T, expected %T", name, raw, zero)
	}
	return v, nil
}

// SourceDecoders returns the decoders for the source-chain bridge contracts that are configured.
func SourceDecoders(set protocol.ContractSet) map[common.Address]messenger.EventDecoder {
	decoders := map[common.Address]messenger.EventDecoder{
		set.MessagePasser: NewMessagePasserDecoder(),
	}
	if set.L2CrossDomainMessenger != (common.Address{}) {
		decoders[set.L2CrossDomainMessenger] = NewEventDecoder(L2CrossDomainMessenger, L2CrossDomainMessengerABI)
	}
	if set.L2StandardBridge != (common.Address{}) {
		decoders[set.L2StandardBridge] = NewEventDecoder(L2StandardBridge, L2StandardBridgeABI)
	}
	return decoders
}

// DestinationDecoders returns the decoders for the destination-chain contracts.
func DestinationDecoders(set protocol.ContractSet) map[common.Address]messenger.EventDecoder {
	return map[common.Address]messenger.EventDecoder{
		set.Portal:       NewEventDecoder(Portal, PortalABI),
		set.OutputOracle: NewEventDecoder(OutputOracle, OutputOracleABI),
	}
}

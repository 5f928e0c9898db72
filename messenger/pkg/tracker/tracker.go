package tracker

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/joonkeep/kanvas/messenger"
	"github.com/joonkeep/kanvas/protocol"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

// DefaultExpectedEvent is the message passer event every withdrawal emits.
const DefaultExpectedEvent = "MessagePassed"

// Tracker resolves source receipts into messages.
type Tracker struct {
	lggr          logger.Logger
	registry      *Registry
	sourceChain   protocol.ChainID
	destChain     protocol.ChainID
	expectedEvent string
}

type Option func(*Tracker)

// WithExpectedEvent overrides the event name that identifies the message.
func WithExpectedEvent(name string) Option {
	return func(t *Tracker) {
		t.expectedEvent = name
	}
}

func NewTracker(lggr logger.Logger, registry *Registry, sourceChain, destChain protocol.ChainID, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		lggr:          lggr,
		registry:      registry,
		sourceChain:   sourceChain,
		destChain:     destChain,
		expectedEvent: DefaultExpectedEvent,
	}
	for _, opt := range opts {
		opt(t)
	}

	var errs []error
	if t.lggr == nil {
		errs = append(errs, errors.New("logger is not set"))
	}
	if t.registry == nil {
		errs = append(errs, errors.New("registry is not set"))
	}
	if t.sourceChain == 0 || t.destChain == 0 {
		errs = append(errs, errors.New("source and destination chain ids are required"))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return t, nil
}

// Resolve returns the message carried by the receipt. The receipt must contain exactly one
// log of the expected event from a registered contract.
func (t *Tracker) Resolve(receipt *types.Receipt) (protocol.Message, error) {
	if receipt == nil {
		return protocol.Message{}, errors.New("receipt is nil")
	}

	var found []protocol.Message
	for _, event := range t.DecodeAll(receipt) {
		if event.Name != t.expectedEvent || event.Message == nil {
			continue
		}
		found = append(found, *event.Message)
	}

	switch len(found) {
	case 0:
		return protocol.Message{}, &protocol.EventNotFoundError{TxHash: receipt.TxHash, Event: t.expectedEvent}
	case 1:
	default:
		return protocol.Message{}, fmt.Errorf("receipt of tx %s carries %d %s events, expected one",
			receipt.TxHash.Hex(), len(found), t.expectedEvent)
	}

	message := found[0]
	message.SourceChain = t.sourceChain
	message.DestChain = t.destChain
	if err := message.Validate(); err != nil {
		return protocol.Message{}, fmt.Errorf("invalid message in tx %s: %w", receipt.TxHash.Hex(), err)
	}

	t.lggr.Infow("Resolved message",
		"txHash", receipt.TxHash.Hex(),
		"nonce", message.Nonce,
		"withdrawalHash", message.WithdrawalHash.Hex(),
		"block", message.Block.Number)
	return message, nil
}

// DecodeAll decodes every log of the receipt emitted by a registered contract.
// Logs from unknown addresses are skipped, logs that fail to decode are logged and skipped.
func (t *Tracker) DecodeAll(receipt *types.Receipt) []messenger.DecodedEvent {
	events := make([]messenger.DecodedEvent, 0, len(receipt.Logs))
	for _, log := range receipt.Logs {
		if log == nil {
			continue
		}
		decoder, ok := t.registry.GetDecoder(log.Address)
		if !ok {
			continue
		}
		event, err := decoder.DecodeEvent(*log)
		if err != nil {
			t.lggr.Debugw("Skipping undecodable log",
				"contract", decoder.Contract(),
				"logIndex", log.Index,
				"error", err)
			continue
		}
		t.lggr.Debugw("Decoded event",
			"contract", event.Contract,
			"event", event.Name,
			"logIndex", event.LogIndex)
		events = append(events, event)
	}
	return events
}

package tracker

import (
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"

	"github.com/joonkeep/kanvas/messenger"
)

// Registry maps bridge contract addresses to the decoder for their events.
// It is filled once at startup and read-only afterwards.
type Registry struct {
	decoders map[common.Address]messenger.EventDecoder
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		decoders: make(map[common.Address]messenger.EventDecoder),
	}
}

// Register registers the decoder for a contract address.
// Registering the same address twice is an error. Not concurrent safe.
func (r *Registry) Register(address common.Address, decoder messenger.EventDecoder) error {
	if address == (common.Address{}) {
		return fmt.Errorf("cannot register %s decoder for the zero address", decoder.Contract())
	}
	if existing, ok := r.decoders[address]; ok {
		return fmt.Errorf("address %s already registered for %s", address.Hex(), existing.Contract())
	}
	r.decoders[address] = decoder
	return nil
}

// GetDecoder returns the decoder registered for address.
func (r *Registry) GetDecoder(address common.Address) (messenger.EventDecoder, bool) {
	decoder, ok := r.decoders[address]
	return decoder, ok
}

// Addresses returns the registered addresses in a stable order.
func (r *Registry) Addresses() []common.Address {
	addresses := make([]common.Address, 0, len(r.decoders))
	for address := range r.decoders {
		addresses = append(addresses, address)
	}
	slices.SortFunc(addresses, func(a, b common.Address) int { return a.Cmp(b) })
	return addresses
}

package protocol

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// EventNotFoundError is returned when a receipt carries no log for the expected bridging event.
type EventNotFoundError struct {
	TxHash common.Hash
	Event  string
}

func (e *EventNotFoundError) Error() string {
	return fmt.Sprintf("event %s not found in receipt of tx %s", e.Event, e.TxHash.Hex())
}

// IllegalTransitionError is returned when prove or finalize is requested outside of its phase.
// No transaction has been submitted when it is returned.
type IllegalTransitionError struct {
	Operation string
	Current   MessageStatus
	Required  MessageStatus
	Reason    string
}

func (e *IllegalTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot %s message: %s", e.Operation, e.Reason)
	}
	return fmt.Sprintf("cannot %s message in status %s, requires %s", e.Operation, e.Current, e.Required)
}

// TransactionRevertedError is returned when a submitted transaction was mined with a failed status.
type TransactionRevertedError struct {
	Operation string
	TxHash    common.Hash
	Reason    string
}

func (e *TransactionRevertedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s tx %s reverted: %s", e.Operation, e.TxHash.Hex(), e.Reason)
	}
	return fmt.Sprintf("%s tx %s reverted", e.Operation, e.TxHash.Hex())
}

// CancellationError is returned when the caller cancels a wait. It unwraps to the context error.
type CancellationError struct {
	Operation string
	Cause     error
}

func (e *CancellationError) Error() string {
	return fmt.Sprintf("%s cancelled: %v", e.Operation, e.Cause)
}

func (e *CancellationError) Unwrap() error {
	return e.Cause
}

// MessageFailedError is returned by a wait that observes the terminal FAILED status.
type MessageFailedError struct {
	WithdrawalHash common.Hash
	Target         MessageStatus
}

func (e *MessageFailedError) Error() string {
	return fmt.Sprintf("message %s failed on the destination chain, %s is unreachable", e.WithdrawalHash.Hex(), e.Target)
}

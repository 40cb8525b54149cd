package entity

import "errors"

// Sentinel errors for wallet session failures. Callers match with errors.Is;
// the messages are part of the contract the dashboard displays.
var (
	// ErrWalletNotFound: the connector returned no wallet object at all
	// (no extension installed, or the user dismissed the modal).
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrWalletNotConnected: a session exists but reports a disconnected
	// state. The message is displayed verbatim by the dashboard.
	ErrWalletNotConnected = errors.New("Wallet not connected")

	// ErrNoAddress: the wallet enabled but exposed neither a selected
	// address nor an account address.
	ErrNoAddress = errors.New("no address exposed by wallet")
)

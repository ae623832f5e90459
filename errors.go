package authcore

import "errors"

var (
	// ErrClientNotReady is an exported constant or variable used by the authentication client.
	ErrClientNotReady = errors.New("client not initialized")
	// ErrClientClosed is an exported constant or variable used by the authentication client.
	ErrClientClosed = errors.New("client closed")
	// ErrAlreadyStarted is an exported constant or variable used by the authentication client.
	ErrAlreadyStarted = errors.New("client already started")
)

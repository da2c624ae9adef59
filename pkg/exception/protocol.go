package exception

import "errors"

// Wire protocol errors
var (
	// ErrMalformedMessage is returned when a buffer is shorter than the
	// message type requires.
	ErrMalformedMessage = errors.New("protocol: malformed message")

	// ErrUnknownMessageType is returned for an unrecognized frame tag.
	ErrUnknownMessageType = errors.New("protocol: unknown message type")

	// ErrUnknownVerb is returned for an unrecognized command verb.
	ErrUnknownVerb = errors.New("protocol: unknown command verb")

	// ErrEmptyCommand is returned for a command with no usable content.
	ErrEmptyCommand = errors.New("protocol: empty command")
)

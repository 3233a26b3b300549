package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTool indicates a tool name outside the fixed set
	ErrUnknownTool = errors.New("unknown tool")

	// ErrEmptyContent indicates a success response whose content list is empty
	ErrEmptyContent = errors.New("gateway returned empty content")

	// ErrMalformedResponse indicates a response carrying neither result nor error
	ErrMalformedResponse = errors.New("gateway response has neither result nor error")
)

// RemoteError is an error object declared by the gateway in its response
type RemoteError struct {
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("gateway error %d: %s", e.Code, e.Message)
}

// ErrUnexpectedStatus is returned for non-2xx responses that carry no envelope
type ErrUnexpectedStatus struct {
	StatusCode int
}

func (e ErrUnexpectedStatus) Error() string {
	return fmt.Sprintf("unexpected gateway status %d", e.StatusCode)
}

package tools

import (
	"errors"
	"fmt"

	"github.com/erauner12/toolbridge-genai/internal/jsonrpc"
)

// ToolError represents a structured error from tool execution
type ToolError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrorCode categorizes tool errors for JSON-RPC translation
type ErrorCode string

const (
	ErrCodeInvalidParams  ErrorCode = "INVALID_PARAMS"
	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"
	ErrCodeMethodNotFound ErrorCode = "METHOD_NOT_FOUND"
	ErrCodeUnavailable    ErrorCode = "UNAVAILABLE"
)

// NewToolError creates a tool error
func NewToolError(code ErrorCode, message string) *ToolError {
	return &ToolError{Code: code, Message: message}
}

// WrapError converts any handler error into a ToolError
func WrapError(err error) *ToolError {
	if err == nil {
		return nil
	}

	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr
	}
	return NewToolError(ErrCodeInternal, err.Error())
}

// JSONRPCCode maps the tool error to a JSON-RPC error code
func (e *ToolError) JSONRPCCode() int {
	switch e.Code {
	case ErrCodeInvalidParams:
		return jsonrpc.InvalidParams
	case ErrCodeMethodNotFound:
		return jsonrpc.MethodNotFound
	default:
		return jsonrpc.InternalError
	}
}

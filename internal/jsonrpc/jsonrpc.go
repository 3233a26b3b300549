// Package jsonrpc defines the JSON-RPC 2.0 envelope exchanged with the tool gateway.
package jsonrpc

import (
	"encoding/json"
)

// Version is the only protocol version the gateway accepts
const Version = "2.0"

// MethodToolsCall is the method name for tool invocations
const MethodToolsCall = "tools/call"

// Standard JSON-RPC error codes
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

// Request is a JSON-RPC request envelope
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no id
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0
}

// Response is a JSON-RPC response envelope. Exactly one of Result or Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is the error object of a JSON-RPC response
type Error struct {
	Code    int             `json:"code,omitempty"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// ToolCallParams are the params of a tools/call request
type ToolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolCallResult is the result of a tools/call response
type ToolCallResult struct {
	Content []ContentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// ContentItem is a single piece of tool output
type ContentItem struct {
	Type string `json:"type,omitempty"` // "text" when set
	Text string `json:"text"`
}

// NewToolCall builds a tools/call request with the given id
func NewToolCall(id any, name string, args map[string]any) (*Request, error) {
	idBytes, err := json.Marshal(id)
	if err != nil {
		return nil, err
	}
	params, err := json.Marshal(ToolCallParams{Name: name, Arguments: args})
	if err != nil {
		return nil, err
	}
	return &Request{
		JSONRPC: Version,
		ID:      idBytes,
		Method:  MethodToolsCall,
		Params:  params,
	}, nil
}

// NewResult builds a success response
func NewResult(id json.RawMessage, result any) (*Response, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &Response{JSONRPC: Version, ID: id, Result: data}, nil
}

// NewError builds an error response
func NewError(id json.RawMessage, code int, message string) *Response {
	return &Response{
		JSONRPC: Version,
		ID:      id,
		Error:   &Error{Code: code, Message: message},
	}
}

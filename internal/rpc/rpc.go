// ABOUTME: JSON-RPC 2.0 envelope types for the tool-call wire protocol
// ABOUTME: Request/Envelope/RPCError plus the tools/call parameter shapes

package rpc

import "encoding/json"

// Version is the JSON-RPC protocol version sent on every request.
const Version = "2.0"

// MethodToolsCall invokes a named remote tool.
const MethodToolsCall = "tools/call"

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  Params `json:"params"`
}

// Params carries the tool name and arguments for a tools/call request.
type Params struct {
	Name      string    `json:"name"`
	Arguments Arguments `json:"arguments"`
}

// Arguments are the inputs to the plant-health tool. Image must be a
// data-URL-prefixed base64 string by the time a request is marshaled.
type Arguments struct {
	Image string `json:"image"`
	Crop  string `json:"crop,omitempty"`
}

// Envelope is a JSON-RPC 2.0 response. A well-formed envelope carries exactly
// one of Result or Error.
type Envelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  *ToolResult     `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// ToolResult holds the content blocks returned by a tool.
type ToolResult struct {
	Content []ContentItem `json:"content"`
}

// ContentItem is one piece of tool output. The diagnosis endpoint always
// returns a single text item.
type ContentItem struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int             `json:"code,omitempty"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return e.Message
}

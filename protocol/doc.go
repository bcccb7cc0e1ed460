// Package protocol defines the JSON-RPC 2.0 message types, error codes and
// MCP method names spoken by the server.
//
// # Request and Response Types
//
//	type Request struct {
//	    JSONRPC string          `json:"jsonrpc"`
//	    ID      json.RawMessage `json:"id,omitempty"`
//	    Method  string          `json:"method"`
//	    Params  json.RawMessage `json:"params,omitempty"`
//	}
//
// A request without an id is a notification and never receives a response.
//
// # Error Codes
//
//	CodeParseError     = -32700  // Invalid JSON
//	CodeInvalidRequest = -32600  // Invalid Request object
//	CodeMethodNotFound = -32601  // Unknown method or tool
//	CodeInvalidParams  = -32602  // Arguments failed validation
//	CodeInternalError  = -32603  // Handler failure
//	CodeRateLimited    = -32003  // Rate limit exceeded
//
// # Methods
//
//	MethodInitialize  = "initialize"
//	MethodInitialized = "notifications/initialized"
//	MethodToolsList   = "tools/list"
//	MethodToolsCall   = "tools/call"
//	MethodPing        = "ping"
package protocol

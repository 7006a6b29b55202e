// mcp/protocol.go
// Definisi struktur dasar MCP protocol

package mcp

import "encoding/json"

// ToolRequest: "payload" (atau alias "params") diteruskan apa adanya sebagai body handler tool.
// "routes" = beberapa tool sekaligus, dieksekusi berurutan.
type ToolRequest struct {
	Tool     string          `json:"tool"`
	Question string          `json:"question,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Params   json.RawMessage `json:"params,omitempty"`
	Routes   []Route         `json:"routes,omitempty"`
}

type Route struct {
	Tool    string          `json:"tool"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ToolResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (r ToolRequest) body() json.RawMessage {
	if len(r.Payload) > 0 {
		return r.Payload
	}
	return r.Params
}

package rpc

import (
	"encoding/json"

	"github.com/loomkit/loom/internal/service"
)

// Envelope is the uniform tool result payload. Exactly one of Data or Error
// is set; Warnings may accompany either.
type Envelope struct {
	Data     interface{}    `json:"data,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Error    *service.Error `json:"error,omitempty"`
}

// Ok builds a success envelope.
func Ok(data interface{}, warnings ...string) *Envelope {
	return &Envelope{Data: data, Warnings: warnings}
}

// Fail builds an error envelope from a structured service error. Tool
// failures stay inside the envelope so the protocol call itself succeeds.
func Fail(err *service.Error) *Envelope {
	return &Envelope{Error: err}
}

// ContentBlock is a single MCP content item.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolResult is the tools/call result shape: the envelope serialized as one
// text content block. IsError marks envelopes carrying a structured error.
type ToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// result serializes the envelope into the MCP content-block shape.
func (e *Envelope) result() (*ToolResult, error) {
	text, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return &ToolResult{
		Content: []ContentBlock{{Type: "text", Text: string(text)}},
		IsError: e.Error != nil,
	}, nil
}

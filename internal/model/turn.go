// Package model defines data structures for the ordering agent.
package model

import (
	"time"
)

// Role represents the role of a transcript turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a model-issued request to execute a named tool.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // raw JSON exactly as the model produced it
}

// Turn is one entry in a customer's conversation transcript.
//
// Four shapes occur:
//   - system/user turns: Role + Content
//   - assistant text turn: Role assistant + Content
//   - tool-intent turn: Role assistant, empty Content, ToolCalls set
//   - tool-result turn: Role tool, Content holds the serialized result,
//     ToolCallID and Name identify the call it answers
//
// Every tool-result turn must answer a call id from the immediately
// preceding tool-intent turn, one result per requested call.
type Turn struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// SystemTurn builds the seed turn for a new transcript.
func SystemTurn(prompt string, now time.Time) Turn {
	return Turn{Role: RoleSystem, Content: prompt, CreatedAt: now}
}

// UserTurn builds a turn for an inbound customer message.
func UserTurn(text string, now time.Time) Turn {
	return Turn{Role: RoleUser, Content: text, CreatedAt: now}
}

// AssistantTurn builds a plain-text assistant turn.
func AssistantTurn(text string, now time.Time) Turn {
	return Turn{Role: RoleAssistant, Content: text, CreatedAt: now}
}

// ToolIntentTurn captures the model's requested calls verbatim.
func ToolIntentTurn(calls []ToolCall, now time.Time) Turn {
	return Turn{Role: RoleAssistant, ToolCalls: calls, CreatedAt: now}
}

// ToolResultTurn records the outcome of a single tool call.
func ToolResultTurn(callID, name, result string, now time.Time) Turn {
	return Turn{Role: RoleTool, Content: result, ToolCallID: callID, Name: name, CreatedAt: now}
}

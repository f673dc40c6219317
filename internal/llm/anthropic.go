package llm

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient is the Anthropic LLM client.
type AnthropicClient struct {
	client *anthropic.Client
	apiKey string
}

// NewAnthropicClient creates a new Anthropic client.
func NewAnthropicClient(apiKey string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, errors.New("Anthropic API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &AnthropicClient{
		client: client,
		apiKey: apiKey,
	}, nil
}

// Name returns the provider name.
func (c *AnthropicClient) Name() string {
	return "anthropic"
}

// Models returns available models.
func (c *AnthropicClient) Models() []string {
	return []string{
		"claude-3-5-sonnet-20241022",
		"claude-3-5-haiku-20241022",
		"claude-3-opus-20240229",
		"claude-3-haiku-20240307",
	}
}

// Complete sends a completion request.
func (c *AnthropicClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	system, messages := convertMessages(req.Messages)

	params := anthropic.MessageNewParams{
		Model:     anthropic.F(model),
		MaxTokens: anthropic.F(int64(maxTokens)),
		Messages:  anthropic.F(messages),
	}
	if system != "" {
		params.System = anthropic.F([]anthropic.TextBlockParam{
			{
				Type: anthropic.F(anthropic.TextBlockParamTypeText),
				Text: anthropic.F(system),
			},
		})
	}
	if len(req.Tools) > 0 {
		tools := make([]anthropic.ToolParam, len(req.Tools))
		for i, def := range req.Tools {
			var schema any
			if len(def.Parameters) > 0 {
				if err := json.Unmarshal(def.Parameters, &schema); err != nil {
					return nil, err
				}
			}
			tools[i] = anthropic.ToolParam{
				Name:        anthropic.F(def.Name),
				Description: anthropic.F(def.Description),
				InputSchema: anthropic.F(schema),
			}
		}
		params.Tools = anthropic.F(tools)
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	out := &CompletionResponse{
		Model:      resp.Model,
		TokensIn:   int(resp.Usage.InputTokens),
		TokensOut:  int(resp.Usage.OutputTokens),
		StopReason: string(resp.StopReason),
		LatencyMs:  time.Since(start).Milliseconds(),
	}

	for _, block := range resp.Content {
		switch block.Type {
		case anthropic.ContentBlockTypeText:
			out.Content += block.Text
		case anthropic.ContentBlockTypeToolUse:
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: string(block.Input),
			})
		}
	}

	return out, nil
}

// convertMessages maps the flat transcript onto Anthropic's block format.
// System turns become the system prompt; tool-result turns fold into user
// messages carrying tool_result blocks.
func convertMessages(in []ChatMessage) (string, []anthropic.MessageParam) {
	var system string
	var out []anthropic.MessageParam

	for _, msg := range in {
		switch msg.Role {
		case "system":
			if system != "" {
				system += "\n"
			}
			system += msg.Content

		case "assistant":
			var blocks []anthropic.ContentBlockParamUnion
			if msg.Content != "" {
				blocks = append(blocks, anthropic.TextBlockParam{
					Type: anthropic.F(anthropic.TextBlockParamTypeText),
					Text: anthropic.F(msg.Content),
				})
			}
			for _, call := range msg.ToolCalls {
				var input any
				_ = json.Unmarshal([]byte(call.Arguments), &input)
				blocks = append(blocks, anthropic.ToolUseBlockParam{
					Type:  anthropic.F(anthropic.ToolUseBlockParamTypeToolUse),
					ID:    anthropic.F(call.ID),
					Name:  anthropic.F(call.Name),
					Input: anthropic.F(input),
				})
			}
			out = append(out, anthropic.MessageParam{
				Role:    anthropic.F(anthropic.MessageParamRoleAssistant),
				Content: anthropic.F(blocks),
			})

		case "tool":
			block := anthropic.ToolResultBlockParam{
				Type:      anthropic.F(anthropic.ToolResultBlockParamTypeToolResult),
				ToolUseID: anthropic.F(msg.ToolCallID),
				Content: anthropic.F([]anthropic.ToolResultBlockParamContentUnion{
					anthropic.TextBlockParam{
						Type: anthropic.F(anthropic.TextBlockParamTypeText),
						Text: anthropic.F(msg.Content),
					},
				}),
			}
			// Consecutive tool results belong to the same user message.
			if n := len(out); n > 0 && out[n-1].Role.Value == anthropic.MessageParamRoleUser {
				blocks := out[n-1].Content.Value
				if containsToolResult(blocks) {
					out[n-1].Content = anthropic.F(append(blocks, anthropic.ContentBlockParamUnion(block)))
					continue
				}
			}
			out = append(out, anthropic.MessageParam{
				Role:    anthropic.F(anthropic.MessageParamRoleUser),
				Content: anthropic.F([]anthropic.ContentBlockParamUnion{block}),
			})

		default: // user
			out = append(out, anthropic.MessageParam{
				Role: anthropic.F(anthropic.MessageParamRoleUser),
				Content: anthropic.F([]anthropic.ContentBlockParamUnion{
					anthropic.TextBlockParam{
						Type: anthropic.F(anthropic.TextBlockParamTypeText),
						Text: anthropic.F(msg.Content),
					},
				}),
			})
		}
	}

	return system, out
}

func containsToolResult(blocks []anthropic.ContentBlockParamUnion) bool {
	for _, b := range blocks {
		if _, ok := b.(anthropic.ToolResultBlockParam); ok {
			return true
		}
	}
	return false
}

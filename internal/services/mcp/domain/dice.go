// Package domain defines the MCP tool surface for dicelang: tool
// declarations, their JSON schemas, and handlers that delegate to the
// roller service.
package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/dicelang/internal/services/roller"
)

// RollInput is the MCP tool input for rolling dice.
type RollInput struct {
	Expression string `json:"expression" jsonschema:"dice notation to roll, e.g. 4d6 k3 or an alias like dndstats"`
}

// RollValue is one resolved roll inside a request.
type RollValue struct {
	Label string `json:"label,omitempty" jsonschema:"set or user label for this roll"`
	Value int    `json:"value" jsonschema:"outcome value: damage, successes, or total"`
}

// RollResult is the MCP tool output for a roll.
type RollResult struct {
	Rendered  string      `json:"rendered" jsonschema:"formatted roll output"`
	Values    []RollValue `json:"values" jsonschema:"outcome value per resolved roll"`
	HistoryID int64       `json:"history_id,omitempty" jsonschema:"roll history row id, if history is enabled"`
}

// ExpandAliasInput is the MCP tool input for alias expansion.
type ExpandAliasInput struct {
	Alias string `json:"alias" jsonschema:"shorthand alias, e.g. 4cod or +d20"`
}

// ExpandAliasResult is the MCP tool output for alias expansion.
type ExpandAliasResult struct {
	Expression string `json:"expression,omitempty" jsonschema:"canonical dice notation"`
	Matched    bool   `json:"matched" jsonschema:"whether the input matched a known alias"`
}

// HistoryInput is the MCP tool input for listing roll history.
type HistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum records to return, newest first"`
}

// HistoryEntry is one stored roll.
type HistoryEntry struct {
	ID         int64  `json:"id" jsonschema:"history row id"`
	Expression string `json:"expression" jsonschema:"original roll request"`
	Rendered   string `json:"rendered" jsonschema:"formatted roll output"`
	Total      int    `json:"total" jsonschema:"combined outcome value"`
	CreatedAt  string `json:"created_at" jsonschema:"RFC 3339 creation time"`
}

// HistoryResult is the MCP tool output for roll history.
type HistoryResult struct {
	Rolls []HistoryEntry `json:"rolls" jsonschema:"stored rolls, newest first"`
}

// RollTool declares the roll tool.
func RollTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll",
		Description: "Rolls dice expressed in dice notation, including game-system aliases",
	}
}

// ExpandAliasTool declares the alias expansion tool.
func ExpandAliasTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "expand_alias",
		Description: "Expands a game-system shorthand alias into canonical dice notation",
	}
}

// RollHistoryTool declares the roll history tool.
func RollHistoryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_history",
		Description: "Lists recent rolls, newest first",
	}
}

// RollHandler executes roll requests against the roller service.
func RollHandler(svc *roller.Service) mcp.ToolHandlerFor[RollInput, RollResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollInput) (*mcp.CallToolResult, RollResult, error) {
		out, err := svc.Roll(ctx, input.Expression)
		if err != nil {
			return nil, RollResult{}, errors.New(svc.UserMessage(err))
		}

		values := make([]RollValue, 0, len(out.Results))
		for _, result := range out.Results {
			values = append(values, RollValue{
				Label: result.Label,
				Value: result.Value(),
			})
		}

		return nil, RollResult{
			Rendered:  out.Rendered,
			Values:    values,
			HistoryID: out.HistoryID,
		}, nil
	}
}

// ExpandAliasHandler resolves aliases without rolling.
func ExpandAliasHandler(svc *roller.Service) mcp.ToolHandlerFor[ExpandAliasInput, ExpandAliasResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ExpandAliasInput) (*mcp.CallToolResult, ExpandAliasResult, error) {
		expression, matched := svc.ExpandAlias(input.Alias)
		return nil, ExpandAliasResult{Expression: expression, Matched: matched}, nil
	}
}

// RollHistoryHandler lists stored rolls.
func RollHistoryHandler(svc *roller.Service) mcp.ToolHandlerFor[HistoryInput, HistoryResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input HistoryInput) (*mcp.CallToolResult, HistoryResult, error) {
		records, err := svc.History(ctx, input.Limit)
		if err != nil {
			return nil, HistoryResult{}, fmt.Errorf("list roll history: %w", err)
		}

		rolls := make([]HistoryEntry, 0, len(records))
		for _, record := range records {
			rolls = append(rolls, HistoryEntry{
				ID:         record.ID,
				Expression: record.Expression,
				Rendered:   record.Rendered,
				Total:      record.Total,
				CreatedAt:  record.CreatedAt.Format(time.RFC3339),
			})
		}
		return nil, HistoryResult{Rolls: rolls}, nil
	}
}

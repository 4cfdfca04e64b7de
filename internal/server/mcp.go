package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"gridiron-chat/internal/category"
	"gridiron-chat/internal/chat"
)

type PlayerStatsArgs struct {
	Query string `json:"query" jsonschema:"Player name, optionally followed by categories: offense, defense, special, penalties, all"`
}

type PlayerSearchArgs struct {
	Name  string `json:"name" jsonschema:"Name or part of a name (required)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum players to return (default 10)"`
}

type PlayerCountArgs struct{}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type searchHit struct {
	Name       string   `json:"name"`
	Team       string   `json:"team,omitempty"`
	Number     string   `json:"number,omitempty"`
	Position   string   `json:"position,omitempty"`
	Categories []string `json:"categories"`
}

func (s *Server) newMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "gridiron-chat",
			Version: "0.1.0",
		},
		nil,
	)

	addTool(server, &s.registry, &mcp.Tool{
		Name:        "player_stats",
		Description: "Merged offense/defense/special teams/penalty stats for players matching a name",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args PlayerStatsArgs) (*mcp.CallToolResult, any, error) {
		a := s.ready.Answer(args.Query)
		if a.Kind == chat.KindEmptyQuery {
			return toolError(fmt.Errorf("query is required")), nil, nil
		}
		return toolText(a.Text), nil, nil
	})

	addTool(server, &s.registry, &mcp.Tool{
		Name:        "player_search",
		Description: "Players whose names match, best match first, with their stat categories",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args PlayerSearchArgs) (*mcp.CallToolResult, any, error) {
		q, ok := chat.ParseQuery(args.Name)
		if !ok {
			return toolError(fmt.Errorf("name is required")), nil, nil
		}
		limit := args.Limit
		if limit <= 0 {
			limit = 10
		}
		found := s.ready.Search(q.SearchTerm)
		if len(found) > limit {
			found = found[:limit]
		}
		hits := make([]searchHit, 0, len(found))
		for _, p := range found {
			cats := []string{}
			for _, c := range category.Of(p).List() {
				cats = append(cats, c.String())
			}
			hits = append(hits, searchHit{
				Name:       p.Name(),
				Team:       p.Team(),
				Number:     p.Number(),
				Position:   p.Position(),
				Categories: cats,
			})
		}
		b, _ := json.MarshalIndent(map[string]any{"players": hits}, "", "  ")
		return toolText(string(b)), nil, nil
	})

	addTool(server, &s.registry, &mcp.Tool{
		Name:        "player_count",
		Description: "Number of unique players loaded",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args PlayerCountArgs) (*mcp.CallToolResult, any, error) {
		return toolText(fmt.Sprintf(`{"players": %d}`, s.ready.Len())), nil, nil
	})

	return server
}

func addTool[T any](server *mcp.Server, registry *[]toolInfo, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	*registry = append(*registry, toolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(server, tool, handler)
}

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/poiesic/conceptrag/core"
	"github.com/poiesic/conceptrag/search"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeEmptyQuery    = -32004 // Query parameter is empty
)

// handleSearch handles the search tool invocation
func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	searchType, err := parseSearchType(getStringDefault(args, "search_type", "document"))
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid search_type", map[string]interface{}{
			"param":   "search_type",
			"allowed": []string{"document", "passage", "concept"},
		})
	}

	debug, _ := args["debug"].(bool)

	results, err := s.searcher.Search(ctx, query, limit, &search.SearchOptions{
		Type:  searchType,
		Debug: debug,
	})
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	entries := make([]map[string]interface{}, len(results))
	for i, r := range results {
		entry := map[string]interface{}{
			"id":     uint64(r.Id),
			"text":   r.Text,
			"source": r.Source,
			"score":  r.Score,
		}
		if len(r.MatchedConcepts) > 0 {
			entry["matched_concepts"] = r.MatchedConcepts
		}
		if len(r.ExpandedTermsUsed) > 0 {
			entry["expanded_terms_used"] = r.ExpandedTermsUsed
		}
		entries[i] = entry
	}

	response := map[string]interface{}{
		"query":       query,
		"search_type": searchType.String(),
		"count":       len(entries),
		"results":     entries,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handlePrewarmLexicon handles the prewarm_lexicon tool invocation
func (s *Server) handlePrewarmLexicon(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.db.PrewarmLexicon(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "prewarm failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"total":   stats.Total,
		"cached":  stats.Cached,
		"fetched": stats.Fetched,
		"failed":  stats.Failed,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleCacheStats handles the cache_stats tool invocation
func (s *Server) handleCacheStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := map[string]interface{}{
		"concepts": map[string]interface{}{
			"entries": s.db.ConceptCache().Len(),
		},
		"lexicon": map[string]interface{}{
			"entries": s.db.LexicalCache().Len(),
		},
	}

	categoryStats, err := s.db.CategoryCache().Stats()
	if err == nil {
		response["categories"] = map[string]interface{}{
			"entries":  categoryStats.Categories,
			"aliases":  categoryStats.Aliases,
			"roots":    categoryStats.Roots,
			"docs":     categoryStats.Docs,
			"chunks":   categoryStats.Chunks,
			"concepts": categoryStats.Concepts,
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func parseSearchType(name string) (core.SearchType, error) {
	switch name {
	case "document":
		return core.SearchTypeDocument, nil
	case "passage":
		return core.SearchTypePassage, nil
	case "concept":
		return core.SearchTypeConcept, nil
	}
	return 0, fmt.Errorf("unknown search type %q", name)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

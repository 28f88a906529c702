package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// searchTool returns the tool definition for search
func searchTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search",
		Description: "Run a hybrid ranking query over the indexed corpus",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (natural language or keywords)",
				},
				"search_type": map[string]interface{}{
					"type":        "string",
					"description": "Ranking profile: document (whole documents), passage (individual passages), or concept (concept names)",
					"enum":        []string{"document", "passage", "concept"},
					"default":     "document",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
				"debug": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, log per-result score breakdowns server-side",
					"default":     false,
				},
			},
			Required: []string{"query"},
		},
	}
}

// prewarmLexiconTool returns the tool definition for prewarm_lexicon
func prewarmLexiconTool() mcp.Tool {
	return mcp.Tool{
		Name:        "prewarm_lexicon",
		Description: "Pre-fetch word senses for every known concept name so first queries avoid thesaurus latency",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// cacheStatsTool returns the tool definition for cache_stats
func cacheStatsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "cache_stats",
		Description: "Report sizes of the concept, category and lexical caches",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

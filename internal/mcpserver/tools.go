package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func stringProp(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

// ToolDefs returns the MCP tool definitions.
func ToolDefs() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "compose_content",
			Description: "Generate a social media artifact (text post, image carousel, short video, GIF, infographic or slide deck) for a podcast or a generic topic. Returns the full content record.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"kind": map[string]any{
						"type":        "string",
						"description": "Content kind: text, image-set, video, gif, infographic, slide-deck",
						"default":     "text",
					},
					"tone": map[string]any{
						"type":        "string",
						"description": "Tone: friendly, professional, enthusiastic, humorous",
						"default":     "friendly",
					},
					"style": map[string]any{
						"type":        "string",
						"description": "Style: educational, informative, promotional, storytelling",
						"default":     "educational",
					},
					"podcast_id": stringProp("Sample podcast ID to build the content around (see list_podcasts). Omit for generic content."),
					"topic":      stringProp("Generic topic used when no podcast_id is given"),
					"category":   stringProp("Generic category used when neither podcast_id nor topic is given: marketing, technology, entrepreneurship, business, entertainment, society, other"),
					"images": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Your own image URLs; used before any generated image (max 5)",
					},
					"publish": map[string]any{
						"type":        "boolean",
						"description": "Upload the record as JSON to the CDN and return its URL",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "analyze_podcast",
			Description: "Run an analysis of a podcast: listener metrics, sentiment, topics, audience segments, recommendations, competitors and six-month trends.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"podcast_id": stringProp("The podcast to analyze"),
					"publish": map[string]any{
						"type":        "boolean",
						"description": "Upload the report as JSON to the CDN and return its URL",
						"default":     false,
					},
				},
				Required: []string{"podcast_id"},
			},
		},
		{
			Name:        "compose_script",
			Description: "Write a short voice-over script from an analysis. Without analysis_text the latest analysis of podcast_id is used.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"podcast_id": stringProp("Podcast whose latest analysis seeds the script"),
					"tone": map[string]any{
						"type":        "string",
						"description": "Tone: conversational, professional, enthusiastic, educational",
						"default":     "conversational",
					},
					"style": map[string]any{
						"type":        "string",
						"description": "Style: summary (1-2 min), highlights (3-4 min), tutorial (6-8 min), case-study (6-8 min), deep-dive (10-12 min)",
						"default":     "summary",
					},
					"focus": map[string]any{
						"type":        "string",
						"description": "Bullet focus: insights, topics, actionable, balanced",
						"default":     "balanced",
					},
					"analysis_text": stringProp("Free-text analysis with 'Key insights:' and 'Main topics:' bullet sections"),
				},
			},
		},
		{
			Name:        "get_content",
			Description: "Get a generated content record by ID.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"content_id": stringProp("The content ID returned from compose_content"),
				},
				Required: []string{"content_id"},
			},
		},
		{
			Name:        "list_content",
			Description: "List generated content, newest first.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of results (default 20)",
						"default":     20,
					},
					"cursor": stringProp("Pagination cursor from a previous list_content call"),
				},
			},
		},
		{
			Name:        "list_podcasts",
			Description: "List the sample podcasts content can be generated for.",
			InputSchema: mcp.ToolInputSchema{
				Type:       "object",
				Properties: map[string]any{},
			},
		},
	}
}

// Register adds every tool to srv.
func (h *Handlers) Register(srv *server.MCPServer) {
	handlers := map[string]server.ToolHandlerFunc{
		"compose_content": h.HandleComposeContent,
		"analyze_podcast": h.HandleAnalyzePodcast,
		"compose_script":  h.HandleComposeScript,
		"get_content":     h.HandleGetContent,
		"list_content":    h.HandleListContent,
		"list_podcasts":   h.HandleListPodcasts,
	}
	for _, tool := range ToolDefs() {
		srv.AddTool(tool, handlers[tool.Name])
	}
}

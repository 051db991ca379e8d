package handlers

import "github.com/cricstack/ipl-mcp/pkg/mcp"

// ListTools returns the cricket tool descriptors in catalog order. The
// argument sets are closed: anything outside properties is rejected
// before a handler runs.
func (h *CricketHandler) ListTools() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "get_team_info",
			Description: "Get information about IPL teams",
			InputSchema: mcp.InputSchema{
				Type: "object",
				Properties: map[string]mcp.Property{
					"team_name": {
						Type:        "string",
						Description: "Name or short name of the team (substring match)",
					},
				},
			},
		},
		{
			Name:        "get_player_info",
			Description: "Get player information and team details",
			InputSchema: mcp.InputSchema{
				Type: "object",
				Properties: map[string]mcp.Property{
					"player_name": {
						Type:        "string",
						Description: "Name of the player (substring match)",
					},
					"team_name": {
						Type:        "string",
						Description: "Filter by team name (substring match)",
					},
				},
			},
		},
		{
			Name:        "get_match_details",
			Description: "Get detailed match information including scores and outcome",
			InputSchema: mcp.InputSchema{
				Type: "object",
				Properties: map[string]mcp.Property{
					"match_id": {
						Type:        "string",
						Description: "Specific match ID",
					},
					"season": {
						Type:        "integer",
						Description: "IPL season year",
					},
					"team_name": {
						Type:        "string",
						Description: "Filter by team name (substring match)",
					},
					"venue": {
						Type:        "string",
						Description: "Filter by venue (substring match)",
					},
				},
			},
		},
		{
			Name:        "get_ball_by_ball",
			Description: "Get ball-by-ball commentary and deliveries for a match",
			InputSchema: mcp.InputSchema{
				Type: "object",
				Properties: map[string]mcp.Property{
					"match_id": {
						Type:        "string",
						Description: "Match ID",
					},
					"innings": {
						Type:        "integer",
						Description: "Innings number (1 or 2)",
					},
					"over_start": {
						Type:        "integer",
						Description: "Starting over number",
					},
					"over_end": {
						Type:        "integer",
						Description: "Ending over number",
					},
				},
				Required: []string{"match_id"},
			},
		},
		{
			Name:        "get_player_performance",
			Description: "Get player performance in specific match or overall",
			InputSchema: mcp.InputSchema{
				Type: "object",
				Properties: map[string]mcp.Property{
					"player_name": {
						Type:        "string",
						Description: "Player name (substring match)",
					},
					"match_id": {
						Type:        "string",
						Description: "Specific match ID",
					},
					"stat_type": {
						Type:        "string",
						Description: "Type of stats",
						Enum:        []string{"batting", "bowling", "fielding", "all"},
						Default:     "all",
					},
				},
				Required: []string{"player_name"},
			},
		},
		{
			Name:        "get_match_officials",
			Description: "Get match officials information",
			InputSchema: mcp.InputSchema{
				Type: "object",
				Properties: map[string]mcp.Property{
					"match_id": {
						Type:        "string",
						Description: "Match ID",
					},
					"official_name": {
						Type:        "string",
						Description: "Official name (substring match)",
					},
				},
			},
		},
		{
			Name:        "get_venue_info",
			Description: "Get information about cricket venues",
			InputSchema: mcp.InputSchema{
				Type: "object",
				Properties: map[string]mcp.Property{
					"venue_name": {
						Type:        "string",
						Description: "Name of the venue (substring match)",
					},
					"city": {
						Type:        "string",
						Description: "Filter by city (substring match)",
					},
				},
			},
		},
	}
}

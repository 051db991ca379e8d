package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cricstack/ipl-mcp/internal/cache"
	"github.com/cricstack/ipl-mcp/internal/storage"
	"github.com/cricstack/ipl-mcp/pkg/mcp"
)

// CricketHandler answers the cricket statistics tools against the match
// store. Each handler reads its recognized optional filters, builds a
// conjunctive WHERE clause, and wraps the rows plus a row count into the
// tool's result mapping. Aggregates are computed by SQLite, not here.
type CricketHandler struct {
	store    *storage.Store
	cache    cache.Cache
	cacheTTL time.Duration
	log      *logrus.Logger
}

// NewCricketHandler creates the handler set over a store. cache may be
// nil to disable the parent-match lookup cache.
func NewCricketHandler(store *storage.Store, c cache.Cache, cacheTTL time.Duration, log *logrus.Logger) *CricketHandler {
	return &CricketHandler{
		store:    store,
		cache:    c,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// Register pairs every tool descriptor with its handler. Duplicate
// registration is a startup bug and surfaces as an error.
func (h *CricketHandler) Register(reg *mcp.Registry) error {
	handlers := map[string]mcp.ToolHandler{
		"get_team_info":          h.handleGetTeamInfo,
		"get_player_info":        h.handleGetPlayerInfo,
		"get_match_details":      h.handleGetMatchDetails,
		"get_ball_by_ball":       h.handleGetBallByBall,
		"get_player_performance": h.handleGetPlayerPerformance,
		"get_match_officials":    h.handleGetMatchOfficials,
		"get_venue_info":         h.handleGetVenueInfo,
	}
	for _, tool := range h.ListTools() {
		if err := reg.RegisterTool(tool, handlers[tool.Name]); err != nil {
			return err
		}
	}
	return nil
}

// handleGetTeamInfo returns teams with their win and match counts.
func (h *CricketHandler) handleGetTeamInfo(args map[string]any) (any, error) {
	f := &filter{}
	if team, ok := stringArg(args, "team_name"); ok {
		f.add("(t.name LIKE ? OR t.short_name LIKE ?)", like(team), like(team))
	}

	query := fmt.Sprintf(`
		SELECT t.*,
		       COUNT(CASE WHEN m.winner = t.name THEN 1 END) as wins,
		       COUNT(m.id) as total_matches
		FROM teams t
		LEFT JOIN matches m ON (m.team1 = t.name OR m.team2 = t.name)
		%s
		GROUP BY t.id
		ORDER BY t.name
	`, f.where())

	rows, err := h.store.Query(query, f.args()...)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"teams":       rows,
		"total_teams": len(rows),
	}, nil
}

// handleGetPlayerInfo returns players with delivery aggregates.
func (h *CricketHandler) handleGetPlayerInfo(args map[string]any) (any, error) {
	f := &filter{}
	if player, ok := stringArg(args, "player_name"); ok {
		f.add("p.name LIKE ?", like(player))
	}
	if team, ok := stringArg(args, "team_name"); ok {
		f.add("p.team LIKE ?", like(team))
	}

	query := fmt.Sprintf(`
		SELECT p.*,
		       COUNT(d.id) as total_deliveries,
		       SUM(d.runs_batter) as total_runs,
		       AVG(d.runs_batter) as avg_runs_per_delivery,
		       COUNT(CASE WHEN d.runs_batter >= 4 THEN 1 END) as boundaries
		FROM players p
		LEFT JOIN deliveries d ON d.batter = p.name OR d.bowler = p.name
		%s
		GROUP BY p.id
		ORDER BY total_runs DESC NULLS LAST, p.name
	`, f.where())

	rows, err := h.store.Query(query, f.args()...)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"players":       rows,
		"total_players": len(rows),
	}, nil
}

// handleGetMatchDetails returns matches joined with both innings
// summaries and the official count.
func (h *CricketHandler) handleGetMatchDetails(args map[string]any) (any, error) {
	f := &filter{}
	if matchID, ok := stringArg(args, "match_id"); ok {
		f.add("m.id = ?", matchID)
	}
	if season, ok := intArg(args, "season"); ok {
		f.add("m.season = ?", season)
	}
	if team, ok := stringArg(args, "team_name"); ok {
		f.add("(m.team1 LIKE ? OR m.team2 LIKE ?)", like(team), like(team))
	}
	if venue, ok := stringArg(args, "venue"); ok {
		f.add("m.venue LIKE ?", like(venue))
	}

	query := fmt.Sprintf(`
		SELECT m.*,
		       i1.total_runs as team1_runs,
		       i1.total_wickets as team1_wickets,
		       i1.total_overs as team1_overs,
		       i2.total_runs as team2_runs,
		       i2.total_wickets as team2_wickets,
		       i2.total_overs as team2_overs,
		       COUNT(o.id) as total_officials
		FROM matches m
		LEFT JOIN innings i1 ON i1.match_id = m.id AND i1.innings_number = 1
		LEFT JOIN innings i2 ON i2.match_id = m.id AND i2.innings_number = 2
		LEFT JOIN officials o ON o.match_id = m.id
		%s
		GROUP BY m.id
		ORDER BY m.date DESC
	`, f.where())

	rows, err := h.store.Query(query, f.args()...)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"matches":       rows,
		"total_matches": len(rows),
	}, nil
}

// handleGetBallByBall returns a match's deliveries in (innings, over,
// ball) order, with the parent match embedded (null when the match id is
// unknown) and the distinct (innings, over) count.
func (h *CricketHandler) handleGetBallByBall(args map[string]any) (any, error) {
	matchID, _ := stringArg(args, "match_id")

	f := &filter{}
	f.add("d.match_id = ?", matchID)
	if innings, ok := intArg(args, "innings"); ok {
		f.add("d.innings = ?", innings)
	}
	if overStart, ok := intArg(args, "over_start"); ok {
		f.add("d.over >= ?", overStart)
	}
	if overEnd, ok := intArg(args, "over_end"); ok {
		f.add("d.over <= ?", overEnd)
	}

	query := fmt.Sprintf(`
		SELECT d.*, m.team1, m.team2
		FROM deliveries d
		JOIN matches m ON m.id = d.match_id
		%s
		ORDER BY d.innings, d.over, d.ball
	`, f.where())

	rows, err := h.store.Query(query, f.args()...)
	if err != nil {
		return nil, err
	}

	matchInfo, err := h.matchInfo(matchID)
	if err != nil {
		return nil, err
	}

	overs := make(map[string]struct{})
	for _, row := range rows {
		innings, _ := row.Get("innings")
		over, _ := row.Get("over")
		overs[fmt.Sprintf("%v/%v", innings, over)] = struct{}{}
	}

	return map[string]any{
		"match_info":       matchInfo,
		"deliveries":       rows,
		"total_deliveries": len(rows),
		"overs_covered":    len(overs),
	}, nil
}

// matchInfo is the single-row parent lookup, cached by match id. A
// missing match is not an error: the caller embeds an explicit null.
func (h *CricketHandler) matchInfo(matchID string) (any, error) {
	key := "match:" + matchID
	if h.cache != nil {
		if cached, ok := h.cache.Get(key); ok {
			return json.RawMessage(cached), nil
		}
	}

	row, err := h.store.MatchByID(matchID)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	if h.cache != nil {
		if encoded, err := json.Marshal(row); err == nil {
			h.cache.Set(key, encoded, h.cacheTTL)
		}
	}
	return row, nil
}

// handleGetPlayerPerformance computes independent batting and bowling
// aggregate blocks, gated by stat_type. "fielding" is recognized but has
// no computation block, so it yields an empty performance mapping.
func (h *CricketHandler) handleGetPlayerPerformance(args map[string]any) (any, error) {
	playerName, _ := stringArg(args, "player_name")
	statType, ok := stringArg(args, "stat_type")
	if !ok {
		statType = "all"
	}
	var matchID any
	if id, ok := stringArg(args, "match_id"); ok {
		matchID = id
	}

	performance := map[string]any{}

	if statType == "batting" || statType == "all" {
		f := &filter{}
		f.add("d.batter LIKE ?", like(playerName))
		if matchID != nil {
			f.add("d.match_id = ?", matchID)
		}

		// Strike rate divides by balls faced; with zero balls SQLite
		// yields NULL, never a division fault.
		query := fmt.Sprintf(`
			SELECT
			    COUNT(d.id) as balls_faced,
			    SUM(d.runs_batter) as runs_scored,
			    COUNT(CASE WHEN d.runs_batter = 4 THEN 1 END) as fours,
			    COUNT(CASE WHEN d.runs_batter = 6 THEN 1 END) as sixes,
			    COUNT(CASE WHEN d.runs_batter >= 4 THEN 1 END) as boundaries,
			    ROUND(CAST(SUM(d.runs_batter) AS FLOAT) / COUNT(d.id) * 100, 2) as strike_rate,
			    COUNT(DISTINCT d.match_id) as matches_played
			FROM deliveries d
			%s
		`, f.where())

		rows, err := h.store.Query(query, f.args()...)
		if err != nil {
			return nil, err
		}
		performance["batting"] = firstOrEmpty(rows)
	}

	if statType == "bowling" || statType == "all" {
		f := &filter{}
		f.add("d.bowler LIKE ?", like(playerName))
		if matchID != nil {
			f.add("d.match_id = ?", matchID)
		}

		query := fmt.Sprintf(`
			SELECT
			    COUNT(d.id) as balls_bowled,
			    SUM(d.runs_total) as runs_conceded,
			    COUNT(CASE WHEN d.wicket_type IS NOT NULL AND d.wicket_type != '' THEN 1 END) as wickets,
			    ROUND(CAST(SUM(d.runs_total) AS FLOAT) / COUNT(d.id) * 6, 2) as economy_rate,
			    COUNT(DISTINCT d.match_id) as matches_bowled
			FROM deliveries d
			%s
		`, f.where())

		rows, err := h.store.Query(query, f.args()...)
		if err != nil {
			return nil, err
		}
		performance["bowling"] = firstOrEmpty(rows)
	}

	return map[string]any{
		"player_name": playerName,
		"match_id":    matchID,
		"stat_type":   statType,
		"performance": performance,
	}, nil
}

func firstOrEmpty(rows []storage.Row) any {
	if len(rows) > 0 {
		return rows[0]
	}
	return map[string]any{}
}

// handleGetMatchOfficials returns officials with their match context.
func (h *CricketHandler) handleGetMatchOfficials(args map[string]any) (any, error) {
	f := &filter{}
	if matchID, ok := stringArg(args, "match_id"); ok {
		f.add("o.match_id = ?", matchID)
	}
	if name, ok := stringArg(args, "official_name"); ok {
		f.add("o.name LIKE ?", like(name))
	}

	query := fmt.Sprintf(`
		SELECT o.*, m.date, m.venue, m.team1, m.team2
		FROM officials o
		LEFT JOIN matches m ON m.id = o.match_id
		%s
		ORDER BY m.date DESC, o.role, o.name
	`, f.where())

	rows, err := h.store.Query(query, f.args()...)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"officials":       rows,
		"total_officials": len(rows),
	}, nil
}

// handleGetVenueInfo aggregates matches per venue, busiest first.
func (h *CricketHandler) handleGetVenueInfo(args map[string]any) (any, error) {
	f := &filter{}
	if venue, ok := stringArg(args, "venue_name"); ok {
		f.add("m.venue LIKE ?", like(venue))
	}
	if city, ok := stringArg(args, "city"); ok {
		f.add("m.city LIKE ?", like(city))
	}

	query := fmt.Sprintf(`
		SELECT
		    m.venue,
		    COUNT(m.id) as total_matches,
		    COUNT(CASE WHEN m.winner = m.team1 THEN 1 END) as team1_wins,
		    COUNT(CASE WHEN m.winner = m.team2 THEN 1 END) as team2_wins,
		    GROUP_CONCAT(DISTINCT m.winner) as teams_won,
		    MIN(m.date) as first_match_date,
		    MAX(m.date) as last_match_date
		FROM matches m
		%s
		GROUP BY m.venue
		ORDER BY total_matches DESC, m.venue
	`, f.where())

	rows, err := h.store.Query(query, f.args()...)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"venues":       rows,
		"total_venues": len(rows),
	}, nil
}

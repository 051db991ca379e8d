package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/cricstack/ipl-mcp/internal/models"
)

// matchFile mirrors the Cricsheet ball-by-ball JSON layout: an info
// block plus one entry per innings, each a list of overs.
type matchFile struct {
	Info    matchInfo `json:"info"`
	Innings []inning  `json:"innings"`
}

type matchInfo struct {
	City      string              `json:"city"`
	Dates     []string            `json:"dates"`
	Venue     string              `json:"venue"`
	Teams     []string            `json:"teams"`
	Toss      toss                `json:"toss"`
	Outcome   outcome             `json:"outcome"`
	Players   map[string][]string `json:"players"`
	Officials map[string][]string `json:"officials"`
	Season    any                 `json:"season"`
}

type toss struct {
	Winner   string `json:"winner"`
	Decision string `json:"decision"`
}

type outcome struct {
	Winner string         `json:"winner"`
	Result string         `json:"result"`
	By     map[string]int `json:"by"`
}

type inning struct {
	Team  string `json:"team"`
	Overs []over `json:"overs"`
}

type over struct {
	Over       int        `json:"over"`
	Deliveries []delivery `json:"deliveries"`
}

type delivery struct {
	Batter     string   `json:"batter"`
	Bowler     string   `json:"bowler"`
	NonStriker string   `json:"non_striker"`
	Runs       runs     `json:"runs"`
	Wickets    []wicket `json:"wickets"`
}

type runs struct {
	Batter int `json:"batter"`
	Extras int `json:"extras"`
	Total  int `json:"total"`
}

type wicket struct {
	Kind      string `json:"kind"`
	PlayerOut string `json:"player_out"`
}

// ParsedMatch is one source file converted to storage records.
type ParsedMatch struct {
	Match      models.Match
	Deliveries []models.Delivery
	Innings    []models.InningsSummary
	Officials  []models.Official
	Teams      []models.Team
	Players    []models.Player
}

// ParseFile reads one Cricsheet JSON file. The match id is the file
// name without extension, as in the source dataset.
func ParseFile(path string) (*ParsedMatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var mf matchFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	matchID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return convert(matchID, &mf)
}

func convert(matchID string, mf *matchFile) (*ParsedMatch, error) {
	info := mf.Info
	if len(info.Teams) != 2 {
		return nil, fmt.Errorf("match %s: expected 2 teams, got %d", matchID, len(info.Teams))
	}
	team1, team2 := info.Teams[0], info.Teams[1]

	date := ""
	if len(info.Dates) > 0 {
		date = info.Dates[0]
	}

	result := info.Outcome.Result
	if result == "" {
		result = "normal"
	}

	margin := ""
	if n, ok := info.Outcome.By["runs"]; ok {
		margin = fmt.Sprintf("%d runs", n)
	} else if n, ok := info.Outcome.By["wickets"]; ok {
		margin = fmt.Sprintf("%d wickets", n)
	}

	parsed := &ParsedMatch{
		Match: models.Match{
			ID:           matchID,
			Date:         date,
			Season:       seasonYear(info.Season, date),
			City:         info.City,
			Venue:        info.Venue,
			Team1:        team1,
			Team2:        team2,
			TossWinner:   info.Toss.Winner,
			TossDecision: info.Toss.Decision,
			Winner:       info.Outcome.Winner,
			Result:       result,
			Margin:       margin,
		},
	}

	for number, in := range mf.Innings {
		inningsNumber := number + 1
		battingTeam := in.Team
		bowlingTeam := team1
		if battingTeam == team1 {
			bowlingTeam = team2
		}

		totalRuns, totalWickets := 0, 0
		ballsInLastOver := 0
		for _, ov := range in.Overs {
			for ball, d := range ov.Deliveries {
				wicketType, playerDismissed := "", ""
				if len(d.Wickets) > 0 {
					wicketType = d.Wickets[0].Kind
					playerDismissed = d.Wickets[0].PlayerOut
					totalWickets++
				}
				totalRuns += d.Runs.Total

				parsed.Deliveries = append(parsed.Deliveries, models.Delivery{
					MatchID:         matchID,
					Innings:         inningsNumber,
					Over:            ov.Over,
					Ball:            ball + 1,
					BattingTeam:     battingTeam,
					BowlingTeam:     bowlingTeam,
					Batter:          d.Batter,
					NonStriker:      d.NonStriker,
					Bowler:          d.Bowler,
					RunsBatter:      d.Runs.Batter,
					RunsExtras:      d.Runs.Extras,
					RunsTotal:       d.Runs.Total,
					WicketType:      wicketType,
					PlayerDismissed: playerDismissed,
				})
			}
			ballsInLastOver = len(ov.Deliveries)
		}

		parsed.Innings = append(parsed.Innings, models.InningsSummary{
			MatchID:       matchID,
			InningsNumber: inningsNumber,
			BattingTeam:   battingTeam,
			TotalRuns:     totalRuns,
			TotalWickets:  totalWickets,
			TotalOvers:    oversNotation(len(in.Overs), ballsInLastOver),
		})
	}

	for _, role := range []struct{ key, name string }{
		{"umpires", "umpire"},
		{"tv_umpires", "tv_umpire"},
		{"reserve_umpires", "reserve_umpire"},
		{"match_referees", "match_referee"},
	} {
		for _, name := range info.Officials[role.key] {
			parsed.Officials = append(parsed.Officials, models.Official{
				MatchID: matchID,
				Name:    name,
				Role:    role.name,
			})
		}
	}

	for _, team := range info.Teams {
		parsed.Teams = append(parsed.Teams, models.Team{
			Name:      team,
			ShortName: shortName(team),
		})
	}
	for team, squad := range info.Players {
		for _, player := range squad {
			parsed.Players = append(parsed.Players, models.Player{
				Name: player,
				Team: team,
			})
		}
	}

	return parsed, nil
}

// seasonYear resolves the season to a year. Cricsheet seasons are a
// number or a string like "2007/08"; the match date's year is the
// fallback.
func seasonYear(season any, date string) int {
	switch s := season.(type) {
	case float64:
		return int(s)
	case string:
		if len(s) >= 4 {
			if year, err := strconv.Atoi(s[:4]); err == nil {
				return year
			}
		}
	}
	if len(date) >= 4 {
		if year, err := strconv.Atoi(date[:4]); err == nil {
			return year
		}
	}
	return 0
}

// oversNotation renders an innings length in overs.balls notation
// (19 full overs plus 4 deliveries -> 19.4).
func oversNotation(overCount, ballsInLastOver int) float64 {
	if overCount == 0 {
		return 0
	}
	if ballsInLastOver >= 6 {
		return float64(overCount)
	}
	return float64(overCount-1) + float64(ballsInLastOver)*0.1
}

// shortName derives a team abbreviation from its initials
// ("Royal Challengers Bangalore" -> "RCB").
func shortName(team string) string {
	var b strings.Builder
	for _, word := range strings.Fields(team) {
		for _, r := range word {
			if unicode.IsLetter(r) {
				b.WriteRune(unicode.ToUpper(r))
				break
			}
		}
	}
	return b.String()
}

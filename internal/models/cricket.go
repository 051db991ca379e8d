package models

// Match is one fixture: identity, scheduling, sides and outcome.
type Match struct {
	ID           string
	Date         string
	Season       int
	City         string
	Venue        string
	Team1        string
	Team2        string
	TossWinner   string
	TossDecision string
	Winner       string
	Result       string
	Margin       string
}

// Delivery is one bowled ball, the atomic row of match event data.
type Delivery struct {
	MatchID         string
	Innings         int
	Over            int
	Ball            int
	BattingTeam     string
	BowlingTeam     string
	Batter          string
	NonStriker      string
	Bowler          string
	RunsBatter      int
	RunsExtras      int
	RunsTotal       int
	WicketType      string
	PlayerDismissed string
}

// InningsSummary is one team's batting turn, aggregated.
type InningsSummary struct {
	MatchID       string
	InningsNumber int
	BattingTeam   string
	TotalRuns     int
	TotalWickets  int
	TotalOvers    float64
}

// Official is an umpire or referee assignment for a match.
type Official struct {
	MatchID string
	Name    string
	Role    string
}

// Player links a squad member to the team they appeared for.
type Player struct {
	Name string
	Team string
}

// Team is a side appearing in the dataset.
type Team struct {
	Name      string
	ShortName string
}

package storage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cricstack/ipl-mcp/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func fixtureMatch() (models.Match, []models.Delivery) {
	m := models.Match{
		ID:           "335982",
		Date:         "2008-04-18",
		Season:       2008,
		City:         "Bangalore",
		Venue:        "M Chinnaswamy Stadium",
		Team1:        "Royal Challengers Bangalore",
		Team2:        "Kolkata Knight Riders",
		TossWinner:   "Royal Challengers Bangalore",
		TossDecision: "field",
		Winner:       "Kolkata Knight Riders",
		Result:       "normal",
		Margin:       "140 runs",
	}
	deliveries := []models.Delivery{
		{MatchID: m.ID, Innings: 1, Over: 0, Ball: 1, BattingTeam: m.Team2, BowlingTeam: m.Team1, Batter: "SC Ganguly", NonStriker: "BB McCullum", Bowler: "P Kumar", RunsExtras: 1, RunsTotal: 1},
		{MatchID: m.ID, Innings: 1, Over: 0, Ball: 2, BattingTeam: m.Team2, BowlingTeam: m.Team1, Batter: "BB McCullum", NonStriker: "SC Ganguly", Bowler: "P Kumar"},
		{MatchID: m.ID, Innings: 1, Over: 1, Ball: 1, BattingTeam: m.Team2, BowlingTeam: m.Team1, Batter: "BB McCullum", NonStriker: "SC Ganguly", Bowler: "Z Khan", RunsBatter: 4, RunsTotal: 4},
	}
	return m, deliveries
}

func TestReplaceMatchRoundTrip(t *testing.T) {
	store := openTestStore(t)
	m, deliveries := fixtureMatch()

	require.NoError(t, store.ReplaceMatch(m, deliveries, nil, nil))

	rows, err := store.Query("SELECT * FROM deliveries WHERE match_id = ? ORDER BY innings, over, ball", m.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	batter, _ := rows[0].Get("batter")
	assert.Equal(t, "SC Ganguly", batter)
}

func TestReplaceMatchIsIdempotent(t *testing.T) {
	store := openTestStore(t)
	m, deliveries := fixtureMatch()

	require.NoError(t, store.ReplaceMatch(m, deliveries, nil, nil))
	require.NoError(t, store.ReplaceMatch(m, deliveries, nil, nil))

	rows, err := store.Query("SELECT COUNT(*) as n FROM deliveries WHERE match_id = ?", m.ID)
	require.NoError(t, err)
	n, _ := rows[0].Get("n")
	assert.EqualValues(t, 3, n)

	rows, err = store.Query("SELECT COUNT(*) as n FROM matches")
	require.NoError(t, err)
	n, _ = rows[0].Get("n")
	assert.EqualValues(t, 1, n)
}

func TestMatchByIDNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.MatchByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQueryReturnsEmptySliceNotNil(t *testing.T) {
	store := openTestStore(t)

	rows, err := store.Query("SELECT * FROM matches")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestRowMarshalPreservesColumnOrder(t *testing.T) {
	store := openTestStore(t)
	m, _ := fixtureMatch()
	require.NoError(t, store.ReplaceMatch(m, nil, nil, nil))

	rows, err := store.Query("SELECT venue, city, season FROM matches WHERE id = ?", m.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	encoded, err := json.Marshal(rows[0])
	require.NoError(t, err)
	assert.Equal(t, `{"venue":"M Chinnaswamy Stadium","city":"Bangalore","season":2008}`, string(encoded))
}

func TestUpsertTeamUpdatesShortName(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.UpsertTeam(models.Team{Name: "Chennai Super Kings", ShortName: "CS"}))
	require.NoError(t, store.UpsertTeam(models.Team{Name: "Chennai Super Kings", ShortName: "CSK"}))

	rows, err := store.Query("SELECT short_name FROM teams WHERE name = ?", "Chennai Super Kings")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	short, _ := rows[0].Get("short_name")
	assert.Equal(t, "CSK", short)
}

func TestUpsertPlayerIgnoresDuplicates(t *testing.T) {
	store := openTestStore(t)

	p := models.Player{Name: "V Kohli", Team: "Royal Challengers Bangalore"}
	require.NoError(t, store.UpsertPlayer(p))
	require.NoError(t, store.UpsertPlayer(p))

	rows, err := store.Query("SELECT COUNT(*) as n FROM players")
	require.NoError(t, err)
	n, _ := rows[0].Get("n")
	assert.EqualValues(t, 1, n)
}

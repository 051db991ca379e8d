package ingest

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/cricstack/ipl-mcp/internal/storage"
)

// Loader populates the match store from a directory of Cricsheet JSON
// files. Reloading is idempotent: each file replaces its own match.
type Loader struct {
	store  *storage.Store
	events Publisher
	log    *logrus.Logger
}

// NewLoader wires a loader. events may be a NopPublisher when no broker
// is configured.
func NewLoader(store *storage.Store, events Publisher, log *logrus.Logger) *Loader {
	return &Loader{
		store:  store,
		events: events,
		log:    log,
	}
}

// LoadDir ingests every *.json file under dir in name order. A bad file
// is logged and skipped; the rest of the directory still loads.
func (l *Loader) LoadDir(dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, err
	}
	sort.Strings(paths)

	loaded := 0
	for _, path := range paths {
		if err := l.LoadFile(path); err != nil {
			l.log.WithField("file", path).WithError(err).Error("skipping match file")
			continue
		}
		loaded++
	}

	l.log.WithFields(logrus.Fields{"loaded": loaded, "found": len(paths)}).Info("ingest complete")
	return loaded, nil
}

// LoadFile ingests a single match file and publishes a load event.
func (l *Loader) LoadFile(path string) error {
	parsed, err := ParseFile(path)
	if err != nil {
		return err
	}

	if err := l.store.ReplaceMatch(parsed.Match, parsed.Deliveries, parsed.Innings, parsed.Officials); err != nil {
		return fmt.Errorf("storing match %s: %w", parsed.Match.ID, err)
	}
	for _, team := range parsed.Teams {
		if err := l.store.UpsertTeam(team); err != nil {
			return fmt.Errorf("storing team %s: %w", team.Name, err)
		}
	}
	for _, player := range parsed.Players {
		if err := l.store.UpsertPlayer(player); err != nil {
			return fmt.Errorf("storing player %s: %w", player.Name, err)
		}
	}

	l.log.WithFields(logrus.Fields{
		"match":      parsed.Match.ID,
		"deliveries": len(parsed.Deliveries),
	}).Info("loaded match")

	if err := l.events.MatchLoaded(MatchLoadedEvent{
		MatchID:    parsed.Match.ID,
		Date:       parsed.Match.Date,
		Venue:      parsed.Match.Venue,
		Teams:      []string{parsed.Match.Team1, parsed.Match.Team2},
		Deliveries: len(parsed.Deliveries),
	}); err != nil {
		// Eventing is best effort; the store is already consistent.
		l.log.WithField("match", parsed.Match.ID).WithError(err).Warn("failed to publish load event")
	}

	return nil
}

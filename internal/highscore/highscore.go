// Package highscore persists final race scores. It is the scoring
// collaborator the race core reports into on game over; the core never reads
// back from it or blocks on it.
package highscore

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Entry is one finished run on the leaderboard.
type Entry struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"index"`
	Score     int    `gorm:"index"`
	CreatedAt time.Time
}

// Store is a sqlite-backed leaderboard.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the leaderboard database at path and migrates the
// schema. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("open highscore db %q: %w", path, err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate highscore schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Submit records a finished run.
func (s *Store) Submit(name string, score int) error {
	entry := Entry{Name: name, Score: score}
	if err := s.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("submit score: %w", err)
	}
	return nil
}

// Top returns the n best runs, highest score first, newest first on ties.
func (s *Store) Top(n int) ([]Entry, error) {
	var entries []Entry
	err := s.db.
		Order("score DESC, created_at DESC").
		Limit(n).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	return entries, nil
}

// Best returns the highest recorded score, or 0 when the board is empty.
func (s *Store) Best() (int, error) {
	top, err := s.Top(1)
	if err != nil {
		return 0, err
	}
	if len(top) == 0 {
		return 0, nil
	}
	return top[0].Score, nil
}

// Reporter adapts the store to the race core's score reporter for one named
// player. Submission happens on a separate goroutine and failures go to the
// callback, so a slow disk never stalls a tick.
type Reporter struct {
	store *Store
	name  string
	onErr func(error)
}

// NewReporter creates a reporter writing scores for name into store. onErr
// may be nil.
func (s *Store) NewReporter(name string, onErr func(error)) *Reporter {
	return &Reporter{store: s, name: name, onErr: onErr}
}

// Report implements race.ScoreReporter.
func (r *Reporter) Report(score int) {
	go func() {
		if err := r.store.Submit(r.name, score); err != nil && r.onErr != nil {
			r.onErr(err)
		}
	}()
}

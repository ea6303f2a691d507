package storage

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chessboard/internal/rules"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
)

// Square size bounds accepted from stored preferences.
const (
	MinSquareSize     = 32
	MaxSquareSize     = 160
	DefaultSquareSize = 80
)

// Preferences stores user settings
type Preferences struct {
	Flipped    bool      `json:"flipped"`
	SquareSize int       `json:"square_size"`
	ClaimDraws bool      `json:"claim_draws"`
	LogLevel   string    `json:"log_level"`
	LastPlayed time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *Preferences {
	return &Preferences{
		SquareSize: DefaultSquareSize,
		ClaimDraws: true,
		LogLevel:   "info",
		LastPlayed: time.Now(),
	}
}

// ClampSquareSize limits a square size to [MinSquareSize, MaxSquareSize].
// Zero selects DefaultSquareSize.
func ClampSquareSize(size int) int {
	if size == 0 {
		return DefaultSquareSize
	}
	return min(max(size, MinSquareSize), MaxSquareSize)
}

// normalize clamps values a hand-edited or older record may carry.
func (p *Preferences) normalize() {
	p.SquareSize = ClampSquareSize(p.SquareSize)
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
}

// Stats counts finished games by result
type Stats struct {
	GamesPlayed int            `json:"games_played"`
	WhiteWins   int            `json:"white_wins"`
	BlackWins   int            `json:"black_wins"`
	Draws       int            `json:"draws"`
	ByOutcome   map[string]int `json:"by_outcome"`
}

// NewStats returns empty statistics
func NewStats() *Stats {
	return &Stats{ByOutcome: make(map[string]int)}
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// Open opens (creating if needed) the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenDefault opens the database in the platform data directory.
func OpenDefault() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// OpenInMemory opens a database that is discarded on Close.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	if err := s.get(keyPreferences, prefs); err != nil {
		return DefaultPreferences(), err
	}
	prefs.normalize()
	return prefs, nil
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*Stats, error) {
	stats := NewStats()
	if err := s.get(keyStats, stats); err != nil {
		return NewStats(), err
	}
	if stats.ByOutcome == nil {
		stats.ByOutcome = make(map[string]int)
	}
	return stats, nil
}

// RecordResult adds a finished game to the statistics. Unfinished games are
// ignored.
func (s *Storage) RecordResult(st rules.Status) error {
	if !st.Over() {
		return nil
	}
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.ByOutcome[st.Kind.String()]++
	switch st.Result() {
	case "1-0":
		stats.WhiteWins++
	case "0-1":
		stats.BlackWins++
	default:
		stats.Draws++
	}
	return s.put(keyStats, stats)
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes key into v, leaving v untouched when the key is missing.
func (s *Storage) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

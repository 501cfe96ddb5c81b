package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/petroom/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkNeglectWave  BookmarkType = "neglect_wave"
	BookmarkMoodCrash    BookmarkType = "mood_crash"
	BookmarkLevelUpBurst BookmarkType = "level_up_burst"
	BookmarkCalmRoom     BookmarkType = "calm_room"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int64        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable windows in the room.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	neglected          bool // previous window met the neglect condition
	stableWindowsCount int  // consecutive windows with a calm room
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(cfg config.BookmarksConfig, historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3 // minimum for a meaningful rolling average
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Neglect wave: median hunger fell below threshold
	if b := bd.checkNeglectWave(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Mood crash: content share dropped well below rolling average
	if b := bd.checkMoodCrash(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Level-up burst
	if b := bd.checkLevelUpBurst(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Calm room: nearly every pet happy for several windows
	if b := bd.checkCalmRoom(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkNeglectWave(stats WindowStats) *Bookmark {
	cfg := bd.cfg.NeglectWave
	hit := stats.Pets >= cfg.MinPets && stats.HungerP50 < cfg.HungerP50
	wasNeglected := bd.neglected
	bd.neglected = hit

	// Fire on entering the condition only
	if !hit || wasNeglected {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkNeglectWave,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Median hunger %.1f below %.1f across %d pets", stats.HungerP50, cfg.HungerP50, stats.Pets),
	}
}

func (bd *BookmarkDetector) checkMoodCrash(stats WindowStats) *Bookmark {
	cfg := bd.cfg.MoodCrash
	history := bd.getHistory()
	if len(history) < 3 || stats.Pets < cfg.MinPets {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.ContentFraction
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	drop := 1.0 - stats.ContentFraction/avg
	if drop > cfg.DropFraction {
		return &Bookmark{
			Type:        BookmarkMoodCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Content share %.2f dropped %.0f%% from average %.2f", stats.ContentFraction, drop*100, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkLevelUpBurst(stats WindowStats) *Bookmark {
	threshold := bd.cfg.LevelUpBurst.MinLevelUps
	if threshold <= 0 || stats.LevelUps < threshold {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkLevelUpBurst,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d level-ups in one window, max level %d", stats.LevelUps, stats.LevelMax),
	}
}

func (bd *BookmarkDetector) checkCalmRoom(stats WindowStats) *Bookmark {
	cfg := bd.cfg.CalmRoom
	if stats.Pets < cfg.MinPets || stats.HappyFraction < cfg.HappyFraction {
		bd.stableWindowsCount = 0
		return nil
	}

	bd.stableWindowsCount++
	if bd.stableWindowsCount == cfg.StableWindows { // trigger exactly once per calm stretch
		return &Bookmark{
			Type:        BookmarkCalmRoom,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%.0f%% of %d pets happy over %d windows", stats.HappyFraction*100, stats.Pets, cfg.StableWindows),
		}
	}
	return nil
}

// Package leaderboard stores and serves high scores.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxEntries is the number of entries a board retains.
const MaxEntries = 100

// MaxNameLength is the longest accepted player name, in runes.
const MaxNameLength = 24

var (
	ErrInvalidName  = errors.New("invalid name")
	ErrInvalidScore = errors.New("invalid score")
)

// Entry is one recorded score.
type Entry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
}

// Submission is a score sent by a player.
type Submission struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Mode  string `json:"mode"`
}

// Store persists entries and returns the best ones.
type Store interface {
	Submit(ctx context.Context, s Submission) (Entry, error)
	Top(ctx context.Context, limit int) ([]Entry, error)
}

// Validate checks a submission and returns it with the name trimmed.
func Validate(s Submission) (Submission, error) {
	s.Name = strings.TrimSpace(s.Name)
	n := utf8.RuneCountInString(s.Name)
	if n == 0 || n > MaxNameLength {
		return s, fmt.Errorf("%w: name must be 1 to %d characters", ErrInvalidName, MaxNameLength)
	}
	if s.Score < 0 {
		return s, fmt.Errorf("%w: %d", ErrInvalidScore, s.Score)
	}
	if s.Mode == "" {
		s.Mode = "single"
	}
	return s, nil
}

// Rank sorts entries best first and drops everything past MaxEntries.
// Equal scores keep the earlier entry ahead.
func Rank(entries []Entry) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries
}

// clampLimit maps a requested page size onto 1..MaxEntries.
func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxEntries {
		return MaxEntries
	}
	return limit
}

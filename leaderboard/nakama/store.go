// Package nakama exposes the leaderboard as a Nakama runtime module.
package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"termtris/leaderboard"
)

// LeaderboardAPI is the part of runtime.NakamaModule the store needs.
type LeaderboardAPI interface {
	LeaderboardRecordWrite(ctx context.Context, id, ownerID, username string, score, subscore int64, metadata map[string]interface{}, overrideOperator *int) (*api.LeaderboardRecord, error)
	LeaderboardRecordsList(ctx context.Context, id string, ownerIDs []string, limit int, cursor string, expiry int64) (records []*api.LeaderboardRecord, ownerRecords []*api.LeaderboardRecord, nextCursor string, prevCursor string, err error)
}

// Store implements leaderboard.Store on top of a Nakama leaderboard.
type Store struct {
	nk LeaderboardAPI
}

// NewStore creates a store writing to the termtris leaderboard.
func NewStore(nk LeaderboardAPI) *Store {
	return &Store{nk: nk}
}

// Submit writes a record. The owner is the calling user when the request is
// authenticated, otherwise a fresh id.
func (s *Store) Submit(ctx context.Context, sub leaderboard.Submission) (leaderboard.Entry, error) {
	sub, err := leaderboard.Validate(sub)
	if err != nil {
		return leaderboard.Entry{}, err
	}

	owner, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if owner == "" {
		owner = uuid.NewString()
	}

	rec, err := s.nk.LeaderboardRecordWrite(ctx, LeaderboardID, owner, sub.Name, int64(sub.Score), 0, map[string]interface{}{"mode": sub.Mode}, nil)
	if err != nil {
		return leaderboard.Entry{}, fmt.Errorf("write leaderboard record: %w", err)
	}
	return entryFromRecord(rec), nil
}

// Top lists up to limit records, best first.
func (s *Store) Top(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	if limit <= 0 || limit > leaderboard.MaxEntries {
		limit = leaderboard.MaxEntries
	}
	records, _, _, _, err := s.nk.LeaderboardRecordsList(ctx, LeaderboardID, nil, limit, "", 0)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard records: %w", err)
	}
	entries := make([]leaderboard.Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, entryFromRecord(rec))
	}
	return entries, nil
}

func entryFromRecord(rec *api.LeaderboardRecord) leaderboard.Entry {
	var meta struct {
		Mode string `json:"mode"`
	}
	if rec.GetMetadata() != "" {
		json.Unmarshal([]byte(rec.GetMetadata()), &meta)
	}
	if meta.Mode == "" {
		meta.Mode = "single"
	}
	return leaderboard.Entry{
		ID:        rec.GetOwnerId(),
		Name:      rec.GetUsername().GetValue(),
		Score:     int(rec.GetScore()),
		Mode:      meta.Mode,
		CreatedAt: rec.GetCreateTime().AsTime(),
	}
}

var _ leaderboard.Store = (*Store)(nil)

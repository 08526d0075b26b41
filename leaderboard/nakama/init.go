package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/heroiclabs/nakama-common/runtime"

	"termtris/leaderboard"
)

const (
	// LeaderboardID is the Nakama leaderboard holding termtris scores.
	LeaderboardID = "termtris"

	// RpcSubmitScore records a score. Payload: {"name","score","mode"}.
	RpcSubmitScore = "termtris_submit_score"

	// RpcTopScores lists scores. Payload: optional {"limit": N}.
	RpcTopScores = "termtris_top_scores"
)

// Nakama error codes, mirroring gRPC status codes.
const (
	codeInvalidArgument = 3
	codeInternal        = 13
)

// InitModule creates the leaderboard and registers the score RPCs.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	// authoritative, descending, keep each owner's best score, never reset.
	if err := nk.LeaderboardCreate(ctx, LeaderboardID, true, "desc", "best", "", nil, true); err != nil {
		logger.Error("create leaderboard %s: %v", LeaderboardID, err)
		return err
	}

	if err := initializer.RegisterRpc(RpcSubmitScore, rpcSubmitScore); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcTopScores, rpcTopScores); err != nil {
		return err
	}

	logger.Info("termtris leaderboard module loaded.")
	return nil
}

func rpcSubmitScore(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return submitScore(ctx, logger, nk, payload)
}

func rpcTopScores(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return topScores(ctx, logger, nk, payload)
}

func submitScore(ctx context.Context, logger runtime.Logger, lb LeaderboardAPI, payload string) (string, error) {
	var sub leaderboard.Submission
	if err := json.Unmarshal([]byte(payload), &sub); err != nil {
		return "", runtime.NewError("Invalid payload", codeInvalidArgument)
	}

	entry, err := NewStore(lb).Submit(ctx, sub)
	if errors.Is(err, leaderboard.ErrInvalidName) || errors.Is(err, leaderboard.ErrInvalidScore) {
		return "", runtime.NewError(err.Error(), codeInvalidArgument)
	}
	if err != nil {
		logger.Error("submit score: %v", err)
		return "", runtime.NewError("Internal error", codeInternal)
	}

	out, err := json.Marshal(entry)
	if err != nil {
		return "", runtime.NewError("Internal error", codeInternal)
	}
	logger.Info("new score %d by %s", entry.Score, entry.Name)
	return string(out), nil
}

func topScores(ctx context.Context, logger runtime.Logger, lb LeaderboardAPI, payload string) (string, error) {
	var req struct {
		Limit int `json:"limit"`
	}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("Invalid payload", codeInvalidArgument)
		}
	}
	if req.Limit < 0 {
		return "", runtime.NewError("limit must not be negative", codeInvalidArgument)
	}

	entries, err := NewStore(lb).Top(ctx, req.Limit)
	if err != nil {
		logger.Error("list scores: %v", err)
		return "", runtime.NewError("Internal error", codeInternal)
	}

	out, err := json.Marshal(entries)
	if err != nil {
		return "", runtime.NewError("Internal error", codeInternal)
	}
	return string(out), nil
}

package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/juniorgolf-backend/pkg/logger"
)

const defaultTokenRetention = 7 * 24 * time.Hour

type staleTokenDeleter interface {
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

type TokenPurgeJobParams struct {
	Logger    *logger.Logger
	Tokens    staleTokenDeleter
	Retention time.Duration
	Clock     func() time.Time
}

// NewTokenPurgeJob deletes refresh tokens that expired or were revoked more
// than Retention ago.
func NewTokenPurgeJob(params TokenPurgeJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Tokens == nil {
		return nil, fmt.Errorf("token repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultTokenRetention
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &tokenPurgeJob{logg: params.Logger, tokens: params.Tokens, retention: retention, now: clock}, nil
}

type tokenPurgeJob struct {
	logg      *logger.Logger
	tokens    staleTokenDeleter
	retention time.Duration
	now       func() time.Time
}

func (j *tokenPurgeJob) Name() string { return "refresh-token-purge" }

func (j *tokenPurgeJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	deleted, err := j.tokens.DeleteStale(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge refresh tokens: %w", err)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": deleted,
	}), "refresh tokens purged")
	return nil
}

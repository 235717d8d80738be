// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package behavior

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pogobot/pogobot/internal/api"
	"github.com/pogobot/pogobot/internal/event"
)

const levelUpRewardsSuccess = 1

// RewardCollector claims level-up rewards at start and on every level up.
type RewardCollector struct {
	logger *slog.Logger
}

// NewRewardCollector creates the reward behavior.
func NewRewardCollector(logger *slog.Logger) *RewardCollector {
	return &RewardCollector{logger: logger.With("behavior", "rewards")}
}

// Name implements Behavior.
func (rc *RewardCollector) Name() string { return "rewards" }

// Register implements Behavior.
func (rc *RewardCollector) Register(bus *event.Bus) error {
	return register(bus,
		registration{event.BotInitialized, event.NewHandler("rewards.initial", rc.initial), 0},
		registration{event.PlayerLevelUp, event.NewHandler("rewards.level_up", rc.levelUp), 0},
	)
}

func (rc *RewardCollector) initial(ctx context.Context, ev *event.Event) error {
	sess, err := sessionFrom(ev)
	if err != nil {
		return err
	}
	player, ok := sess.Client().Store().Player()
	if !ok {
		return nil
	}
	rc.logger.InfoContext(ctx, "running initial reward check", "level", player.Level)
	return rc.claim(ctx, sess, player.Level)
}

func (rc *RewardCollector) levelUp(ctx context.Context, ev *event.Event) error {
	if ev.Payload.Level == 0 {
		return nil
	}
	sess, err := sessionFrom(ev)
	if err != nil {
		return err
	}
	rc.logger.InfoContext(ctx, "reached new level", "level", ev.Payload.Level)
	return rc.claim(ctx, sess, ev.Payload.Level)
}

func (rc *RewardCollector) claim(ctx context.Context, sess Session, level int) error {
	store, err := sess.Client().Request().LevelUpRewards(level).Call(ctx)
	if errors.Is(err, api.ErrNoResponse) {
		rc.logger.WarnContext(ctx, "empty response from the API, skipping rewards", "level", level)
		return nil
	}
	if err != nil {
		return err
	}
	rewards, ok := store.LevelUpRewards()
	if !ok || rewards.Result != levelUpRewardsSuccess {
		return nil
	}
	for _, award := range rewards.ItemsAwarded {
		rc.logger.InfoContext(ctx, "loot",
			"item", sess.Data().ItemName(award.ItemID)+plural(award.Count), "count", award.Count)
	}
	return nil
}

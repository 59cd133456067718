package notification

import (
	"time"

	"pulse/config"
	"pulse/models"
)

// PriorityConfig pairs a kind's rank with its admission delay. The delay is
// a deliberate smoothing device: burst-prone kinds wait before entering the
// queue so that duplicates collapse via deduplication instead of fanning out
// one notification each.
type PriorityConfig struct {
	Rank  int
	Delay time.Duration
}

// PriorityTable maps notification kinds to their priority configuration.
// Built once at startup from config and never mutated afterwards.
type PriorityTable struct {
	entries  map[models.Kind]PriorityConfig
	fallback PriorityConfig
}

// NewPriorityTable builds the table. High-value kinds (message,
// friend-request) are admitted immediately; the rest carry their configured
// delays.
func NewPriorityTable(cfg config.Config) *PriorityTable {
	return &PriorityTable{
		entries: map[models.Kind]PriorityConfig{
			models.KindMessage:       {Rank: 1, Delay: 0},
			models.KindFriendRequest: {Rank: 2, Delay: 0},
			models.KindLike:          {Rank: 3, Delay: time.Duration(cfg.LikeDelayMs) * time.Millisecond},
			models.KindProfileView:   {Rank: 4, Delay: time.Duration(cfg.ProfileViewDelayMs) * time.Millisecond},
			models.KindFriendPost:    {Rank: 5, Delay: time.Duration(cfg.FriendPostDelayMs) * time.Millisecond},
		},
		fallback: PriorityConfig{Rank: 5, Delay: 3 * time.Second},
	}
}

// Lookup returns the configuration for a kind, or the fallback for unknown
// kinds.
func (t *PriorityTable) Lookup(kind models.Kind) PriorityConfig {
	if cfg, ok := t.entries[kind]; ok {
		return cfg
	}
	return t.fallback
}

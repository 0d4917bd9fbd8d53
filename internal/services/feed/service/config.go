package service

import (
	"time"

	"github.com/TanvirAuntu75/snapverse/internal/core/rank"
	"github.com/TanvirAuntu75/snapverse/internal/platform/config"
)

// Config for the feed service
type Config struct {
	Weights   rank.Weights
	Diversity rank.DiversityOptions

	// CandidateWindow and CandidateLimit bound what Curate loads from storage
	CandidateWindow time.Duration
	CandidateLimit  int
	// TrendingLimit bounds the corpus Trending loads from storage
	TrendingLimit int
	// WriteBack persists annotations computed for stored posts
	WriteBack bool
	// TxRetries is the attempt budget for annotation writes
	TxRetries        int
	StatementTimeout time.Duration
}

// DefaultConfig mirrors the scoring and diversity constants
func DefaultConfig() Config {
	return Config{
		Weights:          rank.DefaultWeights(),
		Diversity:        rank.DefaultDiversity(),
		CandidateWindow:  72 * time.Hour,
		CandidateLimit:   500,
		TrendingLimit:    5000,
		WriteBack:        true,
		TxRetries:        3,
		StatementTimeout: 5 * time.Second,
	}
}

// ConfigFromEnv reads CORE_RANK_*
func ConfigFromEnv(root config.Conf) Config {
	c := root.Prefix("CORE_RANK_")
	d := DefaultConfig()
	return Config{
		Weights: rank.Weights{
			Base:          c.MayFloat64("BASE", d.Weights.Base),
			Interest:      c.MayFloat64("INTEREST_WEIGHT", d.Weights.Interest),
			Follow:        c.MayFloat64("FOLLOW_WEIGHT", d.Weights.Follow),
			Engagement:    c.MayFloat64("ENGAGEMENT_WEIGHT", d.Weights.Engagement),
			Recency:       c.MayFloat64("RECENCY_WEIGHT", d.Weights.Recency),
			RecencyWindow: c.MayDuration("RECENCY_WINDOW", d.Weights.RecencyWindow),
			Location:      c.MayFloat64("LOCATION_WEIGHT", d.Weights.Location),
			Max:           c.MayFloat64("MAX_SCORE", d.Weights.Max),
		},
		Diversity: rank.DiversityOptions{
			MaxPerAuthor: c.MayInt("MAX_PER_AUTHOR", d.Diversity.MaxPerAuthor),
			Grace:        c.MayInt("DIVERSITY_GRACE", d.Diversity.Grace),
			Limit:        c.MayIntIn("FEED_LIMIT", d.Diversity.Limit, 1, rank.MaxFeedSize),
		},
		CandidateWindow:  c.MayDuration("CANDIDATE_WINDOW", d.CandidateWindow),
		CandidateLimit:   c.MayInt("CANDIDATE_LIMIT", d.CandidateLimit),
		TrendingLimit:    c.MayInt("TRENDING_LIMIT", d.TrendingLimit),
		WriteBack:        c.MayBool("WRITE_BACK", d.WriteBack),
		TxRetries:        c.MayInt("TX_RETRIES", d.TxRetries),
		StatementTimeout: c.MayDuration("STATEMENT_TIMEOUT", d.StatementTimeout),
	}
}

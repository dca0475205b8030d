package loadcheck

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/devtrack/pkg/logger"
)

// Defaults applied to zero Config fields.
const (
	defaultPlayers     = 20
	defaultSubmissions = 5
	defaultWorkers     = 8
	defaultTimeout     = 30 * time.Second
)

func (c *Config) applyDefaults() {
	if c.Players <= 0 {
		c.Players = defaultPlayers
	}
	if c.Submissions <= 0 {
		c.Submissions = defaultSubmissions
	}
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.RunID == "" {
		c.RunID = uuid.NewString()[:8]
	}
}

// Run executes the complete load check and returns its statistics.
func Run(ctx context.Context, cfg Config) (Stats, error) {
	cfg.applyDefaults()
	log := logger.Named("loadcheck")
	stats := Stats{StartTime: time.Now()}

	log.Info(ctx, "starting load check",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("runID", cfg.RunID),
		logger.Int("players", cfg.Players),
		logger.Int("submissions", cfg.Submissions),
		logger.Int("workers", cfg.Workers),
	)

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if err := client.Login(ctx, cfg.Email, cfg.Password); err != nil {
		return stats, err
	}

	subs := Generate(cfg, rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)))
	results := submitAll(ctx, client, cfg, subs)
	for _, r := range results {
		stats.Submitted++
		switch {
		case r.Err != nil:
			stats.Failed++
			if cfg.Verbose {
				log.Warn(ctx, "submission failed", logger.String("player", r.Submission.PlayerName), logger.Error(r.Err))
			}
		default:
			stats.Successful++
			if r.Created {
				stats.Created++
			}
		}
	}

	rows, err := client.History(ctx, cfg.RunID)
	if err != nil {
		return stats, fmt.Errorf("history retrieval failed: %w", err)
	}
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	if err := Verify(results, rows); err != nil {
		return stats, err
	}

	log.Info(ctx, "load check passed",
		logger.Int("submitted", stats.Submitted),
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
		logger.Int("playersCreated", stats.Created),
		logger.Duration("duration", stats.Duration),
	)
	return stats, nil
}

// submitAll posts every submission through a pool of workers.
func submitAll(ctx context.Context, client *Client, cfg Config, subs []Submission) []Result {
	results := make([]Result, len(subs))
	jobs := make(chan int, cfg.Workers*2)

	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out, err := client.Create(ctx, subs[i])
				results[i] = Result{Submission: subs[i], PlayerID: out.PlayerID, Created: out.PlayerCreated, Err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range subs {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()
	wg.Wait()

	// Anything never dispatched failed with the context.
	for i := range results {
		if results[i].Submission.PlayerName == "" {
			results[i] = Result{Submission: subs[i], Err: ctx.Err()}
		}
	}
	return results
}

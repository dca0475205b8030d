package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/devtrack/internal/loadcheck"
	"github.com/okian/devtrack/pkg/logger"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:8080", "Base URL of the service")
		email       = flag.String("email", os.Getenv("DEVTRACK_ADMIN_EMAIL"), "Approved account email")
		password    = flag.String("password", os.Getenv("DEVTRACK_ADMIN_PASSWORD"), "Account password")
		players     = flag.Int("players", 20, "Distinct player tuples")
		submissions = flag.Int("submissions", 5, "Assessments per player")
		workers     = flag.Int("workers", 8, "Concurrent workers")
		timeout     = flag.Duration("timeout", 30*time.Second, "HTTP request timeout")
		verbose     = flag.Bool("verbose", false, "Log every failed submission")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadcheck.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	_, err := loadcheck.Run(ctx, loadcheck.Config{
		BaseURL:     *baseURL,
		Email:       *email,
		Password:    *password,
		Players:     *players,
		Submissions: *submissions,
		Workers:     *workers,
		Timeout:     *timeout,
		Verbose:     *verbose,
	})
	if err != nil {
		os.Stderr.WriteString("Load check failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

package loadcheck

import "os"

// ShowHelp prints usage information for the load check tool.
func ShowHelp() {
	os.Stdout.WriteString(`DevTrack Load Check
===================

Submits concurrent duplicate assessments to a running service and checks
that every player tuple maps to one player with the expected averages.

Usage:
  go run ./cmd/loadcheck [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -email string
        Approved account email (default $DEVTRACK_ADMIN_EMAIL)
  -password string
        Account password (default $DEVTRACK_ADMIN_PASSWORD)
  -players int
        Distinct player tuples (default 20)
  -submissions int
        Assessments per player (default 5)
  -workers int
        Concurrent workers (default 8)
  -timeout duration
        HTTP request timeout (default 30s)
  -verbose
        Log every failed submission
  -help
        Show this help message
`)
}

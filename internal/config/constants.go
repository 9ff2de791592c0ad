package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// CheckInEarlyEntry is how long before an event's start time the check-in
// window opens. The window closes at the event's end time.
const CheckInEarlyEntry = 2 * time.Hour

// Background job intervals
const StatsJobInterval = 5 * time.Minute

// Rate limit window for the scan endpoints
const ScanRateLimitWindow = time.Minute

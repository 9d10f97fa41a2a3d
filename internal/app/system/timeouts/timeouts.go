// internal/app/system/timeouts/timeouts.go
package timeouts

import "time"

// Request-scoped timeouts used by handlers when deriving contexts.
const (
	Short  = 5 * time.Second  // single-document reads and writes
	Upload = 60 * time.Second // CSV import and other batch work
	ping   = 2 * time.Second
)

// Ping returns the timeout for health-check pings.
func Ping() time.Duration { return ping }

package monitor

import "time"

// Service names reported by the monitor.
const (
	ServicePostgres = "postgresql"
	ServiceRedis    = "redis"
)

type Status struct {
	Services   map[string]bool `json:"services"`
	Buffer     bool            `json:"buffer"`
	BufferSize int             `json:"buffer_size"`
	LastCheck  time.Time       `json:"last_check"`
}

// Healthy reports whether every registered service answered the last probe.
func (s Status) Healthy() bool {
	for _, ok := range s.Services {
		if !ok {
			return false
		}
	}
	return true
}

package health

import "time"

// Service encapsulates health-related checks.
type Service struct {
	started time.Time
}

// NewService constructs a new health service anchored at process start.
func NewService() *Service {
	return &Service{started: time.Now().UTC()}
}

// Status returns a simple health payload with process uptime.
func (s *Service) Status() map[string]any {
	now := time.Now().UTC()
	return map[string]any{
		"status":    "OK",
		"timestamp": now.Format(time.RFC3339),
		"uptime":    now.Sub(s.started).Round(time.Second).String(),
	}
}

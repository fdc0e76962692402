package authz

import (
	"context"
	"fmt"
	"time"
)

// InspectionResult captures the full outcome of an authorization evaluation.
type InspectionResult struct {
	Allowed bool
	Mode    Mode
	Trace   []string
	Latency time.Duration
	Request Request
}

// Inspect evaluates a request and returns the matching policy lines.
func (s *Service) Inspect(_ context.Context, req Request) (InspectionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := time.Now()
	allowed, trace, err := s.enforcer.EnforceEx(req.Subject, req.Object, req.Action)
	if err != nil {
		return InspectionResult{}, fmt.Errorf("authz: inspect failed: %w", err)
	}
	return InspectionResult{
		Allowed: allowed,
		Mode:    s.Mode(),
		Trace:   append([]string{}, trace...),
		Latency: time.Since(start),
		Request: req,
	}, nil
}

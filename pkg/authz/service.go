package authz

import (
	"context"
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
	"github.com/sirupsen/logrus"
)

// Service provides helpers for enforcing authorization decisions.
type Service struct {
	cfg          Config
	enforcer     *casbin.Enforcer
	logger       *logrus.Entry
	flagProvider FlagProvider
	mu           sync.RWMutex
}

// NewService constructs a Service with the provided config.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()

	var logger *logrus.Entry
	if cfg.Logger != nil {
		logger = cfg.Logger.WithField("component", "authz")
	} else {
		logger = logrus.WithField("component", "authz")
	}

	enf, err := newEnforcer(cfg)
	if err != nil {
		return nil, fmt.Errorf("authz: failed to initialize enforcer: %w", err)
	}
	if err := enf.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz: failed to load policies: %w", err)
	}

	provider := cfg.FlagProvider
	if provider == nil {
		if cfg.FlagPath != "" {
			provider = NewFileFlagProvider(cfg.FlagPath, cfg.FlagMode)
		} else {
			provider = StaticFlags(cfg.FlagMode)
		}
	}

	return &Service{
		cfg:          cfg,
		enforcer:     enf,
		logger:       logger,
		flagProvider: provider,
	}, nil
}

func newEnforcer(cfg Config) (*casbin.Enforcer, error) {
	if cfg.ModelPath != "" {
		return casbin.NewEnforcer(cfg.ModelPath, fileadapter.NewAdapter(cfg.PolicyPath))
	}
	m, err := model.NewModelFromString(defaultModel)
	if err != nil {
		return nil, err
	}
	return casbin.NewEnforcer(m, stringadapter.NewAdapter(defaultPolicy))
}

func (s *Service) Mode() Mode {
	return s.flagProvider.Mode()
}

// Authorize returns an error if the request is denied. In shadow mode denials
// are only logged.
func (s *Service) Authorize(ctx context.Context, req Request) error {
	mode := s.flagProvider.Mode()
	if mode == ModeDisabled {
		return nil
	}
	allowed, err := s.Check(ctx, req)
	if err != nil {
		return err
	}
	recordDecision(mode, req.Object, allowed)
	if allowed {
		return nil
	}

	entry := s.logger.WithContext(ctx).WithFields(logrus.Fields{
		"subject": req.Subject,
		"object":  req.Object,
		"action":  req.Action,
		"mode":    mode,
	})
	if mode != ModeEnforce {
		entry.Warn("authz shadow deny")
		return nil
	}
	entry.Warn("authz denied request")
	return forbiddenError(req)
}

// Check evaluates a request without returning an authorization error.
func (s *Service) Check(_ context.Context, req Request) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, err := s.enforcer.Enforce(req.Subject, req.Object, req.Action)
	if err != nil {
		return false, fmt.Errorf("authz: enforce failed: %w", err)
	}
	return res, nil
}

// AuthorizeRole is shorthand for Authorize with a role subject.
func (s *Service) AuthorizeRole(ctx context.Context, role, object, action string) error {
	return s.Authorize(ctx, NewRequest(SubjectForRole(role), object, action))
}

// ReloadPolicy reloads policy data from its source.
func (s *Service) ReloadPolicy(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("authz: reload policy failed: %w", err)
	}
	s.logger.WithContext(ctx).Info("authz policy reloaded")
	return nil
}

var (
	defaultServiceOnce sync.Once
	defaultService     *Service
	defaultServiceErr  error
)

// Use returns a singleton Service configured via environment variables.
func Use() *Service {
	defaultServiceOnce.Do(func() {
		defaultService, defaultServiceErr = NewService(DefaultConfig())
	})
	if defaultServiceErr != nil {
		panic(defaultServiceErr)
	}
	return defaultService
}

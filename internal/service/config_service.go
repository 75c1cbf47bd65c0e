package service

import (
	"context"
	"sync"

	"mining_webapp/internal/domain"
	"mining_webapp/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConfigService serves the engine's rule parameters. Reads hit a process-wide
// cache; admin updates replace the stored config and invalidate the cache.
type ConfigService struct {
	repo *repository.ConfigRepository

	mu     sync.RWMutex
	cached *domain.AppConfig
}

func NewConfigService(db *pgxpool.Pool) *ConfigService {
	return &ConfigService{repo: repository.NewConfigRepository(db)}
}

func (s *ConfigService) Get(ctx context.Context) (domain.AppConfig, error) {
	s.mu.RLock()
	if s.cached != nil {
		cfg := *s.cached
		s.mu.RUnlock()
		return cfg, nil
	}
	s.mu.RUnlock()

	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return domain.AppConfig{}, err
	}

	s.mu.Lock()
	s.cached = &cfg
	s.mu.Unlock()
	return cfg, nil
}

// Update replaces the config wholesale and refreshes the cache.
func (s *ConfigService) Update(ctx context.Context, cfg domain.AppConfig) error {
	if err := s.repo.Replace(ctx, cfg); err != nil {
		return err
	}

	s.mu.Lock()
	s.cached = &cfg
	s.mu.Unlock()
	return nil
}

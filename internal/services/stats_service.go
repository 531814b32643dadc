// internal/services/stats_service.go
package services

import (
	"context"

	"github.com/guanl20/Blocktrust/internal/repository"
)

type StatsService struct {
	store   repository.Store
	pause   *PauseSwitch
	policy  StatusPolicy
	storage string
}

type LedgerStats struct {
	repository.Stats
	Paused bool `json:"paused"`
}

type SystemStatus struct {
	Paused       bool   `json:"paused"`
	StatusPolicy string `json:"status_policy"`
	Storage      string `json:"storage"`
}

func NewStatsService(store repository.Store, pause *PauseSwitch, policy StatusPolicy, storage string) *StatsService {
	if policy == nil {
		policy = StrictStatusPolicy{}
	}
	return &StatsService{store: store, pause: pause, policy: policy, storage: storage}
}

func (s *StatsService) Stats(ctx context.Context) (*LedgerStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &LedgerStats{Stats: stats, Paused: s.pause.Paused()}, nil
}

func (s *StatsService) Status() SystemStatus {
	return SystemStatus{
		Paused:       s.pause.Paused(),
		StatusPolicy: s.policy.Name(),
		Storage:      s.storage,
	}
}

// Ping reports whether the backing store answers.
func (s *StatsService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultRecomputeInterval = 10 * time.Minute

// RecomputeService recomputes trust networks in the background for users
// whose explicit trust changed. The contract is eventually consistent:
// cached inferred values may be stale between runs, and a run is idempotent
// for a given snapshot, so overlapping triggers are harmless.
type RecomputeService struct {
	trust  *TrustService
	logger *zap.Logger

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup

	mu    sync.Mutex
	dirty map[string]struct{}
}

func NewRecomputeService(trust *TrustService, logger *zap.Logger) *RecomputeService {
	return &RecomputeService{
		trust:    trust,
		logger:   logger,
		interval: defaultRecomputeInterval,
		stopCh:   make(chan struct{}),
		dirty:    make(map[string]struct{}),
	}
}

func (s *RecomputeService) SetInterval(d time.Duration) {
	s.interval = d
}

// MarkDirty queues a user for recompute on the next tick.
func (s *RecomputeService) MarkDirty(userID string) {
	s.mu.Lock()
	s.dirty[userID] = struct{}{}
	s.mu.Unlock()
}

// Start runs the recompute loop in a background goroutine.
func (s *RecomputeService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("trust recompute started", zap.Duration("interval", s.interval))

		for {
			select {
			case <-ticker.C:
				s.runOnce(context.Background())
			case <-s.stopCh:
				return
			}
		}
	}()
}

// Stop signals the loop to exit and waits for it.
func (s *RecomputeService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// runOnce drains the dirty set and recomputes each queued user. Failures are
// logged and the user re-queued; the store owns durable retry semantics.
func (s *RecomputeService) runOnce(ctx context.Context) {
	s.mu.Lock()
	queued := s.dirty
	s.dirty = make(map[string]struct{})
	s.mu.Unlock()

	if len(queued) == 0 {
		return
	}

	for userID := range queued {
		if _, err := s.trust.ComputeUserTrustNetwork(ctx, userID); err != nil {
			s.logger.Warn("trust recompute failed",
				zap.String("user_id", userID),
				zap.Error(err))
			s.MarkDirty(userID)
		}
	}
}

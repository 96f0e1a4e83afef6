package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zhouzirui/z-stylist/backend/internal/model/chat"
	"github.com/zhouzirui/z-stylist/backend/internal/storage"
)

const saveTimeout = 5 * time.Second

// loadHistory reads the stored threads. A missing or malformed document is
// treated as empty history; any other failure is returned so the caller does
// not overwrite what it could not read.
func (s *Service) loadHistory(ctx context.Context) ([]chat.Thread, error) {
	data, err := s.store.Load(ctx, s.historyKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}

	threads, err := chat.DecodeHistory(data)
	if err != nil {
		s.logger.Warn("discarding malformed chat history", zap.Error(err))
		return nil, nil
	}
	return threads, nil
}

// persist writes the whole thread collection. Nothing is written before the
// stored history has been read. Snapshots are taken and saved
// under saveMu so a later snapshot is never overwritten by an earlier one.
// Failures are logged; memory stays authoritative.
func (s *Service) persist() {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		s.logger.Debug("chat history not loaded yet, skipping save")
		return
	}
	threads := make([]chat.Thread, 0, len(s.threads))
	for _, t := range s.threads {
		threads = append(threads, t.Clone())
	}
	s.mu.Unlock()

	data, err := chat.EncodeHistory(threads)
	if err != nil {
		s.logger.Error("failed to encode chat history", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.store.Save(ctx, s.historyKey, data); err != nil {
		s.logger.Warn("failed to save chat history", zap.Error(err), zap.Int("threads", len(threads)))
		return
	}
	s.logger.Debug("chat history saved", zap.Int("threads", len(threads)), zap.Int("bytes", len(data)))
}

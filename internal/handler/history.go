package handler

import (
	"context"
	"fmt"

	"github.com/valpere/tlumacz/internal/domain"
)

// History returns the most recent history entries, newest first.
func (h *Handlers) History(ctx context.Context, req domain.GetHistoryRequest) ([]domain.HistoryEntry, error) {
	if err := h.validator.GetHistory(req); err != nil {
		return nil, err
	}
	entries, err := h.repo.RecentHistory(ctx, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

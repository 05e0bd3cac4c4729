package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

// History is the list of orders placed from this storefront, newest first.
type History struct {
	repo port.OrderRepository

	mu sync.Mutex
}

func NewHistory(repo port.OrderRepository) *History {
	return &History{repo: repo}
}

func (h *History) List(ctx context.Context) ([]domain.Order, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	orders, err := h.repo.GetOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.GetOrders: %w", err)
	}
	return orders, nil
}

func (h *History) Record(ctx context.Context, order domain.Order) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	orders, err := h.repo.GetOrders(ctx)
	if err != nil {
		return fmt.Errorf("repo.GetOrders: %w", err)
	}

	next := make([]domain.Order, 0, len(orders)+1)
	next = append(next, order)
	next = append(next, orders...)

	if err := h.repo.SaveOrders(ctx, next); err != nil {
		return fmt.Errorf("repo.SaveOrders: %w", err)
	}
	return nil
}

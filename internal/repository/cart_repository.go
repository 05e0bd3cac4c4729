package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type cartItemRecord struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	OnSale      bool            `json:"onSale"`
	SalePrice   decimal.Decimal `json:"salePrice"`
	Quantity    int             `json:"quantity"`
}

type cartRepository struct {
	kv       port.KVStore
	currency currency.Unit
	logger   zerolog.Logger
}

func NewCart(kv port.KVStore, unit currency.Unit, logger zerolog.Logger) port.CartRepository {
	return &cartRepository{
		kv:       kv,
		currency: unit,
		logger:   logger.With().Str("repository", "cart").Logger(),
	}
}

// GetCart never fails on malformed data: it returns whatever line items can be recovered.
func (r *cartRepository) GetCart(ctx context.Context) (domain.Cart, error) {
	cart := domain.Cart{Currency: r.currency}

	data, err := r.kv.Get(ctx, CartKey)
	if errors.Is(err, port.ErrKeyNotFound) {
		return cart, nil
	}
	if err != nil {
		return cart, fmt.Errorf("kv.Get: %w", err)
	}

	records, skipped, err := decodeList[cartItemRecord](data)
	if err != nil {
		r.logger.Warn().Err(err).Msg("persisted cart is malformed, treating as empty")
		return cart, nil
	}

	cart.Items = mapCartRecordsToDomain(records)
	if dropped := skipped + len(records) - len(cart.Items); dropped > 0 {
		r.logger.Warn().Int("dropped", dropped).Msg("repaired persisted cart: dropped or merged line items")
	}

	r.logger.Debug().Int("items", len(cart.Items)).Msg("cart loaded")
	return cart, nil
}

func (r *cartRepository) SaveCart(ctx context.Context, cart domain.Cart) error {
	data, err := encodeList(mapCartDomainToRecords(cart))
	if err != nil {
		return fmt.Errorf("encodeList: %w", err)
	}

	if err := r.kv.Set(ctx, CartKey, data); err != nil {
		return fmt.Errorf("kv.Set: %w", err)
	}

	return nil
}

func (r *cartRepository) WatchCart(ctx context.Context, fn func()) error {
	watcher, ok := r.kv.(port.Watcher)
	if !ok {
		return port.ErrWatchUnsupported
	}

	return watcher.Watch(ctx, func(key string) {
		if key == CartKey {
			fn()
		}
	})
}

// mapCartRecordsToDomain drops lines without a usable id or quantity and merges
// duplicate ids into the first occurrence.
func mapCartRecordsToDomain(records []cartItemRecord) []domain.CartItem {
	var items []domain.CartItem
	seen := make(map[domain.ProductID]int, len(records))

	for _, record := range records {
		if record.ID <= 0 || record.Quantity < 1 {
			continue
		}

		id := domain.ProductID(record.ID)
		if i, ok := seen[id]; ok {
			items[i].Quantity = domain.AddQuantity(items[i].Quantity, record.Quantity)
			continue
		}

		seen[id] = len(items)
		items = append(items, domain.CartItem{
			ProductID:   id,
			Name:        record.Name,
			Image:       record.Image,
			Description: record.Description,
			Category:    record.Category,
			Price:       record.Price,
			OnSale:      record.OnSale,
			SalePrice:   record.SalePrice,
			Quantity:    record.Quantity,
		})
	}

	return items
}

func mapCartDomainToRecords(cart domain.Cart) []cartItemRecord {
	records := make([]cartItemRecord, 0, len(cart.Items))

	for _, item := range cart.Items {
		records = append(records, cartItemRecord{
			ID:          int64(item.ProductID),
			Name:        item.Name,
			Image:       item.Image,
			Description: item.Description,
			Category:    item.Category,
			Price:       item.Price,
			OnSale:      item.OnSale,
			SalePrice:   item.SalePrice,
			Quantity:    item.Quantity,
		})
	}

	return records
}

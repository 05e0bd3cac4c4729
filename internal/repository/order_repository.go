package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type orderRecord struct {
	ID       string            `json:"id"`
	Date     string            `json:"date"`
	Status   string            `json:"status"`
	Email    string            `json:"email"`
	Items    []orderLineRecord `json:"items"`
	Total    decimal.Decimal   `json:"total"`
	Currency string            `json:"currency"`
}

type orderLineRecord struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type orderRepository struct {
	kv     port.KVStore
	logger zerolog.Logger
}

func NewOrder(kv port.KVStore, logger zerolog.Logger) port.OrderRepository {
	return &orderRepository{
		kv:     kv,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

func (r *orderRepository) GetOrders(ctx context.Context) ([]domain.Order, error) {
	data, err := r.kv.Get(ctx, OrdersKey)
	if errors.Is(err, port.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kv.Get: %w", err)
	}

	records, _, err := decodeList[orderRecord](data)
	if err != nil {
		r.logger.Warn().Err(err).Msg("persisted orders are malformed, treating as empty")
		return nil, nil
	}

	var orders []domain.Order
	for _, record := range records {
		order, err := mapOrderRecordToDomain(record)
		if err != nil {
			r.logger.Warn().Err(err).Str("order_id", record.ID).Msg("skipping malformed order")
			continue
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// SaveOrders writes orders and carries over stored entries GetOrders skipped,
// so a malformed order is never erased by a later checkout.
func (r *orderRepository) SaveOrders(ctx context.Context, orders []domain.Order) error {
	records := make([]orderRecord, 0, len(orders))
	for _, order := range orders {
		records = append(records, mapOrderDomainToRecord(order))
	}

	current, err := r.kv.Get(ctx, OrdersKey)
	if err != nil && !errors.Is(err, port.ErrKeyNotFound) {
		return fmt.Errorf("kv.Get: %w", err)
	}

	kept := unrecognized(current, recognizesOrder)
	if len(kept) > 0 {
		r.logger.Warn().Int("kept", len(kept)).Msg("carrying over unreadable orders")
	}

	data, err := encodeListWith(records, kept)
	if err != nil {
		return fmt.Errorf("encodeListWith: %w", err)
	}

	if err := r.kv.Set(ctx, OrdersKey, data); err != nil {
		return fmt.Errorf("kv.Set: %w", err)
	}

	return nil
}

func recognizesOrder(element json.RawMessage) bool {
	var record orderRecord
	if err := json.Unmarshal(element, &record); err != nil {
		return false
	}
	_, err := mapOrderRecordToDomain(record)
	return err == nil
}

func mapOrderRecordToDomain(record orderRecord) (domain.Order, error) {
	id, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("id[%s] is not valid: %w", record.ID, err)
	}

	parsedCurrency, err := currency.ParseISO(record.Currency)
	if err != nil {
		return domain.Order{}, fmt.Errorf("currency[%s] is not valid: %w", record.Currency, err)
	}

	lines := make([]domain.OrderLine, 0, len(record.Items))
	for _, line := range record.Items {
		lines = append(lines, domain.OrderLine{
			ProductID: domain.ProductID(line.ID),
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	status := domain.OrderStatus(record.Status)
	if status == "" {
		status = domain.OrderStatusPlaced
	}

	return domain.Order{
		ID:     id,
		Date:   record.Date,
		Status: status,
		Email:  record.Email,
		Items:  lines,
		Total:  domain.Money{Amount: record.Total, Currency: parsedCurrency},
	}, nil
}

func mapOrderDomainToRecord(order domain.Order) orderRecord {
	lines := make([]orderLineRecord, 0, len(order.Items))
	for _, line := range order.Items {
		lines = append(lines, orderLineRecord{
			ID:        int64(line.ProductID),
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	return orderRecord{
		ID:       order.ID.String(),
		Date:     order.Date,
		Status:   string(order.Status),
		Email:    order.Email,
		Items:    lines,
		Total:    order.Total.Amount,
		Currency: order.Total.Currency.String(),
	}
}

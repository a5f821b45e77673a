package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"talanch-backoffice/internal/cache"
	"talanch-backoffice/internal/domain"
	"talanch-backoffice/internal/view"
)

type OrderService struct {
	api    OrderAPI
	cache  *cache.OrderCache
	audit  AuditRecorder
	events EventPublisher
	now    func() time.Time
}

func NewOrderService(api OrderAPI, orderCache *cache.OrderCache, audit AuditRecorder, events EventPublisher) *OrderService {
	return &OrderService{
		api:    api,
		cache:  orderCache,
		audit:  audit,
		events: events,
		now:    time.Now,
	}
}

// ListToday serves one page of the given status tab, keeping only today's
// orders. A repeat of the cached query is answered from the cache so that
// confirmed status flips stay visible without a round trip; changing tab or
// page, or an invalidated cache, refetches. The returned flag reports
// whether another page may exist, judged the way the screen does: a full
// page means "probably more".
func (s *OrderService) ListToday(ctx context.Context, tab, page, pageSize int) ([]domain.Order, bool, error) {
	paid, served := view.TabParams(tab)
	q := domain.OrderQuery{Page: page, PageSize: pageSize, Paid: paid, Served: served}

	if cached, cachedQuery := s.cache.Snapshot(); len(cached) > 0 && cachedQuery.Matches(q) {
		today := s.CachedToday(view.Today(s.now()))
		return today, len(today) == pageSize, nil
	}

	orders, err := s.api.ListOrders(ctx, q)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	s.cache.Replace(orders, q)
	today := view.TodayOnly(orders, view.Today(s.now()))
	return today, len(today) == pageSize, nil
}

// Refresh drops the cached page; the next listing fetches upstream again.
func (s *OrderService) Refresh(ctx context.Context) error {
	s.cache.Invalidate()
	return nil
}

// ListUnpaid pages through unpaid orders with a name filter. Landing on an
// empty page beyond the first steps back one page, the way the screen keeps
// the admin from walking off the end of a shrinking list.
func (s *OrderService) ListUnpaid(ctx context.Context, q domain.UnpaidQuery) ([]domain.Order, int, bool, error) {
	orders, err := s.api.ListUnpaidOrders(ctx, q)
	if err != nil {
		return nil, q.Page, false, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	if len(orders) == 0 && q.Page > 1 {
		q.Page--
		orders, err = s.api.ListUnpaidOrders(ctx, q)
		if err != nil {
			return nil, q.Page, false, fmt.Errorf("%w: %v", ErrFetch, err)
		}
	}

	return orders, q.Page, len(orders) == q.PageSize, nil
}

// SetPaid flips the paid flag. The local copy changes only after the
// upstream confirmed, so a failure leaves nothing to roll back.
func (s *OrderService) SetPaid(ctx context.Context, actor string, orderID int, value bool) error {
	upd := domain.OrderStatusUpdate{OrderID: orderID, Paid: &value}
	if err := s.api.UpdateOrderStatus(ctx, upd); err != nil {
		return err
	}

	s.cache.SetStatus(orderID, &value, nil)
	s.record(ctx, actor, orderID, "set-paid")
	return nil
}

func (s *OrderService) SetServed(ctx context.Context, actor string, orderID int, value bool) error {
	upd := domain.OrderStatusUpdate{OrderID: orderID, Served: &value}
	if err := s.api.UpdateOrderStatus(ctx, upd); err != nil {
		return err
	}

	s.cache.SetStatus(orderID, nil, &value)
	s.record(ctx, actor, orderID, "set-served")
	return nil
}

// CachedToday serves the last fetched page, with any confirmed status flips
// applied, filtered to the given day.
func (s *OrderService) CachedToday(today string) []domain.Order {
	orders, _ := s.cache.Snapshot()
	return view.TodayOnly(orders, today)
}

func (s *OrderService) record(ctx context.Context, actor string, id int, action string) {
	if s.audit != nil {
		if err := s.audit.RecordMutation(ctx, domain.AuditEntry{
			Entity:   "order",
			EntityID: id,
			Action:   action,
			Actor:    actor,
		}); err != nil {
			log.Printf("[backoffice] audit write failed: %v", err)
		}
	}
	if s.events != nil {
		if err := s.events.PublishMutation(ctx, domain.MutationEvent{
			Type:      "mutation",
			Entity:    "order",
			EntityID:  id,
			Action:    action,
			Actor:     actor,
			Timestamp: time.Now(),
		}); err != nil {
			log.Printf("[backoffice] event publish failed: %v", err)
		}
	}
}

var _ OrderServiceInterface = (*OrderService)(nil)

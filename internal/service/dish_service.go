package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"talanch-backoffice/internal/cache"
	"talanch-backoffice/internal/domain"
	"talanch-backoffice/internal/view"
)

type DishService struct {
	api    DishAPI
	cache  *cache.DishCache
	audit  AuditRecorder
	events EventPublisher
}

func NewDishService(api DishAPI, dishCache *cache.DishCache, audit AuditRecorder, events EventPublisher) *DishService {
	return &DishService{
		api:    api,
		cache:  dishCache,
		audit:  audit,
		events: events,
	}
}

func (s *DishService) ensureWarm(ctx context.Context) error {
	if s.cache.Warm() {
		return nil
	}
	if err := s.cache.Refresh(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return nil
}

func (s *DishService) List(ctx context.Context, q view.DishQuery) ([]domain.Dish, error) {
	if err := s.ensureWarm(ctx); err != nil {
		return nil, err
	}
	return view.Dishes(s.cache.Snapshot(), q), nil
}

func (s *DishService) Averages(ctx context.Context) (map[domain.Category]float64, error) {
	if err := s.ensureWarm(ctx); err != nil {
		return nil, err
	}
	return view.CategoryAverages(s.cache.Snapshot()), nil
}

func (s *DishService) Refresh(ctx context.Context) error {
	if err := s.cache.Refresh(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return nil
}

// Create validates client-side, posts, then refetches the whole collection.
// The new dish only becomes addressable once the server has assigned its id.
func (s *DishService) Create(ctx context.Context, actor string, dish domain.NewDish) error {
	if strings.TrimSpace(dish.Name) == "" {
		return fmt.Errorf("%w: dish name is required", ErrValidation)
	}
	if _, err := domain.ParsePrice(dish.Price); err != nil {
		return fmt.Errorf("%w: dish price %q", ErrValidation, dish.Price)
	}

	if err := s.api.CreateDish(ctx, dish); err != nil {
		return err
	}

	if err := s.cache.Refresh(ctx); err != nil {
		log.Printf("[backoffice] dish created but refresh failed: %v", err)
	}
	s.record(ctx, actor, 0, "create", dish.Name)
	return nil
}

// Update forwards only the touched fields. An untouched form never produces
// a request.
func (s *DishService) Update(ctx context.Context, actor string, id int, patch domain.DishPatch) error {
	if patch.Empty() {
		return ErrNoFieldsChanged
	}
	if patch.Price != nil {
		if _, err := domain.ParsePrice(*patch.Price); err != nil {
			return fmt.Errorf("%w: dish price %q", ErrValidation, *patch.Price)
		}
	}

	if err := s.api.UpdateDish(ctx, id, patch); err != nil {
		return err
	}

	if err := s.cache.Refresh(ctx); err != nil {
		log.Printf("[backoffice] dish %d updated but refresh failed: %v", id, err)
	}
	s.record(ctx, actor, id, "update", "")
	return nil
}

// Delete removes the dish locally right after the server confirmed, without
// another round trip.
func (s *DishService) Delete(ctx context.Context, actor string, id int) error {
	if err := s.api.DeleteDish(ctx, id); err != nil {
		return err
	}

	s.cache.Remove(id)
	s.record(ctx, actor, id, "delete", "")
	return nil
}

// BulkPriceUpdate applies one price to every dish in a category bucket, one
// request per dish. Successes are not rolled back on partial failure; the
// caller gets a per-dish result list instead of a whole-batch verdict.
func (s *DishService) BulkPriceUpdate(ctx context.Context, actor string, category domain.Category, rawPrice string) ([]domain.BatchResult, error) {
	if category == domain.CategoryAll {
		return nil, fmt.Errorf("%w: bulk update needs a single category", ErrValidation)
	}
	price, err := domain.ParsePrice(rawPrice)
	if err != nil {
		return nil, fmt.Errorf("%w: price %q", ErrValidation, rawPrice)
	}
	if err := s.ensureWarm(ctx); err != nil {
		return nil, err
	}

	results := []domain.BatchResult{}
	for _, dish := range s.cache.Snapshot() {
		if dish.Category() != category {
			continue
		}

		patch := domain.DishPatch{Price: &rawPrice}
		if err := s.api.UpdateDish(ctx, dish.ID, patch); err != nil {
			results = append(results, domain.BatchResult{ID: dish.ID, Message: err.Error()})
			continue
		}

		s.cache.Patch(dish.ID, func(d *domain.Dish) { d.Price = price })
		results = append(results, domain.BatchResult{ID: dish.ID, OK: true})
	}

	s.record(ctx, actor, 0, "bulk-price", string(category)+" to "+domain.FormatPrice(price))
	return results, nil
}

// record writes the audit row and the mutation event. Both are best-effort;
// a confirmed upstream mutation is never failed retroactively.
func (s *DishService) record(ctx context.Context, actor string, id int, action, detail string) {
	if s.audit != nil {
		if err := s.audit.RecordMutation(ctx, domain.AuditEntry{
			Entity:   "dish",
			EntityID: id,
			Action:   action,
			Actor:    actor,
			Detail:   detail,
		}); err != nil {
			log.Printf("[backoffice] audit write failed: %v", err)
		}
	}
	if s.events != nil {
		if err := s.events.PublishMutation(ctx, domain.MutationEvent{
			Type:      "mutation",
			Entity:    "dish",
			EntityID:  id,
			Action:    action,
			Actor:     actor,
			Timestamp: time.Now(),
		}); err != nil {
			log.Printf("[backoffice] event publish failed: %v", err)
		}
	}
}

var _ DishServiceInterface = (*DishService)(nil)

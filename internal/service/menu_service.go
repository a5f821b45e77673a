package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"

	"talanch-backoffice/internal/cache"
	"talanch-backoffice/internal/domain"
	"talanch-backoffice/internal/upstream"
	"talanch-backoffice/internal/view"
)

var ErrNoMenuOfTheDay = errors.New("no menu of the day")

type MenuService struct {
	api       MenuAPI
	cache     *cache.MenuCache
	audit     AuditRecorder
	events    EventPublisher
	publicURL string
}

func NewMenuService(api MenuAPI, menuCache *cache.MenuCache, audit AuditRecorder, events EventPublisher, publicURL string) *MenuService {
	return &MenuService{
		api:       api,
		cache:     menuCache,
		audit:     audit,
		events:    events,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *MenuService) ensureWarm(ctx context.Context) error {
	if s.cache.Warm() {
		return nil
	}
	if err := s.cache.Refresh(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return nil
}

func (s *MenuService) List(ctx context.Context, search string) ([]domain.Menu, error) {
	if err := s.ensureWarm(ctx); err != nil {
		return nil, err
	}
	return view.Menus(s.cache.Snapshot(), search), nil
}

func (s *MenuService) Refresh(ctx context.Context) error {
	if err := s.cache.Refresh(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return nil
}

func (s *MenuService) Create(ctx context.Context, actor string, menu domain.NewMenu) error {
	if strings.TrimSpace(menu.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}

	valid := menu.Dishes[:0:0]
	for _, d := range menu.Dishes {
		if d.DishID > 0 {
			valid = append(valid, d)
		}
	}
	if len(valid) == 0 {
		return fmt.Errorf("%w: a menu needs at least one dish", ErrValidation)
	}
	menu.Dishes = valid

	if err := s.api.CreateMenu(ctx, menu); err != nil {
		return err
	}

	if err := s.cache.Refresh(ctx); err != nil {
		log.Printf("[backoffice] menu created but refresh failed: %v", err)
	}
	s.record(ctx, actor, 0, "create", menu.Description)
	return nil
}

func (s *MenuService) Delete(ctx context.Context, actor string, id int) error {
	if err := s.api.DeleteMenu(ctx, id); err != nil {
		return err
	}

	s.cache.Remove(id)
	s.record(ctx, actor, id, "delete", "")
	return nil
}

// AddDishes attaches a selection of dishes one request at a time and reports
// per-dish results. An upstream 400 means the dish was already in the menu
// and is surfaced as a conflict for that item only.
func (s *MenuService) AddDishes(ctx context.Context, actor string, menuID int, sel []domain.DishSelection) ([]domain.BatchResult, error) {
	if len(sel) == 0 {
		return nil, fmt.Errorf("%w: nothing selected", ErrValidation)
	}

	results := make([]domain.BatchResult, 0, len(sel))
	for _, item := range sel {
		err := s.api.AddDishToMenu(ctx, menuID, item.DishID, item.Quantity)
		switch {
		case errors.Is(err, upstream.ErrDishAlreadyInMenu):
			results = append(results, domain.BatchResult{ID: item.DishID, Message: "dish already in menu"})
		case err != nil:
			results = append(results, domain.BatchResult{ID: item.DishID, Message: err.Error()})
		default:
			results = append(results, domain.BatchResult{ID: item.DishID, OK: true})
		}
	}

	if err := s.cache.Refresh(ctx); err != nil {
		log.Printf("[backoffice] menu %d changed but refresh failed: %v", menuID, err)
	}
	s.record(ctx, actor, menuID, "add-dishes", "")
	return results, nil
}

func (s *MenuService) RemoveDish(ctx context.Context, actor string, menuID, dishID int) error {
	if err := s.api.RemoveDishFromMenu(ctx, menuID, dishID); err != nil {
		return err
	}

	s.cache.Patch(menuID, func(m *domain.Menu) {
		kept := m.Dishes[:0]
		for _, d := range m.Dishes {
			if d.DishID != dishID {
				kept = append(kept, d)
			}
		}
		m.Dishes = kept
	})
	s.record(ctx, actor, menuID, "remove-dish", "")
	return nil
}

func (s *MenuService) UpdateDescription(ctx context.Context, actor string, menuID int, description string) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}

	if err := s.api.UpdateMenuDescription(ctx, menuID, description); err != nil {
		return err
	}

	s.cache.Patch(menuID, func(m *domain.Menu) { m.Description = description })
	s.record(ctx, actor, menuID, "update-description", "")
	return nil
}

// SetMenuOfTheDay marks one menu and refetches the whole collection: the
// upstream clears the previous holder of the flag, and that side effect is
// never inferred locally.
func (s *MenuService) SetMenuOfTheDay(ctx context.Context, actor string, menuID int) error {
	if err := s.api.SetMenuOfTheDay(ctx, menuID); err != nil {
		return err
	}

	if err := s.cache.Refresh(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}
	s.record(ctx, actor, menuID, "set-menu-of-the-day", "")
	return nil
}

// MenuOfTheDayQR renders a QR code linking to the public menu-of-the-day
// page.
func (s *MenuService) MenuOfTheDayQR(ctx context.Context) ([]byte, error) {
	if err := s.ensureWarm(ctx); err != nil {
		return nil, err
	}

	for _, m := range s.cache.Snapshot() {
		if m.IsMenuOfTheDay {
			link := fmt.Sprintf("%s/menu.html?menu_id=%d", s.publicURL, m.ID)
			return qrcode.Encode(link, qrcode.Medium, 256)
		}
	}
	return nil, ErrNoMenuOfTheDay
}

func (s *MenuService) record(ctx context.Context, actor string, id int, action, detail string) {
	if s.audit != nil {
		if err := s.audit.RecordMutation(ctx, domain.AuditEntry{
			Entity:   "menu",
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
			Entity:    "menu",
			EntityID:  id,
			Action:    action,
			Actor:     actor,
			Timestamp: time.Now(),
		}); err != nil {
			log.Printf("[backoffice] event publish failed: %v", err)
		}
	}
}

var _ MenuServiceInterface = (*MenuService)(nil)

package service

import (
	"context"
	"errors"

	"talanch-backoffice/internal/domain"
	"talanch-backoffice/internal/view"
)

var (
	// ErrValidation means a client-side check failed; nothing was sent.
	ErrValidation = errors.New("validation failed")
	// ErrNoFieldsChanged means an edit form was submitted untouched.
	ErrNoFieldsChanged = errors.New("no fields changed")
	// ErrFetch means a collection read failed; the cache kept its snapshot.
	ErrFetch = errors.New("fetch failed")
	// ErrConflict means the upstream rejected a business rule.
	ErrConflict = errors.New("conflict")
)

type DishAPI interface {
	ListDishes(ctx context.Context) ([]domain.Dish, error)
	GetDish(ctx context.Context, id int) (*domain.Dish, error)
	CreateDish(ctx context.Context, dish domain.NewDish) error
	UpdateDish(ctx context.Context, id int, patch domain.DishPatch) error
	DeleteDish(ctx context.Context, id int) error
}

type MenuAPI interface {
	ListMenus(ctx context.Context) ([]domain.Menu, error)
	GetMenu(ctx context.Context, id int) (*domain.Menu, error)
	ListMenuDishes(ctx context.Context, menuID int) ([]domain.MenuDish, error)
	CreateMenu(ctx context.Context, menu domain.NewMenu) error
	AddDishToMenu(ctx context.Context, menuID, dishID, quantity int) error
	RemoveDishFromMenu(ctx context.Context, menuID, dishID int) error
	UpdateMenuDescription(ctx context.Context, menuID int, description string) error
	DeleteMenu(ctx context.Context, id int) error
	SetMenuOfTheDay(ctx context.Context, menuID int) error
}

type OrderAPI interface {
	ListOrders(ctx context.Context, q domain.OrderQuery) ([]domain.Order, error)
	ListUnpaidOrders(ctx context.Context, q domain.UnpaidQuery) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, upd domain.OrderStatusUpdate) error
}

type AuditRecorder interface {
	RecordMutation(ctx context.Context, e domain.AuditEntry) error
}

type EventPublisher interface {
	PublishMutation(ctx context.Context, e domain.MutationEvent) error
}

type DishServiceInterface interface {
	List(ctx context.Context, q view.DishQuery) ([]domain.Dish, error)
	Averages(ctx context.Context) (map[domain.Category]float64, error)
	Refresh(ctx context.Context) error
	Create(ctx context.Context, actor string, dish domain.NewDish) error
	Update(ctx context.Context, actor string, id int, patch domain.DishPatch) error
	Delete(ctx context.Context, actor string, id int) error
	BulkPriceUpdate(ctx context.Context, actor string, category domain.Category, rawPrice string) ([]domain.BatchResult, error)
}

type MenuServiceInterface interface {
	List(ctx context.Context, search string) ([]domain.Menu, error)
	Refresh(ctx context.Context) error
	Create(ctx context.Context, actor string, menu domain.NewMenu) error
	Delete(ctx context.Context, actor string, id int) error
	AddDishes(ctx context.Context, actor string, menuID int, sel []domain.DishSelection) ([]domain.BatchResult, error)
	RemoveDish(ctx context.Context, actor string, menuID, dishID int) error
	UpdateDescription(ctx context.Context, actor string, menuID int, description string) error
	SetMenuOfTheDay(ctx context.Context, actor string, menuID int) error
	MenuOfTheDayQR(ctx context.Context) ([]byte, error)
}

type OrderServiceInterface interface {
	ListToday(ctx context.Context, tab, page, pageSize int) ([]domain.Order, bool, error)
	Refresh(ctx context.Context) error
	ListUnpaid(ctx context.Context, q domain.UnpaidQuery) ([]domain.Order, int, bool, error)
	SetPaid(ctx context.Context, actor string, orderID int, value bool) error
	SetServed(ctx context.Context, actor string, orderID int, value bool) error
	CachedToday(now string) []domain.Order
}

// Package mocks provides testify mocks for the service and storage
// interfaces used across the test suites.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"talanch-backoffice/internal/domain"
	"talanch-backoffice/internal/session"
	"talanch-backoffice/internal/view"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type DishAPI struct {
	mock.Mock
}

func NewDishAPI(t testingT) *DishAPI {
	m := &DishAPI{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *DishAPI) ListDishes(ctx context.Context) ([]domain.Dish, error) {
	args := m.Called(ctx)
	var dishes []domain.Dish
	if args.Get(0) != nil {
		dishes = args.Get(0).([]domain.Dish)
	}
	return dishes, args.Error(1)
}

func (m *DishAPI) GetDish(ctx context.Context, id int) (*domain.Dish, error) {
	args := m.Called(ctx, id)
	var dish *domain.Dish
	if args.Get(0) != nil {
		dish = args.Get(0).(*domain.Dish)
	}
	return dish, args.Error(1)
}

func (m *DishAPI) CreateDish(ctx context.Context, dish domain.NewDish) error {
	return m.Called(ctx, dish).Error(0)
}

func (m *DishAPI) UpdateDish(ctx context.Context, id int, patch domain.DishPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *DishAPI) DeleteDish(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type MenuAPI struct {
	mock.Mock
}

func NewMenuAPI(t testingT) *MenuAPI {
	m := &MenuAPI{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MenuAPI) ListMenus(ctx context.Context) ([]domain.Menu, error) {
	args := m.Called(ctx)
	var menus []domain.Menu
	if args.Get(0) != nil {
		menus = args.Get(0).([]domain.Menu)
	}
	return menus, args.Error(1)
}

func (m *MenuAPI) GetMenu(ctx context.Context, id int) (*domain.Menu, error) {
	args := m.Called(ctx, id)
	var menu *domain.Menu
	if args.Get(0) != nil {
		menu = args.Get(0).(*domain.Menu)
	}
	return menu, args.Error(1)
}

func (m *MenuAPI) ListMenuDishes(ctx context.Context, menuID int) ([]domain.MenuDish, error) {
	args := m.Called(ctx, menuID)
	var dishes []domain.MenuDish
	if args.Get(0) != nil {
		dishes = args.Get(0).([]domain.MenuDish)
	}
	return dishes, args.Error(1)
}

func (m *MenuAPI) CreateMenu(ctx context.Context, menu domain.NewMenu) error {
	return m.Called(ctx, menu).Error(0)
}

func (m *MenuAPI) AddDishToMenu(ctx context.Context, menuID, dishID, quantity int) error {
	return m.Called(ctx, menuID, dishID, quantity).Error(0)
}

func (m *MenuAPI) RemoveDishFromMenu(ctx context.Context, menuID, dishID int) error {
	return m.Called(ctx, menuID, dishID).Error(0)
}

func (m *MenuAPI) UpdateMenuDescription(ctx context.Context, menuID int, description string) error {
	return m.Called(ctx, menuID, description).Error(0)
}

func (m *MenuAPI) DeleteMenu(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MenuAPI) SetMenuOfTheDay(ctx context.Context, menuID int) error {
	return m.Called(ctx, menuID).Error(0)
}

type OrderAPI struct {
	mock.Mock
}

func NewOrderAPI(t testingT) *OrderAPI {
	m := &OrderAPI{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OrderAPI) ListOrders(ctx context.Context, q domain.OrderQuery) ([]domain.Order, error) {
	args := m.Called(ctx, q)
	var orders []domain.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.Order)
	}
	return orders, args.Error(1)
}

func (m *OrderAPI) ListUnpaidOrders(ctx context.Context, q domain.UnpaidQuery) ([]domain.Order, error) {
	args := m.Called(ctx, q)
	var orders []domain.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.Order)
	}
	return orders, args.Error(1)
}

func (m *OrderAPI) UpdateOrderStatus(ctx context.Context, upd domain.OrderStatusUpdate) error {
	return m.Called(ctx, upd).Error(0)
}

type AuditRecorder struct {
	mock.Mock
}

func NewAuditRecorder(t testingT) *AuditRecorder {
	m := &AuditRecorder{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AuditRecorder) RecordMutation(ctx context.Context, e domain.AuditEntry) error {
	return m.Called(ctx, e).Error(0)
}

type AuditLog struct {
	mock.Mock
}

func NewAuditLog(t testingT) *AuditLog {
	m := &AuditLog{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AuditLog) ListRecentMutations(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	args := m.Called(ctx, limit)
	var entries []domain.AuditEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.AuditEntry)
	}
	return entries, args.Error(1)
}

type EventPublisher struct {
	mock.Mock
}

func NewEventPublisher(t testingT) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *EventPublisher) PublishMutation(ctx context.Context, e domain.MutationEvent) error {
	return m.Called(ctx, e).Error(0)
}

type SessionStore struct {
	mock.Mock
}

func NewSessionStore(t testingT) *SessionStore {
	m := &SessionStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SessionStore) SaveSession(ctx context.Context, s session.Session, ttl time.Duration) error {
	return m.Called(ctx, s, ttl).Error(0)
}

func (m *SessionStore) GetSession(ctx context.Context, id string) (session.Session, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(session.Session), args.Error(1)
}

func (m *SessionStore) DeleteSession(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type DishServiceInterface struct {
	mock.Mock
}

func NewDishServiceInterface(t testingT) *DishServiceInterface {
	m := &DishServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *DishServiceInterface) List(ctx context.Context, q view.DishQuery) ([]domain.Dish, error) {
	args := m.Called(ctx, q)
	var dishes []domain.Dish
	if args.Get(0) != nil {
		dishes = args.Get(0).([]domain.Dish)
	}
	return dishes, args.Error(1)
}

func (m *DishServiceInterface) Averages(ctx context.Context) (map[domain.Category]float64, error) {
	args := m.Called(ctx)
	var avgs map[domain.Category]float64
	if args.Get(0) != nil {
		avgs = args.Get(0).(map[domain.Category]float64)
	}
	return avgs, args.Error(1)
}

func (m *DishServiceInterface) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *DishServiceInterface) Create(ctx context.Context, actor string, dish domain.NewDish) error {
	return m.Called(ctx, actor, dish).Error(0)
}

func (m *DishServiceInterface) Update(ctx context.Context, actor string, id int, patch domain.DishPatch) error {
	return m.Called(ctx, actor, id, patch).Error(0)
}

func (m *DishServiceInterface) Delete(ctx context.Context, actor string, id int) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *DishServiceInterface) BulkPriceUpdate(ctx context.Context, actor string, category domain.Category, rawPrice string) ([]domain.BatchResult, error) {
	args := m.Called(ctx, actor, category, rawPrice)
	var results []domain.BatchResult
	if args.Get(0) != nil {
		results = args.Get(0).([]domain.BatchResult)
	}
	return results, args.Error(1)
}

type MenuServiceInterface struct {
	mock.Mock
}

func NewMenuServiceInterface(t testingT) *MenuServiceInterface {
	m := &MenuServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MenuServiceInterface) List(ctx context.Context, search string) ([]domain.Menu, error) {
	args := m.Called(ctx, search)
	var menus []domain.Menu
	if args.Get(0) != nil {
		menus = args.Get(0).([]domain.Menu)
	}
	return menus, args.Error(1)
}

func (m *MenuServiceInterface) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MenuServiceInterface) Create(ctx context.Context, actor string, menu domain.NewMenu) error {
	return m.Called(ctx, actor, menu).Error(0)
}

func (m *MenuServiceInterface) Delete(ctx context.Context, actor string, id int) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MenuServiceInterface) AddDishes(ctx context.Context, actor string, menuID int, sel []domain.DishSelection) ([]domain.BatchResult, error) {
	args := m.Called(ctx, actor, menuID, sel)
	var results []domain.BatchResult
	if args.Get(0) != nil {
		results = args.Get(0).([]domain.BatchResult)
	}
	return results, args.Error(1)
}

func (m *MenuServiceInterface) RemoveDish(ctx context.Context, actor string, menuID, dishID int) error {
	return m.Called(ctx, actor, menuID, dishID).Error(0)
}

func (m *MenuServiceInterface) UpdateDescription(ctx context.Context, actor string, menuID int, description string) error {
	return m.Called(ctx, actor, menuID, description).Error(0)
}

func (m *MenuServiceInterface) SetMenuOfTheDay(ctx context.Context, actor string, menuID int) error {
	return m.Called(ctx, actor, menuID).Error(0)
}

func (m *MenuServiceInterface) MenuOfTheDayQR(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	var png []byte
	if args.Get(0) != nil {
		png = args.Get(0).([]byte)
	}
	return png, args.Error(1)
}

type OrderServiceInterface struct {
	mock.Mock
}

func NewOrderServiceInterface(t testingT) *OrderServiceInterface {
	m := &OrderServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OrderServiceInterface) ListToday(ctx context.Context, tab, page, pageSize int) ([]domain.Order, bool, error) {
	args := m.Called(ctx, tab, page, pageSize)
	var orders []domain.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.Order)
	}
	return orders, args.Bool(1), args.Error(2)
}

func (m *OrderServiceInterface) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *OrderServiceInterface) ListUnpaid(ctx context.Context, q domain.UnpaidQuery) ([]domain.Order, int, bool, error) {
	args := m.Called(ctx, q)
	var orders []domain.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.Order)
	}
	return orders, args.Int(1), args.Bool(2), args.Error(3)
}

func (m *OrderServiceInterface) SetPaid(ctx context.Context, actor string, orderID int, value bool) error {
	return m.Called(ctx, actor, orderID, value).Error(0)
}

func (m *OrderServiceInterface) SetServed(ctx context.Context, actor string, orderID int, value bool) error {
	return m.Called(ctx, actor, orderID, value).Error(0)
}

func (m *OrderServiceInterface) CachedToday(today string) []domain.Order {
	args := m.Called(today)
	var orders []domain.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.Order)
	}
	return orders
}

package tests

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"talanch-backoffice/internal/cache"
	"talanch-backoffice/internal/domain"
	"talanch-backoffice/internal/mocks"
	"talanch-backoffice/internal/service"
	"talanch-backoffice/internal/upstream"
)

func newMenuService(t *testing.T) (*service.MenuService, *mocks.MenuAPI, *mocks.AuditRecorder, *mocks.EventPublisher) {
	api := mocks.NewMenuAPI(t)
	audit := mocks.NewAuditRecorder(t)
	events := mocks.NewEventPublisher(t)
	svc := service.NewMenuService(api, cache.NewMenuCache(api), audit, events, "http://menu.talanch.fr")
	return svc, api, audit, events
}

func expectRecord(audit *mocks.AuditRecorder, events *mocks.EventPublisher) {
	audit.On("RecordMutation", mock.Anything, mock.Anything).Return(nil).Once()
	events.On("PublishMutation", mock.Anything, mock.Anything).Return(nil).Once()
}

func TestMenuService_CreateFiltersInvalidDishes(t *testing.T) {
	svc, api, audit, events := newMenuService(t)
	ctx := context.Background()

	var created domain.NewMenu
	api.On("CreateMenu", ctx, mock.Anything).
		Run(func(args mock.Arguments) { created = args.Get(1).(domain.NewMenu) }).
		Return(nil).Once()
	api.On("ListMenus", ctx).Return([]domain.Menu{{ID: 1}}, nil).Once()
	expectRecord(audit, events)

	err := svc.Create(ctx, "chef@talanch.fr", domain.NewMenu{
		Description: "Menu du chef",
		Dishes: []domain.DishSelection{
			{DishID: 0, Quantity: 1},
			{DishID: 4, Quantity: 2},
		},
	})
	require.NoError(t, err)

	require.Len(t, created.Dishes, 1)
	assert.Equal(t, 4, created.Dishes[0].DishID)
}

func TestMenuService_CreateNeedsADish(t *testing.T) {
	svc, _, _, _ := newMenuService(t)

	err := svc.Create(context.Background(), "chef@talanch.fr", domain.NewMenu{
		Description: "Menu vide",
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestMenuService_CreateNeedsADescription(t *testing.T) {
	svc, _, _, _ := newMenuService(t)

	err := svc.Create(context.Background(), "chef@talanch.fr", domain.NewMenu{
		Description: "   ",
		Dishes:      []domain.DishSelection{{DishID: 4, Quantity: 1}},
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestMenuService_AddDishesPartialFailure(t *testing.T) {
	svc, api, audit, events := newMenuService(t)
	ctx := context.Background()

	api.On("AddDishToMenu", ctx, 3, 1, 1).Return(nil).Once()
	api.On("AddDishToMenu", ctx, 3, 2, 2).Return(upstream.ErrDishAlreadyInMenu).Once()
	api.On("AddDishToMenu", ctx, 3, 5, 1).Return(errors.New("boom")).Once()
	api.On("ListMenus", ctx).Return([]domain.Menu{{ID: 3}}, nil).Once()
	expectRecord(audit, events)

	results, err := svc.AddDishes(ctx, "chef@talanch.fr", 3, []domain.DishSelection{
		{DishID: 1, Quantity: 1},
		{DishID: 2, Quantity: 2},
		{DishID: 5, Quantity: 1},
	})
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK)
	assert.Equal(t, "dish already in menu", results[1].Message)
	assert.False(t, results[2].OK)
	assert.Equal(t, "boom", results[2].Message)
}

func TestMenuService_AddDishesEmptySelection(t *testing.T) {
	svc, _, _, _ := newMenuService(t)

	_, err := svc.AddDishes(context.Background(), "chef@talanch.fr", 3, nil)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestMenuService_RemoveDishPatchesCache(t *testing.T) {
	svc, api, audit, events := newMenuService(t)
	ctx := context.Background()

	api.On("ListMenus", ctx).Return([]domain.Menu{
		{ID: 3, Dishes: []domain.MenuDish{{DishID: 4}, {DishID: 5}}},
	}, nil).Once()
	_, err := svc.List(ctx, "")
	require.NoError(t, err)

	api.On("RemoveDishFromMenu", ctx, 3, 4).Return(nil).Once()
	expectRecord(audit, events)
	require.NoError(t, svc.RemoveDish(ctx, "chef@talanch.fr", 3, 4))

	menus, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, menus[0].Dishes, 1)
	assert.Equal(t, 5, menus[0].Dishes[0].DishID)
}

func TestMenuService_SetMenuOfTheDayRefetches(t *testing.T) {
	svc, api, audit, events := newMenuService(t)
	ctx := context.Background()

	api.On("ListMenus", ctx).Return([]domain.Menu{
		{ID: 1, IsMenuOfTheDay: true},
		{ID: 2},
	}, nil).Once()
	_, err := svc.List(ctx, "")
	require.NoError(t, err)

	// The upstream clears the old flag holder; only a refetch reveals
	// that, so the mutation forces one.
	api.On("SetMenuOfTheDay", ctx, 2).Return(nil).Once()
	api.On("ListMenus", ctx).Return([]domain.Menu{
		{ID: 1},
		{ID: 2, IsMenuOfTheDay: true},
	}, nil).Once()
	expectRecord(audit, events)
	require.NoError(t, svc.SetMenuOfTheDay(ctx, "chef@talanch.fr", 2))

	menus, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, menus[0].ID)
	assert.True(t, menus[0].IsMenuOfTheDay)
	assert.False(t, menus[1].IsMenuOfTheDay)
}

func TestMenuService_SetMenuOfTheDayRefetchFailure(t *testing.T) {
	svc, api, _, _ := newMenuService(t)
	ctx := context.Background()

	api.On("SetMenuOfTheDay", ctx, 2).Return(nil).Once()
	api.On("ListMenus", ctx).Return(nil, errors.New("boom")).Once()

	err := svc.SetMenuOfTheDay(ctx, "chef@talanch.fr", 2)
	assert.ErrorIs(t, err, service.ErrFetch)
}

func TestMenuService_UpdateDescription(t *testing.T) {
	svc, api, audit, events := newMenuService(t)
	ctx := context.Background()

	api.On("ListMenus", ctx).Return([]domain.Menu{{ID: 3, Description: "old"}}, nil).Once()
	_, err := svc.List(ctx, "")
	require.NoError(t, err)

	api.On("UpdateMenuDescription", ctx, 3, "Menu du chef").Return(nil).Once()
	expectRecord(audit, events)
	require.NoError(t, svc.UpdateDescription(ctx, "chef@talanch.fr", 3, "Menu du chef"))

	menus, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Menu du chef", menus[0].Description)

	assert.ErrorIs(t, svc.UpdateDescription(ctx, "chef@talanch.fr", 3, "  "), service.ErrValidation)
}

func TestMenuService_MenuOfTheDayQR(t *testing.T) {
	svc, api, _, _ := newMenuService(t)
	ctx := context.Background()

	api.On("ListMenus", ctx).Return([]domain.Menu{
		{ID: 7, IsMenuOfTheDay: true},
	}, nil).Once()

	data, err := svc.MenuOfTheDayQR(ctx)
	require.NoError(t, err)

	// The payload is a decodable PNG.
	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestMenuService_MenuOfTheDayQRNoMenu(t *testing.T) {
	svc, api, _, _ := newMenuService(t)
	ctx := context.Background()

	api.On("ListMenus", ctx).Return([]domain.Menu{{ID: 7}}, nil).Once()

	_, err := svc.MenuOfTheDayQR(ctx)
	assert.ErrorIs(t, err, service.ErrNoMenuOfTheDay)
}

package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"talanch-backoffice/internal/cache"
	"talanch-backoffice/internal/domain"
	"talanch-backoffice/internal/mocks"
	"talanch-backoffice/internal/service"
	"talanch-backoffice/internal/view"
)

func newOrderService(t *testing.T) (*service.OrderService, *mocks.OrderAPI, *mocks.AuditRecorder, *mocks.EventPublisher) {
	api := mocks.NewOrderAPI(t)
	audit := mocks.NewAuditRecorder(t)
	events := mocks.NewEventPublisher(t)
	svc := service.NewOrderService(api, cache.NewOrderCache(), audit, events)
	return svc, api, audit, events
}

func todayStamp() string {
	return view.Today(time.Now()) + "T10:00:00"
}

func TestOrderService_ListTodayFiltersAndMapsTab(t *testing.T) {
	svc, api, _, _ := newOrderService(t)
	ctx := context.Background()

	var query domain.OrderQuery
	api.On("ListOrders", ctx, mock.Anything).
		Run(func(args mock.Arguments) { query = args.Get(1).(domain.OrderQuery) }).
		Return([]domain.Order{
			{ID: 1, OrderDate: todayStamp()},
			{ID: 2, OrderDate: "2020-01-01T10:00:00"},
		}, nil).Once()

	orders, hasMore, err := svc.ListToday(ctx, view.TabUnpaidUnserved, 1, 10)
	require.NoError(t, err)

	// The settled-yesterday order is filtered out client-side.
	require.Len(t, orders, 1)
	assert.Equal(t, 1, orders[0].ID)
	assert.False(t, hasMore)

	// Tab 0 constrains both flags to false.
	require.NotNil(t, query.Paid)
	require.NotNil(t, query.Served)
	assert.False(t, *query.Paid)
	assert.False(t, *query.Served)
}

func TestOrderService_ListTodayFetchError(t *testing.T) {
	svc, api, _, _ := newOrderService(t)
	ctx := context.Background()

	api.On("ListOrders", ctx, mock.Anything).Return(nil, errors.New("boom")).Once()

	_, _, err := svc.ListToday(ctx, view.TabSettled, 1, 10)
	assert.ErrorIs(t, err, service.ErrFetch)
}

func TestOrderService_ListUnpaidStepsBackFromEmptyPage(t *testing.T) {
	svc, api, _, _ := newOrderService(t)
	ctx := context.Background()

	api.On("ListUnpaidOrders", ctx, domain.UnpaidQuery{Page: 3, PageSize: 5}).
		Return([]domain.Order{}, nil).Once()
	api.On("ListUnpaidOrders", ctx, domain.UnpaidQuery{Page: 2, PageSize: 5}).
		Return([]domain.Order{{ID: 4}}, nil).Once()

	orders, page, hasNext, err := svc.ListUnpaid(ctx, domain.UnpaidQuery{Page: 3, PageSize: 5})
	require.NoError(t, err)

	assert.Len(t, orders, 1)
	assert.Equal(t, 2, page)
	assert.False(t, hasNext)
}

func TestOrderService_ListUnpaidEmptyFirstPageStays(t *testing.T) {
	svc, api, _, _ := newOrderService(t)
	ctx := context.Background()

	api.On("ListUnpaidOrders", ctx, domain.UnpaidQuery{Page: 1, PageSize: 5}).
		Return([]domain.Order{}, nil).Once()

	orders, page, hasNext, err := svc.ListUnpaid(ctx, domain.UnpaidQuery{Page: 1, PageSize: 5})
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, 1, page)
	assert.False(t, hasNext)
}

func TestOrderService_ListTodayServesCachedPage(t *testing.T) {
	svc, api, audit, events := newOrderService(t)
	ctx := context.Background()

	api.On("ListOrders", ctx, mock.Anything).Return([]domain.Order{
		{ID: 1, OrderDate: todayStamp()},
	}, nil).Once()
	_, _, err := svc.ListToday(ctx, view.TabUnpaidUnserved, 1, 10)
	require.NoError(t, err)

	api.On("UpdateOrderStatus", ctx, mock.Anything).Return(nil).Once()
	expectRecord(audit, events)
	require.NoError(t, svc.SetPaid(ctx, "chef@talanch.fr", 1, true))

	// Repeating the query is answered from the cache, flip included. The
	// mock would flag a second ListOrders call.
	orders, _, err := svc.ListToday(ctx, view.TabUnpaidUnserved, 1, 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].Paid)
}

func TestOrderService_ListTodayRefetchesOnQueryChange(t *testing.T) {
	svc, api, _, _ := newOrderService(t)
	ctx := context.Background()

	api.On("ListOrders", ctx, mock.Anything).Return([]domain.Order{
		{ID: 1, OrderDate: todayStamp()},
	}, nil).Twice()

	_, _, err := svc.ListToday(ctx, view.TabUnpaidUnserved, 1, 10)
	require.NoError(t, err)
	_, _, err = svc.ListToday(ctx, view.TabSettled, 1, 10)
	require.NoError(t, err)
}

func TestOrderService_RefreshDropsCachedPage(t *testing.T) {
	svc, api, _, _ := newOrderService(t)
	ctx := context.Background()

	api.On("ListOrders", ctx, mock.Anything).Return([]domain.Order{
		{ID: 1, OrderDate: todayStamp()},
	}, nil).Twice()

	_, _, err := svc.ListToday(ctx, view.TabUnpaidUnserved, 1, 10)
	require.NoError(t, err)

	require.NoError(t, svc.Refresh(ctx))

	_, _, err = svc.ListToday(ctx, view.TabUnpaidUnserved, 1, 10)
	require.NoError(t, err)
}

func TestOrderService_SetPaidFlipsCacheAfterConfirm(t *testing.T) {
	svc, api, audit, events := newOrderService(t)
	ctx := context.Background()

	api.On("ListOrders", ctx, mock.Anything).Return([]domain.Order{
		{ID: 1, OrderDate: todayStamp()},
	}, nil).Once()
	_, _, err := svc.ListToday(ctx, view.TabUnpaidUnserved, 1, 10)
	require.NoError(t, err)

	var upd domain.OrderStatusUpdate
	api.On("UpdateOrderStatus", ctx, mock.Anything).
		Run(func(args mock.Arguments) { upd = args.Get(1).(domain.OrderStatusUpdate) }).
		Return(nil).Once()
	expectRecord(audit, events)

	require.NoError(t, svc.SetPaid(ctx, "chef@talanch.fr", 1, true))

	// One request carries exactly one flag.
	require.NotNil(t, upd.Paid)
	assert.True(t, *upd.Paid)
	assert.Nil(t, upd.Served)

	cached := svc.CachedToday(view.Today(time.Now()))
	require.Len(t, cached, 1)
	assert.True(t, cached[0].Paid)
	assert.False(t, cached[0].Served)
}

func TestOrderService_SetServedFailureLeavesCache(t *testing.T) {
	svc, api, _, _ := newOrderService(t)
	ctx := context.Background()

	api.On("ListOrders", ctx, mock.Anything).Return([]domain.Order{
		{ID: 1, OrderDate: todayStamp()},
	}, nil).Once()
	_, _, err := svc.ListToday(ctx, view.TabUnpaidUnserved, 1, 10)
	require.NoError(t, err)

	api.On("UpdateOrderStatus", ctx, mock.Anything).Return(errors.New("boom")).Once()
	assert.Error(t, svc.SetServed(ctx, "chef@talanch.fr", 1, true))

	cached := svc.CachedToday(view.Today(time.Now()))
	require.Len(t, cached, 1)
	assert.False(t, cached[0].Served)
}

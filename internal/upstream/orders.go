package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"talanch-backoffice/internal/domain"
)

// ListOrders fetches a paged, status-filtered slice of orders. Nil flags are
// omitted from the query so the upstream leaves them unconstrained.
func (c *Client) ListOrders(ctx context.Context, q domain.OrderQuery) ([]domain.Order, error) {
	query := url.Values{}
	query.Set("pageNumber", strconv.Itoa(q.Page))
	query.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.Paid != nil {
		query.Set("isPaid", strconv.FormatBool(*q.Paid))
	}
	if q.Served != nil {
		query.Set("isServed", strconv.FormatBool(*q.Served))
	}

	body, err := c.get(ctx, "/order", query)
	if err != nil {
		return nil, err
	}

	var orders []domain.Order
	if err := decodeList(body, &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ListUnpaidOrders uses the upstream's PascalCase parameters and the
// {"items": {"$values": [...]}} envelope.
func (c *Client) ListUnpaidOrders(ctx context.Context, q domain.UnpaidQuery) ([]domain.Order, error) {
	query := url.Values{}
	query.Set("PageNumber", strconv.Itoa(q.Page))
	query.Set("PageSize", strconv.Itoa(q.PageSize))
	query.Set("FirstName", q.FirstName)
	query.Set("LastName", q.LastName)

	body, err := c.get(ctx, "/order/unpaid", query)
	if err != nil {
		return nil, err
	}

	var orders []domain.Order
	if err := decodeList(body, &orders); err != nil {
		return nil, fmt.Errorf("list unpaid orders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus flips a single paid or served flag. One request carries
// one flag; the caller never combines them.
func (c *Client) UpdateOrderStatus(ctx context.Context, upd domain.OrderStatusUpdate) error {
	payload, err := json.Marshal(upd)
	if err != nil {
		return err
	}

	code, err := c.sendJSON(ctx, http.MethodPatch, "/order/update-order-status", payload)
	if err != nil {
		return err
	}
	if code >= 300 {
		return statusErr(http.MethodPatch, "/order/update-order-status", code)
	}
	return nil
}

package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/oox/furniture-console/internal/model"
)

// ListOrders returns all orders, optionally filtered by status.
func (c *Client) ListOrders(ctx context.Context, status string) ([]model.Order, error) {
	path := "/api/orders/"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out list[model.Order]
	if err := c.Get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return out.Items, nil
}

// CreateOrder submits a new order.
func (c *Client) CreateOrder(ctx context.Context, in model.OrderInput) (*model.Order, error) {
	var o model.Order
	if err := c.Post(ctx, "/api/orders/", in, &o); err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}
	return &o, nil
}

// UpdateOrder applies a partial update to an order.
func (c *Client) UpdateOrder(ctx context.Context, id model.ID, in model.OrderInput) (*model.Order, error) {
	var o model.Order
	if err := c.Patch(ctx, orderPath(id), in, &o); err != nil {
		return nil, fmt.Errorf("updating order %s: %w", id, err)
	}
	return &o, nil
}

// DeleteOrder removes an order.
func (c *Client) DeleteOrder(ctx context.Context, id model.ID) error {
	if err := c.Delete(ctx, orderPath(id)); err != nil {
		return fmt.Errorf("deleting order %s: %w", id, err)
	}
	return nil
}

// GetOrderDetails returns an order with its tasks and assignable workers.
func (c *Client) GetOrderDetails(ctx context.Context, id model.ID) (*model.OrderDetails, error) {
	var d model.OrderDetails
	if err := c.Get(ctx, orderPath(id)+"details/", &d); err != nil {
		return nil, fmt.Errorf("getting order %s details: %w", id, err)
	}
	return &d, nil
}

// ListProductionReadyOrders returns orders that can receive warehouse tasks.
func (c *Client) ListProductionReadyOrders(ctx context.Context) ([]model.Order, error) {
	var out list[model.Order]
	if err := c.Get(ctx, "/api/orders/production-ready/", &out); err != nil {
		return nil, fmt.Errorf("listing production-ready orders: %w", err)
	}
	return out.Items, nil
}

// GetWarehouseSummary returns open orders grouped by urgency.
func (c *Client) GetWarehouseSummary(ctx context.Context) (*model.WarehouseSummary, error) {
	var s model.WarehouseSummary
	if err := c.Get(ctx, "/api/warehouse/orders-summary/", &s); err != nil {
		return nil, fmt.Errorf("getting warehouse summary: %w", err)
	}
	return &s, nil
}

type deliveryRequest struct {
	DeliveryStatus string `json:"delivery_status"`
}

// UpdateDeliveryStatus moves an order's delivery to a new status.
func (c *Client) UpdateDeliveryStatus(ctx context.Context, id model.ID, status string) (*model.Order, error) {
	var o model.Order
	if err := c.Patch(ctx, orderPath(id)+"delivery/", deliveryRequest{DeliveryStatus: status}, &o); err != nil {
		return nil, fmt.Errorf("updating delivery for order %s: %w", id, err)
	}
	return &o, nil
}

func orderPath(id model.ID) string {
	return "/api/orders/" + url.PathEscape(id.String()) + "/"
}

package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/oox/furniture-console/internal/model"
)

// ListCustomers returns every customer.
func (c *Client) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	var out list[model.Customer]
	if err := c.Get(ctx, "/api/customers/", &out); err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	return out.Items, nil
}

// CreateCustomer adds a customer.
func (c *Client) CreateCustomer(ctx context.Context, in model.CustomerInput) (*model.Customer, error) {
	var out model.Customer
	if err := c.Post(ctx, "/api/customers/", in, &out); err != nil {
		return nil, fmt.Errorf("creating customer: %w", err)
	}
	return &out, nil
}

// UpdateCustomer applies a partial update to a customer.
func (c *Client) UpdateCustomer(ctx context.Context, id model.ID, in model.CustomerInput) (*model.Customer, error) {
	var out model.Customer
	if err := c.Patch(ctx, recordPath("customers", id), in, &out); err != nil {
		return nil, fmt.Errorf("updating customer %s: %w", id, err)
	}
	return &out, nil
}

// DeleteCustomer removes a customer.
func (c *Client) DeleteCustomer(ctx context.Context, id model.ID) error {
	if err := c.Delete(ctx, recordPath("customers", id)); err != nil {
		return fmt.Errorf("deleting customer %s: %w", id, err)
	}
	return nil
}

// ListProducts returns the catalogue.
func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var out list[model.Product]
	if err := c.Get(ctx, "/api/products/", &out); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return out.Items, nil
}

// CreateProduct adds a catalogue item.
func (c *Client) CreateProduct(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	var out model.Product
	if err := c.Post(ctx, "/api/products/", in, &out); err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}
	return &out, nil
}

// DeleteProduct removes a catalogue item.
func (c *Client) DeleteProduct(ctx context.Context, id model.ID) error {
	if err := c.Delete(ctx, recordPath("products", id)); err != nil {
		return fmt.Errorf("deleting product %s: %w", id, err)
	}
	return nil
}

// ListUsers returns every console account.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var out list[model.User]
	if err := c.Get(ctx, "/api/users/", &out); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return out.Items, nil
}

// CreateUser adds a console account. The backend only accepts this from owners.
func (c *Client) CreateUser(ctx context.Context, in model.UserInput) (*model.User, error) {
	var out model.User
	if err := c.Post(ctx, "/api/users/", in, &out); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &out, nil
}

// DeleteUser removes a console account.
func (c *Client) DeleteUser(ctx context.Context, id model.ID) error {
	if err := c.Delete(ctx, recordPath("users", id)); err != nil {
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	return nil
}

// CreateStockEntry records a stock movement.
func (c *Client) CreateStockEntry(ctx context.Context, in model.StockEntry) error {
	if err := c.Post(ctx, "/api/stock/entries/", in, nil); err != nil {
		return fmt.Errorf("recording stock entry: %w", err)
	}
	return nil
}

// FetchFile downloads a protected resource (e.g. a product image) using
// the session token. path may be absolute on the backend host or a full
// URL under the configured base URL.
func (c *Client) FetchFile(ctx context.Context, path string) ([]byte, error) {
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		path = u.RequestURI()
	}
	var raw []byte
	if err := c.Get(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}
	return raw, nil
}

func recordPath(kind string, id model.ID) string {
	return "/api/" + kind + "/" + url.PathEscape(id.String()) + "/"
}

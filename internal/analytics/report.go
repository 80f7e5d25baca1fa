package analytics

import (
	"context"
	"fmt"
	"time"
)

// StatusCount is a group-by-status row.
type StatusCount struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

// WorkerTime is the tracked time per worker.
type WorkerTime struct {
	WorkerID string `db:"worker_id"`
	Worker   string `db:"worker"`
	Tasks    int    `db:"tasks"`
	Seconds  int64  `db:"seconds"`
}

// ProductCount is the ordered quantity per product.
type ProductCount struct {
	Product  string `db:"product"`
	Quantity int    `db:"quantity"`
}

// Report is the dashboard's aggregate view of a snapshot.
type Report struct {
	Orders         int
	OrdersByStatus []StatusCount
	Revenue        float64
	OpenRevenue    float64
	Tasks          int
	TasksByStatus  []StatusCount
	OverdueTasks   int
	Workers        []WorkerTime
	TopProducts    []ProductCount
	GeneratedAt    time.Time
}

const (
	ordersByStatusQuery = `
		SELECT status, COUNT(*) AS count
		FROM orders
		GROUP BY status
		ORDER BY count DESC, status`

	tasksByStatusQuery = `
		SELECT status, COUNT(*) AS count
		FROM tasks
		GROUP BY status
		ORDER BY count DESC, status`

	revenueQuery = `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status != 'cancelled'`

	openRevenueQuery = `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status NOT IN ('cancelled', 'delivered')`

	overdueTasksQuery = `
		SELECT COUNT(*)
		FROM tasks
		WHERE deadline IS NOT NULL AND deadline < ?
		  AND status NOT IN ('completed', 'approved', 'rejected')`

	workerTimeQuery = `
		SELECT assigned_to AS worker_id,
		       MAX(assigned_to_name) AS worker,
		       COUNT(*) AS tasks,
		       COALESCE(SUM(time_elapsed), 0) AS seconds
		FROM tasks
		WHERE assigned_to != ''
		GROUP BY assigned_to
		ORDER BY seconds DESC, worker
		LIMIT 10`

	topProductsQuery = `
		SELECT MAX(product_name) AS product, SUM(quantity) AS quantity
		FROM order_items
		GROUP BY product_id
		ORDER BY quantity DESC, product
		LIMIT 5`
)

// Report computes the aggregates for the loaded snapshot.
func (d *DB) Report(ctx context.Context, now time.Time) (*Report, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r := &Report{GeneratedAt: now}

	if err := d.db.SelectContext(ctx, &r.OrdersByStatus, ordersByStatusQuery); err != nil {
		return nil, fmt.Errorf("querying orders by status: %w", err)
	}
	if err := d.db.SelectContext(ctx, &r.TasksByStatus, tasksByStatusQuery); err != nil {
		return nil, fmt.Errorf("querying tasks by status: %w", err)
	}
	if err := d.db.GetContext(ctx, &r.Revenue, revenueQuery); err != nil {
		return nil, fmt.Errorf("querying revenue: %w", err)
	}
	if err := d.db.GetContext(ctx, &r.OpenRevenue, openRevenueQuery); err != nil {
		return nil, fmt.Errorf("querying open revenue: %w", err)
	}
	if err := d.db.GetContext(ctx, &r.OverdueTasks, overdueTasksQuery, now.Unix()); err != nil {
		return nil, fmt.Errorf("querying overdue tasks: %w", err)
	}
	if err := d.db.SelectContext(ctx, &r.Workers, workerTimeQuery); err != nil {
		return nil, fmt.Errorf("querying worker time: %w", err)
	}
	if err := d.db.SelectContext(ctx, &r.TopProducts, topProductsQuery); err != nil {
		return nil, fmt.Errorf("querying top products: %w", err)
	}

	for _, s := range r.OrdersByStatus {
		r.Orders += s.Count
	}
	for _, s := range r.TasksByStatus {
		r.Tasks += s.Count
	}
	return r, nil
}

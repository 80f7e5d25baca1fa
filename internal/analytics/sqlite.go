// Package analytics aggregates order and task snapshots for the dashboard.
// The data lives in an in-memory SQLite database that is rebuilt from
// every snapshot; nothing is written to disk.
package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/oox/furniture-console/internal/model"
)

// DB is the in-memory analytics database.
type DB struct {
	mu sync.Mutex
	db *sqlx.DB
}

// Open creates an empty in-memory database with the schema applied.
func Open() (*DB, error) {
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	d := &DB{db: db}
	if err := d.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return d, nil
}

// Close releases the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (d *DB) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := d.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = d.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := d.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}
	return nil
}

// Load replaces the stored snapshot with orders and tasks.
func (d *DB) Load(ctx context.Context, orders []model.Order, tasks []model.Task) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM order_items", "DELETE FROM orders", "DELETE FROM tasks"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing snapshot: %w", err)
		}
	}

	if err := insertOrders(ctx, tx, orders); err != nil {
		return err
	}
	if err := insertTasks(ctx, tx, tasks); err != nil {
		return err
	}
	return tx.Commit()
}

func insertOrders(ctx context.Context, tx *sqlx.Tx, orders []model.Order) error {
	orderStmt, err := tx.PreparexContext(ctx, `
		INSERT OR REPLACE INTO orders (
			id, order_number, customer_name, status,
			delivery_status, total_amount, deadline, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing order insert: %w", err)
	}
	defer orderStmt.Close()

	itemStmt, err := tx.PreparexContext(ctx, `
		INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing order item insert: %w", err)
	}
	defer itemStmt.Close()

	for _, o := range orders {
		_, err := orderStmt.ExecContext(ctx,
			o.ID.String(), o.OrderNumber, o.CustomerName, o.Status,
			o.DeliveryStatus, o.TotalAmount, unixOrNil(o.Deadline), o.CreatedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("inserting order %s: %w", o.ID, err)
		}
		for _, it := range o.Items {
			_, err := itemStmt.ExecContext(ctx,
				o.ID.String(), it.ProductID.String(), it.ProductName, it.Quantity, it.UnitPrice,
			)
			if err != nil {
				return fmt.Errorf("inserting item of order %s: %w", o.ID, err)
			}
		}
	}
	return nil
}

func insertTasks(ctx context.Context, tx *sqlx.Tx, tasks []model.Task) error {
	stmt, err := tx.PreparexContext(ctx, `
		INSERT OR REPLACE INTO tasks (
			id, order_id, title, status, priority,
			assigned_to, assigned_to_name, time_elapsed, deadline
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing task insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tasks {
		_, err := stmt.ExecContext(ctx,
			t.ID.String(), t.OrderID.String(), t.Title, string(t.Status), string(t.Priority),
			t.AssignedTo.String(), t.AssignedToName, t.TimeElapsed, unixOrNil(t.Deadline),
		)
		if err != nil {
			return fmt.Errorf("inserting task %s: %w", t.ID, err)
		}
	}
	return nil
}

func unixOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

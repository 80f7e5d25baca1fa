package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oox/furniture-console/internal/keys"
	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/ui/records"
)

func actionNames(spec records.Spec) []string {
	var out []string
	for _, a := range spec.Actions {
		out = append(out, a.Name)
	}
	return out
}

func TestRecordSpecGating(t *testing.T) {
	k := keys.DefaultKeyMap()

	tests := []struct {
		name      string
		kind      records.Kind
		role      model.Role
		actions   []string
		canCreate bool
		canDelete bool
	}{
		{"owner orders", records.KindOrders, model.RoleOwner, []string{actionAssign}, true, true},
		{"warehouse orders", records.KindOrders, model.RoleWarehouse, []string{actionAssign}, false, false},
		{"admin users", records.KindUsers, model.RoleAdmin, nil, false, true},
		{"owner users", records.KindUsers, model.RoleOwner, nil, true, true},
		{"products", records.KindProducts, model.RoleAdmin, []string{actionImage}, true, true},
		{"delivery", records.KindDeliveries, model.RoleDelivery, []string{actionAdvance}, false, false},
		{"warehouse queue", records.KindWarehouse, model.RoleWarehouse, []string{actionAssign}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := recordSpec(tt.kind, tt.role, k)
			assert.Equal(t, tt.kind, spec.Kind)
			assert.NotEmpty(t, spec.Columns)
			assert.Equal(t, tt.actions, actionNames(spec))
			assert.Equal(t, tt.canCreate, spec.CanCreate)
			assert.Equal(t, tt.canDelete, spec.CanDelete)
		})
	}
}

func TestRecordsInterval(t *testing.T) {
	cfg := &model.AppConfig{}
	cfg.Polling.OrdersIntervalSec = 20
	cfg.Polling.RecordsIntervalSec = 60

	assert.Equal(t, 20*time.Second, recordsInterval(records.KindDeliveries, cfg))
	assert.Equal(t, 20*time.Second, recordsInterval(records.KindWarehouse, cfg))
	assert.Equal(t, time.Minute, recordsInterval(records.KindCustomers, cfg))
}

func TestDeliveryRecords(t *testing.T) {
	orders := []model.Order{
		{ID: "1", OrderNumber: "A-1", Status: model.OrderStatusReady},
		{ID: "2", OrderNumber: "A-2", Status: model.OrderStatusNew},
		{ID: "3", OrderNumber: "A-3", Status: model.OrderStatusDelivered, DeliveryStatus: model.DeliveryInTransit},
		{ID: "4", OrderNumber: "A-4", Status: model.OrderStatusCancelled, DeliveryStatus: model.DeliveryScheduled},
		{ID: "5", OrderNumber: "A-5", Status: model.OrderStatusDelivered, DeliveryStatus: model.DeliveryDelivered},
	}

	got := deliveryRecords(orders)
	require.Len(t, got, 2)

	assert.Equal(t, model.ID("1"), got[0].ID)
	assert.Equal(t, "order #A-1", got[0].Label)
	assert.Equal(t, model.DeliveryPending, got[0].Cells[2])
	assert.Equal(t, "-", got[0].Cells[3])
	assert.Equal(t, "-", got[0].Cells[4])

	assert.Equal(t, model.ID("3"), got[1].ID)
	assert.Equal(t, model.DeliveryInTransit, got[1].Cells[2])
	_, ok := got[1].Value.(model.Order)
	assert.True(t, ok)
}

func TestRowConverters(t *testing.T) {
	deadline := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

	t.Run("orders", func(t *testing.T) {
		got := orderRecords([]model.Order{{
			ID: "7", OrderNumber: "B-7", CustomerName: "Nordic Homes",
			Status: model.OrderStatusConfirmed, TotalAmount: 1250.5, Deadline: &deadline,
		}})
		require.Len(t, got, 1)
		assert.Equal(t, []string{"#B-7", "Nordic Homes", "confirmed", "-", "1250.50", "2026-03-14"}, got[0].Cells)
	})

	t.Run("products", func(t *testing.T) {
		got := productRecords([]model.Product{{ID: "p1", Name: "Oak table", SKU: "OT-1", Price: 499, InStock: 3}})
		require.Len(t, got, 1)
		assert.Equal(t, []string{"Oak table", "OT-1", "-", "499.00", "3"}, got[0].Cells)
		assert.Equal(t, `product "Oak table"`, got[0].Label)
	})

	t.Run("users", func(t *testing.T) {
		got := userRecords([]model.User{{ID: "u1", Username: "mira", Role: model.RoleDelivery, IsActive: true}})
		require.Len(t, got, 1)
		assert.Equal(t, []string{"mira", "-", "delivery", "yes", "-"}, got[0].Cells)
	})

	t.Run("warehouse", func(t *testing.T) {
		got := warehouseRecords([]model.Order{{
			ID: "9", OrderNumber: "C-9", CustomerName: "Loft",
			Items: []model.OrderItem{{ProductName: "Chair", Quantity: 4}, {ProductName: "Table", Quantity: 1}},
		}})
		require.Len(t, got, 1)
		assert.Equal(t, []string{"#C-9", "Loft", "-", "4x Chair, 1x Table"}, got[0].Cells)
	})
}

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/ui/records"
)

func TestAvailableCommands(t *testing.T) {
	tests := []struct {
		role    model.Role
		want    []string
		notWant []string
	}{
		{
			role:    model.RoleOwner,
			want:    []string{"dashboard", "orders", "users", "new user", "stock", "deliveries", "warehouse"},
			notWant: nil,
		},
		{
			role:    model.RoleAdmin,
			want:    []string{"orders", "users", "new order"},
			notWant: []string{"new user"},
		},
		{
			role:    model.RoleWarehouseWorker,
			want:    []string{"tasks", "notifications", "refresh", "logout", "quit"},
			notWant: []string{"dashboard", "orders", "customers", "stock", "warehouse"},
		},
		{
			role:    model.RoleDelivery,
			want:    []string{"deliveries", "settings", "help"},
			notWant: []string{"tasks", "orders", "dashboard"},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			got := availableCommands(tt.role)
			for _, c := range tt.want {
				assert.Contains(t, got, c)
			}
			for _, c := range tt.notWant {
				assert.NotContains(t, got, c)
			}
		})
	}
}

func TestCommandAllowed(t *testing.T) {
	assert.True(t, commandAllowed(model.RoleWarehouse, "stock"))
	assert.False(t, commandAllowed(model.RoleDelivery, "stock"))
	assert.True(t, commandAllowed("", "quit"))
	assert.False(t, commandAllowed(model.RoleOwner, "frobnicate"))
}

func TestEveryCollectionHasACommand(t *testing.T) {
	for kind, perm := range recordPermission {
		found := false
		for _, c := range paletteCommands {
			if c.name == string(kind) {
				found = true
				assert.Equal(t, perm, c.perm, "command %s", kind)
			}
		}
		assert.True(t, found, "no command for %s", kind)
	}
	_, ok := formKindFor[records.KindDeliveries]
	assert.False(t, ok)
}

// Package auth manages the console session and decides which screens a
// role may use. The backend enforces permissions; these checks only keep
// users away from actions that would be refused.
package auth

import "github.com/oox/furniture-console/internal/model"

// Permission names a gated capability.
type Permission string

const (
	ViewDashboard  Permission = "dashboard.view"
	ViewTasks      Permission = "tasks.view"
	WorkTasks      Permission = "tasks.work"
	ReviewTasks    Permission = "tasks.review"
	AssignTasks    Permission = "tasks.assign"
	DeleteTasks    Permission = "tasks.delete"
	ManageOrders   Permission = "orders.manage"
	ManageRecords  Permission = "records.manage"
	ManageStock    Permission = "stock.manage"
	TrackDelivery  Permission = "delivery.track"
	ManageUsers    Permission = "users.manage"
	CreateUsers    Permission = "users.create"
	ViewWarehouse  Permission = "warehouse.view"
	ViewAnalytics  Permission = "analytics.view"
	ViewDeliveries Permission = "deliveries.view"
)

var matrix = map[model.Role][]Permission{
	model.RoleOwner: {
		ViewDashboard, ViewTasks, ReviewTasks, AssignTasks, DeleteTasks,
		ManageOrders, ManageRecords, ManageStock, TrackDelivery,
		ManageUsers, CreateUsers, ViewWarehouse, ViewAnalytics, ViewDeliveries,
	},
	model.RoleAdmin: {
		ViewDashboard, ViewTasks, ReviewTasks, AssignTasks, DeleteTasks,
		ManageOrders, ManageRecords, ManageStock, TrackDelivery,
		ManageUsers, ViewWarehouse, ViewAnalytics, ViewDeliveries,
	},
	model.RoleWarehouse: {
		ViewDashboard, ViewTasks, ReviewTasks, AssignTasks,
		ManageStock, ViewWarehouse,
	},
	model.RoleWarehouseWorker: {
		ViewTasks, WorkTasks,
	},
	model.RoleDelivery: {
		TrackDelivery, ViewDeliveries,
	},
}

// Can reports whether role holds perm.
func Can(role model.Role, perm Permission) bool {
	for _, p := range matrix[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// Permissions lists everything role may do.
func Permissions(role model.Role) []Permission {
	return append([]Permission(nil), matrix[role]...)
}

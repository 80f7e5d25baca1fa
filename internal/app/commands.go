package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/oox/furniture-console/internal/auth"
	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/ui/entityform"
	"github.com/oox/furniture-console/internal/ui/records"
)

// paletteCommand is a command palette entry. An empty perm means the
// command is always offered.
type paletteCommand struct {
	name string
	perm auth.Permission
}

var paletteCommands = []paletteCommand{
	{"dashboard", auth.ViewDashboard},
	{"tasks", auth.ViewTasks},
	{"notifications", ""},
	{"orders", auth.ManageOrders},
	{"customers", auth.ManageRecords},
	{"products", auth.ManageRecords},
	{"users", auth.ManageUsers},
	{"deliveries", auth.ViewDeliveries},
	{"warehouse", auth.ViewWarehouse},
	{"new order", auth.ManageOrders},
	{"new customer", auth.ManageRecords},
	{"new product", auth.ManageRecords},
	{"new user", auth.CreateUsers},
	{"stock", auth.ManageStock},
	{"refresh", ""},
	{"settings", ""},
	{"help", ""},
	{"logout", ""},
	{"quit", ""},
}

// availableCommands lists the palette commands role may run.
func availableCommands(role model.Role) []string {
	var out []string
	for _, c := range paletteCommands {
		if c.perm == "" || auth.Can(role, c.perm) {
			out = append(out, c.name)
		}
	}
	return out
}

func commandAllowed(role model.Role, name string) bool {
	for _, c := range paletteCommands {
		if c.name == name {
			return c.perm == "" || auth.Can(role, c.perm)
		}
	}
	return false
}

// executeCommand handles a command string from the command palette.
func (m Model) executeCommand(cmd string) (Model, tea.Cmd) {
	switch cmd {
	case "q":
		cmd = "quit"
	case "sync":
		cmd = "refresh"
	case "config":
		cmd = "settings"
	}

	if !commandAllowed(m.session.Role(), cmd) {
		m.toast(model.NotificationWarning, "Unknown or unavailable command: "+cmd)
		return m, nil
	}

	switch cmd {
	case "quit":
		return m.quit()
	case "logout":
		return m.logout()
	case "refresh":
		m.refreshAll()
		return m, nil
	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil
	case "settings":
		m.previousView = m.currentView
		m.currentView = ViewSettings
		cmd := m.settings.Start(m.cfg)
		return m, cmd
	case "dashboard":
		return m.showScreen(ViewDashboard)
	case "tasks":
		return m.showScreen(ViewTasks)
	case "notifications":
		return m.showScreen(ViewNotifications)
	case "orders", "customers", "products", "users", "deliveries", "warehouse":
		return m.showRecords(records.Kind(cmd))
	case "new order":
		return m, m.loadOrderFormOptions()
	case "new customer":
		return m.openForm(entityform.KindCustomer, entityform.Options{})
	case "new product":
		return m.openForm(entityform.KindProduct, entityform.Options{})
	case "new user":
		return m.openForm(entityform.KindUser, entityform.Options{})
	case "stock":
		return m.openForm(entityform.KindStock, entityform.Options{})
	}
	return m, nil
}

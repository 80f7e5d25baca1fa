package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"

	"github.com/oox/furniture-console/internal/api"
	"github.com/oox/furniture-console/internal/auth"
	"github.com/oox/furniture-console/internal/keys"
	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/poll"
	"github.com/oox/furniture-console/internal/ui/records"
)

// Row action names.
const (
	actionAssign  = "assign"
	actionAdvance = "advance"
	actionImage   = "image"
)

// recordPermission is the permission needed to open each collection.
var recordPermission = map[records.Kind]auth.Permission{
	records.KindOrders:     auth.ManageOrders,
	records.KindCustomers:  auth.ManageRecords,
	records.KindProducts:   auth.ManageRecords,
	records.KindUsers:      auth.ManageUsers,
	records.KindDeliveries: auth.ViewDeliveries,
	records.KindWarehouse:  auth.ViewWarehouse,
}

// recordSpec describes a collection for the given role.
func recordSpec(kind records.Kind, role model.Role, k *keys.KeyMap) records.Spec {
	can := func(p auth.Permission) bool { return auth.Can(role, p) }

	switch kind {
	case records.KindOrders:
		spec := records.Spec{
			Kind:  kind,
			Title: "Orders",
			Columns: []table.Column{
				{Title: "Order", Width: 10},
				{Title: "Customer", Width: 20},
				{Title: "Status", Width: 14},
				{Title: "Delivery", Width: 11},
				{Title: "Total", Width: 10},
				{Title: "Deadline", Width: 10},
			},
			CanCreate: can(auth.ManageOrders),
			CanDelete: can(auth.ManageOrders),
		}
		if can(auth.AssignTasks) {
			spec.Actions = append(spec.Actions, records.Action{Name: actionAssign, Binding: k.Assign})
		}
		return spec

	case records.KindCustomers:
		return records.Spec{
			Kind:  kind,
			Title: "Customers",
			Columns: []table.Column{
				{Title: "Name", Width: 22},
				{Title: "Phone", Width: 16},
				{Title: "Email", Width: 24},
				{Title: "Address", Width: 20},
			},
			CanCreate: can(auth.ManageRecords),
			CanDelete: can(auth.ManageRecords),
		}

	case records.KindProducts:
		return records.Spec{
			Kind:  kind,
			Title: "Products",
			Columns: []table.Column{
				{Title: "Name", Width: 24},
				{Title: "SKU", Width: 12},
				{Title: "Category", Width: 14},
				{Title: "Price", Width: 10},
				{Title: "Stock", Width: 6},
			},
			Actions:   []records.Action{{Name: actionImage, Binding: k.Image}},
			CanCreate: can(auth.ManageRecords),
			CanDelete: can(auth.ManageRecords),
		}

	case records.KindUsers:
		return records.Spec{
			Kind:  kind,
			Title: "Users",
			Columns: []table.Column{
				{Title: "Username", Width: 16},
				{Title: "Name", Width: 22},
				{Title: "Role", Width: 17},
				{Title: "Active", Width: 6},
				{Title: "Email", Width: 20},
			},
			CanCreate: can(auth.CreateUsers),
			CanDelete: can(auth.ManageUsers),
		}

	case records.KindDeliveries:
		spec := records.Spec{
			Kind:  kind,
			Title: "Deliveries",
			Columns: []table.Column{
				{Title: "Order", Width: 10},
				{Title: "Customer", Width: 20},
				{Title: "Delivery", Width: 11},
				{Title: "Deadline", Width: 10},
				{Title: "Address", Width: 24},
			},
		}
		if can(auth.TrackDelivery) {
			spec.Actions = append(spec.Actions, records.Action{Name: actionAdvance, Binding: k.Advance})
		}
		return spec

	case records.KindWarehouse:
		spec := records.Spec{
			Kind:  kind,
			Title: "Production queue",
			Columns: []table.Column{
				{Title: "Order", Width: 10},
				{Title: "Customer", Width: 20},
				{Title: "Deadline", Width: 10},
				{Title: "Items", Width: 30},
			},
		}
		if can(auth.AssignTasks) {
			spec.Actions = append(spec.Actions, records.Action{Name: actionAssign, Binding: k.Assign})
		}
		return spec
	}
	return records.Spec{Kind: kind, Title: string(kind)}
}

// recordsInterval picks the refresh interval for a collection.
func recordsInterval(kind records.Kind, cfg *model.AppConfig) time.Duration {
	switch kind {
	case records.KindOrders, records.KindDeliveries, records.KindWarehouse:
		return model.Interval(cfg.Polling.OrdersIntervalSec)
	default:
		return model.Interval(cfg.Polling.RecordsIntervalSec)
	}
}

// recordsFetch returns the fetch function for a collection.
func recordsFetch(kind records.Kind, client *api.Client) poll.FetchFunc[[]records.Record] {
	return func(ctx context.Context) ([]records.Record, error) {
		switch kind {
		case records.KindOrders:
			orders, err := client.ListOrders(ctx, "")
			if err != nil {
				return nil, err
			}
			return orderRecords(orders), nil
		case records.KindCustomers:
			customers, err := client.ListCustomers(ctx)
			if err != nil {
				return nil, err
			}
			return customerRecords(customers), nil
		case records.KindProducts:
			products, err := client.ListProducts(ctx)
			if err != nil {
				return nil, err
			}
			return productRecords(products), nil
		case records.KindUsers:
			users, err := client.ListUsers(ctx)
			if err != nil {
				return nil, err
			}
			return userRecords(users), nil
		case records.KindDeliveries:
			orders, err := client.ListOrders(ctx, "")
			if err != nil {
				return nil, err
			}
			return deliveryRecords(orders), nil
		case records.KindWarehouse:
			orders, err := client.ListProductionReadyOrders(ctx)
			if err != nil {
				return nil, err
			}
			return warehouseRecords(orders), nil
		}
		return nil, fmt.Errorf("unknown collection %q", kind)
	}
}

func orderRecords(orders []model.Order) []records.Record {
	out := make([]records.Record, len(orders))
	for i, o := range orders {
		out[i] = records.Record{
			ID:    o.ID,
			Label: "order #" + o.OrderNumber,
			Cells: []string{
				"#" + o.OrderNumber,
				o.CustomerName,
				o.Status,
				orDash(o.DeliveryStatus),
				fmt.Sprintf("%.2f", o.TotalAmount),
				date(o.Deadline),
			},
			Value: o,
		}
	}
	return out
}

func customerRecords(customers []model.Customer) []records.Record {
	out := make([]records.Record, len(customers))
	for i, c := range customers {
		out[i] = records.Record{
			ID:    c.ID,
			Label: fmt.Sprintf("customer %q", c.Name),
			Cells: []string{c.Name, c.Phone, orDash(c.Email), orDash(c.Address)},
			Value: c,
		}
	}
	return out
}

func productRecords(products []model.Product) []records.Record {
	out := make([]records.Record, len(products))
	for i, p := range products {
		out[i] = records.Record{
			ID:    p.ID,
			Label: fmt.Sprintf("product %q", p.Name),
			Cells: []string{
				p.Name,
				p.SKU,
				orDash(p.Category),
				fmt.Sprintf("%.2f", p.Price),
				fmt.Sprintf("%d", p.InStock),
			},
			Value: p,
		}
	}
	return out
}

func userRecords(users []model.User) []records.Record {
	out := make([]records.Record, len(users))
	for i, u := range users {
		active := "no"
		if u.IsActive {
			active = "yes"
		}
		out[i] = records.Record{
			ID:    u.ID,
			Label: fmt.Sprintf("user %q", u.Username),
			Cells: []string{u.Username, orDash(u.FullName), string(u.Role), active, orDash(u.Email)},
			Value: u,
		}
	}
	return out
}

// deliveryRecords keeps orders that are ready to ship or already on the
// way, most urgent deadline first as the backend returns them.
func deliveryRecords(orders []model.Order) []records.Record {
	var out []records.Record
	for _, o := range orders {
		if !awaitsDelivery(o) {
			continue
		}
		out = append(out, records.Record{
			ID:    o.ID,
			Label: "order #" + o.OrderNumber,
			Cells: []string{
				"#" + o.OrderNumber,
				o.CustomerName,
				deliveryStatus(o),
				date(o.Deadline),
				orDash(o.Address),
			},
			Value: o,
		})
	}
	return out
}

func awaitsDelivery(o model.Order) bool {
	if o.Status == model.OrderStatusCancelled {
		return false
	}
	if o.Status == model.OrderStatusReady {
		return true
	}
	s := o.DeliveryStatus
	return s == model.DeliveryScheduled || s == model.DeliveryInTransit
}

// deliveryStatus treats a missing delivery status as pending.
func deliveryStatus(o model.Order) string {
	if o.DeliveryStatus == "" {
		return model.DeliveryPending
	}
	return o.DeliveryStatus
}

func warehouseRecords(orders []model.Order) []records.Record {
	out := make([]records.Record, len(orders))
	for i, o := range orders {
		items := make([]string, len(o.Items))
		for j, it := range o.Items {
			items[j] = fmt.Sprintf("%dx %s", it.Quantity, it.ProductName)
		}
		out[i] = records.Record{
			ID:    o.ID,
			Label: "order #" + o.OrderNumber,
			Cells: []string{"#" + o.OrderNumber, o.CustomerName, date(o.Deadline), orDash(strings.Join(items, ", "))},
			Value: o,
		}
	}
	return out
}

func date(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

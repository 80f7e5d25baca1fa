package app

import (
	"fmt"
	"os"
	"path"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oox/furniture-console/internal/confirm"
	"github.com/oox/furniture-console/internal/events"
	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/ui/entityform"
	"github.com/oox/furniture-console/internal/ui/records"
)

// formOptionsMsg carries the choices a form needs before it can open.
type formOptionsMsg struct {
	kind entityform.Kind
	opts entityform.Options
	err  error
}

// formResultMsg is sent after a form submission reached the backend.
type formResultMsg struct {
	kind    entityform.Kind
	message string
	err     error
}

// recordDeletedMsg is sent after a record delete was confirmed or declined.
type recordDeletedMsg struct {
	kind    records.Kind
	label   string
	deleted bool
	err     error
}

// deliveryUpdatedMsg is sent after a delivery status change.
type deliveryUpdatedMsg struct {
	label  string
	status string
	err    error
}

// imageSavedMsg carries the path of a downloaded product image.
type imageSavedMsg struct {
	path string
	err  error
}

// notificationsMarkedMsg is sent after read tracking reached the backend.
type notificationsMarkedMsg struct {
	count int
	all   bool
	err   error
}

// formKindFor maps a collection to its create form.
var formKindFor = map[records.Kind]entityform.Kind{
	records.KindOrders:    entityform.KindOrder,
	records.KindCustomers: entityform.KindCustomer,
	records.KindProducts:  entityform.KindProduct,
	records.KindUsers:     entityform.KindUser,
}

// loadOrderFormOptions fetches customers and products for the order form.
func (m *Model) loadOrderFormOptions() tea.Cmd {
	client := m.client
	ctx := m.sess.ctx
	return func() tea.Msg {
		customers, err := client.ListCustomers(ctx)
		if err != nil {
			return formOptionsMsg{kind: entityform.KindOrder, err: err}
		}
		products, err := client.ListProducts(ctx)
		if err != nil {
			return formOptionsMsg{kind: entityform.KindOrder, err: err}
		}
		return formOptionsMsg{
			kind: entityform.KindOrder,
			opts: entityform.Options{Customers: customers, Products: products},
		}
	}
}

// loadAssignOptions fetches an order with its available workers.
func (m *Model) loadAssignOptions(orderID model.ID) tea.Cmd {
	client := m.client
	ctx := m.sess.ctx
	return func() tea.Msg {
		details, err := client.GetOrderDetails(ctx, orderID)
		if err != nil {
			return formOptionsMsg{kind: entityform.KindAssign, err: err}
		}
		if len(details.Workers) == 0 {
			return formOptionsMsg{
				kind: entityform.KindAssign,
				err:  fmt.Errorf("no workers available for order #%s", details.OrderNumber),
			}
		}
		return formOptionsMsg{kind: entityform.KindAssign, opts: entityform.Options{Order: details}}
	}
}

// submitForm sends a validated form value to the backend.
func (m *Model) submitForm(kind entityform.Kind, value any) tea.Cmd {
	client := m.client
	actions := m.actions
	ctx := m.sess.ctx
	return func() tea.Msg {
		res := formResultMsg{kind: kind}
		switch v := value.(type) {
		case model.CustomerInput:
			c, err := client.CreateCustomer(ctx, v)
			if err == nil {
				res.message = fmt.Sprintf("Customer %q created", c.Name)
			}
			res.err = err
		case model.ProductInput:
			p, err := client.CreateProduct(ctx, v)
			if err == nil {
				res.message = fmt.Sprintf("Product %q created", p.Name)
			}
			res.err = err
		case model.UserInput:
			u, err := client.CreateUser(ctx, v)
			if err == nil {
				res.message = fmt.Sprintf("User %q created", u.Username)
			}
			res.err = err
		case model.OrderInput:
			o, err := client.CreateOrder(ctx, v)
			if err == nil {
				res.message = fmt.Sprintf("Order #%s created", o.OrderNumber)
			}
			res.err = err
		case model.StockEntry:
			res.err = client.CreateStockEntry(ctx, v)
			if res.err == nil {
				res.message = "Stock entry recorded"
			}
		case model.TaskInput:
			t, err := actions.Assign(ctx, v)
			if err == nil {
				res.message = fmt.Sprintf("Task %q assigned", t.Title)
			}
			res.err = err
		default:
			res.err = fmt.Errorf("unsupported form value %T", value)
		}
		return res
	}
}

// deleteRecord asks for confirmation and deletes the record.
func (m *Model) deleteRecord(kind records.Kind, rec records.Record) tea.Cmd {
	client := m.client
	confirmer := m.confirm
	ctx := m.sess.ctx
	return func() tea.Msg {
		msg := recordDeletedMsg{kind: kind, label: rec.Label}

		ok, err := confirmer.Confirm(ctx, confirm.Options{
			Title:       "Delete " + strings.TrimSuffix(string(kind), "s"),
			Message:     fmt.Sprintf("Delete %s? This cannot be undone.", rec.Label),
			ConfirmText: "Delete",
			Variant:     events.VariantDanger,
		})
		if err != nil || !ok {
			msg.err = err
			return msg
		}

		switch kind {
		case records.KindOrders:
			err = client.DeleteOrder(ctx, rec.ID)
		case records.KindCustomers:
			err = client.DeleteCustomer(ctx, rec.ID)
		case records.KindProducts:
			err = client.DeleteProduct(ctx, rec.ID)
		case records.KindUsers:
			err = client.DeleteUser(ctx, rec.ID)
		default:
			err = fmt.Errorf("%s cannot be deleted", kind)
		}
		msg.deleted = err == nil
		msg.err = err
		return msg
	}
}

// advanceDelivery moves an order to its next delivery status after
// confirmation.
func (m *Model) advanceDelivery(order model.Order) tea.Cmd {
	client := m.client
	confirmer := m.confirm
	ctx := m.sess.ctx
	label := "order #" + order.OrderNumber
	next := model.NextDeliveryStatus(deliveryStatus(order))
	return func() tea.Msg {
		if next == "" {
			return deliveryUpdatedMsg{label: label, err: fmt.Errorf("%s is already delivered", label)}
		}
		ok, err := confirmer.Confirm(ctx, confirm.Options{
			Title:       "Update delivery",
			Message:     fmt.Sprintf("Mark %s as %s?", label, strings.ReplaceAll(next, "_", " ")),
			ConfirmText: "Update",
			Variant:     events.VariantWarning,
		})
		if err != nil || !ok {
			return deliveryUpdatedMsg{label: label, err: err}
		}
		if _, err := client.UpdateDeliveryStatus(ctx, order.ID, next); err != nil {
			return deliveryUpdatedMsg{label: label, err: err}
		}
		return deliveryUpdatedMsg{label: label, status: next}
	}
}

// saveProductImage downloads a product image to a temporary file so it
// can be opened with an external viewer.
func (m *Model) saveProductImage(p model.Product) tea.Cmd {
	client := m.client
	ctx := m.sess.ctx
	return func() tea.Msg {
		if p.ImageURL == "" {
			return imageSavedMsg{err: fmt.Errorf("product %q has no image", p.Name)}
		}
		data, err := client.FetchFile(ctx, p.ImageURL)
		if err != nil {
			return imageSavedMsg{err: err}
		}

		ext := path.Ext(strings.SplitN(p.ImageURL, "?", 2)[0])
		f, err := os.CreateTemp("", "oox-product-"+p.ID.String()+"-*"+ext)
		if err != nil {
			return imageSavedMsg{err: fmt.Errorf("creating image file: %w", err)}
		}
		defer f.Close()
		if _, err := f.Write(data); err != nil {
			return imageSavedMsg{err: fmt.Errorf("writing image file: %w", err)}
		}
		return imageSavedMsg{path: f.Name()}
	}
}

// markRead marks one notification read.
func (m *Model) markRead(id model.ID) tea.Cmd {
	svc := m.notifications
	ctx := m.sess.ctx
	return func() tea.Msg {
		if err := svc.MarkRead(ctx, id); err != nil {
			return notificationsMarkedMsg{err: err}
		}
		return notificationsMarkedMsg{count: 1}
	}
}

// markAllRead marks every unread notification read.
func (m *Model) markAllRead() tea.Cmd {
	svc := m.notifications
	ctx := m.sess.ctx
	return func() tea.Msg {
		n, err := svc.MarkAllRead(ctx)
		return notificationsMarkedMsg{count: n, all: true, err: err}
	}
}

// Package entityform holds the create forms for customers, products,
// users, orders, stock entries and task assignments.
package entityform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/theme"
	"github.com/oox/furniture-console/internal/validate"
)

// Kind names a form.
type Kind string

const (
	KindCustomer Kind = "customer"
	KindProduct  Kind = "product"
	KindUser     Kind = "user"
	KindOrder    Kind = "order"
	KindStock    Kind = "stock"
	KindAssign   Kind = "assign"
)

// SubmitMsg carries the validated input. Value is one of
// model.CustomerInput, model.ProductInput, model.UserInput,
// model.OrderInput, model.StockEntry or model.TaskInput.
type SubmitMsg struct {
	Kind  Kind
	Value any
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{ Kind Kind }

const dateLayout = "2006-01-02"

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name        string
	email       string
	phone       string
	address     string
	sku         string
	category    string
	price       string
	description string
	username    string
	role        model.Role
	password    string
	customerID  model.ID
	productID   model.ID
	quantity    string
	notes       string
	deadline    string
	materialID  string
	unit        string
	direction   string
	title       string
	priority    model.TaskPriority
	workerID    model.ID
	estimate    string
}

// Options are the choices offered by select fields.
type Options struct {
	Customers []model.Customer
	Products  []model.Product
	// Order is the order a task is assigned for, with its workers.
	Order *model.OrderDetails
}

// Model is the Bubble Tea model for the entity forms.
type Model struct {
	kind   Kind
	form   *huh.Form
	fb     *formBindings
	opts   Options
	err    string
	width  int
	height int
}

// New creates an idle form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start resets the bindings and opens the form for kind.
func (m *Model) Start(kind Kind, opts Options) tea.Cmd {
	m.kind = kind
	m.opts = opts
	m.err = ""
	*m.fb = formBindings{
		role:      model.RoleWarehouseWorker,
		quantity:  "1",
		unit:      "pcs",
		direction: "in",
		priority:  model.TaskPriorityMedium,
	}
	if opts.Order != nil {
		m.fb.title = "Produce order #" + opts.Order.OrderNumber
		if opts.Order.Deadline != nil {
			m.fb.deadline = opts.Order.Deadline.Format(dateLayout)
		}
	}
	m.form = m.build()
	return m.form.Init()
}

// Reopen shows the form again with the values kept, after the backend
// refused the submission.
func (m *Model) Reopen(err error) tea.Cmd {
	if err != nil {
		m.err = err.Error()
	}
	m.form = m.build()
	return m.form.Init()
}

// Kind returns the open form.
func (m Model) Kind() Kind { return m.kind }

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		kind := m.kind
		return m, func() tea.Msg { return CancelMsg{Kind: kind} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	content := theme.TitleStyle.Render(m.title()) + "\n"
	if m.err != "" {
		content += lipgloss.NewStyle().Foreground(theme.ColorRed).Render(m.err) + "\n\n"
	}
	content += m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

func (m Model) title() string {
	switch m.kind {
	case KindCustomer:
		return "New Customer"
	case KindProduct:
		return "New Product"
	case KindUser:
		return "New User"
	case KindOrder:
		return "New Order"
	case KindStock:
		return "Stock Entry"
	case KindAssign:
		if m.opts.Order != nil {
			return fmt.Sprintf("Assign Task for Order #%s", m.opts.Order.OrderNumber)
		}
		return "Assign Task"
	}
	return ""
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) build() *huh.Form {
	var fields []huh.Field
	switch m.kind {
	case KindCustomer:
		fields = m.customerFields()
	case KindProduct:
		fields = m.productFields()
	case KindUser:
		fields = m.userFields()
	case KindOrder:
		fields = m.orderFields()
	case KindStock:
		fields = m.stockFields()
	case KindAssign:
		fields = m.assignFields()
	}
	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) customerFields() []huh.Field {
	return []huh.Field{
		huh.NewInput().
			Title("Name").
			Value(&m.fb.name).
			Validate(validate.Var("Name", "required,min=2,max=200")),
		huh.NewInput().
			Title("Email").
			Placeholder("optional").
			Value(&m.fb.email).
			Validate(validate.Var("Email", "omitempty,email")),
		huh.NewInput().
			Title("Phone").
			Value(&m.fb.phone).
			Validate(validate.Var("Phone", "required,min=5,max=32")),
		huh.NewText().
			Title("Address").
			Value(&m.fb.address),
	}
}

func (m *Model) productFields() []huh.Field {
	return []huh.Field{
		huh.NewInput().
			Title("Name").
			Value(&m.fb.name).
			Validate(validate.Var("Name", "required,min=2,max=200")),
		huh.NewInput().
			Title("SKU").
			Value(&m.fb.sku).
			Validate(validate.Var("SKU", "required,alphanum,max=64")),
		huh.NewInput().
			Title("Category").
			Placeholder("tables, chairs, beds...").
			Value(&m.fb.category),
		huh.NewInput().
			Title("Price").
			Value(&m.fb.price).
			Validate(validate.Var("Price", "required,numeric")),
		huh.NewText().
			Title("Description").
			Value(&m.fb.description),
	}
}

func (m *Model) userFields() []huh.Field {
	roles := make([]huh.Option[model.Role], len(model.Roles))
	for i, r := range model.Roles {
		roles[i] = huh.NewOption(string(r), r)
	}
	return []huh.Field{
		huh.NewInput().
			Title("Username").
			Value(&m.fb.username).
			Validate(validate.Var("Username", "required,alphanum,min=3,max=64")),
		huh.NewInput().
			Title("Full name").
			Value(&m.fb.name),
		huh.NewInput().
			Title("Email").
			Value(&m.fb.email).
			Validate(validate.Var("Email", "omitempty,email")),
		huh.NewSelect[model.Role]().
			Title("Role").
			Options(roles...).
			Value(&m.fb.role),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.password).
			Validate(validate.Var("Password", "required,min=8,max=128")),
	}
}

func (m *Model) orderFields() []huh.Field {
	customers := make([]huh.Option[model.ID], len(m.opts.Customers))
	for i, c := range m.opts.Customers {
		customers[i] = huh.NewOption(c.Name, c.ID)
	}
	products := make([]huh.Option[model.ID], len(m.opts.Products))
	for i, p := range m.opts.Products {
		products[i] = huh.NewOption(fmt.Sprintf("%s (%s)", p.Name, p.SKU), p.ID)
	}
	return []huh.Field{
		huh.NewSelect[model.ID]().
			Title("Customer").
			Options(customers...).
			Value(&m.fb.customerID),
		huh.NewSelect[model.ID]().
			Title("Product").
			Options(products...).
			Value(&m.fb.productID),
		huh.NewInput().
			Title("Quantity").
			Value(&m.fb.quantity).
			Validate(validate.Var("Quantity", "required,number")),
		huh.NewInput().
			Title("Delivery address").
			Value(&m.fb.address),
		huh.NewInput().
			Title("Deadline").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.deadline).
			Validate(validateOptionalDate),
		huh.NewText().
			Title("Notes").
			Value(&m.fb.notes),
	}
}

func (m *Model) stockFields() []huh.Field {
	units := []string{"pcs", "m", "m2", "m3", "kg", "l"}
	unitOpts := make([]huh.Option[string], len(units))
	for i, u := range units {
		unitOpts[i] = huh.NewOption(u, u)
	}
	return []huh.Field{
		huh.NewInput().
			Title("Material ID").
			Value(&m.fb.materialID).
			Validate(validate.Var("Material", "required")),
		huh.NewSelect[string]().
			Title("Direction").
			Options(
				huh.NewOption("Incoming", "in"),
				huh.NewOption("Outgoing", "out"),
			).
			Value(&m.fb.direction),
		huh.NewInput().
			Title("Quantity").
			Value(&m.fb.quantity).
			Validate(validate.Var("Quantity", "required,numeric")),
		huh.NewSelect[string]().
			Title("Unit").
			Options(unitOpts...).
			Value(&m.fb.unit),
		huh.NewInput().
			Title("Note").
			Value(&m.fb.notes),
	}
}

func (m *Model) assignFields() []huh.Field {
	var workers []huh.Option[model.ID]
	if m.opts.Order != nil {
		for _, w := range m.opts.Order.Workers {
			workers = append(workers, huh.NewOption(w.DisplayName(), w.ID))
		}
	}
	return []huh.Field{
		huh.NewInput().
			Title("Title").
			Value(&m.fb.title).
			Validate(validate.Var("Title", "required,min=3,max=200")),
		huh.NewText().
			Title("Description").
			Value(&m.fb.description),
		huh.NewSelect[model.TaskPriority]().
			Title("Priority").
			Options(
				huh.NewOption("Critical", model.TaskPriorityCritical),
				huh.NewOption("High", model.TaskPriorityHigh),
				huh.NewOption("Medium", model.TaskPriorityMedium),
				huh.NewOption("Low", model.TaskPriorityLow),
			).
			Value(&m.fb.priority),
		huh.NewSelect[model.ID]().
			Title("Worker").
			Options(workers...).
			Value(&m.fb.workerID),
		huh.NewInput().
			Title("Estimate (minutes)").
			Placeholder("optional").
			Value(&m.fb.estimate).
			Validate(validate.Var("Estimate", "omitempty,number")),
		huh.NewInput().
			Title("Deadline").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.deadline).
			Validate(validateOptionalDate),
	}
}

// handleSubmit builds the input value and validates it as a whole. A
// failure keeps the form open with the messages shown.
func (m Model) handleSubmit() (Model, tea.Cmd) {
	value := m.Value()
	if err := validate.Struct(value); err != nil {
		cmd := m.Reopen(err)
		return m, cmd
	}
	kind := m.kind
	return m, func() tea.Msg { return SubmitMsg{Kind: kind, Value: value} }
}

// Value converts the bindings into the input type for the open form.
func (m Model) Value() any {
	fb := m.fb
	switch m.kind {
	case KindCustomer:
		return model.CustomerInput{
			Name:    strings.TrimSpace(fb.name),
			Email:   strings.TrimSpace(fb.email),
			Phone:   strings.TrimSpace(fb.phone),
			Address: strings.TrimSpace(fb.address),
		}
	case KindProduct:
		price, _ := strconv.ParseFloat(strings.TrimSpace(fb.price), 64)
		return model.ProductInput{
			Name:        strings.TrimSpace(fb.name),
			SKU:         strings.TrimSpace(fb.sku),
			Category:    strings.TrimSpace(fb.category),
			Price:       price,
			Description: strings.TrimSpace(fb.description),
		}
	case KindUser:
		return model.UserInput{
			Username: strings.TrimSpace(fb.username),
			FullName: strings.TrimSpace(fb.name),
			Email:    strings.TrimSpace(fb.email),
			Role:     fb.role,
			Password: fb.password,
		}
	case KindOrder:
		qty, _ := strconv.Atoi(strings.TrimSpace(fb.quantity))
		item := model.OrderItem{ProductID: fb.productID, Quantity: qty}
		for _, p := range m.opts.Products {
			if p.ID == fb.productID {
				item.ProductName = p.Name
				item.UnitPrice = p.Price
			}
		}
		return model.OrderInput{
			CustomerID: fb.customerID,
			Address:    strings.TrimSpace(fb.address),
			Items:      []model.OrderItem{item},
			Notes:      strings.TrimSpace(fb.notes),
			Deadline:   parseDate(fb.deadline),
		}
	case KindStock:
		qty, _ := strconv.ParseFloat(strings.TrimSpace(fb.quantity), 64)
		return model.StockEntry{
			MaterialID: model.ID(strings.TrimSpace(fb.materialID)),
			Quantity:   qty,
			Unit:       fb.unit,
			Direction:  fb.direction,
			Note:       strings.TrimSpace(fb.notes),
		}
	case KindAssign:
		est, _ := strconv.Atoi(strings.TrimSpace(fb.estimate))
		in := model.TaskInput{
			Title:             strings.TrimSpace(fb.title),
			Description:       strings.TrimSpace(fb.description),
			Priority:          fb.priority,
			AssignedTo:        fb.workerID,
			EstimatedDuration: est,
			Deadline:          parseDate(fb.deadline),
		}
		if m.opts.Order != nil {
			in.OrderID = m.opts.Order.ID
		}
		return in
	}
	return nil
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 6
	if h < 10 {
		h = 10
	}
	return h
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil
	}
	// End of the working day.
	t = t.Add(18 * time.Hour)
	return &t
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

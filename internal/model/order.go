package model

import "time"

// Order status constants.
const (
	OrderStatusNew          = "new"
	OrderStatusConfirmed    = "confirmed"
	OrderStatusInProduction = "in_production"
	OrderStatusReady        = "ready"
	OrderStatusDelivered    = "delivered"
	OrderStatusCancelled    = "cancelled"
)

// Delivery status constants, in the order a delivery progresses.
const (
	DeliveryPending   = "pending"
	DeliveryScheduled = "scheduled"
	DeliveryInTransit = "in_transit"
	DeliveryDelivered = "delivered"
)

// DeliveryStatuses lists delivery states in progression order.
var DeliveryStatuses = []string{
	DeliveryPending, DeliveryScheduled, DeliveryInTransit, DeliveryDelivered,
}

// NextDeliveryStatus returns the status following current, or "" when the
// delivery is already finished or current is unknown.
func NextDeliveryStatus(current string) string {
	for i, s := range DeliveryStatuses {
		if s == current && i+1 < len(DeliveryStatuses) {
			return DeliveryStatuses[i+1]
		}
	}
	return ""
}

// Order is a customer order for one or more furniture products.
type Order struct {
	ID             ID          `json:"id"`
	OrderNumber    string      `json:"order_number"`
	CustomerID     ID          `json:"customer"`
	CustomerName   string      `json:"customer_name,omitempty"`
	Status         string      `json:"status"`
	DeliveryStatus string      `json:"delivery_status,omitempty"`
	Address        string      `json:"delivery_address,omitempty"`
	Items          []OrderItem `json:"items,omitempty"`
	TotalAmount    float64     `json:"total_amount"`
	Notes          string      `json:"notes,omitempty"`
	Deadline       *time.Time  `json:"deadline,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// OrderItem is a single product line within an order.
type OrderItem struct {
	ProductID   ID      `json:"product" validate:"required"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

// OrderInput is the payload for creating or updating an order.
type OrderInput struct {
	CustomerID ID          `json:"customer" validate:"required"`
	Address    string      `json:"delivery_address" validate:"max=500"`
	Items      []OrderItem `json:"items" validate:"required,min=1,dive"`
	Notes      string      `json:"notes" validate:"max=2000"`
	Deadline   *time.Time  `json:"deadline,omitempty"`
}

// OrderDetails is the read model used when assigning warehouse tasks.
type OrderDetails struct {
	Order
	Tasks   []Task `json:"tasks"`
	Workers []User `json:"available_workers"`
}

// Urgency buckets reported by the warehouse orders summary.
const (
	UrgencyOverdue = "overdue"
	UrgencyUrgent  = "urgent"
	UrgencySoon    = "soon"
	UrgencyNormal  = "normal"
)

// WarehouseSummary groups open orders by deadline urgency.
type WarehouseSummary struct {
	TotalOrders int                `json:"total_orders"`
	Buckets     map[string][]Order `json:"orders_by_urgency"`
}

// Count returns the number of orders in an urgency bucket.
func (s WarehouseSummary) Count(bucket string) int {
	return len(s.Buckets[bucket])
}

// Customer is a buyer record.
type Customer struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerInput is the payload for creating or updating a customer.
type CustomerInput struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"required,min=5,max=32"`
	Address string `json:"address" validate:"max=500"`
}

// Product is a catalogue item.
type Product struct {
	ID          ID      `json:"id"`
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	InStock     int     `json:"stock_quantity"`
	ImageURL    string  `json:"image,omitempty"`
	Description string  `json:"description,omitempty"`
}

// ProductInput is the payload for creating or updating a product.
type ProductInput struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	SKU         string  `json:"sku" validate:"required,alphanum,max=64"`
	Category    string  `json:"category" validate:"max=100"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description" validate:"max=2000"`
}

// StockEntry records incoming or outgoing material.
type StockEntry struct {
	MaterialID ID      `json:"material" validate:"required"`
	Quantity   float64 `json:"quantity" validate:"required,gt=0"`
	Unit       string  `json:"unit" validate:"required,oneof=pcs m m2 m3 kg l"`
	Direction  string  `json:"direction" validate:"required,oneof=in out"`
	Note       string  `json:"note" validate:"max=500"`
}

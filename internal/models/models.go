package models

import "time"

// Address is a shipping or billing destination. Country is ISO-2.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// CartLine is an unresolved cart entry as sent by the client.
type CartLine struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// PricedLine is a cart line resolved against the catalog.
type PricedLine struct {
	ProductID int64   `json:"productId"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Category  string  `json:"category"`
	IsDigital bool    `json:"isDigital"`
	Weight    float64 `json:"weight"`
}

// Product is a catalog row.
type Product struct {
	ID             int64     `db:"id" json:"id"`
	Title          string    `db:"title" json:"title"`
	Price          float64   `db:"price" json:"price"`
	Category       string    `db:"category" json:"category"`
	IsDigital      bool      `db:"is_digital" json:"is_digital"`
	Weight         float64   `db:"weight" json:"weight"`
	InventoryCount int       `db:"inventory_count" json:"inventory_count"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Shipping methods
const (
	ShippingMethodStandard  = "standard"
	ShippingMethodExpress   = "express"
	ShippingMethodOvernight = "overnight"
)

// DeliveryEstimate is a business-day delivery window.
type DeliveryEstimate struct {
	MinDate   time.Time `json:"minDate"`
	MaxDate   time.Time `json:"maxDate"`
	Formatted string    `json:"formatted"`
}

// ShippingQuote is one priced shipping option for a destination.
type ShippingQuote struct {
	Method              string           `json:"method"`
	MethodName          string           `json:"methodName"`
	Zone                string           `json:"zone"`
	BaseRate            float64          `json:"baseRate"`
	WeightSurcharge     float64          `json:"weightSurcharge"`
	HandlingFee         float64          `json:"handlingFee"`
	Total               float64          `json:"total"`
	FreeShippingApplied bool             `json:"freeShippingApplied"`
	DeliveryEstimate    DeliveryEstimate `json:"deliveryEstimate"`
}

// FreeShippingStatus reports eligibility against the threshold for a country.
type FreeShippingStatus struct {
	Eligible        bool    `json:"eligible"`
	Threshold       float64 `json:"threshold"`
	Method          string  `json:"method"`
	AmountUntilFree float64 `json:"amountUntilFree"`
	Message         string  `json:"message"`
}

// AddressValidation collects every violation, not just the first.
type AddressValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// TaxLine is one named component of a tax breakdown (GST, PST, VAT...).
type TaxLine struct {
	Name   string  `json:"name"`
	Rate   float64 `json:"rate"`
	Amount float64 `json:"amount"`
}

// TaxResult is the jurisdiction-specific tax computation for an order.
type TaxResult struct {
	TaxableAmount float64   `json:"taxableAmount"`
	TaxRate       float64   `json:"taxRate"`
	TaxAmount     float64   `json:"taxAmount"`
	Breakdown     []TaxLine `json:"breakdown"`
	Jurisdiction  string    `json:"jurisdiction,omitempty"`
}

// CheckoutSession is a priced cart held for a limited time before completion.
// Stored as JSON in Redis; ExpiresAt is re-checked at read time.
type CheckoutSession struct {
	SessionID       string       `json:"sessionId"`
	Email           string       `json:"email"`
	Items           []PricedLine `json:"items"`
	ShippingAddress Address      `json:"shippingAddress"`
	BillingAddress  Address      `json:"billingAddress"`
	Subtotal        float64      `json:"subtotal"`
	ShippingCost    float64      `json:"shippingCost"`
	ShippingMethod  string       `json:"shippingMethod"`
	TaxAmount       float64      `json:"taxAmount"`
	Total           float64      `json:"total"`
	CreatedAt       time.Time    `json:"createdAt"`
	ExpiresAt       time.Time    `json:"expiresAt"`
}

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusPaid       = "paid"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

var validOrderStatuses = map[string]bool{
	OrderStatusPending:    true,
	OrderStatusPaid:       true,
	OrderStatusProcessing: true,
	OrderStatusShipped:    true,
	OrderStatusDelivered:  true,
	OrderStatusCancelled:  true,
}

// IsValidOrderStatus reports whether s is one of the lifecycle statuses.
func IsValidOrderStatus(s string) bool {
	return validOrderStatuses[s]
}

// Order is a finalized, inventory-adjusted purchase.
type Order struct {
	ID              int64     `db:"id" json:"id"`
	OrderNumber     string    `db:"order_number" json:"orderNumber"`
	CustomerEmail   string    `db:"customer_email" json:"customerEmail"`
	CustomerName    string    `db:"customer_name" json:"customerName"`
	CustomerPhone   string    `db:"customer_phone" json:"customerPhone,omitempty"`
	ShippingAddress Address   `db:"-" json:"shippingAddress"`
	BillingAddress  Address   `db:"-" json:"billingAddress"`
	Subtotal        float64   `db:"subtotal" json:"subtotal"`
	ShippingCost    float64   `db:"shipping_cost" json:"shippingCost"`
	ShippingMethod  string    `db:"shipping_method" json:"shippingMethod"`
	TaxAmount       float64   `db:"tax_amount" json:"taxAmount"`
	Total           float64   `db:"total" json:"total"`
	Status          string    `db:"status" json:"status"`
	PaymentIntentID string    `db:"payment_intent_id" json:"paymentIntentId,omitempty"`
	TrackingNumber  string    `db:"tracking_number" json:"trackingNumber,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`

	Items []OrderItem `db:"-" json:"items"`
}

// StockDecrement is one inventory adjustment applied when an order commits.
type StockDecrement struct {
	ProductID int64
	Quantity  int
}

// OrderItem is one purchased line on an order.
type OrderItem struct {
	ID        int64   `db:"id" json:"id"`
	OrderID   int64   `db:"order_id" json:"order_id"`
	ProductID int64   `db:"product_id" json:"product_id"`
	Title     string  `db:"title" json:"title"`
	Quantity  int     `db:"quantity" json:"quantity"`
	UnitPrice float64 `db:"unit_price" json:"unit_price"`
}

package orders

// Shipping type and carrier values accepted on an order.
const (
	ShippingUrgent   = "URGENT"
	ShippingEconomic = "ECONOMIC"

	CarrierCorreios = "CORREIOS"
	CarrierFedex    = "FEDEX"
)

// Payment methods accepted on an order.
const (
	PaymentCash       = "CASH"
	PaymentDebitCard  = "DEBIT_CARD"
	PaymentCreditCard = "CREDIT_CARD"
)

// OrderProduct is the {code, price} snapshot taken at order-creation time.
// It is a copy, not a live reference to the products table.
type OrderProduct struct {
	Code  string  `dynamodbav:"code" json:"code"`
	Price float64 `dynamodbav:"price" json:"price"`
}

// Shipping holds the delivery choice for an order.
type Shipping struct {
	Type    string `dynamodbav:"type" json:"type"`
	Carrier string `dynamodbav:"carrier" json:"carrier"`
}

// Billing holds the payment method and the summed snapshot prices.
type Billing struct {
	Payment    string  `dynamodbav:"payment" json:"payment"`
	TotalPrice float64 `dynamodbav:"totalPrice" json:"totalPrice"`
}

// Order represents the item stored in the orders DynamoDB table. The
// partition key is the owner email and the sort key is the order id, which
// is assigned server-side on create.
type Order struct {
	PK        string         `dynamodbav:"pk"`        // owner email
	SK        string         `dynamodbav:"sk"`        // order id
	CreatedAt int64          `dynamodbav:"createdAt"` // epoch millis
	Shipping  Shipping       `dynamodbav:"shipping"`
	Billing   Billing        `dynamodbav:"billing"`
	Products  []OrderProduct `dynamodbav:"products"`
}

// OrderResponse is the client-facing shape: pk/sk are renamed to email/id.
type OrderResponse struct {
	Email     string         `json:"email"`
	ID        string         `json:"id"`
	CreatedAt int64          `json:"createdAt"`
	Products  []OrderProduct `json:"products"`
	Billing   Billing        `json:"billing"`
	Shipping  Shipping       `json:"shipping"`
}

// ToResponse converts a stored order into the client-facing shape.
func ToResponse(o Order) OrderResponse {
	return OrderResponse{
		Email:     o.PK,
		ID:        o.SK,
		CreatedAt: o.CreatedAt,
		Products:  o.Products,
		Billing:   o.Billing,
		Shipping:  o.Shipping,
	}
}

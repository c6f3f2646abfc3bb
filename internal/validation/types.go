package validation

// CreateProductRequest is the payload for POST /products and PUT /products/{id}.
type CreateProductRequest struct {
	ProductName string  `json:"productName" validate:"required"`
	Code        string  `json:"code" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"` // optional; defaults to 0
	Model       string  `json:"model"`
	ProductURL  string  `json:"productUrl"`
}

// OrderShipping is the shipping choice inside an order creation payload.
type OrderShipping struct {
	Type    string `json:"type" validate:"required,oneof=URGENT ECONOMIC"`
	Carrier string `json:"carrier" validate:"required,oneof=CORREIOS FEDEX"`
}

// CreateOrderRequest is the payload for POST /orders.
type CreateOrderRequest struct {
	Email      string        `json:"email" validate:"required,email"`
	ProductIDs []string      `json:"productIds" validate:"required,min=1,dive,required"` // at least one product
	Payment    string        `json:"payment" validate:"required,oneof=CASH DEBIT_CARD CREDIT_CARD"`
	Shipping   OrderShipping `json:"shipping" validate:"required"`
}

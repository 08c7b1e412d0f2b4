package request

// AddItemRequest puts one unit of a catalog product into the cart. Code
// selects the row variant; empty means the product's first code.
type AddItemRequest struct {
	ProductID int64  `json:"product_id" binding:"required"`
	Code      string `json:"code"`
}

// AddDiscountRequest adds an ad-hoc discount line. The amount may be entered
// with either sign; it is normalized to negative.
type AddDiscountRequest struct {
	Name  string  `json:"name"`
	Qty   float64 `json:"qty"`
	Price float64 `json:"price"`
}

// AddServiceRequest adds an ad-hoc service line (delivery and the like).
type AddServiceRequest struct {
	Name  string  `json:"name"`
	Qty   float64 `json:"qty"`
	Price float64 `json:"price"`
}

// UpdateLineRequest edits one cart row, identified by the row id in the URL
// plus the code here. Exactly one of Delta, Qty or Price applies per call;
// they are checked in that order.
type UpdateLineRequest struct {
	Code  string   `json:"code"`
	Delta *int     `json:"delta"`
	Qty   *float64 `json:"qty"`
	Price *float64 `json:"price"`
}

// CheckoutRequest submits the cart as a sale.
type CheckoutRequest struct {
	PaymentType string `json:"payment_type" binding:"required"`
}

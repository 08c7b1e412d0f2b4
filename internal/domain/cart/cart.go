package cart

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/srezka/kassa-api/internal/domain/entity"
	"github.com/srezka/kassa-api/internal/domain/enum"
)

// Codes assigned to the ad-hoc line kinds. The store API has no schema slot
// for them, so they also mark lines that must never reach the sales payload.
const (
	DiscountCode = "DISCOUNT"
	ServiceCode  = "SERVICE"
)

var (
	ErrOutOfStock        = fmt.Errorf("product is out of stock")
	ErrInsufficientStock = fmt.Errorf("insufficient stock")
	ErrLineNotFound      = fmt.Errorf("cart line not found")
	ErrDiscountZero      = fmt.Errorf("discount amount is required")
	ErrServiceName       = fmt.Errorf("service name is required")
	ErrServicePrice      = fmt.Errorf("service price must be positive")
)

// OverstockError reports a goods line whose quantity exceeds the available
// stock, naming the product so the cashier knows which row to fix.
type OverstockError struct {
	Name      string
	Available int
}

func (e *OverstockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: available %d", e.Name, e.Available)
}

// Line is a single cart row. Goods lines are identified by (ID, Code): the
// same product may occupy several rows under different codes, all capped by
// the shared product stock ceiling.
type Line struct {
	ID        string          `json:"id"`
	ProductID int64           `json:"product_id,omitempty"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Kind      enum.LineKind   `json:"kind"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock,omitempty"`
}

// Total is the line sum (quantity x unit price).
func (l *Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals is the decomposition of the cart amount, recomputed from scratch on
// every mutation so there is no incremental state to drift.
type Totals struct {
	Goods        decimal.Decimal `json:"goods"`
	Services     decimal.Decimal `json:"services"`
	Discounts    decimal.Decimal `json:"discounts"`
	Grand        decimal.Decimal `json:"grand"`
	AnyOverstock bool            `json:"any_overstock"`
}

// Cart is the in-memory ordered line list for one checkout session. It is not
// safe for concurrent use; callers serialize access (the cart store holds a
// lock per mutation).
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Lines returns a copy of the cart rows in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Clear() {
	c.lines = nil
}

// RestoreSnapshot replaces the cart contents with a previously captured line
// snapshot, e.g. a held cart being resumed. The snapshot's stock figures may
// be stale; Validate catches that at checkout.
func (c *Cart) RestoreSnapshot(lines []Line) {
	c.lines = make([]Line, len(lines))
	copy(c.lines, lines)
}

// GoodsQtyFor sums the quantity already in the cart for a product across all
// of its rows. Discount and service lines never count.
func (c *Cart) GoodsQtyFor(productID int64) int {
	total := 0
	for i := range c.lines {
		if c.lines[i].Kind == enum.LineKindGoods && c.lines[i].ProductID == productID {
			total += c.lines[i].Quantity
		}
	}
	return total
}

// goodsQtyOthers sums goods quantity for a product excluding the (id, code)
// row being edited. The clamp for that row is stock minus this value.
func (c *Cart) goodsQtyOthers(productID int64, id, code string) int {
	total := 0
	for i := range c.lines {
		l := &c.lines[i]
		if l.Kind != enum.LineKindGoods || l.ProductID != productID {
			continue
		}
		if l.ID == id && l.Code == code {
			continue
		}
		total += l.Quantity
	}
	return total
}

func (c *Cart) find(id, code string) *Line {
	for i := range c.lines {
		if c.lines[i].ID == id && c.lines[i].Code == code {
			return &c.lines[i]
		}
	}
	return nil
}

// AddProduct puts one unit of a product into the cart under the given code
// (first catalog code when empty). Adding beyond the product's remaining
// stock is rejected, counting quantity across every row of the product.
func (c *Cart) AddProduct(p *entity.Product, code string) error {
	if p.Stock <= 0 {
		return ErrOutOfStock
	}
	if code == "" {
		code = p.DefaultCode()
	}

	already := c.GoodsQtyFor(p.ID)
	if already >= p.Stock {
		return ErrInsufficientStock
	}

	id := strconv.FormatInt(p.ID, 10)
	if line := c.find(id, code); line != nil {
		if line.Quantity+1+(already-line.Quantity) > p.Stock {
			return ErrInsufficientStock
		}
		line.Quantity++
		return nil
	}

	c.lines = append(c.lines, Line{
		ID:        id,
		ProductID: p.ID,
		Code:      code,
		Name:      p.Name,
		Kind:      enum.LineKindGoods,
		Quantity:  1,
		Price:     p.Price,
		Stock:     p.Stock,
	})
	return nil
}

// AddDiscount appends a discount line. The price sign is normalized to
// negative regardless of what was entered; a zero magnitude is rejected.
func (c *Cart) AddDiscount(name string, qty int, price decimal.Decimal) (*Line, error) {
	if name == "" {
		name = "Скидка"
	}
	if qty < 1 {
		qty = 1
	}
	if price.IsZero() {
		return nil, ErrDiscountZero
	}
	price = price.Abs().Neg()

	line := Line{
		ID:       "disc-" + uuid.New().String()[:8],
		Code:     DiscountCode,
		Name:     name,
		Kind:     enum.LineKindDiscount,
		Quantity: qty,
		Price:    price,
	}
	c.lines = append(c.lines, line)
	return &c.lines[len(c.lines)-1], nil
}

// AddService appends a service line (delivery fee and the like). Name and a
// positive price are required.
func (c *Cart) AddService(name string, qty int, price decimal.Decimal) (*Line, error) {
	if name == "" {
		return nil, ErrServiceName
	}
	if qty < 1 {
		qty = 1
	}
	if !price.IsPositive() {
		return nil, ErrServicePrice
	}

	line := Line{
		ID:       "svc-" + uuid.New().String()[:8],
		Code:     ServiceCode,
		Name:     name,
		Kind:     enum.LineKindService,
		Quantity: qty,
		Price:    price,
	}
	c.lines = append(c.lines, line)
	return &c.lines[len(c.lines)-1], nil
}

// ChangeQty adjusts a row quantity by delta. Quantity never drops below 1;
// goods rows are additionally clamped to the stock left over after every
// other row of the same product.
func (c *Cart) ChangeQty(id, code string, delta int) error {
	line := c.find(id, code)
	if line == nil {
		return ErrLineNotFound
	}

	next := line.Quantity + delta
	if next < 1 {
		next = 1
	}
	if line.Kind == enum.LineKindGoods {
		next = c.clampGoods(line, next)
	}
	line.Quantity = next
	return nil
}

// SetQty sets a row quantity outright, with the same floor and clamp rules
// as ChangeQty. Non-positive input falls back to 1.
func (c *Cart) SetQty(id, code string, qty int) error {
	line := c.find(id, code)
	if line == nil {
		return ErrLineNotFound
	}

	if qty < 1 {
		qty = 1
	}
	if line.Kind == enum.LineKindGoods {
		qty = c.clampGoods(line, qty)
	}
	line.Quantity = qty
	return nil
}

func (c *Cart) clampGoods(line *Line, qty int) int {
	others := c.goodsQtyOthers(line.ProductID, line.ID, line.Code)
	maxAllowed := line.Stock - others
	if maxAllowed < 1 {
		maxAllowed = 1
	}
	if qty > maxAllowed {
		return maxAllowed
	}
	return qty
}

// SetPrice overrides a row's unit price. Any kind of line accepts it.
func (c *Cart) SetPrice(id, code string, price decimal.Decimal) error {
	line := c.find(id, code)
	if line == nil {
		return ErrLineNotFound
	}
	line.Price = price
	return nil
}

// Remove deletes the (id, code) row unconditionally.
func (c *Cart) Remove(id, code string) error {
	for i := range c.lines {
		if c.lines[i].ID == id && c.lines[i].Code == code {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

// Totals recomputes the subtotal per line kind and the grand total.
func (c *Cart) Totals() Totals {
	t := Totals{
		Goods:     decimal.Zero,
		Services:  decimal.Zero,
		Discounts: decimal.Zero,
	}
	for i := range c.lines {
		l := &c.lines[i]
		sum := l.Total()
		switch l.Kind {
		case enum.LineKindService:
			t.Services = t.Services.Add(sum)
		case enum.LineKindDiscount:
			t.Discounts = t.Discounts.Add(sum)
		default:
			t.Goods = t.Goods.Add(sum)
			if l.Quantity > l.Stock {
				t.AnyOverstock = true
			}
		}
	}
	t.Grand = t.Goods.Add(t.Services).Add(t.Discounts)
	return t
}

// Validate re-checks stock sufficiency on every goods line. Clamping should
// make this unreachable, but checkout never trusts earlier UI state.
func (c *Cart) Validate() error {
	for i := range c.lines {
		l := &c.lines[i]
		if l.Kind == enum.LineKindGoods && l.Quantity > l.Stock {
			return &OverstockError{Name: l.Name, Available: l.Stock}
		}
	}
	return nil
}

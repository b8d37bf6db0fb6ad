package ordering

import (
	"github.com/google/uuid"
	"github.com/smartshop/backend/internal/domain/catalog"
	"github.com/smartshop/backend/internal/domain/shared"
	"github.com/smartshop/backend/internal/domain/shared/valueobject"
)

// CartLine is a pending order line held in a cart.
// Product name and unit price are snapshotted when the line is added so
// later catalog edits do not change what the customer agreed to.
type CartLine struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   valueobject.Money
	Quantity    int
}

// LineTotal returns unit price multiplied by quantity
func (l CartLine) LineTotal() valueobject.Money {
	total, err := l.UnitPrice.MultiplyByInt(int64(l.Quantity))
	if err != nil {
		return valueobject.ZeroINR()
	}
	return total
}

// Cart assembles catalog items into an order. It is a transient builder,
// not a persisted aggregate; the Order it produces is what gets stored.
type Cart struct {
	CustomerID   uuid.UUID
	ShopkeeperID uuid.UUID
	Lines        []CartLine
}

// NewCart creates an empty cart for the given customer and shopkeeper
func NewCart(customerID, shopkeeperID uuid.UUID) (*Cart, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if shopkeeperID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHOPKEEPER", "Shopkeeper ID cannot be empty")
	}
	return &Cart{
		CustomerID:   customerID,
		ShopkeeperID: shopkeeperID,
		Lines:        make([]CartLine, 0),
	}, nil
}

// AddItem adds a product to the cart, snapshotting its name and price.
// Adding a product already in the cart merges by summing quantities.
// The stock check is advisory; the authoritative check happens when the
// order is placed and stock is actually decremented.
func (c *Cart) AddItem(product *catalog.Product, quantity int) error {
	if product == nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product cannot be nil")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !product.InStock(quantity) {
		return shared.ErrInsufficientStock
	}

	for idx := range c.Lines {
		if c.Lines[idx].ProductID == product.ID {
			merged := c.Lines[idx].Quantity + quantity
			if !product.InStock(merged) {
				return shared.ErrInsufficientStock
			}
			c.Lines[idx].Quantity = merged
			return nil
		}
	}

	c.Lines = append(c.Lines, CartLine{
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    quantity,
	})

	return nil
}

// UpdateQuantity replaces the quantity of an existing line.
// A quantity of zero or less removes the line.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) error {
	for idx := range c.Lines {
		if c.Lines[idx].ProductID == productID {
			if quantity <= 0 {
				c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
				return nil
			}
			c.Lines[idx].Quantity = quantity
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Product is not in the cart")
}

// RemoveItem removes a line from the cart
func (c *Cart) RemoveItem(productID uuid.UUID) error {
	return c.UpdateQuantity(productID, 0)
}

// IsEmpty returns true when the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total returns the sum of all line totals. An empty cart totals zero.
func (c *Cart) Total() valueobject.Money {
	total := valueobject.ZeroINR()
	for _, line := range c.Lines {
		total = total.MustAdd(line.LineTotal())
	}
	return total
}

// Build converts the cart into an immutable Order.
// Fails with EMPTY_CART when no lines are present and INVALID_QUANTITY
// when any line carries a non-positive quantity.
func (c *Cart) Build(paymentTerms PaymentTerms, notes string) (*Order, error) {
	if c.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_CART", "Cannot place an order with an empty cart")
	}
	for _, line := range c.Lines {
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
	}
	return NewOrder(c.CustomerID, c.ShopkeeperID, c.Lines, paymentTerms, notes)
}

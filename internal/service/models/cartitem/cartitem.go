package cartitem

import (
	"errors"
)

// Size is the portion size of a dish. The same dish at two sizes
// occupies two distinct cart lines.
type Size string

const (
	SizeFull Size = "Full"
	SizeHalf Size = "Half"
)

var ErrInvalidSize = errors.New("invalid size")

func (s Size) String() string {
	return string(s)
}

// ParseSize parses a portion size. An empty string means full portion.
func ParseSize(s string) (Size, error) {
	switch s {
	case "", SizeFull.String():
		return SizeFull, nil
	case SizeHalf.String():
		return SizeHalf, nil
	default:
		return "", ErrInvalidSize
	}
}

// CartItem represents one line of the cart. CartItemID is the composite
// identity of menu item id and portion size.
type CartItem struct {
	CartItemID string `json:"cartItemId"`
	ItemID     string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Image      string `json:"image"`
	Quantity   int    `json:"quantity"`
	Size       Size   `json:"size"`
}

// CompositeID builds the composite cart line identity from a menu item
// id and a portion size.
func CompositeID(itemID string, size Size) string {
	if size == "" {
		size = SizeFull
	}

	return itemID + "_" + size.String()
}

// WithID returns a copy of the item with CartItemID derived from its
// item id and size.
func (c CartItem) WithID() CartItem {
	if c.Size == "" {
		c.Size = SizeFull
	}
	c.CartItemID = CompositeID(c.ItemID, c.Size)

	return c
}

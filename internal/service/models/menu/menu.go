package menu

// Item represents a dish on the menu.
type Item struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	PriceCents     int64  `json:"priceCents"`
	HalfPriceCents int64  `json:"halfPriceCents,omitempty"`
	Image          string `json:"image"`
	Available      bool   `json:"available"`
}

// SpecialOffer represents a promotional offer shown on the storefront.
type SpecialOffer struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	DiscountPct int    `json:"discountPct"`
}

// TodaysSpecial represents a dish featured for the current day.
type TodaysSpecial struct {
	ID         string `json:"id"`
	ItemID     string `json:"itemId"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Image      string `json:"image"`
}

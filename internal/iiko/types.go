package iiko

import "time"

// Nomenclature is the menu snapshot returned by /api/1/nomenclature.
type Nomenclature struct {
	Groups   []Group       `json:"groups"`
	Products []MenuProduct `json:"products"`
	Revision int64         `json:"revision"`
}

// Group is a menu category.
type Group struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Order     int    `json:"order"`
	IsDeleted bool   `json:"isDeleted"`
}

// MenuProduct is a menu item.
type MenuProduct struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	ParentGroup     string      `json:"parentGroup"`
	Order           int         `json:"order"`
	IsDeleted       bool        `json:"isDeleted"`
	SizePrices      []SizePrice `json:"sizePrices"`
	ImageLinks      []string    `json:"imageLinks"`
	MeasureUnit     string      `json:"measureUnit"`
	ProductCategory string      `json:"productCategoryId"`
}

// SizePrice is a per-size price entry.
type SizePrice struct {
	SizeID   string `json:"sizeId"`
	SizeName string `json:"sizeName"`
	Price    struct {
		CurrentPrice float64 `json:"currentPrice"`
		IsIncluded   bool    `json:"isIncludedInMenu"`
	} `json:"price"`
}

// StopListItem marks a product with zero or negative balance.
type StopListItem struct {
	ProductID string  `json:"productId"`
	Balance   float64 `json:"balance"`
}

// CustomerInfo is a loyalty profile.
type CustomerInfo struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	WalletBalances []WalletBalance `json:"walletBalances"`
}

// WalletBalance is one loyalty wallet.
type WalletBalance struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

// DeliveryItem is an order line in a delivery request.
type DeliveryItem struct {
	ProductID string  `json:"productId"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Price     float64 `json:"price"`
	Comment   string  `json:"comment,omitempty"`
}

// DeliveryAddress is a delivery destination.
type DeliveryAddress struct {
	Street string `json:"street,omitempty"`
	House  string `json:"house,omitempty"`
	Flat   string `json:"flat,omitempty"`
}

// CreateDeliveryRequest is the payload for /api/1/deliveries/create.
type CreateDeliveryRequest struct {
	Phone         string
	CustomerName  string
	Comment       string
	Address       string
	OrderTypeID   string
	Items         []DeliveryItem
	CompleteAfter *time.Time
}

// DeliveryStatus is the normalized tracking view of an external delivery.
type DeliveryStatus struct {
	ID             string
	Status         string
	WhenCreated    *time.Time
	CompleteBefore *time.Time
	WhenDelivered  *time.Time
	Sum            float64
}

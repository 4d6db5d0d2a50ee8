// Package models holds the storefront's wire and domain types.
package models

// BasketItem is one line of a customer's basket.
type BasketItem struct {
	ID            string  `json:"id"`
	Quantity      int     `json:"quantity"`
	CatalogItemID string  `json:"catalogItemId,omitempty"`
	Name          string  `json:"name,omitempty"`
	UnitPrice     float64 `json:"unitPrice,omitempty"`
	ImageURL      string  `json:"imageUrl,omitempty"`
}

// CustomerBasket is the basket owned by one customer.
type CustomerBasket struct {
	CustomerID  string       `json:"customerId"`
	Items       []BasketItem `json:"items"`
	TotalAmount float64      `json:"totalAmount"`
}

// EmptyBasket returns the basket used when no customer is signed in.
func EmptyBasket() *CustomerBasket {
	return &CustomerBasket{CustomerID: "", Items: []BasketItem{}, TotalAmount: 0}
}

// Clone returns a deep copy of b.
func (b *CustomerBasket) Clone() *CustomerBasket {
	if b == nil {
		return nil
	}
	c := *b
	c.Items = make([]BasketItem, len(b.Items))
	copy(c.Items, b.Items)
	return &c
}

// FindItem returns the index of the item with id, or -1.
func (b *CustomerBasket) FindItem(id string) int {
	for i := range b.Items {
		if b.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// UpdateBasketItemDto is one entry of the basket replacement body.
type UpdateBasketItemDto struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// UpdateBasketDto is the body of PUT /baskets/{customerId}. The backend
// replaces the whole basket with these items.
type UpdateBasketDto struct {
	Items []UpdateBasketItemDto `json:"items"`
}

// ToUpdateDto projects b onto the replacement body, dropping display fields.
func (b *CustomerBasket) ToUpdateDto() UpdateBasketDto {
	dto := UpdateBasketDto{Items: make([]UpdateBasketItemDto, 0, len(b.Items))}
	for _, item := range b.Items {
		dto.Items = append(dto.Items, UpdateBasketItemDto{ID: item.ID, Quantity: item.Quantity})
	}
	return dto
}

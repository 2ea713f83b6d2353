package transport

import "github.com/shopspring/decimal"

// Request bodies. An "id" sent by the client is never bound: identity comes
// from the path or from the database.

type CustomerRequest struct {
	Name string `json:"name"`
}

type ProductRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type Ref struct {
	ID uint `json:"id"`
}

type OrderRequest struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	CustomerID *uint           `json:"customer_id"`
	Customer   *Ref            `json:"customer"`
	// nil when the body has no "products" key; an empty slice replaces the set.
	Products []Ref `json:"products"`
}

// CustomerRef resolves the customer from either request form.
// customer_id takes precedence; an id of 0 means no customer.
func (r OrderRequest) CustomerRef() *uint {
	var id uint
	switch {
	case r.CustomerID != nil:
		id = *r.CustomerID
	case r.Customer != nil:
		id = r.Customer.ID
	}
	if id == 0 {
		return nil
	}
	return &id
}

func (r OrderRequest) ProductIDs() []uint {
	ids := make([]uint, 0, len(r.Products))
	for _, p := range r.Products {
		ids = append(ids, p.ID)
	}
	return ids
}

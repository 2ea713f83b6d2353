package models

import (
	"github.com/shopspring/decimal"
)

// Customer is a row in "customers". Orders point at it through orders.customer_id.
type Customer struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name string `gorm:"not null"                  json:"name"`
}

// Order is a row in "orders"; its products live in the "order_products"
// association table.
type Order struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"  json:"id"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	CustomerID *uint           `gorm:"index"                     json:"customer_id"`
	Customer   *Customer       `gorm:"foreignKey:CustomerID"     json:"customer,omitempty"`
	Products   []Product       `gorm:"many2many:order_products"  json:"products"`
}

// Product is a row in "products".
type Product struct {
	ID    uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name  string          `gorm:"not null"                    json:"name"`
	Price decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
}

// OrderProduct is the join model registered for Order.Products. Both
// columns form the primary key, so a pair is unique, and each one carries
// a foreign key to its table.
type OrderProduct struct {
	OrderID   uint     `gorm:"column:order_id;primaryKey;autoIncrement:false"`
	ProductID uint     `gorm:"column:product_id;primaryKey;autoIncrement:false"`
	Order     *Order   `gorm:"foreignKey:OrderID"   json:"-"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (OrderProduct) TableName() string {
	return "order_products"
}

const Scale = 2

// Money columns go out as JSON numbers; input accepts numbers and strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Money rounds a fixed-point value to the DECIMAL(18,2) scale of the money columns.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

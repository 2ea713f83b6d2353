package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type Deps struct {
	DB          *gorm.DB
	ServiceName string
	Customers   *CustomerHTTP
	Orders      *OrderHTTP
	Products    *ProductHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, d.ServiceName) })
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)

	customers := e.Group("/customer")
	customers.GET("", d.Customers.ListCustomers)
	customers.POST("", d.Customers.CreateCustomer)
	customers.GET("/:id", d.Customers.GetCustomer)
	customers.PUT("/:id", d.Customers.UpdateCustomer)
	customers.DELETE("/:id", d.Customers.DeleteCustomer)

	orders := e.Group("/order")
	orders.GET("", d.Orders.ListOrders)
	orders.POST("", d.Orders.CreateOrder)
	orders.GET("/:id", d.Orders.GetOrder)
	orders.PUT("/:id", d.Orders.UpdateOrder)
	orders.DELETE("/:id", d.Orders.DeleteOrder)
	orders.POST("/:id/product", d.Orders.AddProduct)

	products := e.Group("/product")
	products.GET("/search", d.Products.SearchProducts)
	products.GET("", d.Products.ListProducts)
	products.POST("", d.Products.CreateProduct)
	products.GET("/:id", d.Products.GetProduct)
	products.PUT("/:id", d.Products.UpdateProduct)
	products.DELETE("/:id", d.Products.DeleteProduct)
}

// ready reports 503 until the database answers a ping.
func (d *Deps) ready(c echo.Context) error {
	sqlDB, err := d.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}

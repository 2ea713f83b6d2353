package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/company/internal/service"
	"github.com/Skotchmaster/company/internal/transport"
	"github.com/Skotchmaster/company/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	items, err := h.Svc.ListOrders(ctx)
	if err != nil {
		return fail(l, "list_orders_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "get_order_failed", "id is not an integer", err)
	}

	order, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		return fail(l, "get_order_failed", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req transport.OrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_order_failed", "invalid body", err)
	}

	order, err := h.Svc.CreateOrder(ctx, req)
	if err != nil {
		return fail(l, "create_order_failed", err)
	}
	l.Info("create_order_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "update_order_failed", "id is not an integer", err)
	}

	var req transport.OrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_order_failed", "invalid body", err)
	}

	order, err := h.Svc.UpdateOrder(ctx, id, req)
	if err != nil {
		return fail(l, "update_order_failed", err)
	}
	l.Info("update_order_success", "order_id", id)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "delete_order_failed", "id is not an integer", err)
	}

	if err := h.Svc.DeleteOrder(ctx, id); err != nil {
		return fail(l, "delete_order_failed", err)
	}
	l.Info("delete_order_success", "order_id", id)
	return c.String(http.StatusOK, "ok")
}

// AddProduct links ?productID= to the order in the path.
func (h *OrderHTTP) AddProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.add_product")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "add_product_failed", "id is not an integer", err)
	}
	productID, err := parseID(c.QueryParam("productID"))
	if err != nil {
		return badRequest(l, "add_product_failed", "productID is not an integer", err)
	}

	order, err := h.Svc.AddProduct(ctx, id, productID)
	if err != nil {
		return fail(l, "add_product_failed", err)
	}
	l.Info("add_product_success", "order_id", id, "product_id", productID)
	return c.JSON(http.StatusOK, order)
}

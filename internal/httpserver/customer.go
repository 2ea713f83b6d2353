package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/company/internal/service"
	"github.com/Skotchmaster/company/internal/transport"
	"github.com/Skotchmaster/company/pkg/logging"
)

type CustomerHTTP struct {
	Svc *service.CustomerService
}

func (h *CustomerHTTP) ListCustomers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.list")

	items, err := h.Svc.ListCustomers(ctx)
	if err != nil {
		return fail(l, "list_customers_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CustomerHTTP) GetCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.get")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "get_customer_failed", "id is not an integer", err)
	}

	customer, err := h.Svc.GetCustomer(ctx, id)
	if err != nil {
		return fail(l, "get_customer_failed", err)
	}
	return c.JSON(http.StatusOK, customer)
}

func (h *CustomerHTTP) CreateCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.create")

	var req transport.CustomerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_customer_failed", "invalid body", err)
	}

	customer, err := h.Svc.CreateCustomer(ctx, req)
	if err != nil {
		return fail(l, "create_customer_failed", err)
	}
	l.Info("create_customer_success", "customer_id", customer.ID)
	return c.JSON(http.StatusOK, customer)
}

func (h *CustomerHTTP) UpdateCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.update")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "update_customer_failed", "id is not an integer", err)
	}

	var req transport.CustomerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_customer_failed", "invalid body", err)
	}

	customer, err := h.Svc.UpdateCustomer(ctx, id, req)
	if err != nil {
		return fail(l, "update_customer_failed", err)
	}
	l.Info("update_customer_success", "customer_id", id)
	return c.JSON(http.StatusOK, customer)
}

func (h *CustomerHTTP) DeleteCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.delete")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return badRequest(l, "delete_customer_failed", "id is not an integer", err)
	}

	if err := h.Svc.DeleteCustomer(ctx, id); err != nil {
		return fail(l, "delete_customer_failed", err)
	}
	l.Info("delete_customer_success", "customer_id", id)
	return c.String(http.StatusOK, "ok")
}

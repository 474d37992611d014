package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sweetly/sweetly-server/internal/events"
	"github.com/sweetly/sweetly-server/internal/logging"
	"github.com/sweetly/sweetly-server/internal/middleware"
	"github.com/sweetly/sweetly-server/internal/service"
	"github.com/sweetly/sweetly-server/internal/transport"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	Producer *events.Producer
}

func (h *OrderHTTP) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicOrderEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func orderID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("orderId"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Order not found")
	}
	return uint(id), nil
}

func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}

func (h *OrderHTTP) Create(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	order, err := h.Svc.Create(c.Request().Context(), userID, req)
	if err != nil {
		return serviceError(err)
	}

	h.publish(c, fmt.Sprint(order.ID), map[string]any{
		"type":        "order_created",
		"orderID":     order.ID,
		"userID":      order.UserID,
		"finalAmount": order.FinalAmount,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Order created successfully",
		"data":    order,
	})
}

func (h *OrderHTTP) MyOrders(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	page, limit := pageParams(c)
	result, err := h.Svc.UserOrders(c.Request().Context(), userID, page, limit)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    result,
	})
}

func (h *OrderHTTP) ByID(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	id, err := orderID(c)
	if err != nil {
		return err
	}

	order, err := h.Svc.ByID(c.Request().Context(), id, userID)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    order,
	})
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return err
	}

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	order, err := h.Svc.UpdateStatus(c.Request().Context(), id, req.Status, req.DeliveryDate)
	if err != nil {
		return serviceError(err)
	}

	h.publish(c, fmt.Sprint(order.ID), map[string]any{
		"type":    "order_status_updated",
		"orderID": order.ID,
		"status":  order.Status,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Order status updated successfully",
		"data":    order,
	})
}

func (h *OrderHTTP) All(c echo.Context) error {
	page, limit := pageParams(c)
	status := c.QueryParam("status")

	result, err := h.Svc.AllOrders(c.Request().Context(), page, limit, status)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    result,
	})
}

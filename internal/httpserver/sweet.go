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
	"github.com/sweetly/sweetly-server/internal/models"
	"github.com/sweetly/sweetly-server/internal/search"
	"github.com/sweetly/sweetly-server/internal/service"
	"github.com/sweetly/sweetly-server/internal/transport"
	"github.com/sweetly/sweetly-server/internal/util"
)

type SweetHTTP struct {
	Svc      *service.CatalogService
	Producer *events.Producer
	Search   *search.Index
}

func (h *SweetHTTP) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicSweetEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

// mirror keeps the elasticsearch copy of a sweet in sync; index failures are
// logged, never surfaced to the caller.
func (h *SweetHTTP) mirror(c echo.Context, sweet *models.Sweet) {
	if h.Search == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Search.IndexSweet(ctx, *sweet); err != nil {
		logging.FromContext(c.Request().Context()).Error("search index failed", "error", err)
	}
}

func sweetID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Sweet not found")
	}
	return uint(id), nil
}

func (h *SweetHTTP) List(c echo.Context) error {
	sweets, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, sweets)
}

func (h *SweetHTTP) SearchSweets(c echo.Context) error {
	filter := transport.SweetFilter{
		Name:     c.QueryParam("name"),
		Category: c.QueryParam("category"),
	}

	if v := c.QueryParam("minPrice"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return validationFailed(c, []transport.FieldError{{Path: "minPrice", Message: "minPrice must be a number"}})
		}
		filter.MinPrice = &p
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return validationFailed(c, []transport.FieldError{{Path: "maxPrice", Message: "maxPrice must be a number"}})
		}
		filter.MaxPrice = &p
	}

	sweets, err := h.Svc.Search(c.Request().Context(), filter)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, sweets)
}

func (h *SweetHTTP) FullTextSearch(c echo.Context) error {
	if h.Search == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Search is not configured")
	}

	q := c.QueryParam("q")
	if q == "" {
		return validationFailed(c, []transport.FieldError{{Path: "q", Message: "q is required"}})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	total, sweets, err := h.Search.Search(c.Request().Context(), q, from, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "sweets": sweets})
}

func (h *SweetHTTP) Purchase(c echo.Context) error {
	id, err := sweetID(c)
	if err != nil {
		return err
	}

	var req transport.PurchaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	qty := uint(1)
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	sweet, err := h.Svc.Purchase(c.Request().Context(), id, qty)
	if err != nil {
		return serviceError(err)
	}

	h.mirror(c, sweet)
	h.publish(c, fmt.Sprint(sweet.ID), map[string]any{
		"type":     "sweet_purchased",
		"sweetID":  sweet.ID,
		"quantity": qty,
	})

	return c.JSON(http.StatusOK, sweet)
}

func (h *SweetHTTP) Create(c echo.Context) error {
	var req transport.CreateSweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	sweet, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		return serviceError(err)
	}

	h.mirror(c, sweet)
	h.publish(c, fmt.Sprint(sweet.ID), map[string]any{
		"type":    "sweet_created",
		"sweetID": sweet.ID,
		"name":    sweet.Name,
	})

	return c.JSON(http.StatusCreated, echo.Map{"sweet": sweet})
}

func (h *SweetHTTP) Update(c echo.Context) error {
	id, err := sweetID(c)
	if err != nil {
		return err
	}

	var req transport.UpdateSweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	sweet, err := h.Svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return serviceError(err)
	}

	h.mirror(c, sweet)
	h.publish(c, fmt.Sprint(sweet.ID), map[string]any{
		"type":    "sweet_updated",
		"sweetID": sweet.ID,
		"name":    sweet.Name,
	})

	return c.JSON(http.StatusOK, sweet)
}

func (h *SweetHTTP) Delete(c echo.Context) error {
	id, err := sweetID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return serviceError(err)
	}

	if h.Search != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := h.Search.DeleteSweet(ctx, id); err != nil {
			logging.FromContext(c.Request().Context()).Error("search delete failed", "error", err)
		}
	}
	h.publish(c, fmt.Sprint(id), map[string]any{
		"type":    "sweet_deleted",
		"sweetID": id,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Sweet deleted successfully"})
}

func (h *SweetHTTP) Restock(c echo.Context) error {
	id, err := sweetID(c)
	if err != nil {
		return err
	}

	var req transport.RestockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	sweet, err := h.Svc.Restock(c.Request().Context(), id, req.Quantity)
	if err != nil {
		return serviceError(err)
	}

	h.mirror(c, sweet)
	h.publish(c, fmt.Sprint(sweet.ID), map[string]any{
		"type":     "sweet_restocked",
		"sweetID":  sweet.ID,
		"quantity": req.Quantity,
	})

	return c.JSON(http.StatusOK, sweet)
}

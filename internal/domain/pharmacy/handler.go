package pharmacy

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/fault"
	"github.com/clinic/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/medicines", h.ListMedicines, auth.RequireRole("patient", "doctor", "admin"))
	api.POST("/medicines", h.AddMedicine, auth.RequireRole("admin"))
	api.PUT("/medicines/:id/stock", h.UpdateStock, auth.RequireRole("admin"))
	api.DELETE("/medicines/:id", h.DeleteMedicine, auth.RequireRole("admin"))

	api.POST("/orders", h.PlaceOrder, auth.RequireRole("patient"))
	api.GET("/orders/patient/:id", h.OrdersByPatient, auth.RequireRole("patient", "admin"))
}

func (h *Handler) ListMedicines(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListMedicines(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) AddMedicine(c echo.Context) error {
	var req AddMedicineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	id, err := h.svc.AddMedicine(c.Request().Context(), &req)
	if err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":     true,
		"message":     "Medicine added successfully",
		"medicine_id": id,
	})
}

func (h *Handler) UpdateStock(c echo.Context) error {
	var req UpdateStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.UpdateStock(c.Request().Context(), c.Param("id"), &req); err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Stock updated successfully",
	})
}

func (h *Handler) DeleteMedicine(c echo.Context) error {
	if err := h.svc.DeleteMedicine(c.Request().Context(), c.Param("id")); err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Medicine deleted successfully",
	})
}

func (h *Handler) PlaceOrder(c echo.Context) error {
	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	order, err := h.svc.PlaceOrder(c.Request().Context(), &req)
	if err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Order placed successfully",
		"order":   order,
	})
}

func (h *Handler) OrdersByPatient(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.OrdersByPatient(c.Request().Context(), c.Param("id"), pg.Limit, pg.Offset)
	if err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

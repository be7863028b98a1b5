package appointment

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
	api.POST("/appointments", h.Book, auth.RequireRole("patient"))
	api.GET("/appointments/patient/:id", h.ListByPatient, auth.RequireRole("patient", "doctor"))
	api.GET("/appointments/doctor/:id", h.ListByDoctor, auth.RequireRole("doctor"))
	api.GET("/appointments/doctor/:id/patients", h.PatientsByDoctor, auth.RequireRole("doctor"))
	api.PUT("/appointments/:id/confirm", h.Confirm, auth.RequireRole("doctor"))
	api.PUT("/appointments/:id/cancel", h.Cancel, auth.RequireRole("patient", "doctor"))
	api.PUT("/appointments/:id/reschedule", h.Reschedule, auth.RequireRole("patient", "doctor"))
	api.DELETE("/appointments/:id", h.Delete, auth.RequireRole("patient"))
}

func (h *Handler) Book(c echo.Context) error {
	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	id, err := h.svc.Book(c.Request().Context(), &req)
	if err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":        true,
		"appointment_id": id,
	})
}

func (h *Handler) Confirm(c echo.Context) error {
	if err := h.svc.Confirm(c.Request().Context(), c.Param("id")); err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Appointment confirmed successfully",
	})
}

func (h *Handler) Cancel(c echo.Context) error {
	if err := h.svc.Cancel(c.Request().Context(), c.Param("id")); err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Appointment status updated to Cancelled successfully",
	})
}

func (h *Handler) Reschedule(c echo.Context) error {
	var req RescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Reschedule(c.Request().Context(), c.Param("id"), &req); err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Appointment rescheduled successfully",
	})
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Appointment deleted successfully",
	})
}

func (h *Handler) ListByPatient(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), c.Param("id"), pg.Limit, pg.Offset)
	if err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListByDoctor(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByDoctor(c.Request().Context(), c.Param("id"), pg.Limit, pg.Offset)
	if err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) PatientsByDoctor(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.PatientsByDoctor(c.Request().Context(), c.Param("id"), pg.Limit, pg.Offset)
	if err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

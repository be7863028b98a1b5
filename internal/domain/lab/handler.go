package lab

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
	api.POST("/labtests", h.ConfirmTest, auth.RequireRole("doctor", "labstaff"))
	api.GET("/labtests/patient/:id", h.PatientTests, auth.RequireRole("patient", "doctor", "labstaff"))
	api.PUT("/labtests/:id/reschedule", h.RescheduleTest, auth.RequireRole("patient", "labstaff"))
	api.DELETE("/labtests/:id", h.DeleteTest, auth.RequireRole("labstaff"))

	api.GET("/labreports/patient/:id", h.ReportsByPatient, auth.RequireRole("patient", "doctor"))
	api.GET("/labreports/staff/:id", h.StaffReports, auth.RequireRole("labstaff"))
	api.GET("/labreports/:id/result", h.Result, auth.RequireRole("patient", "doctor", "labstaff"))

	api.POST("/labreports/:id/results/blood", h.AddBloodResult, auth.RequireRole("labstaff"))
	api.POST("/labreports/:id/results/diabetic", h.AddDiabeticResult, auth.RequireRole("labstaff"))
	api.POST("/labreports/:id/results/genetic", h.AddGeneticResult, auth.RequireRole("labstaff"))
}

func (h *Handler) ConfirmTest(c echo.Context) error {
	var req ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	reportID, err := h.svc.ConfirmTest(c.Request().Context(), &req)
	if err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":       true,
		"lab_report_id": reportID,
	})
}

func (h *Handler) AddBloodResult(c echo.Context) error {
	var req BloodResultRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resultID, err := h.svc.AddBloodResult(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return fault.Respond(c, err)
	}
	return h.resultAdded(c, resultID)
}

func (h *Handler) AddDiabeticResult(c echo.Context) error {
	var req DiabeticResultRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resultID, err := h.svc.AddDiabeticResult(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return fault.Respond(c, err)
	}
	return h.resultAdded(c, resultID)
}

func (h *Handler) AddGeneticResult(c echo.Context) error {
	var req GeneticResultRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resultID, err := h.svc.AddGeneticResult(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return fault.Respond(c, err)
	}
	return h.resultAdded(c, resultID)
}

func (h *Handler) resultAdded(c echo.Context, resultID string) error {
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":   true,
		"message":   "Record added!",
		"result_id": resultID,
	})
}

// Result returns the typed result row for a report. When no row matches,
// the response is 200 with an empty object rather than 404; clients treat
// an empty body as "no result yet".
func (h *Handler) Result(c echo.Context) error {
	result, err := h.svc.Result(c.Request().Context(), c.Param("id"), c.QueryParam("test_type"))
	if err != nil {
		return fault.Respond(c, err)
	}
	if result == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{})
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) RescheduleTest(c echo.Context) error {
	var req RescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.RescheduleTest(c.Request().Context(), c.Param("id"), &req); err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Lab test rescheduled successfully",
	})
}

func (h *Handler) DeleteTest(c echo.Context) error {
	if err := h.svc.DeleteTest(c.Request().Context(), c.Param("id")); err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Lab test deleted successfully",
	})
}

func (h *Handler) PatientTests(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.PatientTests(c.Request().Context(), c.Param("id"), pg.Limit, pg.Offset)
	if err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ReportsByPatient(c echo.Context) error {
	reports, err := h.svc.ReportsByPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":           true,
		"readyReports":      reports.Ready,
		"inProgressReports": reports.InProgress,
	})
}

func (h *Handler) StaffReports(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.StaffReports(c.Request().Context(), c.Param("id"), pg.Limit, pg.Offset)
	if err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

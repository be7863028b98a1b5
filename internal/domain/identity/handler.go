package identity

import (
	"net/http"

	"github.com/google/uuid"
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

// RegisterPublicRoutes mounts the unauthenticated endpoints.
func (h *Handler) RegisterPublicRoutes(e *echo.Echo) {
	e.POST("/login", h.Login)
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/users", h.ListUsers, auth.RequireRole(RoleAdmin))
	api.GET("/users/:id", h.GetUser, auth.RequireRole(RoleAdmin))
	api.PUT("/users/:id", h.UpdateUser, auth.RequireRole(RoleAdmin))
	api.DELETE("/users/:id", h.DeleteUser, auth.RequireRole(RoleAdmin))

	api.GET("/profiles/patient/:id", h.PatientProfile, auth.RequireRole(RolePatient, RoleDoctor))
	api.GET("/profiles/doctor/:id", h.DoctorProfile, auth.RequireRole(RolePatient, RoleDoctor))
	api.GET("/profiles/labstaff/:id", h.LabStaffProfile, auth.RequireRole(RoleLabStaff))
	api.GET("/profiles/admin/:id", h.AdminProfile, auth.RequireRole(RoleAdmin))
	api.GET("/doctors", h.ListDoctors, auth.RequireRole(RolePatient, RoleDoctor, RoleAdmin))
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.Login(c.Request().Context(), &req)
	if err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   result.Token,
		"user":    result.User,
	})
}

func (h *Handler) ListUsers(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListUsers(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Respond(c, fault.Invalid("invalid user id"))
	}
	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Respond(c, fault.Invalid("invalid user id"))
	}
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.UpdateUser(c.Request().Context(), id, &req); err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User updated successfully",
	})
}

func (h *Handler) DeleteUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Respond(c, fault.Invalid("invalid user id"))
	}
	if err := h.svc.DeleteUser(c.Request().Context(), id); err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User deleted successfully",
	})
}

func (h *Handler) PatientProfile(c echo.Context) error {
	p, err := h.svc.PatientProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DoctorProfile(c echo.Context) error {
	d, err := h.svc.DoctorProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) LabStaffProfile(c echo.Context) error {
	l, err := h.svc.LabStaffProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) AdminProfile(c echo.Context) error {
	a, err := h.svc.AdminProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListDoctors(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return fault.Respond(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

package appointment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
)

func newTestServer(repo *mockRepo) *echo.Echo {
	e := echo.New()
	api := e.Group("/api", auth.DevMiddleware())
	NewHandler(newTestService(repo)).RegisterRoutes(api)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestBookHandler(t *testing.T) {
	repo := newMockRepo()
	e := newTestServer(repo)

	rec := doJSON(t, e, http.MethodPost, "/api/appointments",
		`{"patient_id":"P1","doctor_id":"D1","date":"2026-09-14","time":"10:30"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["success"] != true {
		t.Error("success = false, want true")
	}
	if resp["appointment_id"] != "A1" {
		t.Errorf("appointment_id = %v, want A1", resp["appointment_id"])
	}
}

func TestBookHandlerMissingFields(t *testing.T) {
	e := newTestServer(newMockRepo())

	rec := doJSON(t, e, http.MethodPost, "/api/appointments",
		`{"patient_id":"P1","doctor_id":"D1"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["message"] != "Date and time are required" {
		t.Errorf("message = %v, want %q", resp["message"], "Date and time are required")
	}
}

func TestConfirmHandlerNotFound(t *testing.T) {
	e := newTestServer(newMockRepo())

	rec := doJSON(t, e, http.MethodPut, "/api/appointments/A99/confirm", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["message"] != "Appointment not found" {
		t.Errorf("message = %v, want %q", resp["message"], "Appointment not found")
	}
}

func TestCancelHandler(t *testing.T) {
	repo := newMockRepo()
	repo.appts["A1"] = &Appointment{AppointmentID: "A1", Status: StatusConfirmed}
	e := newTestServer(repo)

	rec := doJSON(t, e, http.MethodPut, "/api/appointments/A1/cancel", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if repo.appts["A1"].Status != StatusCancelled {
		t.Errorf("status = %q, want %q", repo.appts["A1"].Status, StatusCancelled)
	}
}

func TestListByPatientHandler(t *testing.T) {
	repo := newMockRepo()
	repo.appts["A1"] = &Appointment{AppointmentID: "A1", PatientID: "P1", DoctorID: "D1", Status: StatusPending}
	repo.appts["A2"] = &Appointment{AppointmentID: "A2", PatientID: "P2", DoctorID: "D1", Status: StatusPending}
	e := newTestServer(repo)

	rec := doJSON(t, e, http.MethodGet, "/api/appointments/patient/P1", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Data  []json.RawMessage `json:"data"`
		Total int               `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Errorf("total = %d, rows = %d, want 1 and 1", resp.Total, len(resp.Data))
	}
}

func TestRoleGuard(t *testing.T) {
	repo := newMockRepo()
	e := echo.New()
	// Authenticated as a patient; doctor-only routes must refuse.
	asPatient := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := auth.WithIdentity(c.Request().Context(), "P1", "patient")
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
	api := e.Group("/api", asPatient)
	NewHandler(newTestService(repo)).RegisterRoutes(api)

	rec := doJSON(t, e, http.MethodPut, "/api/appointments/A1/confirm", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("confirm as patient status = %d, want 403", rec.Code)
	}

	rec = doJSON(t, e, http.MethodPost, "/api/appointments",
		`{"patient_id":"P1","doctor_id":"D1","date":"2026-09-14","time":"10:30"}`)
	if rec.Code != http.StatusCreated {
		t.Errorf("book as patient status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
}

package identity

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
)

func newTestServer(users *mockUserRepo, profiles *mockProfileRepo) *echo.Echo {
	e := echo.New()
	h := NewHandler(newTestService(users, profiles))
	h.RegisterPublicRoutes(e)
	api := e.Group("/api", auth.DevMiddleware())
	h.RegisterRoutes(api)
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

func TestLoginHandler(t *testing.T) {
	users := newMockUserRepo()
	profiles := newMockProfileRepo()
	id := seedUser(t, users, "patient@example.com", "password123", RolePatient)
	profiles.patients[id] = &PatientProfile{PatientID: "P1", FullName: "Pat Example"}
	e := newTestServer(users, profiles)

	rec := doJSON(t, e, http.MethodPost, "/login",
		`{"username":"patient@example.com","password":"password123"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		User    struct {
			Role    string          `json:"role"`
			Profile json.RawMessage `json:"profile"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success || resp.Token == "" {
		t.Errorf("success = %v, token empty = %v", resp.Success, resp.Token == "")
	}
	if resp.User.Role != RolePatient {
		t.Errorf("role = %q, want %q", resp.User.Role, RolePatient)
	}
	var profile map[string]interface{}
	if err := json.Unmarshal(resp.User.Profile, &profile); err != nil {
		t.Fatalf("unmarshal profile: %v", err)
	}
	if profile["patient_id"] != "P1" {
		t.Errorf("patient_id = %v, want P1", profile["patient_id"])
	}
}

func TestLoginHandlerBadCredentials(t *testing.T) {
	e := newTestServer(newMockUserRepo(), newMockProfileRepo())

	rec := doJSON(t, e, http.MethodPost, "/login",
		`{"username":"wrong@example.com","password":"wrong"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["success"] != false {
		t.Error("success = true, want false")
	}
	if resp["message"] != "Invalid id or password" {
		t.Errorf("message = %v, want %q", resp["message"], "Invalid id or password")
	}
}

func TestUpdateUserHandler(t *testing.T) {
	users := newMockUserRepo()
	id := seedUser(t, users, "user@example.com", "password123", RolePatient)
	e := newTestServer(users, newMockProfileRepo())

	rec := doJSON(t, e, http.MethodPut, "/api/users/"+id.String(),
		`{"email":"renamed@example.com","role":"doctor"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["message"] != "User updated successfully" {
		t.Errorf("message = %v, want %q", resp["message"], "User updated successfully")
	}
}

func TestDeleteUserHandlerNotFound(t *testing.T) {
	e := newTestServer(newMockUserRepo(), newMockProfileRepo())

	rec := doJSON(t, e, http.MethodDelete, "/api/users/a2f7cbe0-9df3-4c0e-b9d5-72f1a43bd1ad", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetUserHandlerInvalidID(t *testing.T) {
	e := newTestServer(newMockUserRepo(), newMockProfileRepo())

	rec := doJSON(t, e, http.MethodGet, "/api/users/not-a-uuid", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

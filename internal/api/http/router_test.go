package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/repair-service/internal/api/dto"
	"github.com/spec-kit/repair-service/internal/api/http/handlers"
	"github.com/spec-kit/repair-service/internal/auth"
	"github.com/spec-kit/repair-service/internal/badge"
	"github.com/spec-kit/repair-service/internal/domain"
	"github.com/spec-kit/repair-service/internal/events"
	"github.com/spec-kit/repair-service/internal/observability"
	"github.com/spec-kit/repair-service/internal/persistence"
	"github.com/spec-kit/repair-service/internal/repository"
	"github.com/spec-kit/repair-service/internal/service"
)

type testServer struct {
	app        *fiber.App
	reader     *badge.Queue
	dispatcher events.Dispatcher
	users      repository.UserRepository
	admin      *service.AdminService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	backend := persistence.NewMemory()
	_, err := repository.SeedIfEmpty(ctx, backend, "")
	require.NoError(t, err)

	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher()
	reader := badge.NewQueue()
	users := repository.NewUserRepository(backend)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:    users,
		SessionRepo: repository.NewSessionRepository(persistence.NewMemory(), time.Hour),
		Tokens:      auth.NewTokenManager("secret", time.Hour),
		Transport:   reader,
		ScanTimeout: 2 * time.Second,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	adminService := service.NewAdminService(service.AdminDependencies{
		UserRepo: users, Transport: reader, Dispatcher: dispatcher, Logger: logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repository.NewTicketRepository(backend), Dispatcher: dispatcher, Logger: logger,
	})

	metrics := observability.NewMetrics()
	app := NewApp("vrs")
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:    handlers.NewHealthHandler("vrs", "test", map[string]persistence.Backend{"store": backend}, metrics),
		Login:     handlers.NewLoginHandler(authService, reader),
		Dashboard: handlers.NewDashboardHandler(ticketService),
		Admin:     handlers.NewAdminHandler(adminService),
		Session:   auth.NewSessionMiddleware(authService),
	})
	return &testServer{app: app, reader: reader, dispatcher: dispatcher, users: users, admin: adminService}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, string, map[string][]string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw), resp.Header
}

func (s *testServer) login(t *testing.T, pin string) string {
	t.Helper()
	status, body, _ := s.do(t, "POST", "/login/pin", "", `{"pin":"`+pin+`"}`)
	require.Equal(t, fiber.StatusOK, status, body)
	var out struct {
		Data dto.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.NotEmpty(t, out.Data.Session.Token)
	return out.Data.Session.Token
}

func errorCode(t *testing.T, body string) string {
	t.Helper()
	var out struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out.Error.Code
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	s := newTestServer(t)
	for _, tc := range []struct{ method, path string }{
		{"GET", "/dashboard"},
		{"GET", "/tickets"},
		{"POST", "/vin/scan"},
		{"GET", "/admin/users"},
	} {
		status, _, header := s.do(t, tc.method, tc.path, "", "")
		assert.Equal(t, fiber.StatusSeeOther, status, tc.path)
		assert.Equal(t, "/login", header["Location"][0], tc.path)
	}

	status, _, header := s.do(t, "GET", "/tickets", "not-a-token", "")
	assert.Equal(t, fiber.StatusSeeOther, status)
	assert.Equal(t, "/login", header["Location"][0])
}

func TestPinLoginAndDashboard(t *testing.T) {
	s := newTestServer(t)

	status, body, _ := s.do(t, "POST", "/login/pin", "", `{"pin":"0000"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIAL", errorCode(t, body))

	status, body, header := s.do(t, "POST", "/login/pin", "", `{"pin":"1234"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, strings.Join(header["Set-Cookie"], ";"), auth.CookieName+"=")
	assert.NotContains(t, body, `"pin"`, "PIN never leaves the service")

	token := s.login(t, "1234")
	status, body, _ = s.do(t, "GET", "/dashboard", token, "")
	require.Equal(t, fiber.StatusOK, status)
	var out struct {
		Data dto.DashboardResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "Administrator", out.Data.User.Name)
	assert.True(t, out.Data.ShowAdmin)
}

func TestCookieSessionIsAccepted(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "1234")

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.Header.Set(fiber.HeaderCookie, auth.CookieName+"="+token)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestNonAdminRedirectedToDashboard(t *testing.T) {
	s := newTestServer(t)
	_, err := s.admin.AddUser(context.Background(), "Bob", domain.RoleTech, "4321")
	require.NoError(t, err)
	token := s.login(t, "4321")

	status, _, header := s.do(t, "GET", "/admin/users", token, "")
	assert.Equal(t, fiber.StatusSeeOther, status)
	assert.Equal(t, "/dashboard", header["Location"][0])

	status, _, _ = s.do(t, "GET", "/tickets", token, "")
	assert.Equal(t, fiber.StatusOK, status, "techs may use the dashboard")
}

func TestTicketIntakeFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "1234")

	status, body, _ := s.do(t, "POST", "/tickets", token, `{"vin":"1HGCM82633A00435O","customer":"Alice"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, body))

	status, body, _ = s.do(t, "POST", "/tickets", token, `{"vin":"1hgcm82633a004352","customer":" Alice ","phone":"555"}`)
	require.Equal(t, fiber.StatusCreated, status, body)
	var created struct {
		Data dto.TicketResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, "1HGCM82633A004352", created.Data.VIN)
	assert.Equal(t, "Alice", created.Data.Customer)
	assert.Equal(t, domain.TicketStatusReceived, created.Data.Status)

	var list struct {
		Data []dto.TicketResponse `json:"data"`
	}
	_, body, _ = s.do(t, "GET", "/tickets?q=alice", token, "")
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	assert.Len(t, list.Data, 1)
	_, body, _ = s.do(t, "GET", "/tickets?q=zzz", token, "")
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	assert.Empty(t, list.Data)

	status, body, _ = s.do(t, "PATCH", "/tickets/"+created.Data.ID+"/status", token, `{"status":"Lost"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, body))

	status, _, _ = s.do(t, "PATCH", "/tickets/"+created.Data.ID+"/status", token, `{"status":"Ready"}`)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _, _ = s.do(t, "PATCH", "/tickets/unknown/status", token, `{"status":"Ready"}`)
	assert.Equal(t, fiber.StatusNoContent, status)

	_, body, _ = s.do(t, "GET", "/tickets", token, "")
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, domain.TicketStatusReady, list.Data[0].Status)
}

func TestPinLoginTrimsInput(t *testing.T) {
	s := newTestServer(t)
	status, body, _ := s.do(t, "POST", "/login/pin", "", `{"pin":" 1234 "}`)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Contains(t, body, `"name":"Administrator"`)

	status, _, _ = s.do(t, "POST", "/login/pin", "", `{"pin":"   "}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestStatusEventsKeepTheirTicketIDs(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "1234")

	var subjects []string
	s.dispatcher.Subscribe(events.EventTicketStatusChanged, func(_ context.Context, e events.Event) error {
		subjects = append(subjects, e.SubjectID)
		return nil
	})

	ids := make([]string, 0, 2)
	for _, v := range []string{"1HGCM82633A004352", "JH4KA7561PC008269"} {
		status, body, _ := s.do(t, "POST", "/tickets", token, `{"vin":"`+v+`","customer":"Alice"}`)
		require.Equal(t, fiber.StatusCreated, status, body)
		var created struct {
			Data dto.TicketResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &created))
		ids = append(ids, created.Data.ID)
	}

	for _, id := range ids {
		status, _, _ := s.do(t, "PATCH", "/tickets/"+id+"/status", token, `{"status":"Started"}`)
		require.Equal(t, fiber.StatusNoContent, status)
	}
	assert.Equal(t, ids, subjects, "event subjects must not alias later requests")
}

func TestVINScan(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "1234")

	var out struct {
		Data dto.VINScanResponse `json:"data"`
	}
	_, body, _ := s.do(t, "POST", "/vin/scan", token, `{"text":"1hg cm8-2633a004352\rJUNK"}`)
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "1HGCM82633A004352", out.Data.VIN)
	assert.True(t, out.Data.Complete)
	assert.True(t, out.Data.Scanned, "carriage return ends the scan")
	assert.Empty(t, out.Data.Message)

	_, body, _ = s.do(t, "POST", "/vin/scan", token, `{"text":"1HGCM82633A004352EXTRA","autocomplete":true}`)
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "1HGCM82633A004352", out.Data.VIN)
	assert.True(t, out.Data.Scanned)

	_, body, _ = s.do(t, "POST", "/vin/scan", token, `{"text":"1HGCM82633A004352"}`)
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.True(t, out.Data.Complete, "seventeen characters are a full VIN")
	assert.False(t, out.Data.Scanned, "no terminator and no auto-complete")

	_, body, _ = s.do(t, "POST", "/vin/scan", token, `{"text":"1HGCM82633A004352","autocomplete":true}`)
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.True(t, out.Data.Complete)
	assert.True(t, out.Data.Scanned, "auto-complete ends the scan at seventeen characters")

	_, body, _ = s.do(t, "POST", "/vin/scan", token, `{"text":"1HGCM"}`)
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.False(t, out.Data.Complete)
	assert.Equal(t, 5, out.Data.Length)
	assert.NotEmpty(t, out.Data.Message)
}

func TestAdminUserManagementAndBadgeLogin(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "1234")

	status, body, _ := s.do(t, "POST", "/admin/users", token, `{"name":" ","pin":"1"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, body))

	status, body, _ = s.do(t, "POST", "/admin/users", token, `{"name":"Bob","pin":"4321"}`)
	require.Equal(t, fiber.StatusCreated, status, body)
	var created struct {
		Data dto.UserResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, domain.RoleTech, created.Data.Role)

	status, body, _ = s.do(t, "POST", "/admin/users/"+created.Data.ID+"/enroll", token, "")
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, []string{"userid=" + created.Data.ID}, s.reader.Written())

	status, body, _ = s.do(t, "POST", "/login/badge", "", `{"badgeId":"`+created.Data.ID+`"}`)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Contains(t, body, `"name":"Bob"`)

	status, body, _ = s.do(t, "POST", "/login/badge", "", `{"badgeId":"unknown"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNLINKED_BADGE", errorCode(t, body))

	var list struct {
		Data []dto.UserResponse `json:"data"`
	}
	_, body, _ = s.do(t, "GET", "/admin/users", token, "")
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	assert.Len(t, list.Data, 2)

	status, _, _ = s.do(t, "DELETE", "/admin/users/"+created.Data.ID, token, "")
	assert.Equal(t, fiber.StatusNoContent, status)
	_, body, _ = s.do(t, "GET", "/admin/users", token, "")
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	assert.Len(t, list.Data, 1)
}

func TestBadgeScanWithSimulatedTap(t *testing.T) {
	s := newTestServer(t)
	users, err := s.users.LoadAll(context.Background())
	require.NoError(t, err)
	adminID := users[0].ID

	status, body, _ := s.do(t, "POST", "/badge/simulate", "", `{"text":"userid=`+adminID+`"}`)
	assert.Equal(t, fiber.StatusBadRequest, status, "no scan waiting yet")
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, body))

	type result struct {
		status int
		body   string
	}
	done := make(chan result, 1)
	go func() {
		st, b, _ := s.do(t, "POST", "/login/badge/scan", "", "")
		done <- result{st, b}
	}()
	require.Eventually(t, func() bool { return s.reader.Pending() == 1 }, time.Second, time.Millisecond)

	status, _, _ = s.do(t, "POST", "/badge/simulate", "", `{"text":"UserID = `+adminID+`"}`)
	assert.Equal(t, fiber.StatusAccepted, status)

	res := <-done
	require.Equal(t, fiber.StatusOK, res.status, res.body)
	assert.Contains(t, res.body, `"name":"Administrator"`)
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "1234")

	status, _, header := s.do(t, "POST", "/logout", token, "")
	assert.Equal(t, fiber.StatusSeeOther, status)
	assert.Equal(t, "/login", header["Location"][0])

	status, _, header = s.do(t, "GET", "/dashboard", token, "")
	assert.Equal(t, fiber.StatusSeeOther, status)
	assert.Equal(t, "/login", header["Location"][0])
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, body, _ := s.do(t, "GET", "/health/live", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"alive"`)

	status, body, _ = s.do(t, "GET", "/health/ready", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"store":"ok"`)

	status, body, _ = s.do(t, "GET", "/health/metrics", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "/health/live|GET|200")
}

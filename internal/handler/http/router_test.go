package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/realtime"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	chatService "github.com/cmlabs-hris/attendance-backend-go/internal/service/chat"
	dashboardService "github.com/cmlabs-hris/attendance-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/attendance-backend-go/internal/service/employee"
	leaveService "github.com/cmlabs-hris/attendance-backend-go/internal/service/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/reconcile"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScannerKey = "scanner-secret"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		TotalItems int `json:"total_items"`
	} `json:"meta"`
}

type testApp struct {
	handler    http.Handler
	sockets    SocketHandler
	hub        *realtime.Hub
	now        time.Time
	adminToken string
}

// newTestApp wires every service over one memory store. The clock starts on
// Wednesday 2024-06-05 09:30 UTC.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	app := &testApp{now: time.Date(2024, 6, 5, 9, 30, 0, 0, time.UTC)}
	now := func() time.Time { return app.now }

	store := memory.NewStore()
	store.SetClock(now)
	users := memory.NewUserRepository(store)
	employees := memory.NewEmployeeRepository(store)
	records := memory.NewAttendanceRepository(store)
	leaves := memory.NewLeaveRepository(store)
	hub := realtime.NewHub()
	app.hub = hub
	restDays := []time.Weekday{time.Sunday}

	jwtService, err := jwt.NewJWTService("handler-secret", "1h", "5m")
	require.NoError(t, err)
	translator, err := i18n.New("en")
	require.NoError(t, err)

	authSvc := authService.NewAuthService(users, employees, jwtService)
	chatSvc := chatService.NewChatService(store, memory.NewGroupRepository(store), memory.NewMessageRepository(store), users, hub, nil, now)
	requests := leaveService.NewRequestService(store, leaves, employees, time.UTC, now)

	app.sockets = NewSocketHandler(jwtService, authSvc, chatSvc, hub)
	t.Cleanup(func() { app.sockets.Close() })

	app.handler = NewRouter(RouterConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		ScannerAPIKey:  testScannerKey,
	}, jwtService, authSvc, translator, Handlers{
		Auth: NewAuthHandler(authSvc, translator),
		Attendance: NewAttendanceHandler(attendanceService.NewAttendanceService(records, employees, leaves, attendanceService.Rules{
			Location:    time.UTC,
			LateAfter:   attendanceService.ClockMinutes(10, 0),
			EarlyBefore: attendanceService.ClockMinutes(17, 0),
		}, now), translator),
		Report: NewReportHandler(reportService.NewReportService(employees, records, leaves, reportService.Calendar{
			Location:    time.UTC,
			RestDays:    restDays,
			Entitlement: reconcile.Quota{Sick: 12},
		}, now), translator),
		Leave:        NewLeaveHandler(leaveService.NewLeaveService(leaves, requests), translator),
		Employee:     NewEmployeeHandler(employeeService.NewEmployeeService(employees, employeeService.Quota{Sick: 12}), translator),
		Dashboard:    NewDashboardHandler(dashboardService.NewDashboardService(employees, records, leaves, hub, time.UTC, restDays, now), translator),
		Chat:         NewChatHandler(chatSvc, translator),
		Notification: NewNotificationHandler(chatSvc, "BPublicKey", translator),
		Socket:       app.sockets,
	})

	_, err = employees.Create(context.Background(), employee.Employee{
		BadgeID: "ADM1", Name: "Asha", Email: "asha@example.com", EmployeeCode: "E001", Designation: "admin",
	})
	require.NoError(t, err)
	app.adminToken = app.register(t, "Asha", "asha@example.com")
	return app
}

func (a *testApp) do(method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) register(t *testing.T, name, email string) string {
	t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"name": name, "email": email, "password": "password123"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": "password123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeData(t, rec, &login)
	return login.AccessToken
}

// hire creates an employee through the API and logs them in.
func (a *testApp) hire(t *testing.T, badge, name, email string) (employeeID, token string) {
	t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/employees", a.adminToken, map[string]string{
		"rfid_card_no":   badge,
		"name":           name,
		"email":          email,
		"employee_code":  "E-" + badge,
		"designation":    "engineer",
		"department":     "Platform",
		"mobile_no":      "081234567890",
		"gender":         "Male",
		"marital_status": "Single",
		"dob":            "1995-04-12",
		"joining_date":   "2023-01-02",
		"address":        "Jl. Sudirman 1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	decodeData(t, rec, &created)
	return created.ID, a.register(t, name, email)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, v))
}

func TestRouter_Auth(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"name": "Asha", "email": "asha@example.com", "password": "password123"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"name": "", "email": "nope", "password": "short"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decode(t, rec)
	assert.Contains(t, env.Error.Details, "password")

	rec = app.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "asha@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(http.MethodPost, "/api/v1/auth/login", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodGet, "/api/v1/auth/verify", app.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		Email   string `json:"email"`
		IsAdmin bool   `json:"is_admin"`
	}
	decodeData(t, rec, &me)
	assert.Equal(t, "asha@example.com", me.Email)
	assert.True(t, me.IsAdmin)

	assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodGet, "/api/v1/auth/verify", "", nil).Code)
}

func TestRouter_Localization(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/api/v1/auth/verify", app.adminToken, nil, "Accept-Language", "id")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "id", rec.Header().Get("Content-Language"))
	assert.NotEqual(t, "Token is valid", decode(t, rec).Message)
}

func TestRouter_ScanFlow(t *testing.T) {
	app := newTestApp(t)
	_, staffToken := app.hire(t, "B002", "Bala", "bala@example.com")
	scan := map[string]string{"rfid_card_no": "B002"}

	assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodPost, "/api/v1/attendance/scan", "", scan).Code)

	rec := app.do(http.MethodPost, "/api/v1/attendance/scan", "", scan, middleware.DeviceKeyHeader, testScannerKey)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Welcome Bala, checked in at 9:30 AM", decode(t, rec).Message)

	app.now = app.now.Add(6 * time.Hour) // 15:30, before the cut-off
	rec = app.do(http.MethodPost, "/api/v1/attendance/scan", "", scan, middleware.DeviceKeyHeader, testScannerKey)
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Action     string `json:"action"`
		Attendance struct {
			Status string `json:"status"`
		} `json:"attendance"`
	}
	decodeData(t, rec, &out)
	assert.Equal(t, "check_out", out.Action)
	assert.Equal(t, "Early Going", out.Attendance.Status)

	rec = app.do(http.MethodPost, "/api/v1/attendance/scan", "", scan, middleware.DeviceKeyHeader, testScannerKey)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(http.MethodPost, "/api/v1/attendance/scan", "", map[string]string{"rfid_card_no": "NOPE1"}, middleware.DeviceKeyHeader, testScannerKey)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(http.MethodGet, "/api/v1/attendance/today", app.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode(t, rec).Meta.TotalItems)
	assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/api/v1/attendance/today", staffToken, nil).Code)

	rec = app.do(http.MethodGet, "/api/v1/attendance/open", app.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode(t, rec).Meta.TotalItems)

	rec = app.do(http.MethodGet, "/api/v1/attendance?from=2024-06-01&to=2024-06-05&badge=B002", app.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode(t, rec).Meta.TotalItems)
}

func TestRouter_Reports(t *testing.T) {
	app := newTestApp(t)
	_, staffToken := app.hire(t, "B002", "Bala", "bala@example.com")
	rec := app.do(http.MethodPost, "/api/v1/attendance/scan", "", map[string]string{"rfid_card_no": "B002"}, middleware.DeviceKeyHeader, testScannerKey)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(http.MethodGet, "/api/v1/attendance/person?from=2024-06-03&to=2024-06-05&badge=B002", staffToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var person struct {
		Summary struct {
			TotalDays int `json:"total_days"`
			Present   int `json:"present"`
			Absent    int `json:"absent"`
		} `json:"summary"`
	}
	decodeData(t, rec, &person)
	assert.Equal(t, 3, person.Summary.TotalDays)
	assert.Equal(t, 1, person.Summary.Present)
	assert.Equal(t, 2, person.Summary.Absent)

	tests := []struct {
		name     string
		path     string
		token    string
		wantCode int
	}{
		{name: "other employee", path: "/api/v1/attendance/person?from=2024-06-03&to=2024-06-05&badge=ADM1", token: staffToken, wantCode: http.StatusForbidden},
		{name: "missing badge", path: "/api/v1/attendance/person?from=2024-06-03&to=2024-06-05", token: staffToken, wantCode: http.StatusBadRequest},
		{name: "reversed range", path: "/api/v1/attendance/person?from=2024-06-05&to=2024-06-03&badge=B002", token: staffToken, wantCode: http.StatusBadRequest},
		{name: "my report", path: "/api/v1/attendance/me", token: staffToken, wantCode: http.StatusOK},
		{name: "register", path: "/api/v1/attendance/register?from=2024-06-03&to=2024-06-05", token: app.adminToken, wantCode: http.StatusOK},
		{name: "register needs from", path: "/api/v1/attendance/register?to=2024-06-05", token: app.adminToken, wantCode: http.StatusBadRequest},
		{name: "register is admin only", path: "/api/v1/attendance/register?from=2024-06-03&to=2024-06-05", token: staffToken, wantCode: http.StatusForbidden},
		{name: "month totals", path: "/api/v1/attendance/month-totals", token: app.adminToken, wantCode: http.StatusOK},
		{name: "dashboard", path: "/api/v1/dashboard", token: app.adminToken, wantCode: http.StatusOK},
		{name: "dashboard is admin only", path: "/api/v1/dashboard", token: staffToken, wantCode: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodGet, tt.path, tt.token, nil)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}

	rec = app.do(http.MethodGet, "/api/v1/attendance/register?from=2024-06-03&to=2024-06-05", app.adminToken, nil)
	assert.Equal(t, 6, decode(t, rec).Meta.TotalItems, "two employees over three days")

	rec = app.do(http.MethodGet, "/api/v1/dashboard", app.adminToken, nil)
	var snapshot struct {
		TotalEmployees int `json:"total_employees"`
		PresentCount   int `json:"present_count"`
		AbsentCount    int `json:"absent_count"`
	}
	decodeData(t, rec, &snapshot)
	assert.Equal(t, 2, snapshot.TotalEmployees)
	assert.Equal(t, 1, snapshot.PresentCount)
	assert.Equal(t, 1, snapshot.AbsentCount)
}

func TestRouter_LeaveFlow(t *testing.T) {
	app := newTestApp(t)
	balaID, staffToken := app.hire(t, "B002", "Bala", "bala@example.com")

	rec := app.do(http.MethodPost, "/api/v1/leaves", staffToken, map[string]string{
		"leave_type": "SickLeave", "from_date": "2024-06-10", "to_date": "2024-06-11", "reason": "flu",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var applied struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeData(t, rec, &applied)
	assert.Equal(t, "Pending", applied.Status)

	decision := map[string]string{"status": "Approved"}
	assert.Equal(t, http.StatusForbidden, app.do(http.MethodPut, "/api/v1/leaves/"+applied.ID+"/decision", staffToken, decision).Code)

	rec = app.do(http.MethodPut, "/api/v1/leaves/"+applied.ID+"/decision", app.adminToken, decision)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = app.do(http.MethodPut, "/api/v1/leaves/"+applied.ID+"/decision", app.adminToken, map[string]string{"status": "Denied"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = app.do(http.MethodPut, "/api/v1/leaves/missing/decision", app.adminToken, decision)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(http.MethodGet, "/api/v1/leaves/balance/"+balaID, staffToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var balance struct {
		Taken struct {
			Sick int `json:"sick"`
		} `json:"taken"`
		Available struct {
			Sick int `json:"sick"`
		} `json:"available"`
	}
	decodeData(t, rec, &balance)
	assert.Equal(t, 2, balance.Taken.Sick)
	assert.Equal(t, 10, balance.Available.Sick)

	rec = app.do(http.MethodGet, "/api/v1/leaves/"+applied.ID, staffToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(http.MethodGet, "/api/v1/leaves/employee/"+balaID, staffToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode(t, rec).Meta.TotalItems)

	rec = app.do(http.MethodGet, "/api/v1/leaves/today", app.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode(t, rec).Meta.TotalItems)

	rec = app.do(http.MethodGet, "/api/v1/leaves?status=Approved", app.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode(t, rec).Meta.TotalItems)
	assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/api/v1/leaves", staffToken, nil).Code)
}

func TestRouter_Employees(t *testing.T) {
	app := newTestApp(t)
	id, staffToken := app.hire(t, "B002", "Bala", "bala@example.com")

	assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/api/v1/employees", staffToken, nil).Code)

	rec := app.do(http.MethodGet, "/api/v1/employees/badge/B002", app.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(http.MethodPut, "/api/v1/employees/"+id, app.adminToken, map[string]string{"rfid_card_no": "ADM1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(http.MethodPut, "/api/v1/employees/"+id, app.adminToken, map[string]string{"department": "Finance"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(http.MethodGet, "/api/v1/employees?department=Finance", app.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode(t, rec).Meta.TotalItems)

	assert.Equal(t, http.StatusOK, app.do(http.MethodDelete, "/api/v1/employees/"+id, app.adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/api/v1/employees/"+id, app.adminToken, nil).Code)
}

func TestRouter_ChatOverSocket(t *testing.T) {
	app := newTestApp(t)
	_, staffToken := app.hire(t, "B002", "Bala", "bala@example.com")

	rec := app.do(http.MethodGet, "/api/v1/auth/verify", staffToken, nil)
	var bala struct {
		ID string `json:"id"`
	}
	decodeData(t, rec, &bala)

	assert.Equal(t, http.StatusForbidden, app.do(http.MethodPost, "/api/v1/chat/groups", staffToken, map[string]any{"name": "ops"}).Code)

	rec = app.do(http.MethodPost, "/api/v1/chat/groups", app.adminToken, map[string]any{"name": "ops", "members": []string{bala.ID}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var group struct {
		ID string `json:"id"`
	}
	decodeData(t, rec, &group)

	assert.Equal(t, http.StatusMethodNotAllowed, app.do(http.MethodGet, "/api/v1/auth/socket-token", staffToken, nil).Code)
	rec = app.do(http.MethodPost, "/api/v1/auth/socket-token", staffToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var socket struct {
		Token string `json:"token"`
	}
	decodeData(t, rec, &socket)

	server := httptest.NewServer(app.handler)
	defer server.Close()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/chat/groups/" + group.ID + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+socket.Token, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The room subscription is registered just after the upgrade.
	require.Eventually(t, func() bool {
		return app.hub.SubscriberCount(chat.GroupRoom(group.ID)) == 1
	}, 3*time.Second, 10*time.Millisecond)

	rec = app.do(http.MethodPost, "/api/v1/chat/groups/"+group.ID+"/messages", app.adminToken, map[string]string{"content": "standup in 5"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var event struct {
		Event string `json:"event"`
		Data  struct {
			Content string `json:"content"`
		} `json:"data"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "message", event.Event)
	assert.Equal(t, "standup in 5", event.Data.Content)

	require.NoError(t, conn.WriteJSON(map[string]string{"content": "on my way", "temp_id": "t-1"}))
	require.Eventually(t, func() bool {
		rec := app.do(http.MethodGet, "/api/v1/chat/groups/"+group.ID+"/messages", app.adminToken, nil)
		return strings.Contains(rec.Body.String(), "on my way")
	}, 3*time.Second, 50*time.Millisecond)
}

func TestRouter_Notifications(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/api/v1/notifications/public-key", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "BPublicKey")

	rec = app.do(http.MethodPost, "/api/v1/notifications/subscribe", app.adminToken, map[string]any{
		"endpoint": "https://push.example.com/abc",
		"keys":     map[string]string{"p256dh": "key", "auth": "secret"},
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.do(http.MethodPost, "/api/v1/notifications/subscribe", app.adminToken, map[string]any{"endpoint": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

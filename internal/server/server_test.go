package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fgeck/wolrelay/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWakeService struct {
	err   error
	calls int

	capturedMAC string
}

func (m *mockWakeService) Wake(_ context.Context, mac string) (*models.WakeResult, error) {
	m.calls++
	m.capturedMAC = mac
	if m.err != nil {
		return &models.WakeResult{MAC: mac}, m.err
	}
	return &models.WakeResult{MAC: mac, PacketSent: true}, nil
}

type mockSleepService struct {
	err   error
	calls int

	capturedHost     string
	capturedOS       string
	capturedOverride string
}

func (m *mockSleepService) Sleep(_ context.Context, host, osFamily, override string) (*models.SleepResult, error) {
	m.calls++
	m.capturedHost = host
	m.capturedOS = osFamily
	m.capturedOverride = override
	return &models.SleepResult{Host: host}, m.err
}

type mockProbeService struct {
	result *models.StatusResult
	err    error
}

func (m *mockProbeService) Classify(_ context.Context, host string, port int) (*models.StatusResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &models.StatusResult{Host: host, Port: port, Status: models.StatusOffline}, nil
}

type testEnv struct {
	server *Server
	wake   *mockWakeService
	sleep  *mockSleepService
	probe  *mockProbeService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		wake:  &mockWakeService{},
		sleep: &mockSleepService{},
		probe: &mockProbeService{},
	}
	env.server = NewWithServices(
		zerolog.New(io.Discard),
		models.ServerConfig{BindAddress: "127.0.0.1", Port: 5000},
		env.wake,
		env.sleep,
		env.probe,
	)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	env := newTestEnv()

	for _, path := range []string{"/healthz", "/health"} {
		rec := env.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "ok", decode(t, rec)["status"], path)
	}
}

func TestWake_Success(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/wake", `{"mac":"AA:BB:CC:DD:EE:FF"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", decode(t, rec)["status"])
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", env.wake.capturedMAC)
}

func TestWake_AlternateKey(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/wake", `{"mac_address":"aa-bb-cc-dd-ee-ff"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "aa-bb-cc-dd-ee-ff", env.wake.capturedMAC)
}

func TestWake_MissingMAC(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/wake", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["error"])
	// No service call, so no datagram.
	assert.Zero(t, env.wake.calls)
}

func TestWake_InvalidMAC(t *testing.T) {
	env := newTestEnv()
	env.wake.err = models.NewValidationError("invalid MAC address format: %q", "AA:BB")

	rec := env.do(t, http.MethodPost, "/wake", `{"mac":"AA:BB"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "invalid MAC address")
}

func TestWake_MalformedJSON(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/wake", `{"mac": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid JSON body", decode(t, rec)["error"])
	assert.Zero(t, env.wake.calls)
}

func TestSleep_Success(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/sleep", `{"host":"10.0.0.5","os":"linux"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", decode(t, rec)["status"])
	assert.Equal(t, "10.0.0.5", env.sleep.capturedHost)
	assert.Equal(t, "linux", env.sleep.capturedOS)
}

func TestSleep_OverridePassedThrough(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/sleep", `{"ip":"10.0.0.5","command":"echo zzz"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "10.0.0.5", env.sleep.capturedHost)
	assert.Equal(t, "echo zzz", env.sleep.capturedOverride)
}

func TestSleep_MissingHost(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/sleep", `{"os":"linux"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, env.sleep.calls)
}

func TestSleep_UnresolvedOS(t *testing.T) {
	env := newTestEnv()
	env.sleep.err = models.NewValidationError("unknown OS type %q and no custom command provided", "plan9")

	rec := env.do(t, http.MethodPost, "/sleep", `{"host":"10.0.0.5","os":"plan9"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "unknown OS type")
}

func TestSleep_CommandFailed(t *testing.T) {
	env := newTestEnv()
	env.sleep.err = &models.CommandError{
		Command:  []string{"ssh", "10.0.0.5", "shutdown /h"},
		ExitCode: 1,
		Output:   "Access is denied.",
	}

	rec := env.do(t, http.MethodPost, "/sleep", `{"host":"10.0.0.5","os":"windows"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, body["error"], "ssh 10.0.0.5 shutdown /h")
	assert.Equal(t, "ssh 10.0.0.5 shutdown /h", body["command"])
	assert.Equal(t, float64(1), body["returncode"])
}

func TestSleep_UnexpectedError(t *testing.T) {
	env := newTestEnv()
	env.sleep.err = context.DeadlineExceeded

	rec := env.do(t, http.MethodPost, "/sleep", `{"host":"10.0.0.5","os":"linux"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["error"])
}

func TestStatus_Success(t *testing.T) {
	env := newTestEnv()
	env.probe.result = &models.StatusResult{
		Host:   "10.0.0.5",
		Port:   22,
		Status: models.StatusSleeping,
		Ping:   true,
		TCP:    false,
	}

	rec := env.do(t, http.MethodGet, "/api/status?ip=10.0.0.5", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "10.0.0.5", body["ip"])
	assert.Equal(t, float64(22), body["port"])
	assert.Equal(t, "sleeping", body["status"])
	assert.Equal(t, true, body["ping"])
	assert.Equal(t, false, body["tcp"])
}

func TestStatus_MissingIP(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/status", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["error"])
}

func TestStatus_InvalidPort(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/status?ip=10.0.0.5&port=ssh", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid port value", decode(t, rec)["error"])
}

func TestStatus_CustomPort(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/status?ip=10.0.0.5&port=3389", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3389), decode(t, rec)["port"])
}

func TestControl_Wake(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/control", `{"action":"wake","mac_address":"AA:BB:CC:DD:EE:FF"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "wake", body["action"])
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", env.wake.capturedMAC)
}

func TestControl_Sleep(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/control", `{"action":"sleep","ip_address":"10.0.0.5","os":"linux"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sleep", decode(t, rec)["action"])
	assert.Equal(t, "10.0.0.5", env.sleep.capturedHost)
}

func TestControl_UnsupportedAction(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/control", `{"action":"reboot"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "unsupported 'action'")
	assert.Zero(t, env.wake.calls)
	assert.Zero(t, env.sleep.calls)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wolrelay_wake_requests_total")
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

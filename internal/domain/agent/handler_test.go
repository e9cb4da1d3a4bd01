package agent

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medrec/medrec/internal/platform/httperr"
)

func setupHandler(t *testing.T) (*echo.Echo, *mockChain) {
	t.Helper()
	ch := newMockChain()
	h := NewHandler(NewService(ch, zerolog.Nop()))

	e := echo.New()
	e.HTTPErrorHandler = httperr.Handler(zerolog.Nop())
	h.RegisterRoutes(e.Group("/api/v1"))
	return e, ch
}

func TestHandlerCreate(t *testing.T) {
	e, _ := setupHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/agents/create", strings.NewReader(`{"agent_type":0}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var got CreatedAgent
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got.Address == "" || got.PrivateKey == "" || got.TxHash == "" {
		t.Errorf("response incomplete: %+v", got)
	}
}

func TestHandlerCreateSymbolicName(t *testing.T) {
	e, ch := setupHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/agents/create", strings.NewReader(`{"agent_type":"provider"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ch.createdTyp != 1 {
		t.Errorf("agent type submitted = %d, want 1", ch.createdTyp)
	}
}

func TestHandlerCreateBadType(t *testing.T) {
	e, _ := setupHandler(t)

	for _, body := range []string{`{"agent_type":"nurse"}`, `{"agent_type":7}`, `{}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/agents/create", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want %d", body, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestHandlerCustodiansNotFound(t *testing.T) {
	e, _ := setupHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/agents/0xdead/custodians", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d, body %s", rec.Code, http.StatusNotFound, rec.Body.String())
	}
}

func TestHandlerCustodiansEmptyList(t *testing.T) {
	e, ch := setupHandler(t)
	// Resource exists with no custodians; distinct from the absent case.
	addr := "0x00000000000000000000000000000000000000000000000000000000000000aa"
	ch.custodians[addr] = nil

	req := httptest.NewRequest(http.MethodGet, "/api/v1/agents/"+addr+"/custodians", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"custodians":[]`) {
		t.Errorf("body = %s, want empty array", rec.Body.String())
	}
}

package user

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

func setupHandler(t *testing.T) (*echo.Echo, *mockRepo) {
	t.Helper()
	repo := newMockRepo()
	h := NewHandler(NewService(repo))

	e := echo.New()
	e.HTTPErrorHandler = httperr.Handler(zerolog.Nop())
	h.RegisterRoutes(e.Group("/api/v1"))
	return e, repo
}

func TestHandlerRegister(t *testing.T) {
	e, _ := setupHandler(t)

	body := `{"wallet":"` + testWallet + `","role":"PAT"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var got User
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got.ID == 0 || got.Wallet != testWallet {
		t.Errorf("response = %+v, want assigned id and wallet echoed", got)
	}
}

func TestHandlerRegisterConflict(t *testing.T) {
	e, repo := setupHandler(t)
	repo.byWallet[testWallet] = &User{ID: 1, Wallet: testWallet, Role: RolePatient}

	body := `{"wallet":"` + testWallet + `","role":"PRO"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	if !strings.Contains(rec.Body.String(), `"code":"conflict"`) {
		t.Errorf("body = %s, want conflict code", rec.Body.String())
	}
}

func TestHandlerGetByWallet(t *testing.T) {
	e, repo := setupHandler(t)
	repo.byWallet[testWallet] = &User{ID: 7, Wallet: testWallet, Role: RoleProvider}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+testWallet, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var got User
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got.ID != 7 || got.Role != RoleProvider {
		t.Errorf("response = %+v", got)
	}
}

func TestHandlerGetByWalletNotFound(t *testing.T) {
	e, _ := setupHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/0x2", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

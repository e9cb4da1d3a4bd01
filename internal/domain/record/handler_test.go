package record

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medrec/medrec/internal/platform/chain"
	"github.com/medrec/medrec/internal/platform/httperr"
)

func setupHandler(t *testing.T, ch *mockChain, ids map[string]int64) *echo.Echo {
	t.Helper()
	h := NewHandler(newService(ch, newMockRepo(), ids))

	e := echo.New()
	e.HTTPErrorHandler = httperr.Handler(zerolog.Nop())
	h.RegisterRoutes(e.Group("/api/v1"))
	return e
}

func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return buf, w.FormDataContentType()
}

func TestHandlerUpload(t *testing.T) {
	e := setupHandler(t, newMockChain(), map[string]int64{patientWallet: 1})

	body, contentType := multipartBody(t, "report.pdf", "pdf bytes", map[string]string{
		"patient_wallet": patientWallet,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var result UploadResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if result.CID == "" || result.Record == nil || result.Record.ID == 0 {
		t.Errorf("response incomplete: %+v", result)
	}
}

func TestHandlerUploadMissingFile(t *testing.T) {
	e := setupHandler(t, newMockChain(), map[string]int64{patientWallet: 1})

	body, contentType := multipartBody(t, "", "", map[string]string{
		"patient_wallet": patientWallet,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandlerAdd(t *testing.T) {
	ch := newMockChain()
	e := setupHandler(t, ch, nil)

	provider, err := chain.GenerateAccount()
	if err != nil {
		t.Fatalf("generate account: %v", err)
	}
	body := `{"patient_address":"` + patientWallet + `","data_hash":"0xdeadbeef","record_type":1,"provider_private_key":"` + provider.PrivateKeyHex() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/records/create", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "0xtx_add") {
		t.Errorf("body = %s, want tx hash", rec.Body.String())
	}
	if ch.addedType != chain.RecordTypeLab {
		t.Errorf("record type submitted = %d, want %d", ch.addedType, chain.RecordTypeLab)
	}
}

func TestHandlerAddSymbolicName(t *testing.T) {
	ch := newMockChain()
	e := setupHandler(t, ch, nil)

	provider, err := chain.GenerateAccount()
	if err != nil {
		t.Fatalf("generate account: %v", err)
	}
	body := `{"patient_address":"` + patientWallet + `","data_hash":"0xab","record_type":"imaging","provider_private_key":"` + provider.PrivateKeyHex() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/records/create", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ch.addedType != chain.RecordTypeImaging {
		t.Errorf("record type submitted = %d, want %d", ch.addedType, chain.RecordTypeImaging)
	}
}

func TestHandlerAddBadType(t *testing.T) {
	e := setupHandler(t, newMockChain(), nil)

	body := `{"patient_address":"` + patientWallet + `","data_hash":"0xab","record_type":"dental","provider_private_key":"0x1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/records/create", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandlerGetRecord(t *testing.T) {
	ch := newMockChain()
	ch.records[patientWallet] = map[uint64]*chain.Record{
		2: {ID: 2, PatientAddress: patientWallet, IsActive: true},
	}
	e := setupHandler(t, ch, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/"+patientWallet+"/2", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var got chain.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got.ID != 2 || !got.IsActive {
		t.Errorf("response = %+v", got)
	}
}

func TestHandlerGetRecordBadID(t *testing.T) {
	e := setupHandler(t, newMockChain(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/"+patientWallet+"/abc", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandlerUpdateStatus(t *testing.T) {
	ch := newMockChain()
	e := setupHandler(t, ch, nil)

	provider, err := chain.GenerateAccount()
	if err != nil {
		t.Fatalf("generate account: %v", err)
	}
	body := `{"is_active":false,"provider_private_key":"` + provider.PrivateKeyHex() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/records/"+patientWallet+"/3/status", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ch.statusCalls != 1 {
		t.Errorf("status calls = %d, want 1", ch.statusCalls)
	}
}

func TestHandlerUpdateStatusMissingFlag(t *testing.T) {
	e := setupHandler(t, newMockChain(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/records/"+patientWallet+"/3/status", strings.NewReader(`{"provider_private_key":"0xab"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandlerListEmpty(t *testing.T) {
	e := setupHandler(t, newMockChain(), map[string]int64{patientWallet: 1})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/user/"+patientWallet, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"records":[]`) {
		t.Errorf("body = %s, want empty array", rec.Body.String())
	}
}

func TestHandlerDownloadUnavailable(t *testing.T) {
	e := setupHandler(t, newMockChain(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/download/bafy-missing", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
}

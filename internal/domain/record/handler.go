package record

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medrec/medrec/internal/platform/chain"
	"github.com/medrec/medrec/internal/platform/httperr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/records/create", h.Add)
	api.GET("/records/user/:wallet", h.List)
	api.GET("/records/:patient/:record_id", h.Get)
	api.POST("/records/:patient/:record_id/status", h.UpdateStatus)
	api.POST("/upload", h.Upload)
	api.GET("/download/:cid", h.Download)
}

func recordIDParam(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("record_id"), 10, 64)
	if err != nil {
		return 0, httperr.Validation("record_id must be an unsigned integer")
	}
	return id, nil
}

type addRequest struct {
	PatientAddress     string          `json:"patient_address"`
	DataHash           string          `json:"data_hash"`
	RecordType         json.RawMessage `json:"record_type"`
	ProviderPrivateKey string          `json:"provider_private_key"`
}

// parseRecordType accepts the numeric u8 encoding or its symbolic name.
func parseRecordType(raw json.RawMessage) (uint8, error) {
	var code uint8
	if err := json.Unmarshal(raw, &code); err == nil {
		return code, nil
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		switch name {
		case TypeGeneral:
			return chain.RecordTypeGeneral, nil
		case TypeLab:
			return chain.RecordTypeLab, nil
		case TypePrescription:
			return chain.RecordTypePrescription, nil
		case TypeImaging:
			return chain.RecordTypeImaging, nil
		}
	}
	return 0, httperr.Validation("record_type must be between %d and %d or one of %q, %q, %q, %q",
		chain.RecordTypeGeneral, chain.RecordTypeImaging,
		TypeGeneral, TypeLab, TypePrescription, TypeImaging)
}

func (h *Handler) Add(c echo.Context) error {
	var req addRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	recordType, err := parseRecordType(req.RecordType)
	if err != nil {
		return err
	}
	txHash, err := h.svc.Add(c.Request().Context(), req.PatientAddress, req.DataHash, recordType, req.ProviderPrivateKey)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"tx_hash": txHash})
}

func (h *Handler) Get(c echo.Context) error {
	recordID, err := recordIDParam(c)
	if err != nil {
		return err
	}
	rec, err := h.svc.Get(c.Request().Context(), c.Param("patient"), recordID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

type updateStatusRequest struct {
	IsActive           *bool  `json:"is_active"`
	ProviderPrivateKey string `json:"provider_private_key"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	if req.IsActive == nil {
		return httperr.Validation("is_active is required")
	}
	recordID, err := recordIDParam(c)
	if err != nil {
		return err
	}
	txHash, err := h.svc.UpdateStatus(c.Request().Context(), c.Param("patient"), recordID, *req.IsActive, req.ProviderPrivateKey)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"tx_hash": txHash})
}

func (h *Handler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return httperr.Validation("multipart field %q is required", "file")
	}
	patientWallet := c.FormValue("patient_wallet")
	providerWallet := c.FormValue("provider_wallet")

	file, err := fileHeader.Open()
	if err != nil {
		return httperr.Internal(err)
	}
	defer file.Close()

	result, err := h.svc.Upload(c.Request().Context(), fileHeader.Filename, file, patientWallet, providerWallet)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) List(c echo.Context) error {
	records, err := h.svc.List(c.Request().Context(), c.Param("wallet"))
	if err != nil {
		return err
	}
	if records == nil {
		records = []*StoredRecord{}
	}
	return c.JSON(http.StatusOK, echo.Map{"records": records})
}

func (h *Handler) Download(c echo.Context) error {
	data, err := h.svc.Download(c.Request().Context(), c.Param("cid"))
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, http.DetectContentType(data), data)
}

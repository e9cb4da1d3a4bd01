package relationship

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medrec/medrec/internal/platform/httperr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/relationships/create", h.Create)
	api.POST("/relationships/register", h.Register)
	api.POST("/relationships/:patient/viewers", h.AddViewer)
	api.GET("/relationships/:patient/provider/:provider/viewers", h.Viewers)
}

type createRequest struct {
	ProviderAddress   string `json:"provider_address"`
	PatientPrivateKey string `json:"patient_private_key"`
}

func (h *Handler) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	txHash, err := h.svc.Create(c.Request().Context(), req.ProviderAddress, req.PatientPrivateKey)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"tx_hash": txHash})
}

type addViewerRequest struct {
	ViewerAddress     string `json:"viewer_address"`
	PatientPrivateKey string `json:"patient_private_key"`
}

func (h *Handler) AddViewer(c echo.Context) error {
	var req addViewerRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	txHash, err := h.svc.AddViewer(c.Request().Context(), c.Param("patient"), req.ViewerAddress, req.PatientPrivateKey)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"tx_hash": txHash})
}

func (h *Handler) Viewers(c echo.Context) error {
	viewers, err := h.svc.Viewers(c.Request().Context(), c.Param("patient"), c.Param("provider"))
	if err != nil {
		return err
	}
	if viewers == nil {
		viewers = []string{}
	}
	return c.JSON(http.StatusOK, echo.Map{"viewers": viewers})
}

type registerRequest struct {
	PatientWallet  string `json:"patient_wallet"`
	ProviderWallet string `json:"provider_wallet"`
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	rel, err := h.svc.Register(c.Request().Context(), req.PatientWallet, req.ProviderWallet)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rel)
}

package agent

import (
	"encoding/json"
	"net/http"

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
	api.POST("/agents/create", h.Create)
	api.POST("/agents/:address/custodians", h.AddCustodian)
	api.GET("/agents/:address/custodians", h.Custodians)
}

type createRequest struct {
	AgentType json.RawMessage `json:"agent_type"`
}

// parseAgentType accepts the numeric u8 encoding or its symbolic name.
func parseAgentType(raw json.RawMessage) (uint8, error) {
	var code uint8
	if err := json.Unmarshal(raw, &code); err == nil {
		return code, nil
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		switch name {
		case TypePatient:
			return chain.AgentTypePatient, nil
		case TypeProvider:
			return chain.AgentTypeProvider, nil
		}
	}
	return 0, httperr.Validation("agent_type must be %d (%s) or %d (%s)",
		chain.AgentTypePatient, TypePatient, chain.AgentTypeProvider, TypeProvider)
}

func (h *Handler) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	agentType, err := parseAgentType(req.AgentType)
	if err != nil {
		return err
	}
	created, err := h.svc.Create(c.Request().Context(), agentType)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

type addCustodianRequest struct {
	CustodianAddress string `json:"custodian_address"`
	AgentPrivateKey  string `json:"agent_private_key"`
}

func (h *Handler) AddCustodian(c echo.Context) error {
	var req addCustodianRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	txHash, err := h.svc.AddCustodian(c.Request().Context(), c.Param("address"), req.CustodianAddress, req.AgentPrivateKey)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"tx_hash": txHash})
}

func (h *Handler) Custodians(c echo.Context) error {
	custodians, err := h.svc.Custodians(c.Request().Context(), c.Param("address"))
	if err != nil {
		return err
	}
	if custodians == nil {
		custodians = []string{}
	}
	return c.JSON(http.StatusOK, echo.Map{"custodians": custodians})
}

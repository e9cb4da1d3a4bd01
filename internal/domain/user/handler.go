package user

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
	api.POST("/users", h.Register)
	api.GET("/users/:wallet", h.GetByWallet)
}

func (h *Handler) Register(c echo.Context) error {
	var u User
	if err := c.Bind(&u); err != nil {
		return httperr.Validation("invalid request body")
	}
	if err := h.svc.Register(c.Request().Context(), &u); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) GetByWallet(c echo.Context) error {
	u, err := h.svc.GetByWallet(c.Request().Context(), c.Param("wallet"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

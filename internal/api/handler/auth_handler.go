package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/baselinehq/pricing-api/internal/core/ports"
)

// AuthHandler handles login. Account creation lives on the entitlement
// handler because it also decides the entitlement tier.
type AuthHandler struct {
	gateway ports.SessionGateway
	service ports.EntitlementService
}

func NewAuthHandler(gateway ports.SessionGateway, service ports.EntitlementService) *AuthHandler {
	return &AuthHandler{gateway: gateway, service: service}
}

// Login authenticates a user and returns a bearer token plus the merged
// account view.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.gateway.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	summary, err := h.service.GetAccount(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token: token,
		User:  toUserPayload(summary),
	})
}

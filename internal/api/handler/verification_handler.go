package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/baselinehq/pricing-api/internal/core/ports"
)

// VerificationHandler handles the email verification code side flow.
type VerificationHandler struct {
	service ports.VerificationService
}

func NewVerificationHandler(service ports.VerificationService) *VerificationHandler {
	return &VerificationHandler{service: service}
}

// SendVerification issues a short-lived 6-digit code for an email.
//
// @Summary      Send a verification code
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        body  body      sendVerificationRequest  true  "Target email"
// @Success      200   {object}  sendVerificationResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/send-verification [post]
func (h *VerificationHandler) SendVerification(c echo.Context) error {
	var req sendVerificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	code, err := h.service.SendCode(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sendVerificationResponse{
		Success:     true,
		Message:     "Verification code sent",
		PreviewCode: code,
	})
}

// VerifyEmail checks and consumes a verification code.
//
// @Summary      Verify an email code
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        body  body      verifyEmailRequest  true  "Email and code"
// @Success      200   {object}  verifyEmailResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/verify-email [post]
func (h *VerificationHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.VerifyCode(c.Request().Context(), req.Email, req.Code); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, verifyEmailResponse{
		Success: true,
		Message: "Email verified successfully",
	})
}

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/baselinehq/pricing-api/internal/api/metrics"
	"github.com/baselinehq/pricing-api/internal/core/domain"
	"github.com/baselinehq/pricing-api/internal/core/ports"
)

// DeviceTracker is the interface the handler uses to enqueue best-effort
// device updates.
type DeviceTracker interface {
	Enqueue(in ports.TrackDeviceInput)
}

// EntitlementHandler handles signup, calculation counting, upgrades, and
// device tracking.
type EntitlementHandler struct {
	service ports.EntitlementService
	tracker DeviceTracker
}

func NewEntitlementHandler(service ports.EntitlementService, tracker DeviceTracker) *EntitlementHandler {
	return &EntitlementHandler{service: service, tracker: tracker}
}

// Signup creates a new account.
//
// @Summary      Create an account
// @Tags         entitlement
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Signup details"
// @Success      201   {object}  signupResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/signup [post]
func (h *EntitlementHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	summary, err := h.service.Signup(c.Request().Context(), ports.SignupInput{
		Email:             req.Email,
		Password:          req.Password,
		Name:              req.Name,
		LicenseKey:        req.LicenseKey,
		DeviceFingerprint: req.DeviceFingerprint,
	})
	if err != nil {
		return err
	}

	metrics.SignupsTotal.WithLabelValues(boolLabel(summary.HasFullAccess)).Inc()

	return c.JSON(http.StatusCreated, signupResponse{
		Success: true,
		User:    toUserPayload(summary),
	})
}

// Calculate counts one calculation against the authenticated account.
//
// @Summary      Record a calculation
// @Tags         entitlement
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  calculateResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  limitReachedResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/calculate [post]
func (h *EntitlementHandler) Calculate(c echo.Context) error {
	accountID, err := ctxAccountID(c)
	if err != nil {
		return err
	}

	result, err := h.service.RecordCalculation(c.Request().Context(), accountID)
	if err != nil {
		// A token that resolves to no known account is an auth failure, not a 404.
		if errors.Is(err, domain.ErrAccountNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		return err
	}

	if result.LimitReached {
		metrics.CalculationsTotal.WithLabelValues("limit_reached").Inc()
		return c.JSON(http.StatusForbidden, limitReachedResponse{
			Error:            "Calculation limit reached. Please upgrade to Full Access.",
			LimitReached:     true,
			CalculationsUsed: result.CalculationsUsed,
		})
	}

	if result.HasFullAccess {
		metrics.CalculationsTotal.WithLabelValues("unlimited").Inc()
	} else {
		metrics.CalculationsTotal.WithLabelValues("allowed").Inc()
	}

	return c.JSON(http.StatusOK, calculateResponse{
		Success:               true,
		HasFullAccess:         result.HasFullAccess,
		CalculationsUsed:      result.CalculationsUsed,
		CalculationsRemaining: result.Remaining,
	})
}

// Upgrade grants full access for a valid license key.
//
// The user token is accepted from the x-user-token header, the userToken body
// field, or an Authorization bearer value that parses as a JWT, in that
// order. The Authorization fallback is guarded so a static API key sent by
// older clients is not mistaken for a session token.
//
// @Summary      Upgrade to full access
// @Tags         entitlement
// @Accept       json
// @Produce      json
// @Param        body  body      upgradeRequest  true  "License key and optional user token"
// @Success      200   {object}  upgradeResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/upgrade [post]
func (h *EntitlementHandler) Upgrade(c echo.Context) error {
	var req upgradeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token := c.Request().Header.Get("x-user-token")
	if token == "" {
		token = req.UserToken
	}
	if token == "" {
		if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ey") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if token == "" {
		metrics.UpgradesTotal.WithLabelValues("auth_expired").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized - no token")
	}

	if err := h.service.Upgrade(c.Request().Context(), token, req.LicenseKey); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidLicense):
			metrics.UpgradesTotal.WithLabelValues("invalid_key").Inc()
		case errors.Is(err, domain.ErrAuthExpired):
			metrics.UpgradesTotal.WithLabelValues("auth_expired").Inc()
		default:
			metrics.UpgradesTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.UpgradesTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, upgradeResponse{Success: true, HasFullAccess: true})
}

// GetUser returns the merged account view for the authenticated user.
//
// @Summary      Get the authenticated account
// @Tags         entitlement
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  getUserResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/user [get]
func (h *EntitlementHandler) GetUser(c echo.Context) error {
	accountID, err := ctxAccountID(c)
	if err != nil {
		return err
	}

	summary, err := h.service.GetAccount(c.Request().Context(), accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		return err
	}

	return c.JSON(http.StatusOK, getUserResponse{User: toUserPayload(summary)})
}

// TrackDevice records a device-scoped action. Best-effort: the update is
// enqueued and applied asynchronously.
//
// @Summary      Track device usage
// @Description  Acknowledges acceptance of the update; it is applied asynchronously, not before the response.
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        body  body      trackDeviceRequest  true  "Device action"
// @Success      202   {object}  trackDeviceResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/track-device [post]
func (h *EntitlementHandler) TrackDevice(c echo.Context) error {
	var req trackDeviceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.tracker.Enqueue(ports.TrackDeviceInput{
		Fingerprint: req.DeviceFingerprint,
		Action:      ports.DeviceAction(req.Action),
		AccountID:   req.UserID,
	})

	return c.JSON(http.StatusAccepted, trackDeviceResponse{Success: true})
}

// CheckDevice reports the advisory abuse verdict for a fingerprint.
//
// @Summary      Check device usage limits
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        body  body      checkDeviceRequest  true  "Device fingerprint"
// @Success      200   {object}  checkDeviceResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/check-device [post]
func (h *EntitlementHandler) CheckDevice(c echo.Context) error {
	var req checkDeviceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	status, err := h.service.CheckDevice(c.Request().Context(), req.DeviceFingerprint)
	if err != nil {
		return err
	}

	msg := "Device allowed"
	if status.Allowed {
		metrics.DeviceChecksTotal.WithLabelValues("allowed").Inc()
	} else {
		metrics.DeviceChecksTotal.WithLabelValues("flagged").Inc()
		msg = "Device limit exceeded. Please purchase a license for unlimited access."
	}

	return c.JSON(http.StatusOK, checkDeviceResponse{
		Allowed:         status.Allowed,
		Calculations:    status.Calculations,
		AccountsCreated: status.AccountsCreated,
		Message:         msg,
	})
}

func toUserPayload(s *ports.AccountSummary) userPayload {
	return userPayload{
		ID:               s.ID,
		Email:            s.Email,
		Name:             s.Name,
		HasFullAccess:    s.HasFullAccess,
		CalculationsUsed: s.CalculationsUsed,
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

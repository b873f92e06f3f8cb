package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type signupRequest struct {
	Email             string `json:"email"             validate:"required,email"`
	Password          string `json:"password"          validate:"required,min=6"`
	Name              string `json:"name"              validate:"required"`
	LicenseKey        string `json:"licenseKey"`
	DeviceFingerprint string `json:"deviceFingerprint"`
}

type userPayload struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	HasFullAccess    bool   `json:"hasFullAccess"`
	CalculationsUsed int    `json:"calculationsUsed"`
}

type signupResponse struct {
	Success bool        `json:"success"`
	User    userPayload `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

type getUserResponse struct {
	User userPayload `json:"user"`
}

type upgradeRequest struct {
	LicenseKey string `json:"licenseKey" validate:"required"`
	UserToken  string `json:"userToken"`
}

type upgradeResponse struct {
	Success       bool `json:"success"`
	HasFullAccess bool `json:"hasFullAccess"`
}

type calculateResponse struct {
	Success               bool `json:"success"`
	HasFullAccess         bool `json:"hasFullAccess"`
	CalculationsUsed      int  `json:"calculationsUsed,omitempty"`
	CalculationsRemaining int  `json:"calculationsRemaining"`
}

// limitReachedResponse is the 403 body when the free cap is exhausted. It
// carries the counters so the client can reconcile its cached copy.
type limitReachedResponse struct {
	Error                 string `json:"error"`
	LimitReached          bool   `json:"limitReached"`
	CalculationsUsed      int    `json:"calculationsUsed"`
	CalculationsRemaining int    `json:"calculationsRemaining"`
}

type trackDeviceRequest struct {
	DeviceFingerprint string `json:"deviceFingerprint" validate:"required"`
	Action            string `json:"action"            validate:"required,oneof=signup calculate"`
	UserID            string `json:"userId"`
}

type trackDeviceResponse struct {
	Success bool `json:"success"`
}

type checkDeviceRequest struct {
	DeviceFingerprint string `json:"deviceFingerprint" validate:"required"`
}

type checkDeviceResponse struct {
	Allowed         bool   `json:"allowed"`
	Calculations    int    `json:"calculations"`
	AccountsCreated int    `json:"accountsCreated"`
	Message         string `json:"message"`
}

type sendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type sendVerificationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// PreviewCode is returned because no email sender is configured.
	PreviewCode string `json:"previewCode,omitempty"`
}

type verifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code"  validate:"required"`
}

type verifyEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

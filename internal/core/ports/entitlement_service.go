package ports

import "context"

// DeviceAction is a tracked device event kind.
type DeviceAction string

const (
	ActionSignup    DeviceAction = "signup"
	ActionCalculate DeviceAction = "calculate"
)

// SignupInput carries everything needed to create an account.
type SignupInput struct {
	Email             string
	Password          string
	Name              string
	LicenseKey        string // optional; grants full access when on the allow-list
	DeviceFingerprint string // optional; association is tracked best-effort
}

// AccountSummary is the account view returned to callers.
type AccountSummary struct {
	ID               string
	Email            string
	Name             string
	HasFullAccess    bool
	CalculationsUsed int
}

// CalculationResult reports the outcome of a RecordCalculation call.
// Remaining is -1 for full-access accounts (unlimited).
type CalculationResult struct {
	Allowed          bool
	LimitReached     bool
	HasFullAccess    bool
	CalculationsUsed int
	Remaining        int
}

// DeviceStatus is the advisory abuse report for a fingerprint.
type DeviceStatus struct {
	Allowed         bool
	Calculations    int
	AccountsCreated int
}

// TrackDeviceInput records one device-scoped action.
type TrackDeviceInput struct {
	Fingerprint string
	Action      DeviceAction
	AccountID   string // required for signup actions
}

// EntitlementService is the usage-limiting and entitlement state machine:
// Preview (no account) -> FreeTier (hasFullAccess=false) -> FullAccess
// (terminal). It never retries internally; retry policy belongs to callers.
type EntitlementService interface {
	Signup(ctx context.Context, in SignupInput) (*AccountSummary, error)

	// RecordCalculation counts one calculation against the free cap.
	// The limit-reached outcome is reported in the result, not as an error.
	RecordCalculation(ctx context.Context, accountID string) (CalculationResult, error)

	// Upgrade resolves the bearer token to an account and grants full access
	// when the license key is valid. Idempotent.
	Upgrade(ctx context.Context, token, licenseKey string) error

	// CheckDevice is read-only and advisory; nothing consults it to block.
	CheckDevice(ctx context.Context, fingerprint string) (DeviceStatus, error)

	// TrackDevice upserts the device record. Callers must treat failure as
	// non-fatal to the triggering user action.
	TrackDevice(ctx context.Context, in TrackDeviceInput) error

	// GetAccount returns the merged account view for an id, falling back to
	// session-gateway metadata when no entitlement record exists yet.
	GetAccount(ctx context.Context, accountID string) (*AccountSummary, error)
}

// VerificationService issues and checks short-lived email verification codes.
type VerificationService interface {
	// SendCode generates a code for the email and returns it so preview
	// deployments without an email sender can surface it.
	SendCode(ctx context.Context, email string) (string, error)
	// VerifyCode checks and consumes the code. Returns domain.ErrCodeMismatch
	// for wrong or expired codes.
	VerifyCode(ctx context.Context, email, code string) error
}

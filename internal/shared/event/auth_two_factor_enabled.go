package event

const AuthTwoFactorEnabledDestination string = "auth_two_factor_enabled"

type AuthTwoFactorEnabledMessage struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	DeviceID string `json:"device_id"`
}

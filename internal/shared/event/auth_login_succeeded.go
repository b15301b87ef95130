package event

const AuthLoginSucceededDestination string = "auth_login_succeeded"

type AuthLoginSucceededMessage struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	DeviceID string `json:"device_id"`
	Verified bool   `json:"verified"`
}

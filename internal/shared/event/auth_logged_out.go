package event

const AuthLoggedOutDestination string = "auth_logged_out"

type AuthLoggedOutMessage struct {
	UserID   string `json:"user_id"`
	DeviceID string `json:"device_id"`
	Sessions int64  `json:"sessions"`
}

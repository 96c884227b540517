package dto

type AdminLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

type AdminLoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// SaveAuthRequest carries the mobile app's upstream bearer token so later
// address submissions can replay it.
type SaveAuthRequest struct {
	Token     string `json:"token" validate:"required"`
	ContactID int    `json:"contact_id"`
}

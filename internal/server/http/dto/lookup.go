package dto

// LookupRequest asks to resolve an in-game username before checkout.
type LookupRequest struct {
	Game       string `json:"game"`
	GameUserID string `json:"uid"`
	ZoneID     string `json:"zone,omitempty"`
}

// LookupResponse carries the resolved username.
type LookupResponse struct {
	Username string `json:"username"`
}

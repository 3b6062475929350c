package dto

// AuthRequest carries credentials for both registration and login.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

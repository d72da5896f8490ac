package models

// TokenPayload is what an authentication token asserts about its bearer
type TokenPayload struct {
	UserID string
	Email  string
}

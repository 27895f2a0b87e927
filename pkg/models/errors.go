package models

// ErrorResponse is the standard error envelope for dashboard API responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

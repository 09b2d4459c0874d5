package types

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// GenerateResponse is returned by POST /generate
type GenerateResponse struct {
	Code string `json:"code"`
}

// CreatedResponse is returned by POST /api/games
type CreatedResponse struct {
	ID string `json:"id"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

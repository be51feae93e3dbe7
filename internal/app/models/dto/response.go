package dto

// MessageResponse is the envelope for plain acknowledgements and all error
// responses: {"message": "..."}.
type MessageResponse struct {
	Message string `json:"message"`
}

// NewMessage creates a MessageResponse
func NewMessage(message string) MessageResponse {
	return MessageResponse{Message: message}
}

package subscription

// Response shapes, referenced by the swagger annotations.

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationResponse struct {
	Errors []string `json:"errors"`
}

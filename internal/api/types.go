package api

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse wraps a successful result. Success is a recipe, a page of
// recipes or a confirmation message depending on the route.
type SuccessResponse struct {
	Success interface{} `json:"success"`
}

// HealthResponse represents the response of the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Error  string `json:"error,omitempty"`
}

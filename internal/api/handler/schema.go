package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses. Rendered by the central HTTP error handler; declared here so the
// API docs can reference it.
type errorResponse struct {
	Error            string `json:"error"`
	RemainingSeconds int    `json:"remaining_seconds,omitempty"`
}

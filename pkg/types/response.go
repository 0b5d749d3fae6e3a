package types

// APIError is the wire shape every non-2xx response carries. Message is
// top-level so clients can render it directly.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

package types

type SuccessEnvelope struct {
	Data any `json:"data"`
	// Warning carries a human-readable notice for partially applied
	// operations, e.g. an order status change whose stock adjustment failed.
	Warning string `json:"warning,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

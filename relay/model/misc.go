package model

type Error struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param"`
	Code    any    `json:"code"`
}

type ErrorWithStatusCode struct {
	Error
	StatusCode int `json:"status_code"`
	// RawBody is set when the provider's own error response is relayed unchanged.
	RawBody     []byte `json:"-"`
	ContentType string `json:"-"`
}

// IsPassThrough reports whether the error carries a provider response to relay verbatim.
func (e *ErrorWithStatusCode) IsPassThrough() bool {
	return e.RawBody != nil
}

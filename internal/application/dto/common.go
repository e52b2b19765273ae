package dto

// ErrorResponse corpo de erro HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OkResponse corpo mínimo de confirmação.
type OkResponse struct {
	Ok   bool   `json:"ok"`
	Note string `json:"note,omitempty"`
}

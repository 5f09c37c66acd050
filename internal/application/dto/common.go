package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse notificación terminal de una acción mutadora (cada acción
// termina en exactamente una notificación de éxito o de error).
type MessageResponse struct {
	Message string `json:"message"`
}

package dto

// ErrorResponse cuerpo de error HTTP. Message es un string o una lista de mensajes de validación.
type ErrorResponse struct {
	Error   bool        `json:"error"`
	Code    string      `json:"code"`
	Message interface{} `json:"message"`
}

// MessageResponse respuesta simple con mensaje de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}

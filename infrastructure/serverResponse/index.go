package server_response

type ServerResponder interface {
	Respond(ctx interface{}, code int, message string, payload interface{}, errs []error, response_code *uint, device_id *string)
}

var Responder ServerResponder = ginResponder{}

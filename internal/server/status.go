package server

// HTTPBaseResponse is a bodiless response for the given status.
func HTTPBaseResponse(status Status) *Response {
	return EmptyResponse().Status(status)
}

func HTTP400BadRequest() *Response {
	return HTTPBaseResponse(StatusBadRequest)
}

func HTTP404NotFound() *Response {
	return HTTPBaseResponse(StatusNotFound)
}

func HTTP500InternalServerError() *Response {
	return HTTPBaseResponse(StatusInternalServerError)
}

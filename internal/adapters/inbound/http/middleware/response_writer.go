package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// wrapResponse observes the status and size of the response written to w.
func wrapResponse(w http.ResponseWriter, r *http.Request) chimiddleware.WrapResponseWriter {
	return chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
}

// responseStatus is the status sent through ww. A handler that never wrote
// got the implicit 200 of net/http.
func responseStatus(ww chimiddleware.WrapResponseWriter) int {
	if status := ww.Status(); status != 0 {
		return status
	}

	return http.StatusOK
}

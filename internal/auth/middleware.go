package auth

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	httputil "upperroom/pkg/http"
)

// RequireAdmin wraps a route so that only requests carrying a valid
// admin bearer token reach the handler.
func RequireAdmin(svc *Service, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if err := svc.VerifyAdmin(r.Header.Get("Authorization")); err != nil {
			_ = httputil.WriteError(w, err)
			return
		}
		next(w, r, ps)
	}
}

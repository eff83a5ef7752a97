package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/aretw0/shapeguard"
)

// Gate returns middleware that rejects request bodies not conforming to the
// schema registered under name. Rejected requests get 422; accepted ones reach
// next with the body restored.
func Gate(guard *shapeguard.Guard, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
			if err != nil {
				writeError(w, http.StatusBadRequest, "could not read request body")
				return
			}
			_ = r.Body.Close()

			invalid, err := guard.CheckJSON(r.Context(), name, data)
			if err != nil {
				guard.Logger().Error("Gate could not resolve schema", "schema", name, "error", err)
				writeError(w, http.StatusInternalServerError, "schema unavailable")
				return
			}
			if invalid {
				guard.Logger().Debug("Gate rejected request", "schema", name, "path", r.URL.Path)
				writeJSON(w, http.StatusUnprocessableEntity, Verdict{Invalid: true})
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(data))
			r.ContentLength = int64(len(data))
			next.ServeHTTP(w, r)
		})
	}
}

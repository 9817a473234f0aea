package httpx

import (
	"net/http"
	"runtime/debug"

	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

// Recover turns a panicking handler into a 500 with the standard envelope.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					slogx.FromContext(r.Context()).Error("panic",
						"panic", v,
						"stack", string(debug.Stack()),
					)
					WriteError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

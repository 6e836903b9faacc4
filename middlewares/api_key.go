package middlewares

import (
	"crypto/subtle"
	"net/http"

	"github.com/webharvest/loader-http-service/common/utils"
)

// ApiKey requires requests to carry the backend API key in the X-API-KEY
// header. When no key is configured the check is disabled.
func ApiKey(backendApiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if backendApiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get("X-API-KEY")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(backendApiKey)) != 1 {
				utils.WriteError(w, http.StatusUnauthorized, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

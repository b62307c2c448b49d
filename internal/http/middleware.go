package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// corsMiddleware answers preflights and stamps CORS headers. Origins outside
// the allow-list get the primary (first configured) origin back, which the
// browser will then reject.
func corsMiddleware(allowedOrigins []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowed := ""
		if len(allowedOrigins) > 0 {
			allowed = allowedOrigins[0]
		}
		for _, o := range allowedOrigins {
			if strings.EqualFold(o, origin) {
				allowed = origin
				break
			}
		}
		if allowed != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
		}
		w.Header().Set("Access-Control-Allow-Headers", "authorization, x-api-key, content-type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authMiddleware checks the relay's x-api-key. The dashboard Bearer token is
// a fallback accepted only when no API key is configured; once a key exists
// it is the sole credential. With no keys configured every request is
// rejected rather than letting the API run open.
func authMiddleware(apiKey, anonKey string, logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		if apiKey != "" {
			if r.Header.Get("x-api-key") == apiKey {
				next.ServeHTTP(w, r)
				return
			}
		} else if anonKey != "" {
			auth := r.Header.Get("Authorization")
			token := strings.TrimPrefix(auth, "Bearer ")
			if token != auth && token == anonKey {
				next.ServeHTTP(w, r)
				return
			}
		}

		logger.Warn("Rejected unauthenticated request",
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
		)
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	})
}

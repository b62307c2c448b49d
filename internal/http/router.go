package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router wires the API surface on the standard library mux.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterRoutes mounts the telemetry API.
func (r *Router) RegisterRoutes(h *Handler) {
	r.mux.HandleFunc("/api/v1/modbus-receiver", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodPost:
			h.ReceiveReading(w, req)
		case http.MethodGet:
			h.GetLatestReading(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	r.mux.HandleFunc("/api/v1/validate-vps", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.ValidateVPS(w, req)
	})

	r.mux.HandleFunc("/api/v1/diagnostics", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.GetDiagnostics(w, req)
	})

	r.mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// Middleware assembles the CORS and auth chain around the router.
func Middleware(allowedOrigins []string, apiKey, anonKey string, logger *zap.Logger, next http.Handler) http.Handler {
	return corsMiddleware(allowedOrigins, authMiddleware(apiKey, anonKey, logger, next))
}

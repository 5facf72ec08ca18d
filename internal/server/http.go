package server

import (
	"net/http"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/Satvik374/Study-App/internal/api"
)

// NewHTTPHandler mounts the service with logging, HTTP/2 without TLS and CORS.
func NewHTTPHandler(svc api.StudyServiceHandler, allowedOrigins []string) http.Handler {
	path, h := api.NewStudyServiceHandler(svc, connect.WithInterceptors(NewLoggingInterceptor()))

	mux := http.NewServeMux()
	mux.Handle(path, h)
	return corsMiddleware(h2c.NewHandler(mux, &http2.Server{}), allowedOrigins)
}

// corsMiddleware answers preflight requests and allows the configured
// origins. "*" allows any origin.
func corsMiddleware(next http.Handler, allowedOrigins []string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowed[origin] || allowed["*"]) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

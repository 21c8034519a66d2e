package security

import (
	"net/http"
	"strings"
)

// CORSConfig controls cross-origin access to the API.
type CORSConfig struct {
	// AllowedOrigin is "*" or a comma-separated list of exact origins.
	AllowedOrigin string
	AllowMethods  string
	AllowHeaders  string
	ExposeHeaders string
	MaxAge        string
}

// DefaultCORSConfig allows every origin, as a browser front end served from
// another port needs.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigin: "*",
		AllowMethods:  "GET, POST, PUT, DELETE, OPTIONS",
		AllowHeaders:  "Content-Type, Authorization, X-Request-ID",
		ExposeHeaders: "X-Request-ID",
		MaxAge:        "3600",
	}
}

// CORS answers preflight requests with 204 and decorates every other
// response with the allow headers.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	var origins []string
	for _, o := range strings.Split(config.AllowedOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	allowed := func(origin string) string {
		for _, o := range origins {
			if o == "*" {
				return "*"
			}
			if o == origin {
				return origin
			}
		}
		return ""
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()
			if value := allowed(r.Header.Get("Origin")); value != "" {
				headers.Set("Access-Control-Allow-Origin", value)
				if value != "*" {
					headers.Add("Vary", "Origin")
				}
				headers.Set("Access-Control-Allow-Methods", config.AllowMethods)
				headers.Set("Access-Control-Allow-Headers", config.AllowHeaders)
				headers.Set("Access-Control-Expose-Headers", config.ExposeHeaders)
				headers.Set("Access-Control-Max-Age", config.MaxAge)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

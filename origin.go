package inferenco

import "net/http"

// allowOrigins accepts WebSocket upgrades from the listed origins, from any
// origin when the list holds "*", and from clients that send no Origin.
func allowOrigins(origins []string) func(*http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed["*"] || allowed[origin]
	}
}

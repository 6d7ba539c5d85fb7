package mcpserver

import (
	"net/http"
	"strings"
)

// TokenVerifier resolves a bearer token to the player it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// WithTokenVerifier requires a valid bearer token on every HTTP request.
func (s *Server) WithTokenVerifier(v TokenVerifier) *Server {
	s.verifier = v
	return s
}

// requireBearer rejects requests without a token the verifier accepts.
func (s *Server) requireBearer(next http.Handler) http.Handler {
	if s.verifier == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="rpsbomb"`)
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		player, err := s.verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			s.logger.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("rejected bearer token")
			w.Header().Set("WWW-Authenticate", `Bearer realm="rpsbomb", error="invalid_token"`)
			http.Error(w, "invalid bearer token", http.StatusUnauthorized)
			return
		}
		s.logger.Debug().Str("player", player).Str("method", r.Method).Msg("authorized MCP request")
		next.ServeHTTP(w, r)
	})
}

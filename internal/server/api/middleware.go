package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/akarpov88/petkeeper/internal/common"
	"github.com/akarpov88/petkeeper/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// userID returns the authenticated user stored by the middleware.
func userID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

func (s *Server) accessTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get(common.AuthHeaderName)
		accessToken, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || accessToken == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		id, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

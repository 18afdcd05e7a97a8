package auth

import (
	"net/http"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
)

type TokenParser interface {
	Parse(tokenString string) (int64, error)
}

type Handler struct {
	*transport.BaseHandler
	Tokens TokenParser
}

func NewHandler(tokens TokenParser) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Tokens:      tokens,
	}
}

// AuthMiddleware resolves the bearer token to a user id and stores it in the
// request context; requests without a valid token stop here with 401.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.Logger.Warn("auth middleware: missing authorization token", "path", r.URL.Path)
			h.HandleServiceError(w, errors.ErrInvalidToken.WithMessage("missing authorization token"))
			return
		}

		userID, err := h.Tokens.Parse(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err)
			h.HandleServiceError(w, err)
			return
		}

		ctx := errors.ContextWithUserID(r.Context(), userID)
		ctx = logger.With(ctx, "userID", userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

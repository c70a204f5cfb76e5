package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/solveway/eli/pkg/domain/model"
	"github.com/solveway/eli/pkg/domain/model/auth"
	"github.com/solveway/eli/pkg/domain/types"
	"github.com/solveway/eli/pkg/metrics"
	"github.com/solveway/eli/pkg/service/ratelimit"
	"github.com/solveway/eli/pkg/usecase"
	"github.com/solveway/eli/pkg/utils/errutil"
	"github.com/solveway/eli/pkg/utils/logging"
)

type chatRequest struct {
	Messages    []model.Message    `json:"messages"`
	Surface     string             `json:"surface"`
	PageContext *model.PageContext `json:"pageContext"`
	SessionID   string             `json:"sessionId"`
}

func (s *Server) chatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if s.limiter != nil {
			allowed, err := s.limiter.Allow(ctx, ratelimit.ClientKey(r))
			if err != nil {
				// A broken limiter backend fails open; chat stays up.
				logging.From(ctx).Warn("rate limiter unavailable, admitting request", "error", err.Error())
			} else if !allowed {
				metrics.RateLimitRejectsTotal.Inc()
				http.Error(w, "Too many requests. Please slow down.", http.StatusTooManyRequests)
				return
			}
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode chat request"), http.StatusBadRequest)
			return
		}
		if len(req.Messages) == 0 {
			http.Error(w, "Messages are required", http.StatusBadRequest)
			return
		}

		surface, err := types.ParseSurface(req.Surface)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
			return
		}

		if surface.RequiresAuth() {
			principal, err := s.authenticate(ctx, r)
			if err != nil {
				errutil.Handle(ctx, err, "internal surface authentication failed")
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			ctx = auth.ContextWithPrincipal(ctx, principal)
		}

		input := &usecase.ChatInput{
			SessionID: req.SessionID,
			Surface:   surface,
			Messages:  req.Messages,
			Page:      req.PageContext,
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		// The model turn is detached from the request context: a client
		// that drops mid-stream still gets its turn completed and logged.
		modelCtx := context.WithoutCancel(ctx)
		if err := s.uc.Chat(modelCtx, input, w); err != nil {
			errutil.HandleHTTP(ctx, w, err, statusFor(err))
			return
		}
	}
}

func (s *Server) authenticate(ctx context.Context, r *http.Request) (*auth.Principal, error) {
	header := r.Header.Get("Authorization")
	bearer, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, goerr.New("missing bearer authorization header")
	}
	return s.uc.Identity().Validate(ctx, bearer)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

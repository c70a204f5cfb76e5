package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/solveway/eli/pkg/domain/model"
	"github.com/solveway/eli/pkg/utils/errutil"
)

func (s *Server) historyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sessionID := r.URL.Query().Get("sessionId")
		if sessionID == "" {
			http.Error(w, "Missing sessionId", http.StatusBadRequest)
			return
		}

		messages, err := s.uc.History(ctx, sessionID)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, statusFor(err))
			return
		}

		writeJSON(w, r, messages)
	}
}

type leadRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Intent        string `json:"intent"`
	SourceURL     string `json:"source_url"`
	ChatSessionID string `json:"chat_session_id"`
}

func (s *Server) leadHandler() http.HandlerFunc {
	type response struct {
		Success bool        `json:"success"`
		Lead    *model.Lead `json:"lead"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req leadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode lead request"), http.StatusBadRequest)
			return
		}

		saved, err := s.uc.SaveLead(ctx, &model.Lead{
			Name:          req.Name,
			Email:         req.Email,
			Phone:         req.Phone,
			Intent:        req.Intent,
			SourceURL:     req.SourceURL,
			ChatSessionID: req.ChatSessionID,
		})
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, statusFor(err))
			return
		}

		writeJSON(w, r, response{Success: true, Lead: saved})
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data) //nolint:errcheck // header already committed
}

package model

import (
	"time"

	"github.com/solveway/eli/pkg/domain/types"
)

// Lead is a prospective applicant or employer captured through the chat
// lead form.
type Lead struct {
	ID            types.LeadID `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	Phone         string       `json:"phone"`
	Intent        string       `json:"intent"`
	SourceURL     string       `json:"source_url"`
	ChatSessionID string       `json:"chat_session_id"`
	CreatedAt     time.Time    `json:"created_at"`
}

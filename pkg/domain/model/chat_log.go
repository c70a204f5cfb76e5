package model

import (
	"time"

	"github.com/solveway/eli/pkg/domain/types"
)

// Conversation roles as they appear on the wire and in logs.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversation entry exchanged with a client.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PageContext is where the visitor was when they sent the message. It is
// folded into the prompt so the assistant can ground "this page" questions.
type PageContext struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// ChatMetadata is the analytics payload recorded with each logged turn.
type ChatMetadata struct {
	Surface              string `json:"surface"`
	Page                 string `json:"page,omitempty"`
	IsCourseQuery        bool   `json:"is_course_query"`
	SourcesFound         int    `json:"sources_found"`
	GeneratedTokens      int    `json:"generated_tokens"`
	HasCarouselGenerated bool   `json:"has_carousel_generated"`
	UserID               string `json:"user_id,omitempty"`
}

// ChatLog is one completed user/assistant exchange as persisted.
type ChatLog struct {
	ID                types.ChatLogID
	SessionID         string
	UserMessage       string
	AssistantResponse string
	Metadata          ChatMetadata
	CreatedAt         time.Time
}

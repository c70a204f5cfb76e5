package types

import "github.com/google/uuid"

// DocumentID identifies an ingested source document.
type DocumentID string

// ChunkID identifies one embedded chunk of a document.
type ChunkID string

// ChatLogID identifies one logged chat turn.
type ChatLogID string

// LeadID identifies one captured lead.
type LeadID string

func NewChatLogID() ChatLogID {
	return ChatLogID(uuid.New().String())
}

func NewLeadID() LeadID {
	return LeadID(uuid.New().String())
}

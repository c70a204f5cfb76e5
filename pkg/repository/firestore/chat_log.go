package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/solveway/eli/pkg/domain/model"
	"github.com/solveway/eli/pkg/domain/types"
	"google.golang.org/api/iterator"
)

const collectionChatLogs = "eli_chat_logs"

type chatLogDoc struct {
	ID                string          `firestore:"ID"`
	SessionID         string          `firestore:"SessionID"`
	UserMessage       string          `firestore:"UserMessage"`
	AssistantResponse string          `firestore:"AssistantResponse"`
	Metadata          chatMetadataDoc `firestore:"Metadata"`
	CreatedAt         time.Time       `firestore:"CreatedAt"`
}

type chatMetadataDoc struct {
	Surface              string `firestore:"Surface"`
	Page                 string `firestore:"Page"`
	IsCourseQuery        bool   `firestore:"IsCourseQuery"`
	SourcesFound         int    `firestore:"SourcesFound"`
	GeneratedTokens      int    `firestore:"GeneratedTokens"`
	HasCarouselGenerated bool   `firestore:"HasCarouselGenerated"`
	UserID               string `firestore:"UserID"`
}

func toChatLogDoc(l *model.ChatLog) *chatLogDoc {
	return &chatLogDoc{
		ID:                string(l.ID),
		SessionID:         l.SessionID,
		UserMessage:       l.UserMessage,
		AssistantResponse: l.AssistantResponse,
		Metadata: chatMetadataDoc{
			Surface:              l.Metadata.Surface,
			Page:                 l.Metadata.Page,
			IsCourseQuery:        l.Metadata.IsCourseQuery,
			SourcesFound:         l.Metadata.SourcesFound,
			GeneratedTokens:      l.Metadata.GeneratedTokens,
			HasCarouselGenerated: l.Metadata.HasCarouselGenerated,
			UserID:               l.Metadata.UserID,
		},
		CreatedAt: l.CreatedAt,
	}
}

func fromChatLogDoc(d *chatLogDoc) *model.ChatLog {
	return &model.ChatLog{
		ID:                types.ChatLogID(d.ID),
		SessionID:         d.SessionID,
		UserMessage:       d.UserMessage,
		AssistantResponse: d.AssistantResponse,
		Metadata: model.ChatMetadata{
			Surface:              d.Metadata.Surface,
			Page:                 d.Metadata.Page,
			IsCourseQuery:        d.Metadata.IsCourseQuery,
			SourcesFound:         d.Metadata.SourcesFound,
			GeneratedTokens:      d.Metadata.GeneratedTokens,
			HasCarouselGenerated: d.Metadata.HasCarouselGenerated,
			UserID:               d.Metadata.UserID,
		},
		CreatedAt: d.CreatedAt,
	}
}

type chatLogRepository struct {
	client *firestore.Client
}

func newChatLogRepository(client *firestore.Client) *chatLogRepository {
	return &chatLogRepository{client: client}
}

func (r *chatLogRepository) Create(ctx context.Context, log *model.ChatLog) (*model.ChatLog, error) {
	cp := *log
	if cp.ID == "" {
		cp.ID = types.NewChatLogID()
	}
	cp.CreatedAt = time.Now().UTC()

	ref := r.client.Collection(collectionChatLogs).Doc(string(cp.ID))
	if _, err := ref.Set(ctx, toChatLogDoc(&cp)); err != nil {
		return nil, goerr.Wrap(err, "failed to create chat log", goerr.V("sessionID", cp.SessionID))
	}

	return &cp, nil
}

func (r *chatLogRepository) ListBySession(ctx context.Context, sessionID string) ([]*model.ChatLog, error) {
	query := r.client.Collection(collectionChatLogs).
		Where("SessionID", "==", sessionID).
		OrderBy("CreatedAt", firestore.Asc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	logs := make([]*model.ChatLog, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate chat logs", goerr.V("sessionID", sessionID))
		}

		var d chatLogDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chat log", goerr.V("doc", doc.Ref.ID))
		}
		logs = append(logs, fromChatLogDoc(&d))
	}

	return logs, nil
}

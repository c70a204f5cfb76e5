package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/solveway/eli/pkg/domain/model"
	"github.com/solveway/eli/pkg/utils/logging"
)

// SaveLead persists a captured lead from the chat lead form.
func (uc *UseCases) SaveLead(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	if strings.TrimSpace(lead.Email) == "" && strings.TrimSpace(lead.Phone) == "" {
		return nil, goerr.Wrap(ErrBadRequest, "lead needs an email or phone number")
	}

	saved, err := uc.repo.Lead().Create(ctx, lead)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save lead")
	}

	logging.From(ctx).Info("lead captured",
		"leadID", saved.ID,
		"sessionID", saved.ChatSessionID,
		"intent", saved.Intent,
	)
	return saved, nil
}

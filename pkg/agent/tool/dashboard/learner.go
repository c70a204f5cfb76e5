package dashboard

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/solveway/eli/pkg/agent/tool"
	"github.com/solveway/eli/pkg/domain/interfaces"
	"github.com/solveway/eli/pkg/domain/model"
	"github.com/solveway/eli/pkg/metrics"
)

const searchLimit = 5

// getLearnerDetailsTool finds a learner's record by name or ULN fragment.
type getLearnerDetailsTool struct {
	repo interfaces.Repository
}

func (t *getLearnerDetailsTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "dashboard__get_learner_details",
		Description: "Get details for a specific learner by name or ULN.",
		Parameters: map[string]*gollem.Parameter{
			"search_term": {
				Type:        gollem.TypeString,
				Description: "The name or ULN of the learner to find.",
				Required:    true,
			},
		},
	}
}

func (t *getLearnerDetailsTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	searchTerm, _ := args["search_term"].(string)
	if searchTerm == "" {
		return nil, fmt.Errorf("search_term is required")
	}

	tool.Update(ctx, fmt.Sprintf("Looking up learner %q...", searchTerm))

	// Exact ULN match first, then fuzzy name search
	learner, err := t.repo.Learner().GetByULN(ctx, searchTerm)
	if err != nil {
		metrics.ToolCallsTotal.WithLabelValues("get_learner_details", "error").Inc()
		return nil, goerr.Wrap(err, "failed to look up learner by ULN",
			goerr.V("searchTerm", searchTerm),
		)
	}

	var matches []*model.Learner
	if learner != nil {
		matches = []*model.Learner{learner}
	} else {
		matches, err = t.repo.Learner().SearchByName(ctx, searchTerm, searchLimit)
		if err != nil {
			metrics.ToolCallsTotal.WithLabelValues("get_learner_details", "error").Inc()
			return nil, goerr.Wrap(err, "failed to search learners by name",
				goerr.V("searchTerm", searchTerm),
			)
		}
	}

	items := make([]map[string]any, len(matches))
	for i, l := range matches {
		items[i] = map[string]any{
			"uln":      l.ULN,
			"name":     l.FullName(),
			"employer": l.Employer,
			"route":    l.Route,
		}
	}

	metrics.ToolCallsTotal.WithLabelValues("get_learner_details", "success").Inc()
	return map[string]any{"learners": items, "count": len(items)}, nil
}

package dashboard

import (
	"github.com/m-mizutani/gollem"
	"github.com/solveway/eli/pkg/domain/interfaces"
)

// New builds the data-lookup tools for the internal dashboard surface.
// These tools are never exposed to the public surface; every execution runs
// under the authenticated principal carried in the request context.
func New(repo interfaces.Repository) []gollem.Tool {
	return []gollem.Tool{
		&getLearnerDetailsTool{repo: repo},
		&getAbsentLearnersTool{repo: repo},
	}
}

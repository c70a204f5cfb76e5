package retrieval

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/solveway/eli/pkg/domain/model"
	"github.com/solveway/eli/pkg/domain/types"
)

// descriptionLimit is the carousel description truncation length, before
// the trailing ellipsis.
const descriptionLimit = 150

// maxCarouselItems bounds the deterministic recommendation payload.
const maxCarouselItems = 3

// minCourseSources is the qualifying-result floor below which no
// recommendation is produced.
const minCourseSources = 2

// courseIntent matches queries asking about courses or apprenticeships.
// Stems, not whole words, so "courses", "apprenticeships" etc. match too.
var courseIntent = regexp.MustCompile(`(?i)cours|apprentice|program|training|learning|study`)

// sourceTag strips the retrieval tagging artifacts that occasionally leak
// into document titles.
var (
	sourceTagPrefix = regexp.MustCompile(`\[Source:\s*`)
	sourceTagSuffix = regexp.MustCompile(`\s*\([a-z_]+\)\]`)
)

// Assembly is the prompt-ready product of one retrieval pass.
type Assembly struct {
	// ContextBlock is the tagged, newline-joined context for the prompt.
	ContextBlock string

	// CourseQuery flags course intent detected in the user message.
	CourseQuery bool

	// CourseSources is the number of qualifying course-type results; this
	// exact value is recorded as sources_found on the logged turn.
	CourseSources int

	// Recommendation is the deterministic carousel payload, present only
	// when the policy conditions hold. It is appended to the prompt as a
	// verbatim instruction so the recommendation UI never depends on the
	// model following formatting rules on its own.
	Recommendation *model.Carousel
}

// Assembler turns retrieval results into prompt context and, when policy
// allows, a recommendation payload.
type Assembler struct {
	homeURL string
}

// New creates an Assembler. homeURL is the fallback link for course cards
// whose document has no URL.
func New(homeURL string) *Assembler {
	return &Assembler{homeURL: homeURL}
}

// HomeURL returns the configured fallback link.
func (a *Assembler) HomeURL() string {
	return a.homeURL
}

// Assemble builds the context block and recommendation for one turn.
func (a *Assembler) Assemble(results []*model.RetrievalResult, userMessage string, surface types.Surface) *Assembly {
	entries := make([]string, len(results))
	for i, r := range results {
		entries[i] = fmt.Sprintf("[Source: %s (%s)] %s", r.Title, r.SourceType, r.Content)
	}

	courseSources := make([]*model.RetrievalResult, 0, len(results))
	for _, r := range results {
		if r.SourceType == model.SourceTypeRoute && r.Title != "" {
			courseSources = append(courseSources, r)
		}
	}

	asm := &Assembly{
		ContextBlock:  strings.Join(entries, "\n\n"),
		CourseQuery:   courseIntent.MatchString(userMessage),
		CourseSources: len(courseSources),
	}

	if asm.CourseQuery && len(courseSources) >= minCourseSources && surface.AllowsRecommendation() {
		asm.Recommendation = a.buildCarousel(courseSources)
	}

	return asm
}

func (a *Assembler) buildCarousel(courseSources []*model.RetrievalResult) *model.Carousel {
	n := len(courseSources)
	if n > maxCarouselItems {
		n = maxCarouselItems
	}

	items := make([]model.Card, 0, n)
	for _, c := range courseSources[:n] {
		items = append(items, model.Card{
			Title:       cleanTitle(c.Title),
			Description: truncate(c.Content),
			URL:         valueOr(c.URL, a.homeURL),
		})
	}

	return &model.Carousel{Items: items}
}

func cleanTitle(title string) string {
	title = sourceTagPrefix.ReplaceAllString(title, "")
	title = sourceTagSuffix.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

// truncate limits a description to descriptionLimit characters. The cut
// must land on a rune boundary or the carousel JSON ends up with broken
// UTF-8 in currency symbols and typographic quotes.
func truncate(content string) string {
	if runes := []rune(content); len(runes) > descriptionLimit {
		content = string(runes[:descriptionLimit])
	}
	content = strings.ReplaceAll(content, "\n", " ")
	return strings.TrimSpace(content) + "..."
}

func valueOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

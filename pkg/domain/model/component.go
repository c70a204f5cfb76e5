package model

import (
	"encoding/json"
	"fmt"
)

// ComponentMarker opens an embedded UI component directive in assistant
// output. The directive body is a JSON object, optionally followed by a
// closing "]".
const ComponentMarker = "[UI_COMPONENT:"

// Known component types carried in a directive's "type" field.
const (
	ComponentTypeCard     = "card"
	ComponentTypeCarousel = "carousel"
)

// Bare control tokens the assistant may emit anywhere in its output. They
// are stripped from the visible text and surfaced as flags to the client.
const (
	TokenLeadCapture  = "[LEAD_CAPTURE]"
	TokenHumanHandoff = "[HUMAN_HANDOFF]"
)

// Card is one rich result tile: a course, page or article link.
type Card struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Image       string `json:"image,omitempty"`
}

// Carousel is an ordered set of cards rendered as one swipeable row.
type Carousel struct {
	Items []Card `json:"items"`
}

// Token serializes the carousel as an embedded directive, the exact form
// the client-side renderer consumes.
func (c *Carousel) Token() string {
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return fmt.Sprintf(`%s {"type":%q,"data":%s}]`, ComponentMarker, ComponentTypeCarousel, data)
}

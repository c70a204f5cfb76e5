package directive_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/solveway/eli/pkg/service/directive"
)

const cardDirective = `[UI_COMPONENT: {"type": "card", "data": {"title": "ICT Level 3", "description": "Networks.", "url": "https://solveway.co.uk/courses/ict"}}]`

func TestScanner(t *testing.T) {
	t.Run("plain text flows through each feed", func(t *testing.T) {
		s := directive.NewScanner()

		evs := s.Feed("Hello ")
		gt.Array(t, evs).Length(1)
		gt.Value(t, evs[0].Kind).Equal(directive.EventText)
		gt.Value(t, evs[0].Text).Equal("Hello ")

		evs = s.Feed("there.")
		gt.Array(t, evs).Length(1)
		gt.Value(t, evs[0].Text).Equal("there.")

		gt.Array(t, s.Flush()).Length(0)
	})

	t.Run("marker split across chunks is held back", func(t *testing.T) {
		s := directive.NewScanner()

		evs := s.Feed("Look: [UI_COMP")
		gt.Array(t, evs).Length(1)
		gt.Value(t, evs[0].Text).Equal("Look: ")

		evs = s.Feed(`ONENT: {"type": "card", "data": `)
		gt.Array(t, evs).Length(0)

		evs = s.Feed(`{"title": "A", "description": "", "url": "u"}}] done`)
		gt.Array(t, evs).Length(2)
		gt.Value(t, evs[0].Kind).Equal(directive.EventCard)
		gt.Value(t, evs[0].Card.Title).Equal("A")
		gt.Value(t, evs[1].Text).Equal(" done")
	})

	t.Run("directive in one chunk completes immediately", func(t *testing.T) {
		s := directive.NewScanner()

		evs := s.Feed("Try this: " + cardDirective + " Any questions?")
		gt.Array(t, evs).Length(3)
		gt.Value(t, evs[0].Text).Equal("Try this: ")
		gt.Value(t, evs[1].Kind).Equal(directive.EventCard)
		gt.Value(t, evs[1].Card.URL).Equal("https://solveway.co.uk/courses/ict")
		gt.Value(t, evs[2].Text).Equal(" Any questions?")
	})

	t.Run("completed object waits for the trailing bracket", func(t *testing.T) {
		s := directive.NewScanner()

		evs := s.Feed(`[UI_COMPONENT: {"type": "card", "data": {"title": "A", "description": "", "url": "u"}}`)
		gt.Array(t, evs).Length(0)

		evs = s.Flush()
		gt.Array(t, evs).Length(1)
		gt.Value(t, evs[0].Kind).Equal(directive.EventCard)
	})

	t.Run("carousel across chunks", func(t *testing.T) {
		s := directive.NewScanner()

		var evs []directive.Event
		evs = append(evs, s.Feed(`[UI_COMPONENT: {"type": "carousel", "data": {"items": [`)...)
		evs = append(evs, s.Feed(`{"title": "A", "description": "", "url": "u"}, `)...)
		evs = append(evs, s.Feed(`{"title": "B", "description": "", "url": "v"}]}}]`)...)

		gt.Array(t, evs).Length(1)
		gt.Value(t, evs[0].Kind).Equal(directive.EventCarousel)
		gt.Array(t, evs[0].Carousel.Items).Length(2)
	})

	t.Run("control token split across chunks", func(t *testing.T) {
		s := directive.NewScanner()

		evs := s.Feed("Connecting you now. [HUMAN")
		gt.Array(t, evs).Length(1)
		gt.Value(t, evs[0].Text).Equal("Connecting you now. ")

		evs = s.Feed("_HANDOFF] Please hold.")
		gt.Array(t, evs).Length(2)
		gt.Value(t, evs[0].Kind).Equal(directive.EventHandoff)
		gt.Value(t, evs[1].Text).Equal(" Please hold.")
	})

	t.Run("lead capture token emits its event", func(t *testing.T) {
		s := directive.NewScanner()

		evs := s.Feed("Sure. [LEAD_CAPTURE]")
		gt.Array(t, evs).Length(2)
		gt.Value(t, evs[1].Kind).Equal(directive.EventLeadCapture)
	})

	t.Run("bare bracket is ordinary text", func(t *testing.T) {
		s := directive.NewScanner()

		evs := s.Feed("a [note] b")
		gt.Array(t, evs).Length(1)
		gt.Value(t, evs[0].Kind).Equal(directive.EventText)
		gt.Value(t, evs[0].Text).Equal("a [note] b")
	})

	t.Run("flush resolves an unterminated directive as text", func(t *testing.T) {
		s := directive.NewScanner()

		evs := s.Feed(`mid [UI_COMPONENT: {"type": "card"`)
		gt.Array(t, evs).Length(1)
		gt.Value(t, evs[0].Text).Equal("mid ")

		evs = s.Flush()
		gt.Array(t, evs).Length(1)
		gt.Value(t, evs[0].Kind).Equal(directive.EventText)
		gt.Value(t, evs[0].Text).Equal(` {"type": "card"`)
	})

	t.Run("malformed directive surfaces an error event", func(t *testing.T) {
		s := directive.NewScanner()

		evs := s.Feed(`[UI_COMPONENT: {"type": "card", "data": {"title": }}] tail`)
		gt.Array(t, evs).Length(2)
		gt.Value(t, evs[0].Kind).Equal(directive.EventError)
		gt.Bool(t, evs[0].Raw != "").True()
		gt.Value(t, evs[1].Text).Equal(" tail")
	})
}

package directive_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/solveway/eli/pkg/domain/model"
	"github.com/solveway/eli/pkg/service/directive"
)

func textSegments(p *directive.Parsed) []directive.Segment {
	var out []directive.Segment
	for _, s := range p.Segments {
		if s.Kind == directive.KindText {
			out = append(out, s)
		}
	}
	return out
}

func TestParse(t *testing.T) {
	t.Run("card directive leaves no residue in the text", func(t *testing.T) {
		in := `Here is a good fit: [UI_COMPONENT: {"type": "card", "data": {"title": "ICT Level 3", "description": "Networks and support.", "url": "https://solveway.co.uk/courses/ict"}}] Let me know if you want more.`

		p := directive.Parse(in)
		gt.Array(t, p.Cards).Length(1)
		gt.Value(t, p.Cards[0].Title).Equal("ICT Level 3")
		gt.Value(t, p.Cards[0].URL).Equal("https://solveway.co.uk/courses/ict")
		gt.Value(t, p.Carousel).Nil()

		plain := p.PlainText()
		gt.Bool(t, strings.Contains(plain, "[UI_COMPONENT")).False()
		gt.Bool(t, strings.Contains(plain, "{")).False()
		gt.Bool(t, strings.Contains(plain, "Here is a good fit:")).True()
		gt.Bool(t, strings.Contains(plain, "Let me know")).True()
	})

	t.Run("nested braces stay inside the directive", func(t *testing.T) {
		in := `Options: [UI_COMPONENT: {"type": "carousel", "data": {"items": [{"title": "A", "description": "", "url": "u"}, {"title": "B", "description": "", "url": "v"}]}}] done`

		p := directive.Parse(in)
		gt.Array(t, p.Segments).Length(3)
		gt.Value(t, p.Segments[1].Kind).Equal(directive.KindCarousel)
		gt.Array(t, p.Segments[1].Carousel.Items).Length(2)
		gt.Value(t, p.Segments[2].Text).Equal(" done")
	})

	t.Run("repair pass fixes common model mistakes", func(t *testing.T) {
		in := `[UI_COMPONENT: {type: 'card', data: {title: 'Accounting', description: 'AAT pathway', url: 'https://solveway.co.uk/courses/aat',}}]`

		p := directive.Parse(in)
		gt.Array(t, p.Cards).Length(1)
		gt.Value(t, p.Cards[0].Title).Equal("Accounting")
		gt.Value(t, p.Cards[0].Description).Equal("AAT pathway")
	})

	t.Run("unparseable directive becomes an error segment", func(t *testing.T) {
		in := `before [UI_COMPONENT: {"type": "card", "data": {"title": }}] after`

		p := directive.Parse(in)
		var errSeg *directive.Segment
		for i := range p.Segments {
			if p.Segments[i].Kind == directive.KindError {
				errSeg = &p.Segments[i]
			}
		}
		gt.Value(t, errSeg).NotNil().Required()
		gt.Bool(t, strings.Contains(errSeg.Raw, `"title"`)).True()
		gt.Value(t, p.PlainText()).Equal("before  after")
	})

	t.Run("two cards aggregate into an implicit carousel", func(t *testing.T) {
		in := `[UI_COMPONENT: {"type": "card", "data": {"title": "A", "description": "", "url": "u"}}]` +
			`[UI_COMPONENT: {"type": "card", "data": {"title": "B", "description": "", "url": "v"}}]`

		p := directive.Parse(in)
		gt.Value(t, p.Carousel).NotNil().Required()
		gt.Array(t, p.Carousel.Items).Length(2)
		gt.Value(t, p.Carousel.Items[0].Title).Equal("A")
	})

	t.Run("one card stays a card", func(t *testing.T) {
		in := `[UI_COMPONENT: {"type": "card", "data": {"title": "A", "description": "", "url": "u"}}]`

		p := directive.Parse(in)
		gt.Array(t, p.Cards).Length(1)
		gt.Value(t, p.Carousel).Nil()
	})

	t.Run("explicit carousel suppresses the implicit one", func(t *testing.T) {
		in := `[UI_COMPONENT: {"type": "card", "data": {"title": "A", "description": "", "url": "u"}}]` +
			`[UI_COMPONENT: {"type": "card", "data": {"title": "B", "description": "", "url": "v"}}]` +
			`[UI_COMPONENT: {"type": "carousel", "data": {"items": [{"title": "C", "description": "", "url": "w"}]}}]`

		p := directive.Parse(in)
		gt.Value(t, p.Carousel).Nil()
		gt.Array(t, p.Cards).Length(2)
		gt.Value(t, p.Segments[0].Kind).Equal(directive.KindCarousel)
	})

	t.Run("round trips the serialized carousel token", func(t *testing.T) {
		c := &model.Carousel{Items: []model.Card{
			{Title: "ICT Level 3", Description: "Networks.", URL: "https://solveway.co.uk/courses/ict"},
		}}

		p := directive.Parse("Take a look: " + c.Token())
		gt.Array(t, p.Segments).Length(2)
		gt.Value(t, p.Segments[1].Kind).Equal(directive.KindCarousel)
		gt.Value(t, p.Segments[1].Carousel.Items[0].Title).Equal("ICT Level 3")
	})

	t.Run("control tokens are stripped and flagged", func(t *testing.T) {
		p := directive.Parse("Happy to help. [LEAD_CAPTURE] Drop your details below.")
		gt.Bool(t, p.ShowLeadForm).True()
		gt.Bool(t, p.ShowHandoff).False()
		gt.Bool(t, strings.Contains(p.PlainText(), "[LEAD_CAPTURE]")).False()

		p = directive.Parse("Let me connect you. [HUMAN_HANDOFF]")
		gt.Bool(t, p.ShowHandoff).True()
		gt.Bool(t, strings.Contains(p.PlainText(), "HUMAN_HANDOFF")).False()
	})

	t.Run("unknown component type surfaces as error", func(t *testing.T) {
		p := directive.Parse(`[UI_COMPONENT: {"type": "chart", "data": {}}]`)
		gt.Array(t, p.Segments).Length(1)
		gt.Value(t, p.Segments[0].Kind).Equal(directive.KindError)
	})

	t.Run("unterminated directive keeps the tail textual", func(t *testing.T) {
		p := directive.Parse(`So far [UI_COMPONENT: {"type": "card", "data": {"ti`)
		segs := textSegments(p)
		gt.Array(t, segs).Length(2)
		gt.Value(t, segs[0].Text).Equal("So far ")
		gt.Array(t, p.Cards).Length(0)
	})

	t.Run("plain prose passes through untouched", func(t *testing.T) {
		p := directive.Parse("Just a normal answer with no markup.")
		gt.Array(t, p.Segments).Length(1)
		gt.Value(t, p.PlainText()).Equal("Just a normal answer with no markup.")
	})
}

package directive

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/solveway/eli/pkg/domain/model"
)

// SegmentKind discriminates the parsed output segments.
type SegmentKind int

const (
	// KindText is a prose fragment to render as-is.
	KindText SegmentKind = iota
	// KindCarousel is an explicit carousel directive rendered in place.
	KindCarousel
	// KindError is a directive whose JSON could not be parsed even after
	// the repair pass. Raw carries the captured span so the failure is
	// visible instead of silently dropped.
	KindError
)

// Segment is one ordered piece of the parsed assistant output.
type Segment struct {
	Kind     SegmentKind
	Text     string
	Carousel *model.Carousel
	Raw      string
}

// Parsed is the structured view of (possibly still-growing) assistant
// output. Re-running Parse on every received chunk is safe: the function is
// pure and an unterminated trailing directive simply stays textual until
// its closing brace arrives.
type Parsed struct {
	Segments []Segment

	// Cards accumulates card directives found anywhere in the text. One
	// card renders as a single compact card; two or more render as the
	// implicit Carousel below.
	Cards []model.Card

	// Carousel is the implicit aggregation of two or more accumulated
	// cards. It is nil when an explicit carousel directive was already
	// rendered in place, so the model emitting several single-card tokens
	// still gets one aggregated layout without doubling up.
	Carousel *model.Carousel

	// ShowLeadForm and ShowHandoff report the bare control tokens, which
	// are stripped from the text segments wherever they appear.
	ShowLeadForm bool
	ShowHandoff  bool
}

// directive is the wire shape of an embedded component token.
type directive struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// maxTrailingBracketGap bounds how far past the JSON close the optional
// directive-closing "]" may sit to be consumed.
const maxTrailingBracketGap = 5

// Parse extracts UI directives and control tokens from assistant output.
func Parse(text string) *Parsed {
	p := &Parsed{}

	var explicitCarousel bool
	pos := 0
	for pos < len(text) {
		markerIdx := strings.Index(text[pos:], model.ComponentMarker)
		if markerIdx < 0 {
			p.appendText(text[pos:])
			break
		}
		markerIdx += pos

		if markerIdx > pos {
			p.appendText(text[pos:markerIdx])
		}

		jsonStart := strings.IndexByte(text[markerIdx:], '{')
		if jsonStart < 0 {
			// Marker with no object start; drop the marker and move on.
			pos = markerIdx + len(model.ComponentMarker)
			continue
		}
		jsonStart += markerIdx

		jsonEnd := matchBrace(text, jsonStart)
		if jsonEnd < 0 {
			// Unterminated object: the stream is likely still growing.
			// Skip the marker; the tail stays textual for now.
			pos = markerIdx + len(model.ComponentMarker)
			continue
		}

		span := text[jsonStart:jsonEnd]
		d, err := parseDirective(span)
		switch {
		case err != nil:
			p.Segments = append(p.Segments, Segment{Kind: KindError, Raw: span})
		case d.Type == model.ComponentTypeCard:
			var card model.Card
			if err := json.Unmarshal(d.Data, &card); err != nil {
				p.Segments = append(p.Segments, Segment{Kind: KindError, Raw: span})
			} else {
				p.Cards = append(p.Cards, card)
			}
		case d.Type == model.ComponentTypeCarousel:
			var c model.Carousel
			if err := json.Unmarshal(d.Data, &c); err != nil {
				p.Segments = append(p.Segments, Segment{Kind: KindError, Raw: span})
			} else {
				explicitCarousel = true
				p.Segments = append(p.Segments, Segment{Kind: KindCarousel, Carousel: &c})
			}
		default:
			// Unknown component type; surface it rather than drop it.
			p.Segments = append(p.Segments, Segment{Kind: KindError, Raw: span})
		}

		pos = consumeTrailingBracket(text, jsonEnd)
	}

	if len(p.Cards) >= 2 && !explicitCarousel {
		p.Carousel = &model.Carousel{Items: p.Cards}
	}

	return p
}

// matchBrace walks forward from the opening brace at start and returns the
// index just past its balanced closing brace, or -1 when the object is not
// terminated. Counting depth handles nested JSON objects, which a naive
// search for the first closing brace would truncate.
func matchBrace(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// consumeTrailingBracket advances past the directive's optional closing
// "]" when it sits close enough to the JSON end.
func consumeTrailingBracket(text string, jsonEnd int) int {
	rel := strings.IndexByte(text[jsonEnd:], ']')
	if rel >= 0 && rel < maxTrailingBracketGap {
		return jsonEnd + rel + 1
	}
	return jsonEnd
}

// bareKeys only matches after an opening brace or a comma so that colons
// inside string values, URLs in particular, are left alone.
var (
	bareKeys       = regexp.MustCompile(`([{,]\s*)(\w+)\s*:`)
	trailingCommas = regexp.MustCompile(`,\s*([\]}])`)
)

// parseDirective tries strict JSON first, then a single lenient repair pass
// for the model's most common formatting mistakes: single quotes, unquoted
// keys and trailing commas.
func parseDirective(span string) (*directive, error) {
	var d directive
	if err := json.Unmarshal([]byte(span), &d); err == nil {
		return &d, nil
	}

	repaired := strings.ReplaceAll(span, "'", `"`)
	repaired = bareKeys.ReplaceAllString(repaired, `$1"$2":`)
	repaired = trailingCommas.ReplaceAllString(repaired, "$1")

	if err := json.Unmarshal([]byte(repaired), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// appendText records a text segment, stripping control tokens and raising
// the matching flags. Empty remainders are dropped.
func (p *Parsed) appendText(text string) {
	if strings.Contains(text, model.TokenLeadCapture) {
		p.ShowLeadForm = true
		text = strings.ReplaceAll(text, model.TokenLeadCapture, "")
	}
	if strings.Contains(text, model.TokenHumanHandoff) {
		p.ShowHandoff = true
		text = strings.ReplaceAll(text, model.TokenHumanHandoff, "")
	}
	if text == "" {
		return
	}
	p.Segments = append(p.Segments, Segment{Kind: KindText, Text: text})
}

// PlainText joins the text segments, which is what a non-rich consumer
// (history reconstruction, logs) should show.
func (p *Parsed) PlainText() string {
	var sb strings.Builder
	for _, s := range p.Segments {
		if s.Kind == KindText {
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

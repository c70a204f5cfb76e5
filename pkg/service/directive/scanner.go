package directive

import (
	"encoding/json"
	"strings"

	"github.com/solveway/eli/pkg/domain/model"
)

// EventKind discriminates scanner output events.
type EventKind int

const (
	// EventText is a prose fragment.
	EventText EventKind = iota
	// EventCard is a completed card directive.
	EventCard
	// EventCarousel is a completed carousel directive.
	EventCarousel
	// EventError is a directive that failed parsing; Raw carries the span.
	EventError
	// EventLeadCapture and EventHandoff are the bare control tokens.
	EventLeadCapture
	EventHandoff
)

// Event is one completed unit of streamed output.
type Event struct {
	Kind     EventKind
	Text     string
	Card     *model.Card
	Carousel *model.Carousel
	Raw      string
}

// Scanner is the incremental counterpart of Parse. It consumes stream
// chunks as they arrive and emits events as soon as they complete, carrying
// partial markers and open-brace depth across chunk boundaries instead of
// re-scanning the accumulated buffer on every chunk.
type Scanner struct {
	buf string
}

// NewScanner creates an empty incremental scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// tokens the scanner must never split across an emit boundary.
var holdTokens = []string{
	model.ComponentMarker,
	model.TokenLeadCapture,
	model.TokenHumanHandoff,
}

// Feed appends one stream chunk and returns the events completed by it.
// Input that may still grow into a directive or control token is held back
// until a later Feed or Flush decides it.
func (s *Scanner) Feed(chunk string) []Event {
	s.buf += chunk
	return s.drain(false)
}

// Flush resolves any held input at end of stream and returns the final
// events. An unterminated directive resolves the way Parse resolves it:
// the marker is dropped and the tail stays textual.
func (s *Scanner) Flush() []Event {
	return s.drain(true)
}

func (s *Scanner) drain(final bool) []Event {
	var events []Event

	for len(s.buf) > 0 {
		open := strings.IndexByte(s.buf, '[')
		if open < 0 {
			events = appendText(events, s.buf)
			s.buf = ""
			break
		}

		if open > 0 {
			events = appendText(events, s.buf[:open])
			s.buf = s.buf[open:]
		}

		tok, partial := matchToken(s.buf)
		if partial && !final {
			// Could still become a token; wait for more input.
			break
		}

		switch tok {
		case model.TokenLeadCapture:
			events = append(events, Event{Kind: EventLeadCapture})
			s.buf = s.buf[len(model.TokenLeadCapture):]
		case model.TokenHumanHandoff:
			events = append(events, Event{Kind: EventHandoff})
			s.buf = s.buf[len(model.TokenHumanHandoff):]
		case model.ComponentMarker:
			ev, consumed, done := s.scanDirective(final)
			if !done {
				return events
			}
			if ev != nil {
				events = append(events, *ev)
			}
			s.buf = s.buf[consumed:]
		default:
			// A bare bracket that matches no token.
			events = appendText(events, s.buf[:1])
			s.buf = s.buf[1:]
		}
	}

	return events
}

// matchToken checks whether buf starts with one of the recognized tokens.
// partial means buf is a proper prefix of at least one token and needs more
// input to decide.
func matchToken(buf string) (token string, partial bool) {
	for _, t := range holdTokens {
		if strings.HasPrefix(buf, t) {
			return t, false
		}
		if strings.HasPrefix(t, buf) {
			partial = true
		}
	}
	return "", partial
}

// scanDirective parses a directive at the start of buf (which begins with
// the marker). done is false when the object is still incomplete and the
// stream may deliver the rest; on a final drain the marker is dropped and
// the remainder is re-scanned as text.
func (s *Scanner) scanDirective(final bool) (ev *Event, consumed int, done bool) {
	jsonStart := strings.IndexByte(s.buf, '{')
	if jsonStart < 0 {
		if !final {
			return nil, 0, false
		}
		return nil, len(model.ComponentMarker), true
	}

	jsonEnd := matchBrace(s.buf, jsonStart)
	if jsonEnd < 0 {
		if !final {
			return nil, 0, false
		}
		return nil, len(model.ComponentMarker), true
	}

	// Wait for the optional trailing bracket window unless the stream is
	// over; it arrives within a few bytes if at all.
	if !final && len(s.buf)-jsonEnd < maxTrailingBracketGap && !strings.Contains(s.buf[jsonEnd:], "]") {
		return nil, 0, false
	}

	span := s.buf[jsonStart:jsonEnd]
	consumed = consumeTrailingBracket(s.buf, jsonEnd)

	d, err := parseDirective(span)
	if err != nil {
		return &Event{Kind: EventError, Raw: span}, consumed, true
	}

	switch d.Type {
	case model.ComponentTypeCard:
		var card model.Card
		if err := json.Unmarshal(d.Data, &card); err != nil {
			return &Event{Kind: EventError, Raw: span}, consumed, true
		}
		return &Event{Kind: EventCard, Card: &card}, consumed, true
	case model.ComponentTypeCarousel:
		var c model.Carousel
		if err := json.Unmarshal(d.Data, &c); err != nil {
			return &Event{Kind: EventError, Raw: span}, consumed, true
		}
		return &Event{Kind: EventCarousel, Carousel: &c}, consumed, true
	default:
		return &Event{Kind: EventError, Raw: span}, consumed, true
	}
}

func appendText(events []Event, text string) []Event {
	if text == "" {
		return events
	}
	// Merge adjacent text events so consumers see contiguous prose.
	if n := len(events); n > 0 && events[n-1].Kind == EventText {
		events[n-1].Text += text
		return events
	}
	return append(events, Event{Kind: EventText, Text: text})
}

package importer

import (
	"iter"
	"regexp"
	"strings"
)

var (
	lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

	startMarker = regexp.MustCompile(`^#{5,}\s*DATE:\s*(\d{4}-\d{2}-\d{2})\s*#{2,}$`)
	endMarker   = regexp.MustCompile(`^#{5,}\s*END\s*#{2,}$`)
	separator   = regexp.MustCompile(`^-{8,}$`)
)

type state int

const (
	seekingStart state = iota
	inTitle
	inBody
	seekingEnd
)

// Result is the outcome of Scan.
type Result struct {
	Drafts []Draft
	// Skipped counts blocks that were opened by a start marker but never
	// completed: missing title, missing end marker, or interrupted by
	// another start marker.
	Skipped int
}

// Parse returns the drafts found in text in order of appearance. The sequence
// is lazy and may be ranged over more than once. Incomplete blocks are
// dropped silently; use Scan to count them.
func Parse(text string) iter.Seq[Draft] {
	return func(yield func(Draft) bool) {
		s := newScanner(text)
		for {
			d, ok := s.next()
			if !ok || !yield(d) {
				return
			}
		}
	}
}

// Validate reports whether text contains at least one well-formed block.
// It does not guarantee that every block in text is well-formed.
func Validate(text string) bool {
	for range Parse(text) {
		return true
	}
	return false
}

// Scan parses the whole text and reports the number of skipped blocks.
func Scan(text string) Result {
	s := newScanner(text)
	var res Result
	for {
		d, ok := s.next()
		if !ok {
			break
		}
		res.Drafts = append(res.Drafts, d)
	}
	res.Skipped = s.skipped
	return res
}

type scanner struct {
	text    string
	pos     int
	skipped int
}

// newScanner drops a leading byte order mark and converts CRLF and bare CR
// line endings to LF.
func newScanner(text string) *scanner {
	text = strings.TrimPrefix(text, "\uFEFF")
	return &scanner{text: lineEndings.Replace(text)}
}

// line returns the next line without its terminator.
func (s *scanner) line() (string, bool) {
	if s.pos >= len(s.text) {
		return "", false
	}
	rest := s.text[s.pos:]
	i := strings.IndexByte(rest, '\n')
	if i < 0 {
		s.pos = len(s.text)
		return rest, true
	}
	s.pos += i + 1
	return rest[:i], true
}

// next advances to the end of the next complete block.
func (s *scanner) next() (Draft, bool) {
	var (
		st   = seekingStart
		d    Draft
		body []string
	)

	for {
		raw, ok := s.line()
		if !ok {
			if st != seekingStart {
				s.skipped++
			}
			return Draft{}, false
		}
		line := strings.TrimSpace(raw)

		if m := startMarker.FindStringSubmatch(line); m != nil {
			if st != seekingStart {
				s.skipped++
			}
			d = Draft{Date: m[1]}
			body = body[:0]
			st = inTitle
			continue
		}

		switch st {
		case seekingStart:

		case inTitle:
			switch {
			case line == "":
			case endMarker.MatchString(line), separator.MatchString(line):
				// a block must carry a title
				s.skipped++
				st = seekingStart
			default:
				d.Title = line
				st = inBody
			}

		case inBody:
			switch {
			case line == "":
			case endMarker.MatchString(line):
				return d, true
			case separator.MatchString(line):
				st = seekingEnd
			default:
				body = append(body, raw)
				st = seekingEnd
			}

		case seekingEnd:
			if endMarker.MatchString(line) {
				d.Body = strings.TrimSpace(strings.Join(body, "\n"))
				return d, true
			}
			body = append(body, raw)
		}
	}
}

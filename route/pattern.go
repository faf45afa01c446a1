package route

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// segmentValue is what a named segment (`:name`) accepts.
const segmentValue = `([a-zA-Z0-9\-_~ %]+)`

// Pattern is a compiled url pattern:
//
//	/users/:id          named segment
//	/files/*            wildcard, captured as "_" ("_1", "_2"... for the next ones)
//	/users(/:id)        optional part
//	/a\:b               escaped literal
//
// A pattern always has to match the whole path.
type Pattern struct {
	Source string
	regex  *regexp.Regexp
	names  []string
}

type PatternError struct {
	Pattern string
	Pos     int
	Msg     string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern '%s': %s at position %d", e.Pattern, e.Msg, e.Pos)
}

func CompilePattern(source string) (*Pattern, error) {

	if source == "" {
		return nil, &PatternError{Pattern: source, Msg: "empty pattern"}
	}

	p := &patternParser{
		src:  source,
		seen: map[string]bool{},
	}

	b := &strings.Builder{}
	b.WriteString("^")
	err := p.parse(b)
	if err != nil {
		return nil, err
	}
	b.WriteString("$")

	regex, err := regexp.Compile(b.String())
	if err != nil {
		return nil, &PatternError{Pattern: source, Msg: err.Error()}
	}

	return &Pattern{
		Source: source,
		regex:  regex,
		names:  p.names,
	}, nil
}

// Names of the captured parameters in declaration order.
func (p *Pattern) Names() []string {
	return append([]string{}, p.names...)
}

// Match returns the captured parameters when the whole path fits the
// pattern. Optional parts that did not participate are left out.
func (p *Pattern) Match(path string) (map[string]string, bool) {

	loc := p.regex.FindStringSubmatchIndex(path)
	if loc == nil {
		return nil, false
	}

	params := make(map[string]string, len(p.names))
	for i, name := range p.names {
		start, end := loc[2*(i+1)], loc[2*(i+1)+1]
		if start < 0 {
			continue
		}
		params[name] = path[start:end]
	}

	return params, true
}

type patternParser struct {
	src       string
	pos       int
	depth     int
	names     []string
	seen      map[string]bool
	wildcards int
}

func (p *patternParser) fail(pos int, msg string) error {
	return &PatternError{Pattern: p.src, Pos: pos, Msg: msg}
}

func (p *patternParser) parse(b *strings.Builder) error {

	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '(':
			open := p.pos
			p.pos++
			p.depth++
			b.WriteString("(?:")
			mark := b.Len()
			err := p.parse(b)
			if err != nil {
				return err
			}
			if b.Len() == mark+len(")?") {
				return p.fail(open, "empty optional part")
			}

		case ')':
			if p.depth == 0 {
				return p.fail(p.pos, "unexpected ')'")
			}
			p.pos++
			p.depth--
			b.WriteString(")?")
			return nil

		case ':':
			start := p.pos
			p.pos++
			for p.pos < len(p.src) && isNameChar(p.src[p.pos]) {
				p.pos++
			}
			name := p.src[start+1 : p.pos]
			if name == "" {
				return p.fail(start, "missing segment name")
			}
			if p.seen[name] {
				return p.fail(start, "duplicate segment name '"+name+"'")
			}
			p.seen[name] = true
			p.names = append(p.names, name)
			b.WriteString(segmentValue)

		case '*':
			name := "_"
			if p.wildcards > 0 {
				name += strconv.Itoa(p.wildcards)
			}
			if p.seen[name] {
				return p.fail(p.pos, "duplicate segment name '"+name+"'")
			}
			p.seen[name] = true
			p.wildcards++
			p.pos++
			p.names = append(p.names, name)
			b.WriteString("(.*?)")

		case '\\':
			if p.pos+1 >= len(p.src) {
				return p.fail(p.pos, "dangling escape")
			}
			b.WriteString(regexp.QuoteMeta(p.src[p.pos+1 : p.pos+2]))
			p.pos += 2

		default:
			b.WriteString(regexp.QuoteMeta(p.src[p.pos : p.pos+1]))
			p.pos++
		}
	}

	if p.depth > 0 {
		return p.fail(p.pos, "unclosed '('")
	}

	return nil
}

func isNameChar(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

package faker

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var placeholderRegex = regexp.MustCompile(`@([a-zA-Z]+)(?:\(([^)]*)\))?`)

// text substitutes the placeholders of s. Unknown placeholders are left as
// they are.
func (f *Faker) text(s string) (any, error) {

	if !strings.Contains(s, "@") {
		return s, nil
	}

	// a single placeholder keeps the type of its value
	if loc := placeholderRegex.FindStringSubmatchIndex(s); loc != nil && loc[0] == 0 && loc[1] == len(s) {
		name, args := placeholderParts(s, loc)
		v, known, err := f.placeholder(name, args)
		if err != nil {
			return nil, err
		}
		if known {
			return v, nil
		}
		return s, nil
	}

	var failure error
	result := placeholderRegex.ReplaceAllStringFunc(s, func(match string) string {
		loc := placeholderRegex.FindStringSubmatchIndex(match)
		name, args := placeholderParts(match, loc)
		v, known, err := f.placeholder(name, args)
		if err != nil {
			failure = err
			return match
		}
		if !known {
			return match
		}
		return fmt.Sprint(v)
	})
	if failure != nil {
		return nil, failure
	}

	return result, nil
}

func placeholderParts(s string, loc []int) (string, []string) {
	name := s[loc[2]:loc[3]]
	if loc[4] < 0 {
		return name, nil
	}
	return name, splitArgs(s[loc[4]:loc[5]])
}

// splitArgs splits placeholder arguments by commas, quotes group.
func splitArgs(s string) []string {
	args := []string{}
	current := &strings.Builder{}
	quote := byte(0)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			current.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
			current.WriteByte(c)
		case c == ',':
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	if strings.TrimSpace(current.String()) != "" || len(args) > 0 {
		args = append(args, strings.TrimSpace(current.String()))
	}

	return args
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func intArgs(name string, args []string, defaults ...int) ([]int, error) {
	result := append([]int{}, defaults...)
	for i, arg := range args {
		if i >= len(result) {
			break
		}
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return nil, fmt.Errorf("@%s: argument %d: %w", name, i+1, err)
		}
		result[i] = n
	}
	return result, nil
}

// placeholder returns the value of a placeholder, known is false when the
// name is not a placeholder.
func (f *Faker) placeholder(name string, args []string) (any, bool, error) {

	switch name {
	case "guid", "uuid":
		id, err := uuid.NewRandomFromReader(randReader{f})
		if err != nil {
			return nil, true, err
		}
		return id.String(), true, nil

	case "id":
		b := &strings.Builder{}
		b.WriteByte(byte('1' + f.rand.IntN(9)))
		for i := 1; i < 18; i++ {
			b.WriteByte(byte('0' + f.rand.IntN(10)))
		}
		return b.String(), true, nil

	case "integer", "int":
		n, err := intArgs(name, args, -10000, 10000)
		if err != nil {
			return nil, true, err
		}
		if n[1] < n[0] {
			n[0], n[1] = n[1], n[0]
		}
		return f.between(n[0], n[1]), true, nil

	case "natural":
		n, err := intArgs(name, args, 0, 10000)
		if err != nil {
			return nil, true, err
		}
		if n[0] < 0 {
			n[0] = 0
		}
		return f.between(n[0], n[1]), true, nil

	case "float":
		n, err := intArgs(name, args, 0, 100, 0, 3)
		if err != nil {
			return nil, true, err
		}
		return f.decimal(f.between(n[0], n[1]), f.between(n[2], n[3])), true, nil

	case "boolean", "bool":
		return f.rand.IntN(2) == 0, true, nil

	case "string":
		n, err := intArgs(name, args, 5, 10)
		if err != nil {
			return nil, true, err
		}
		if len(args) == 1 {
			n[1] = n[0]
		}
		size := f.between(n[0], n[1])
		b := make([]byte, size)
		for i := range b {
			b[i] = byte('a' + f.rand.IntN(26))
		}
		return string(b), true, nil

	case "word":
		return f.pickString(words), true, nil

	case "sentence":
		return f.sentence(), true, nil

	case "paragraph":
		sentences := make([]string, f.between(3, 5))
		for i := range sentences {
			sentences[i] = f.sentence()
		}
		return strings.Join(sentences, " "), true, nil

	case "title":
		parts := make([]string, f.between(3, 5))
		for i := range parts {
			parts[i] = capitalize(f.pickString(words))
		}
		return strings.Join(parts, " "), true, nil

	case "first":
		return f.pickString(firstNames), true, nil

	case "last":
		return f.pickString(lastNames), true, nil

	case "name":
		return f.pickString(firstNames) + " " + f.pickString(lastNames), true, nil

	case "email":
		return strings.ToLower(f.pickString(firstNames)) + "." +
			strings.ToLower(f.pickString(lastNames)) + "@" + f.pickString(domains), true, nil

	case "url":
		return "http://" + f.pickString(words) + "." + f.pickString(topLevelDomains) + "/" + f.pickString(words), true, nil

	case "ip":
		return fmt.Sprintf("%d.%d.%d.%d", f.between(1, 255), f.rand.IntN(256), f.rand.IntN(256), f.between(1, 254)), true, nil

	case "date":
		return f.randomTime().Format(layout(args, "2006-01-02")), true, nil

	case "time":
		return f.randomTime().Format(layout(args, "15:04:05")), true, nil

	case "datetime":
		return f.randomTime().Format(layout(args, "2006-01-02 15:04:05")), true, nil

	case "now":
		return f.Now().Format(layout(args, "2006-01-02 15:04:05")), true, nil

	case "city":
		return f.pickString(cities), true, nil

	case "color":
		return fmt.Sprintf("#%02x%02x%02x", f.rand.IntN(256), f.rand.IntN(256), f.rand.IntN(256)), true, nil

	case "pick":
		if len(args) == 0 {
			return nil, true, fmt.Errorf("@pick: no options")
		}
		return scalar(args[f.rand.IntN(len(args))]), true, nil
	}

	return nil, false, nil
}

// randReader feeds seeded uuids.
type randReader struct {
	f *Faker
}

func (r randReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.f.rand.IntN(256))
	}
	return len(p), nil
}

func (f *Faker) pickString(options []string) string {
	return options[f.rand.IntN(len(options))]
}

func (f *Faker) sentence() string {
	parts := make([]string, f.between(4, 9))
	for i := range parts {
		parts[i] = f.pickString(words)
	}
	return capitalize(strings.Join(parts, " ")) + "."
}

// randomTime is a moment of the ten years before Now.
func (f *Faker) randomTime() time.Time {
	span := int64(10 * 365 * 24 * time.Hour / time.Second)
	return f.Now().Add(-time.Duration(f.rand.Int64N(span)) * time.Second).Truncate(time.Second)
}

var layoutReplacer = strings.NewReplacer(
	"yyyy", "2006",
	"MM", "01",
	"dd", "02",
	"HH", "15",
	"mm", "04",
	"ss", "05",
)

// layout translates yyyy-MM-dd HH:mm:ss style formats.
func layout(args []string, fallback string) string {
	if len(args) == 0 || args[0] == "" {
		return fallback
	}
	return layoutReplacer.Replace(unquote(args[0]))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// scalar reads a @pick option: JSON literals keep their type, anything else
// is a string.
func scalar(s string) any {
	if len(s) > 0 && s[0] == '\'' {
		return unquote(s)
	}
	var v any
	err := json.Unmarshal([]byte(s), &v)
	if err != nil {
		return s
	}
	return v
}

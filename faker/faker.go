// Package faker renders response templates with random sample data.
//
// Object keys may carry a generation rule after a pipe:
//
//	"list|1-10": [{"id": "@guid"}]    array repeated 1 to 10 times
//	"list|1": ["a", "b", "c"]         one element picked
//	"age|18-60": 0                    integer in range
//	"price|1-100.2": 0                float with 2 decimals
//	"stars|3": "*"                    string repeated
//	"active|1": true                  random boolean
//	"pick|2": {"a": 1, "b": 2}        that many properties picked
//
// Strings may contain placeholders such as @name or @integer(1,10). A string
// made of a single placeholder yields the placeholder value with its own
// type (number, boolean...).
package faker

import (
	"errors"
	"fmt"
	mathrand "math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fulldump/mockdb/utils"
)

type Faker struct {
	// Now is the clock behind @now and the random dates
	Now func() time.Time

	mutex *sync.Mutex
	rand  *mathrand.Rand
}

// New returns a faker. A zero seed picks a random one.
func New(seed uint64) *Faker {
	if seed == 0 {
		seed = mathrand.Uint64()
	}
	return &Faker{
		Now:   time.Now,
		mutex: &sync.Mutex{},
		rand:  mathrand.New(mathrand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Generate renders a template. The template is not modified.
func (f *Faker) Generate(template any) (any, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.value(template)
}

func (f *Faker) value(template any) (any, error) {
	switch t := template.(type) {
	case map[string]any:
		return f.object(t)
	case []any:
		return f.array(t)
	case string:
		return f.text(t)
	default:
		return t, nil
	}
}

func (f *Faker) object(template map[string]any) (map[string]any, error) {

	keys := utils.GetKeys(template)

	result := make(map[string]any, len(template))
	for _, key := range keys {
		name, rule, err := parseKey(key)
		if err != nil {
			return nil, err
		}

		var v any
		if rule == nil {
			v, err = f.value(template[key])
		} else {
			v, err = f.withRule(template[key], rule)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		result[name] = v
	}

	return result, nil
}

func (f *Faker) array(template []any) ([]any, error) {
	result := make([]any, 0, len(template))
	for _, item := range template {
		v, err := f.value(item)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

// rule is the part of a key after the pipe: min-max.dmin-dmax
type rule struct {
	min, max   int
	decimals   bool
	dmin, dmax int
}

var ruleRegex = regexp.MustCompile(`^(\d+)(?:-(\d+))?(?:\.(\d+)(?:-(\d+))?)?$`)

var ErrBadRule = errors.New("bad generation rule")

func parseKey(key string) (string, *rule, error) {

	i := strings.LastIndex(key, "|")
	if i < 0 {
		return key, nil, nil
	}

	name, spec := key[:i], key[i+1:]
	m := ruleRegex.FindStringSubmatch(spec)
	if m == nil {
		return "", nil, fmt.Errorf("%w '%s' in '%s'", ErrBadRule, spec, key)
	}

	r := &rule{}
	r.min, _ = strconv.Atoi(m[1])
	r.max = r.min
	if m[2] != "" {
		r.max, _ = strconv.Atoi(m[2])
	}
	if m[3] != "" {
		r.decimals = true
		r.dmin, _ = strconv.Atoi(m[3])
		r.dmax = r.dmin
		if m[4] != "" {
			r.dmax, _ = strconv.Atoi(m[4])
		}
	}
	if r.max < r.min || r.dmax < r.dmin {
		return "", nil, fmt.Errorf("%w '%s' in '%s': inverted range", ErrBadRule, spec, key)
	}

	return name, r, nil
}

func (f *Faker) between(min, max int) int {
	if max <= min {
		return min
	}
	return min + f.rand.IntN(max-min+1)
}

func (f *Faker) count(r *rule) int {
	return f.between(r.min, r.max)
}

func (f *Faker) withRule(template any, r *rule) (any, error) {
	switch t := template.(type) {

	case string:
		n := f.count(r)
		b := &strings.Builder{}
		for i := 0; i < n; i++ {
			s, err := f.text(t)
			if err != nil {
				return nil, err
			}
			b.WriteString(fmt.Sprint(s))
		}
		return b.String(), nil

	case bool:
		// "name|min-max": true is true with probability min/(min+max)
		if r.min == r.max {
			return f.rand.IntN(2) == 0, nil
		}
		if f.rand.IntN(r.min+r.max) < r.min {
			return t, nil
		}
		return !t, nil

	case []any:
		if r.min == 1 && r.max == 1 && !r.decimals {
			if len(t) == 0 {
				return nil, nil
			}
			return f.value(t[f.rand.IntN(len(t))])
		}
		n := f.count(r)
		result := make([]any, 0, n*len(t))
		for i := 0; i < n; i++ {
			items, err := f.array(t)
			if err != nil {
				return nil, err
			}
			result = append(result, items...)
		}
		return result, nil

	case map[string]any:
		keys := utils.GetKeys(t)
		f.rand.Shuffle(len(keys), func(i, j int) {
			keys[i], keys[j] = keys[j], keys[i]
		})
		n := f.count(r)
		if n > len(keys) {
			n = len(keys)
		}
		picked := make(map[string]any, n)
		for _, k := range keys[:n] {
			picked[k] = t[k]
		}
		return f.object(picked)
	}

	if _, ok := toFloat(template); ok {
		integer := f.count(r)
		if !r.decimals {
			return integer, nil
		}
		return f.decimal(integer, f.between(r.dmin, r.dmax)), nil
	}

	return f.value(template)
}

// decimal is integer plus a random fraction of d digits.
func (f *Faker) decimal(integer, d int) float64 {
	if d <= 0 {
		return float64(integer)
	}
	frac := float64(f.rand.IntN(pow10(d))) / float64(pow10(d))
	if integer < 0 {
		frac = -frac
	}
	v, _ := strconv.ParseFloat(strconv.FormatFloat(float64(integer)+frac, 'f', d, 64), 64)
	return v
}

func pow10(n int) int {
	p := 1
	for i := 0; i < n && i < 15; i++ {
		p *= 10
	}
	return p
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

package route

import (
	"testing"

	. "github.com/fulldump/biff"
)

func TestPattern_Match(t *testing.T) {

	cases := []struct {
		pattern string
		path    string
		params  map[string]string
		match   bool
	}{
		{"/users", "/users", map[string]string{}, true},
		{"/users", "/users/", nil, false},
		{"/users/:id", "/users/42", map[string]string{"id": "42"}, true},
		{"/users/:id", "/users/42/posts", nil, false},
		{"/users/:id", "/users/", nil, false},
		{"/users/:id/posts/:post", "/users/7/posts/a-b_c", map[string]string{"id": "7", "post": "a-b_c"}, true},
		{"/users/:id", "/users/john doe", map[string]string{"id": "john doe"}, true},
		{"/files/*", "/files/a/b/c.txt", map[string]string{"_": "a/b/c.txt"}, true},
		{"/*/x/*", "/a/x/b", map[string]string{"_": "a", "_1": "b"}, true},
		{"/users(/:id)", "/users", map[string]string{}, true},
		{"/users(/:id)", "/users/3", map[string]string{"id": "3"}, true},
		{`/a\:b`, "/a:b", map[string]string{}, true},
		{"/v1.0/x", "/v1a0/x", nil, false},
	}

	for _, c := range cases {
		p, err := CompilePattern(c.pattern)
		AssertNil(err)

		params, match := p.Match(c.path)
		if match != c.match {
			t.Errorf("pattern '%s' path '%s': match %v, expected %v", c.pattern, c.path, match, c.match)
			continue
		}
		if match {
			AssertEqual(params, c.params)
		}
	}
}

func TestPattern_Names(t *testing.T) {

	p, err := CompilePattern("/:a/*/(:b)")

	AssertNil(err)
	AssertEqual(p.Names(), []string{"a", "_", "b"})
}

func TestCompilePattern_Errors(t *testing.T) {

	for _, pattern := range []string{
		"",
		"/users/(:id",
		"/users/:id)",
		"/users/:/x",
		"/:id/:id",
		"/users()",
		`/users\`,
	} {
		_, err := CompilePattern(pattern)
		if err == nil {
			t.Errorf("pattern '%s' should fail", pattern)
		}
	}
}

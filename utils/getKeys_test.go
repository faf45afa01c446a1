package utils

import (
	"testing"

	. "github.com/fulldump/biff"
)

func TestGetKeys(t *testing.T) {

	AssertEqual(GetKeys(map[string]int{"b": 2, "c": 3, "a": 1}), []string{"a", "b", "c"})
	AssertEqual(GetKeys(map[string]bool{}), []string{})
}

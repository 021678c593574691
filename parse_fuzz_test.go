//go:build go1.18
// +build go1.18

package reals_test

import (
	"strings"
	"testing"

	"github.com/zephyrtronium/reals"
)

func FuzzParse(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("1×2")
	f.Add("exp(x, y)")
	f.Fuzz(func(t *testing.T, s string) {
		e, err := reals.Parse(strings.NewReader(s))
		if err == nil {
			_ = e.String()
		}
	})
}

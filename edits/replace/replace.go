package replace

import (
	"strings"
	"unicode/utf8"

	"github.com/Tsinling0525/flowpatch/model"
	"github.com/Tsinling0525/flowpatch/plugin"
)

// Replace substitutes every occurrence of rule.Old with rule.New.
type Replace struct{}

func (Replace) Apply(value string, rule model.Rule) plugin.Result {
	if !strings.Contains(value, rule.Old) {
		return plugin.Result{Value: value, Note: "no occurrence of " + quote(rule.Old)}
	}
	next := strings.ReplaceAll(value, rule.Old, rule.New)
	if next == value {
		return plugin.Result{Value: value, Note: "unchanged"}
	}
	return plugin.Result{Value: next, Changed: true}
}

// Suffix swaps a trailing rule.Old for rule.New.
type Suffix struct{}

func (Suffix) Apply(value string, rule model.Rule) plugin.Result {
	if !strings.HasSuffix(value, rule.Old) {
		return plugin.Result{Value: value, Note: "does not end with " + quote(rule.Old)}
	}
	next := strings.TrimSuffix(value, rule.Old) + rule.New
	if next == value {
		return plugin.Result{Value: value, Note: "unchanged"}
	}
	return plugin.Result{Value: next, Changed: true}
}

func quote(s string) string {
	const max = 40
	if utf8.RuneCountInString(s) > max {
		s = string([]rune(s)[:max]) + "..."
	}
	return `"` + s + `"`
}

func init() {
	plugin.Register(model.OpReplace, func() plugin.EditHandler { return Replace{} })
	plugin.Register(model.OpReplaceSuffix, func() plugin.EditHandler { return Suffix{} })
}

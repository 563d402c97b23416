package assign

import (
	"github.com/Tsinling0525/flowpatch/model"
	"github.com/Tsinling0525/flowpatch/plugin"
)

// Assign overwrites the field with the rule's literal value. Used for URL
// swaps and body template replacement.
type Assign struct{}

func (Assign) Apply(value string, rule model.Rule) plugin.Result {
	if value == rule.New {
		return plugin.Result{Value: value, Note: "already set"}
	}
	return plugin.Result{Value: rule.New, Changed: true}
}

func init() { plugin.Register(model.OpSet, func() plugin.EditHandler { return Assign{} }) }

package block

import (
	"strings"

	"github.com/Tsinling0525/flowpatch/model"
	"github.com/Tsinling0525/flowpatch/plugin"
)

// Block replaces an exact, byte-for-byte block of script text. A script
// whose block has drifted is left alone rather than partially matched.
type Block struct{}

func (Block) Apply(value string, rule model.Rule) plugin.Result {
	if !strings.Contains(value, rule.Old) {
		note := "expected block not found verbatim"
		if rule.New != "" && strings.Contains(value, rule.New) {
			note += " (replacement block already present)"
		}
		return plugin.Result{Value: value, Note: note, Kind: model.KindScriptBlockNotFound}
	}
	return plugin.Result{Value: strings.ReplaceAll(value, rule.Old, rule.New), Changed: true}
}

func init() { plugin.Register(model.OpReplaceBlock, func() plugin.EditHandler { return Block{} }) }

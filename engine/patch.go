package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/tidwall/gjson"

	"github.com/Tsinling0525/flowpatch/format/n8n"
	"github.com/Tsinling0525/flowpatch/model"
	"github.com/Tsinling0525/flowpatch/plugin"
)

type compiledRule struct {
	rule    model.Rule
	handler plugin.EditHandler
	match   func(name string) bool
}

func compileRule(rule model.Rule) (compiledRule, error) {
	if err := rule.Validate(); err != nil {
		return compiledRule{}, err
	}
	handler, ok := plugin.New(rule.Op)
	if !ok {
		return compiledRule{}, fmt.Errorf("%w: unknown op %q for node %q", model.ErrInvalidRule, rule.Op, rule.Node)
	}
	c := compiledRule{rule: rule, handler: handler}
	switch rule.Match {
	case model.MatchGlob:
		g, err := glob.Compile(rule.Node)
		if err != nil {
			return compiledRule{}, fmt.Errorf("%w: bad glob %q: %v", model.ErrInvalidRule, rule.Node, err)
		}
		c.match = g.Match
	default:
		c.match = func(name string) bool { return name == rule.Node }
	}
	return c, nil
}

// Patch applies rules in order to every node they select. All rules are
// checked before the first edit, so a bad rule leaves wf untouched. Nodes
// that cannot take an edit are reported as diagnostics and the pass goes on.
func (e *Engine) Patch(ctx context.Context, wf *n8n.Workflow, rules []model.Rule) (model.Report, error) {
	var report model.Report
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		c, err := compileRule(rule)
		if err != nil {
			return report, err
		}
		compiled = append(compiled, c)
	}

	for _, c := range compiled {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		hits := 0
		for i := range wf.Nodes {
			node := &wf.Nodes[i]
			if !c.match(node.Name) {
				continue
			}
			hits++
			if err := e.applyRule(ctx, node, c, &report); err != nil {
				return report, err
			}
		}
		if hits == 0 {
			report.Diagnose(model.KindNodeNotFound, c.rule.Node, "no node matches rule %q", c.rule.Label())
		}
	}
	return report, nil
}

func (e *Engine) applyRule(ctx context.Context, node *n8n.Node, c compiledRule, report *model.Report) error {
	rule := c.rule
	outcome := model.Outcome{Node: node.Name, Action: rule.Label()}

	current := node.Param(rule.Field)
	if current.Exists() && current.Type != gjson.String {
		report.Diagnose(model.KindFieldNotString, node.Name, "parameters.%s is %s, not a string", rule.Field, current.Type)
		outcome.Detail = "field is not a string"
		report.Record(outcome)
		return nil
	}
	value := current.String()

	switch {
	case rule.IfContains != "" && !strings.Contains(value, rule.IfContains):
		outcome.Detail = fmt.Sprintf("skipped: does not contain %q", rule.IfContains)
	case rule.UnlessContains != "" && strings.Contains(value, rule.UnlessContains):
		outcome.Detail = fmt.Sprintf("skipped: already contains %q", rule.UnlessContains)
	default:
		res := c.handler.Apply(value, rule)
		outcome.Detail = res.Note
		if res.Kind != "" {
			report.Diagnose(res.Kind, node.Name, "%s on parameters.%s: %s", rule.Op, rule.Field, res.Note)
		}
		if res.Changed {
			if err := node.SetParamString(rule.Field, res.Value); err != nil {
				return err
			}
			outcome.Changed = true
		}
	}

	report.Record(outcome)
	event := "edit_skipped"
	if outcome.Changed {
		event = "edit_applied"
	}
	e.emit(ctx, event, map[string]any{"node": node.Name, "rule": rule.Label(), "detail": outcome.Detail})
	return nil
}

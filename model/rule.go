package model

import "fmt"

// Op names an edit kind. Each kind is served by a handler registered in the
// plugin registry.
type Op string

const (
	OpSet           Op = "set"
	OpReplace       Op = "replace"
	OpReplaceSuffix Op = "replace_suffix"
	OpReplaceBlock  Op = "replace_block"
)

// Match selects how Rule.Node is compared to node names.
type Match string

const (
	MatchExact Match = "exact"
	MatchGlob  Match = "glob"
)

// Rule is one declarative field edit: select nodes by name, then rewrite a
// string field under the node's parameters.
type Rule struct {
	Node           string `yaml:"node" json:"node"`
	Match          Match  `yaml:"match,omitempty" json:"match,omitempty"`
	Field          string `yaml:"field" json:"field"`
	Op             Op     `yaml:"op" json:"op"`
	Old            string `yaml:"old,omitempty" json:"old,omitempty"`
	New            string `yaml:"new" json:"new"`
	IfContains     string `yaml:"if_contains,omitempty" json:"if_contains,omitempty"`
	UnlessContains string `yaml:"unless_contains,omitempty" json:"unless_contains,omitempty"`
	Note           string `yaml:"note,omitempty" json:"note,omitempty"`
}

// RuleSet is the on-disk shape of a rules file.
type RuleSet struct {
	Rules []Rule `yaml:"rules" json:"rules"`
}

// Validate checks the rule is complete enough to apply.
func (r Rule) Validate() error {
	if r.Node == "" {
		return fmt.Errorf("%w: node is required", ErrInvalidRule)
	}
	if r.Field == "" {
		return fmt.Errorf("%w: field is required for node %q", ErrInvalidRule, r.Node)
	}
	switch r.Match {
	case "", MatchExact, MatchGlob:
	default:
		return fmt.Errorf("%w: unknown match %q for node %q", ErrInvalidRule, r.Match, r.Node)
	}
	switch r.Op {
	case OpSet:
	case OpReplace, OpReplaceSuffix, OpReplaceBlock:
		if r.Old == "" {
			return fmt.Errorf("%w: op %s needs old for node %q", ErrInvalidRule, r.Op, r.Node)
		}
	case "":
		return fmt.Errorf("%w: op is required for node %q", ErrInvalidRule, r.Node)
	}
	return nil
}

// Label is a short description used in outcomes and logs.
func (r Rule) Label() string {
	if r.Note != "" {
		return r.Note
	}
	return fmt.Sprintf("%s %s", r.Op, r.Field)
}

package model

import "fmt"

// Kind classifies a non-fatal anomaly found while migrating, patching or
// validating a workflow.
type Kind string

const (
	KindMissingReplacementSpec Kind = "MissingReplacementSpec"
	KindDanglingConnection     Kind = "DanglingConnection"
	KindScriptBlockNotFound    Kind = "ScriptBlockNotFound"
	KindNodeNotFound           Kind = "NodeNotFound"
	KindDuplicateNodeID        Kind = "DuplicateNodeID"
	KindDuplicateNodeName      Kind = "DuplicateNodeName"
	KindFieldNotString         Kind = "FieldNotString"
	KindInvalidOnError         Kind = "InvalidOnError"
)

// Diagnostic is one per-node anomaly. Diagnostics never abort a run.
type Diagnostic struct {
	Kind    Kind
	Node    string
	Message string
}

func (d Diagnostic) String() string {
	if d.Node == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", d.Kind, d.Node, d.Message)
}

// Outcome records what happened to a single node during a pass.
type Outcome struct {
	Node    string
	Action  string
	Changed bool
	Detail  string
}

// Report accumulates the per-node outcomes and diagnostics of one pass.
type Report struct {
	Modified    int
	Outcomes    []Outcome
	Diagnostics []Diagnostic
}

func (r *Report) Record(o Outcome) {
	if o.Changed {
		r.Modified++
	}
	r.Outcomes = append(r.Outcomes, o)
}

func (r *Report) Diagnose(kind Kind, node, format string, args ...any) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: kind, Node: node, Message: fmt.Sprintf(format, args...)})
}

// Merge appends other's outcomes and diagnostics to r.
func (r *Report) Merge(other Report) {
	r.Modified += other.Modified
	r.Outcomes = append(r.Outcomes, other.Outcomes...)
	r.Diagnostics = append(r.Diagnostics, other.Diagnostics...)
}

// Count returns the number of diagnostics of the given kind.
func (r *Report) Count(kind Kind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

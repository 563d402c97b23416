package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tsinling0525/flowpatch/engine"
	"github.com/Tsinling0525/flowpatch/format/n8n"
	"github.com/Tsinling0525/flowpatch/infra"
	"github.com/Tsinling0525/flowpatch/infra/api"
	"github.com/Tsinling0525/flowpatch/model"
)

type migrateOpts struct {
	input   string
	catalog string
	out     string
	targets []string
	dryRun  bool
}

func (rt *runtime) migrate(ctx context.Context, o migrateOpts) error {
	wf, err := infra.LoadWorkflow(ctx, rt.files, o.input)
	if err != nil {
		return err
	}
	data, err := rt.files.Read(ctx, o.catalog)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	catalog, err := engine.ParseCatalog(data)
	if err != nil {
		return fmt.Errorf("%s: %w", o.catalog, err)
	}
	rt.logger.Info("workflow loaded", "path", o.input, "nodes", len(wf.Nodes), "replacements", len(catalog.Replacements))

	before, err := n8n.Encode(wf)
	if err != nil {
		return err
	}
	if !o.dryRun {
		backup, err := rt.backups.Save(ctx, wf, o.input)
		if err != nil {
			return err
		}
		rt.logger.Info("backup written", "path", backup)
	}

	m, err := rt.engine.Migrate(ctx, wf, catalog, o.targets)
	if err != nil {
		return err
	}
	v := engine.ValidateConnections(wf, m.Renamed)

	report := m.Report
	report.Merge(v.Report)
	rt.logDiagnostics(report)

	out := firstNonEmpty(o.out, infra.OutputPath(o.input, rt.cfg.Migrate.Suffix))
	if err := rt.finish(ctx, wf, o.input, out, before, o.dryRun); err != nil {
		return err
	}

	printHeader(rt.out, "Migration")
	printReport(rt.out, report)
	fmt.Fprintf(rt.out, "Targeted: %d  Replaced: %d  Total nodes: %d  Connections checked: %d\n",
		len(m.Targeted), report.Modified, len(wf.Nodes), v.Examined)
	return nil
}

type patchOpts struct {
	input  string
	out    string
	dryRun bool
}

func (rt *runtime) patch(ctx context.Context, o patchOpts) error {
	rules, err := rt.cfg.LoadRules()
	if err != nil {
		return err
	}
	wf, err := infra.LoadWorkflow(ctx, rt.files, o.input)
	if err != nil {
		return err
	}
	rt.logger.Info("workflow loaded", "path", o.input, "nodes", len(wf.Nodes), "rules", len(rules))

	before, err := n8n.Encode(wf)
	if err != nil {
		return err
	}
	if !o.dryRun {
		backup, err := rt.backups.Save(ctx, wf, o.input)
		if err != nil {
			return err
		}
		rt.logger.Info("backup written", "path", backup)
	}

	report, err := rt.engine.Patch(ctx, wf, rules)
	if err != nil {
		return err
	}
	v := engine.ValidateConnections(wf, nil)
	report.Merge(v.Report)
	rt.logDiagnostics(report)

	out := firstNonEmpty(o.out, infra.OutputPath(o.input, rt.cfg.Patch.Suffix))
	if err := rt.finish(ctx, wf, o.input, out, before, o.dryRun); err != nil {
		return err
	}

	printHeader(rt.out, "Patch")
	printReport(rt.out, report)
	fmt.Fprintf(rt.out, "Total modified: %d  Connections checked: %d\n", report.Modified, v.Examined)
	return nil
}

// finish writes the result, or prints what would change on a dry run.
func (rt *runtime) finish(ctx context.Context, wf *n8n.Workflow, input, out string, before []byte, dryRun bool) error {
	after, err := n8n.Encode(wf)
	if err != nil {
		return err
	}
	if dryRun {
		printDiff(rt.out, before, after, input, out)
		return nil
	}
	if err := infra.SaveOutput(ctx, rt.files, wf, input, out); err != nil {
		return err
	}
	rt.logger.Info("output written", "path", out)
	return nil
}

func (rt *runtime) validate(ctx context.Context, input string) error {
	wf, err := infra.LoadWorkflow(ctx, rt.files, input)
	if err != nil {
		return err
	}
	v := engine.ValidateConnections(wf, nil)
	rt.logDiagnostics(v.Report)
	printHeader(rt.out, "Validation")
	printReport(rt.out, v.Report)
	fmt.Fprintf(rt.out, "Nodes: %d  Connections checked: %d  Problems: %d\n",
		len(wf.Nodes), v.Examined, len(v.Report.Diagnostics))
	return nil
}

func (rt *runtime) backup(ctx context.Context, input string) error {
	wf, err := infra.LoadWorkflow(ctx, rt.files, input)
	if err != nil {
		return err
	}
	path, err := rt.backups.Save(ctx, wf, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(rt.out, "Backup: %s\n", path)
	return nil
}

type pushOpts struct {
	input      string
	workflowID string
}

func (rt *runtime) push(ctx context.Context, client *api.Client, o pushOpts) error {
	wf, err := infra.LoadWorkflow(ctx, rt.files, o.input)
	if err != nil {
		return err
	}
	v := engine.ValidateConnections(wf, nil)
	rt.logDiagnostics(v.Report)

	rt.logger.Info("updating workflow", "id", o.workflowID, "nodes", len(wf.Nodes))
	res, err := client.UpdateWorkflow(ctx, o.workflowID, wf)
	if err != nil {
		var te *model.TransportError
		if errors.As(err, &te) {
			printFailure(rt.out, fmt.Sprintf("HTTP %d: %s", te.Status, te.Body))
		}
		return err
	}
	printSuccess(rt.out, fmt.Sprintf("HTTP %d", res.Status))
	fmt.Fprintf(rt.out, "Workflow: %s | Nodes: %d\n", res.Name, res.Nodes)
	return nil
}

type diffOpts struct {
	oldPath string
	newPath string
}

func (rt *runtime) diff(ctx context.Context, o diffOpts) error {
	oldWF, err := infra.LoadWorkflow(ctx, rt.files, o.oldPath)
	if err != nil {
		return err
	}
	newWF, err := infra.LoadWorkflow(ctx, rt.files, o.newPath)
	if err != nil {
		return err
	}
	a, err := n8n.Encode(oldWF)
	if err != nil {
		return err
	}
	b, err := n8n.Encode(newWF)
	if err != nil {
		return err
	}
	printDiff(rt.out, a, b, o.oldPath, o.newPath)
	return nil
}

func (rt *runtime) logDiagnostics(report model.Report) {
	for _, d := range report.Diagnostics {
		rt.logger.Warn(d.Message, "kind", string(d.Kind), "node", d.Node)
	}
}

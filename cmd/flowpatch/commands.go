package main

import (
	"github.com/deepnoodle-ai/wonton/cli"

	"github.com/Tsinling0525/flowpatch/config"
	"github.com/Tsinling0525/flowpatch/infra/api"
)

func registerCommands(app *cli.App) {
	app.Command("migrate").
		Description("Replace legacy nodes with catalog nodes that keep their ids").
		Args("workflow?").
		Flags(
			cli.String("catalog", "").Env("FLOWPATCH_CATALOG").Help("Replacement catalog (JSON)"),
			cli.Strings("target", "t").Help("Legacy node id to replace; repeatable (default: config targets, else the whole catalog)"),
			cli.String("out", "o").Help("Output file (default: <workflow>.migrated.json)"),
			cli.Bool("dry-run", "n").Help("Print a diff instead of writing files"),
		).
		Run(func(c *cli.Context) error {
			ctx, rt, stop, err := setup(c)
			if err != nil {
				return err
			}
			defer stop()
			o := migrateOpts{
				input:   firstNonEmpty(arg(c, 0), rt.cfg.Workflow),
				catalog: firstNonEmpty(c.String("catalog"), rt.cfg.Migrate.Catalog),
				out:     c.String("out"),
				targets: c.Strings("target"),
				dryRun:  c.Bool("dry-run"),
			}
			if o.input == "" {
				return usageError("no workflow file given")
			}
			if o.catalog == "" {
				return usageError("no catalog given (--catalog or migrate.catalog)")
			}
			if len(o.targets) == 0 {
				o.targets = rt.cfg.TargetIDs()
			}
			return rt.migrate(ctx, o)
		})

	app.Command("patch").
		Description("Apply field-level patch rules to named nodes").
		Args("workflow?").
		Flags(
			cli.String("rules", "r").Help("Rules file (YAML); overrides patch.rules_file, FLOWPATCH_RULES and inline patch.rules"),
			cli.String("out", "o").Help("Output file (default: <workflow>.patched.json)"),
			cli.Bool("dry-run", "n").Help("Print a diff instead of writing files"),
		).
		Run(func(c *cli.Context) error {
			ctx, rt, stop, err := setup(c)
			if err != nil {
				return err
			}
			defer stop()
			if rules := c.String("rules"); rules != "" {
				rt.cfg.Patch.RulesFile = rules
			}
			o := patchOpts{
				input:  firstNonEmpty(arg(c, 0), rt.cfg.Workflow),
				out:    c.String("out"),
				dryRun: c.Bool("dry-run"),
			}
			if o.input == "" {
				return usageError("no workflow file given")
			}
			return rt.patch(ctx, o)
		})

	app.Command("validate").
		Description("Check connections against node names and ids").
		Args("workflow?").
		Run(func(c *cli.Context) error {
			ctx, rt, stop, err := setup(c)
			if err != nil {
				return err
			}
			defer stop()
			input := firstNonEmpty(arg(c, 0), rt.cfg.Workflow)
			if input == "" {
				return usageError("no workflow file given")
			}
			return rt.validate(ctx, input)
		})

	app.Command("backup").
		Description("Write a timestamped copy of the workflow").
		Args("workflow?").
		Run(func(c *cli.Context) error {
			ctx, rt, stop, err := setup(c)
			if err != nil {
				return err
			}
			defer stop()
			input := firstNonEmpty(arg(c, 0), rt.cfg.Workflow)
			if input == "" {
				return usageError("no workflow file given")
			}
			return rt.backup(ctx, input)
		})

	app.Command("push").
		Description("PUT the workflow file to the n8n API").
		Args("workflow?").
		Flags(
			cli.String("url", "").Env("N8N_API_URL").Help("API base URL, e.g. https://n8n.example.com/api/v1"),
			cli.String("workflow-id", "w").Env("N8N_WORKFLOW_ID").Help("Remote workflow id"),
			cli.Int("timeout", "").Help("Request timeout in seconds (default: api.timeout_seconds, N8N_API_TIMEOUT, else 60)"),
		).
		Run(func(c *cli.Context) error {
			ctx, rt, stop, err := setup(c)
			if err != nil {
				return err
			}
			defer stop()
			applyPushFlags(rt.cfg, c.String("url"), c.Int("timeout"))
			o := pushOpts{
				input:      firstNonEmpty(arg(c, 0), rt.cfg.Workflow),
				workflowID: firstNonEmpty(c.String("workflow-id"), rt.cfg.API.WorkflowID),
			}
			switch {
			case o.input == "":
				return usageError("no workflow file given")
			case o.workflowID == "":
				return usageError("no workflow id (--workflow-id or N8N_WORKFLOW_ID)")
			case rt.cfg.API.URL == "":
				return usageError("no API URL (--url or N8N_API_URL)")
			case rt.cfg.API.Key == "":
				return usageError("N8N_API_KEY is not set")
			}
			return rt.push(ctx, api.NewClient(rt.cfg.Client()), o)
		})

	app.Command("diff").
		Description("Show a unified diff between two workflow files").
		Args("old", "new").
		Run(func(c *cli.Context) error {
			ctx, rt, stop, err := setup(c)
			if err != nil {
				return err
			}
			defer stop()
			o := diffOpts{oldPath: arg(c, 0), newPath: arg(c, 1)}
			if o.oldPath == "" || o.newPath == "" {
				return usageError("diff needs two files")
			}
			return rt.diff(ctx, o)
		})
}

// applyPushFlags lays the push flags that were given over cfg. Unset flags
// (empty url, timeout 0) leave the config file and environment values alone.
func applyPushFlags(cfg *config.Config, url string, timeoutSeconds int) {
	if url != "" {
		cfg.API.URL = url
	}
	if timeoutSeconds > 0 {
		cfg.API.TimeoutSeconds = timeoutSeconds
	}
}

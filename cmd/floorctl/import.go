package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"floorctl/internal/catalog"
	"floorctl/internal/catalog/commands"
	"floorctl/internal/catalog/importer"
	"floorctl/internal/command"
	"floorctl/internal/viewstack"
)

// importStep is one file of a headless import.
type importStep struct {
	file importer.File
	cmd  *command.Func[commands.ImportResult]
}

// importReport summarizes a headless import.
type importReport struct {
	Imported []string
	Failed   []string
	DryRun   bool
}

func newImportCmd(a *app) *cobra.Command {
	var (
		contestants []string
		dryRun      bool
	)
	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import category files without the console",
		Long: `Imports each JSON or YAML file as a category. --contestant assigns the
n-th name to the n-th file. With --dry-run every step is executed and then
undone, leaving the catalog as it was.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := importer.LoadAll(cmd.Context(), args)
			if err != nil {
				return err
			}
			rep, err := runImport(cmd.Context(), a.store, files, contestants, dryRun, a.stackOptions()...)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), rep)
			if len(rep.Failed) > 0 {
				return fmt.Errorf("%d of %d files failed, see %s", len(rep.Failed), len(files), a.cfg.LogFile)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&contestants, "contestant", nil, "contestant owning the n-th file's category (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "import, then undo every step")
	return cmd
}

// runImport walks the files through a view stack the way the console's
// wizard does: one committed step per file, then a return that finds no
// bookmark and completes. A dry run pops back to the root instead, undoing
// every step.
func runImport(ctx context.Context, store catalog.Store, files []importer.File, contestants []string, dryRun bool, opts ...viewstack.Option) (importReport, error) {
	rep := importReport{DryRun: dryRun}
	if len(files) == 0 {
		return rep, nil
	}

	steps := make([]importStep, len(files))
	for i, f := range files {
		var who string
		if i < len(contestants) {
			who = contestants[i]
		}
		steps[i] = importStep{file: f, cmd: commands.NewImport(store, importer.ToStored(f.Category, ""), who)}
	}

	var completed bool
	opts = append(opts, viewstack.WithOnComplete(func(any) { completed = true }))
	stack := viewstack.New(viewstack.View{ID: "import", Title: "Import"}, opts...)

	for i := 1; i < len(steps); i++ {
		v := viewstack.View{ID: fmt.Sprintf("file-%d", i), Title: steps[i].file.Name()}
		if err := stack.CommitAndPush(ctx, v, steps[i-1].cmd); err != nil {
			return rep, err
		}
	}
	last := steps[len(steps)-1].cmd

	if dryRun {
		if err := stack.CommitAndPush(ctx, viewstack.View{ID: "review", Title: "Review"}, last); err != nil {
			return rep, err
		}
		rep.collect(steps)
		for stack.Depth() > 1 {
			if err := stack.Pop(ctx); err != nil {
				return rep, err
			}
		}
		return rep, nil
	}

	if err := stack.CommitAndReturn(ctx, viewstack.ReturnOptions{Commands: []command.Command{last}}); err != nil {
		return rep, err
	}
	if !completed {
		return rep, errors.New("import did not complete")
	}
	rep.collect(steps)
	return rep, nil
}

func (r *importReport) collect(steps []importStep) {
	for _, s := range steps {
		if s.cmd.Executed() {
			r.Imported = append(r.Imported, s.file.Category.Name)
		} else {
			r.Failed = append(r.Failed, s.file.Path)
		}
	}
}

func printReport(w io.Writer, r importReport) {
	verb := "Imported"
	if r.DryRun {
		verb = "Would import"
	}
	for _, name := range r.Imported {
		fmt.Fprintf(w, "%s %s\n", verb, name)
	}
	for _, path := range r.Failed {
		fmt.Fprintf(w, "Failed %s\n", path)
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/formulint/conditions"
	"github.com/dhamidi/formulint/watch"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	fileStyle  = lipgloss.NewStyle().Faint(true)
)

// fileReport is the outcome of checking every filter in one file.
type fileReport struct {
	path    string
	loadErr error
	filters []filterReport
}

type filterReport struct {
	name    string
	formula string
	err     error
}

func (r fileReport) failed() int {
	if r.loadErr != nil {
		return 1
	}
	n := 0
	for _, f := range r.filters {
		if f.err != nil {
			n++
		}
	}
	return n
}

func (r fileReport) write(w io.Writer) {
	prefix := fileStyle.Render(r.path + ":")
	if r.loadErr != nil {
		fmt.Fprintf(w, "%s %s %v\n", prefix, errorStyle.Render("error"), r.loadErr)
		return
	}
	for _, f := range r.filters {
		if f.err != nil {
			fmt.Fprintf(w, "%s %s: %s %v\n", prefix, f.name, errorStyle.Render("error"), f.err)
			continue
		}
		fmt.Fprintf(w, "%s %s: %s %s\n", prefix, f.name, okStyle.Render("ok"), f.formula)
	}
}

func checkFile(path string) fileReport {
	report := fileReport{path: path}
	docs, err := conditions.LoadFile(path)
	if err != nil {
		report.loadErr = err
		return report
	}
	for i, doc := range docs {
		name := doc.Filter.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		fr := filterReport{name: name}
		if checked, err := doc.Filter.Check(); err != nil {
			fr.err = err
		} else {
			fr.formula = checked.Formula.String()
		}
		report.filters = append(report.filters, fr)
	}
	return report
}

// checkFiles checks files concurrently and returns reports in input order.
func checkFiles(ctx context.Context, paths []string) ([]fileReport, error) {
	reports := make([]fileReport, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = checkFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func newCheckCmd(a *app) *cobra.Command {
	var watchFiles bool

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Check the filters in YAML filter documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			reports, err := checkFiles(cmd.Context(), args)
			if err != nil {
				return err
			}
			failed, total := 0, 0
			for _, r := range reports {
				r.write(out)
				failed += r.failed()
				total += max(len(r.filters), 1)
			}

			if watchFiles {
				return watchAndCheck(cmd.Context(), a, args, out)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d filters failed", failed, total)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watchFiles, "watch", "w", false, "re-check files when they change")

	return cmd
}

func watchAndCheck(ctx context.Context, a *app, paths []string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	debounce, err := a.cfg.DebounceDuration()
	if err != nil {
		return err
	}

	var mu sync.Mutex
	w, err := watch.New(paths, a.cfg.Watch.Extensions, debounce, func(path string) {
		report := checkFile(path)
		mu.Lock()
		defer mu.Unlock()
		report.write(out)
	})
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	w.Start()
	defer w.Stop()

	log.Infof("watching %d paths", len(paths))
	<-ctx.Done()
	return nil
}

// seqqc aggregates sequencing-QC tool logs into a single report.
//
// Usage:
//
//	seqqc [flags] [search-root ...]
//
// It scans the given directories (default ".") for known tool outputs
// — cutadapt/Trim Galore! trimming reports and Picard
// CrosscheckFingerprints tables — parses them into per-sample metrics,
// writes data dumps under the output directory, and renders a report.
//
// Output modes (auto-detected):
//
//	terminal — styled output (default when TTY)
//	plain    — tab-separated text for piping
//	json     — structured JSON for automation
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/seqqc/seqqc/internal/config"
	"github.com/seqqc/seqqc/internal/discover"
	"github.com/seqqc/seqqc/internal/dump"
	"github.com/seqqc/seqqc/internal/logging"
	"github.com/seqqc/seqqc/internal/samplename"
	"github.com/seqqc/seqqc/internal/version"
	"github.com/seqqc/seqqc/pkg/crosscheck"
	"github.com/seqqc/seqqc/pkg/cutadapt"
	"github.com/seqqc/seqqc/pkg/qcreport"
	"github.com/seqqc/seqqc/pkg/render"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("seqqc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	formatFlag := fs.String("format", "auto", "Output format: auto, terminal, plain, json")
	themeFlag := fs.String("theme", "default", "Theme: default, mono")
	configFlag := fs.String("config", "", "Path to .seqqc.yaml (default: auto-discover)")
	outdirFlag := fs.String("outdir", "", "Data dump directory (default: seqqc_data)")
	logLevelFlag := fs.String("loglevel", "", "Log level: debug, info, warn, error")
	versionFlag := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *versionFlag {
		fmt.Fprintln(stdout, "seqqc "+version.String())
		return 0
	}
	roots := fs.Args()
	if len(roots) == 0 {
		roots = []string{"."}
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(stderr, "seqqc: %v\n", err)
		return 2
	}
	if *outdirFlag != "" {
		cfg.OutputDir = *outdirFlag
	}
	level := cfg.LogLevel
	if *logLevelFlag != "" {
		level = *logLevelFlag
	}
	log := logging.New(logging.ParseLevel(level))

	cleaner := samplename.New(
		samplename.WithExtraExts(cfg.ExtraCleanExts...),
		samplename.WithIgnorePatterns(cfg.IgnoreSamples...),
		samplename.WithReadPairTrimming(!cfg.KeepReadMarkers),
	)

	found, err := discover.NewFinder(searchSpecs()).Find(roots)
	if err != nil {
		log.Error("file search failed", "error", err)
		return 1
	}

	modules := []qcreport.Module{
		cutadapt.New(log, cleaner),
		crosscheck.New(log, cleaner,
			crosscheck.WithTableColumns(cfg.Crosscheck.TableCols, cfg.Crosscheck.TableColsHidden)),
	}

	reports, code := runModules(log, modules, found)
	if code != 0 {
		return code
	}
	if len(reports) == 0 {
		fmt.Fprintln(stderr, "seqqc: no QC data found")
		return 1
	}

	if err := writeDumps(cfg.OutputDir, reports); err != nil {
		log.Error("writing data dumps failed", "error", err)
		return 1
	}

	qcrun := qcreport.NewRun(reports)
	renderer := selectRenderer(resolveFormat(*formatFlag, stdout), *themeFlag, stdout)
	fmt.Fprint(stdout, renderer.Render(qcrun))
	return 0
}

// runModules feeds each module its discovered files. A module with no
// usable samples is omitted from the report; any other failure is
// fatal for the run.
func runModules(log *slog.Logger, modules []qcreport.Module, found map[string][]qcreport.File) ([]*qcreport.Report, int) {
	var reports []*qcreport.Report
	for _, mod := range modules {
		report, err := mod.Run(found[mod.Name()])
		if err != nil {
			if errors.Is(err, qcreport.ErrNoSamples) {
				log.Info("no applicable data, skipping module", "module", mod.Name())
				continue
			}
			log.Error("module failed", "module", mod.Name(), "error", err)
			return nil, 1
		}
		reports = append(reports, report)
	}
	return reports, 0
}

func writeDumps(dir string, reports []*qcreport.Report) error {
	w, err := dump.NewWriter(dir)
	if err != nil {
		return err
	}
	for _, report := range reports {
		for name, records := range report.DataFiles {
			if err := w.Write(name, records); err != nil {
				return err
			}
		}
	}
	return nil
}

// searchSpecs describes what each module's logs look like on disk.
// The cheap filename globs run first; the content probe keeps
// unrelated logs out of the line scanners.
func searchSpecs() []discover.Spec {
	return []discover.Spec{
		{
			Category: "cutadapt",
			Globs:    []string{"*.log", "*.txt", "*.err", "*.out", "*_trimming_report.txt"},
			Contents: []string{"This is cutadapt", "cutadapt version"},
		},
		{
			Category: "crosscheck",
			Globs:    []string{"*.txt", "*.tsv", "*.crosscheck_metrics"},
			Contents: []string{"CrosscheckFingerprints"},
		},
	}
}

func resolveFormat(format string, stdout io.Writer) string {
	if format != "auto" {
		return format
	}
	if isTTYWriter(stdout) {
		return "terminal"
	}
	return "plain"
}

func selectRenderer(format, theme string, stdout io.Writer) render.Renderer {
	switch format {
	case "json":
		return render.NewJSON()
	case "terminal":
		width, _ := termSize(stdout)
		return render.NewTerminal(render.ThemeByName(theme), width)
	default:
		return render.NewPlain()
	}
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termSize returns the terminal dimensions for w, defaulting to 80x24.
func termSize(w io.Writer) (width, height int) {
	width, height = 80, 24
	if f, ok := w.(*os.File); ok {
		if tw, th, err := term.GetSize(int(f.Fd())); err == nil {
			if tw > 0 {
				width = tw
			}
			if th > 0 {
				height = th
			}
		}
	}
	return width, height
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"quill/internal/config"
	"quill/internal/diag"
	"quill/internal/driver"
	"quill/internal/format"
	"quill/internal/observ"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <path> [path...]",
	Short: "Format quill source files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "check if files are properly formatted")
	fmtCmd.Flags().String("format", "text", "output format (text|json)")
	fmtCmd.Flags().Bool("stdout", false, "print formatted code to stdout instead of rewriting files")
	fmtCmd.Flags().String("ui", "off", "interactive progress display (auto|on|off)")
	fmtCmd.Flags().Int("jobs", 0, "number of parallel workers (0 = all CPUs)")
	fmtCmd.Flags().Bool("no-cache", false, "skip the clean-file disk cache")
}

func runFmt(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	writeToStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}

	if writeToStdout && check {
		return fmt.Errorf("fmt: --stdout cannot be used with --check")
	}
	if writeToStdout && outputFormat != "text" {
		return fmt.Errorf("fmt: --stdout is only supported with text output")
	}

	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	useUI := shouldUseTUI(mode) && !writeToStdout && outputFormat == "text"

	opts, err := buildFormatOptions(cmd, args, check, writeToStdout, noCache)
	if err != nil {
		return err
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	phase := timer.Begin("format")
	var results []driver.FormatResult
	if useUI {
		results, err = runFmtWithUI(cmd.Context(), args, opts, jobs)
	} else {
		results, err = driver.FormatPaths(cmd.Context(), args, opts)
	}
	phase.End(fmt.Sprintf("%d files", len(results)))
	if err != nil {
		return err
	}
	if showTimings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}

	var hasErrors, hasChanges bool
	switch outputFormat {
	case "text":
		if writeToStdout {
			renderFmtStdout(results, &hasErrors)
			if hasErrors {
				return fmt.Errorf("fmt: failed to format some files")
			}
			return nil
		}
		renderFmtText(results, check, quiet, &hasErrors, &hasChanges)
	case "json":
		if err := renderFmtJSON(results, check); err != nil {
			return err
		}
		for _, res := range results {
			if res.Err != nil {
				hasErrors = true
			}
			if res.Changed {
				hasChanges = true
			}
		}
	default:
		return fmt.Errorf("fmt: unsupported output format %q", outputFormat)
	}

	if hasErrors {
		return fmt.Errorf("fmt: failed to format some files")
	}
	if check && hasChanges {
		return fmt.Errorf("fmt: formatting changes required")
	}
	return nil
}

func buildFormatOptions(cmd *cobra.Command, args []string, check, stdout, noCache bool) (driver.FormatOptions, error) {
	// only an explicit flag overrides the max_errors config key
	maxDiagnostics := 0
	if cmd.Root().PersistentFlags().Changed("max-diagnostics") {
		v, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
		if err != nil {
			return driver.FormatOptions{}, err
		}
		maxDiagnostics = v
	}

	startDir := "."
	if len(args) > 0 {
		startDir = args[0]
		if info, statErr := os.Stat(startDir); statErr == nil && !info.IsDir() {
			startDir = filepath.Dir(startDir)
		}
	}
	cfg, _, err := config.Discover(startDir)
	if err != nil {
		return driver.FormatOptions{}, err
	}

	opts := driver.FormatOptions{
		Check:          check,
		Stdout:         stdout,
		MaxDiagnostics: maxDiagnostics,
		Options: format.Options{
			SortImports:  cfg.SortImports(),
			KeepComments: cfg.KeepComments(),
		},
		Config: cfg,
	}

	if !noCache && !stdout {
		// cache failures degrade to uncached runs
		if cache, cacheErr := driver.OpenDiskCache("quill"); cacheErr == nil {
			opts.Cache = cache
		}
	}
	return opts, nil
}

func renderFmtStdout(results []driver.FormatResult, hasErrors *bool) {
	for _, res := range results {
		if res.Err != nil {
			*hasErrors = true
			fmt.Fprintf(os.Stderr, "fmt: %s: %v\n", res.Path, res.Err)
			diag.RenderBag(os.Stderr, res.Source, res.Bag)
			continue
		}
		_, _ = os.Stdout.Write(res.Formatted)
	}
}

func renderFmtText(results []driver.FormatResult, check, quiet bool, hasErrors, hasChanges *bool) {
	for _, res := range results {
		if res.Err != nil {
			*hasErrors = true
			fmt.Fprintf(os.Stderr, "fmt: %s: %v\n", res.Path, res.Err)
			diag.RenderBag(os.Stderr, res.Source, res.Bag)
			continue
		}

		if check {
			if res.Changed {
				*hasChanges = true
				if !quiet {
					fmt.Fprintln(os.Stdout, res.Path)
				}
			}
			continue
		}

		if res.Changed && !quiet {
			fmt.Fprintf(os.Stdout, "reformatted %s\n", res.Path)
		}
	}
}

func renderFmtJSON(results []driver.FormatResult, check bool) error {
	type jsonDiagnostic struct {
		Severity string `json:"severity"`
		Code     string `json:"code"`
		Line     uint32 `json:"line,omitempty"`
		Col      uint32 `json:"col,omitempty"`
		Message  string `json:"message"`
	}
	type jsonResult struct {
		Path        string           `json:"path"`
		Changed     bool             `json:"changed"`
		Cached      bool             `json:"cached,omitempty"`
		Error       string           `json:"error,omitempty"`
		Diagnostics []jsonDiagnostic `json:"diagnostics,omitempty"`
		CheckRun    bool             `json:"check"`
	}

	payload := make([]jsonResult, 0, len(results))
	for _, res := range results {
		jr := jsonResult{Path: res.Path, Changed: res.Changed, Cached: res.Cached, CheckRun: check}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		if res.Bag != nil {
			res.Bag.Sort()
			for _, d := range res.Bag.Items() {
				jd := jsonDiagnostic{
					Severity: d.Severity.String(),
					Code:     d.Code.String(),
					Message:  d.Message,
				}
				if start, known := d.Primary.Start(); known {
					jd.Line = start.Line
					jd.Col = start.Col
				}
				jr.Diagnostics = append(jr.Diagnostics, jd)
			}
		}
		payload = append(payload, jr)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quill/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <path> [path...]",
	Short: "Verify the formatter round-trips every file",
	Long:  `check parses each file, formats it, reparses the result, and confirms the top-level structure survived`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	opts, err := buildFormatOptions(cmd, args, true, false, true)
	if err != nil {
		return err
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}

	results, err := driver.CheckPaths(cmd.Context(), args, opts)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.OK {
			if !quiet {
				fmt.Fprintf(os.Stdout, "%s: %s\n", res.Path, res.Msg)
			}
			continue
		}
		failed++
		fmt.Fprintf(os.Stderr, "%s: %s\n", res.Path, res.Msg)
	}

	if failed > 0 {
		return fmt.Errorf("check: %d of %d files failed", failed, len(results))
	}
	return nil
}

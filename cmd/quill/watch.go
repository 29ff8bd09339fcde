package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"quill/internal/diag"
	"quill/internal/driver"
)

const watchDebounce = 300 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <dir>",
	Short: "Reformat files as they change",
	Long:  `watch monitors a directory tree and reformats any .ql file that is created or modified`,
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("watch: %s is not a directory", dir)
	}

	opts, err := buildFormatOptions(cmd, args, false, false, false)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := addWatchDirs(watcher, dir); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stdout, "watching %s\n", dir)

	var (
		mu      sync.Mutex
		pending = map[string]struct{}{}
		timer   *time.Timer
	)
	flush := make(chan struct{}, 1)

	scheduleFlush := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(watchDebounce, func() {
			select {
			case flush <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if err := addWatchDirs(watcher, ev.Name); err != nil {
						fmt.Fprintf(os.Stderr, "watch: %v\n", err)
					}
					continue
				}
			}
			if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) {
				continue
			}
			if filepath.Ext(ev.Name) != ".ql" || opts.Config.Excluded(ev.Name) {
				continue
			}
			mu.Lock()
			pending[ev.Name] = struct{}{}
			scheduleFlush()
			mu.Unlock()
		case <-flush:
			mu.Lock()
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			pending = map[string]struct{}{}
			mu.Unlock()

			if len(batch) == 0 {
				continue
			}
			formatBatch(ctx, batch, opts)
		}
	}
}

func formatBatch(ctx context.Context, paths []string, opts driver.FormatOptions) {
	results, err := driver.FormatPaths(ctx, paths, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		return
	}
	for _, res := range results {
		fmt.Fprintln(os.Stdout, driver.DescribeResult(res))
		if res.Err != nil {
			diag.RenderBag(os.Stderr, res.Source, res.Bag)
		}
	}
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return watcher.Add(path)
	})
}

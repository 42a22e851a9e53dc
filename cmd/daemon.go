package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/torinwade/salib/internal/core/domain"
	"github.com/torinwade/salib/pkg/ui"
)

var daemonQuiet bool

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run background daemon for thumbnail refresh",
	Long: `Run a background daemon that watches the asset directory and keeps
cached thumbnails in sync.

This command monitors the assets directory for:
  - New asset files created
  - Existing asset files modified
  - Asset files deleted

When a registered asset changes, its cached thumbnail is regenerated so
consumers that resolve in cached-only mode stay current. Deleted assets
have their stale thumbnail blobs removed.

Use --quiet to suppress refresh notifications.`,
	RunE: runDaemon,
}

func init() {
	daemonCmd.Flags().BoolVarP(&daemonQuiet, "quiet", "q", false, "Suppress refresh notifications")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(appVault.AssetsPath); err != nil {
		return fmt.Errorf("failed to watch assets directory: %w", err)
	}

	if !daemonQuiet {
		fmt.Println(ui.FormatInfo("Starting salib daemon..."))
		fmt.Println(ui.FormatMuted("Watching: " + appVault.AssetsPath))
		fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
		fmt.Println()
	}

	// Debounce so a burst of writes triggers one refresh per asset.
	debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	var timer *time.Timer
	pending := newPendingSet()

	// Runs on the timer's goroutine while the event loop keeps marking.
	refresh := func() {
		for _, name := range pending.drain() {
			refreshThumbnail(name)
		}
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			baseName := filepath.Base(event.Name)
			// Skip the thumbnail sidecar dir and temp files
			if strings.HasPrefix(baseName, ".") || strings.HasPrefix(baseName, "~") {
				continue
			}

			if event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Remove) ||
				event.Has(fsnotify.Rename) {
				pending.mark(baseName)

				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounce, refresh)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Println(ui.FormatError("Watcher error: " + err.Error()))
		}
	}
}

// pendingSet collects asset names awaiting a thumbnail refresh. The
// watcher event loop marks names while the debounce timer's goroutine
// drains them, so all access goes through the mutex.
type pendingSet struct {
	mu    sync.Mutex
	names map[string]struct{}
}

func newPendingSet() *pendingSet {
	return &pendingSet{names: make(map[string]struct{})}
}

func (p *pendingSet) mark(name string) {
	p.mu.Lock()
	p.names[name] = struct{}{}
	p.mu.Unlock()
}

// drain takes a snapshot of the marked names and clears the set in one
// critical section. Names marked during a refresh survive to the next
// drain instead of being iterated concurrently.
func (p *pendingSet) drain() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.names))
	for name := range p.names {
		names = append(names, name)
	}
	clear(p.names)
	return names
}

// refreshThumbnail regenerates the cached thumbnail for a registered
// asset, or drops the stale blob when the asset file is gone.
func refreshThumbnail(name string) {
	ctx := getContext()
	ref := domain.AssetRef{Name: name}

	location, ok := fileStore.Exists(ctx, ref)
	if !ok {
		// File gone: drop the blob so cached resolution can't
		// serve a deleted asset.
		path := appVault.GetAssetPath(name)
		if err := thumbCache.RemoveCached(ctx, path, ref.FullName()); err == nil && !daemonQuiet {
			fmt.Println(ui.FormatMuted("Dropped stale thumbnail: " + name))
		}
		return
	}

	asset, err := fileStore.Load(ctx, ref)
	if err != nil {
		// A file without a record is not registered; nothing to do.
		return
	}

	thumb, err := thumbGen.Generate(ctx, asset)
	if err != nil {
		if !daemonQuiet {
			fmt.Println(ui.FormatWarning("Could not refresh " + name + ": " + err.Error()))
		}
		return
	}

	if err := thumbCache.WriteCached(ctx, location, ref.FullName(), thumb); err != nil {
		if !daemonQuiet {
			fmt.Println(ui.FormatError("Failed to cache " + name + ": " + err.Error()))
		}
		return
	}

	if !daemonQuiet {
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Refreshed thumbnail: %s (%dx%d)",
			name, thumb.Width, thumb.Height)))
	}
}

// Package watcher keeps a post index fresh while the content directory
// changes.
//
// HybridWatcher uses fsnotify and falls back to polling where fsnotify
// cannot start (some network mounts and container volumes). Raw events are
// filtered to post files and the project config file, then debounced into
// batches so an editor's save burst triggers a single refresh.
//
// Refresher consumes those batches: it reloads the collection, clears the
// memo cache and refreshes the index store.
//
// Usage:
//
//	w, err := watcher.NewHybridWatcher(watcher.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer w.Stop()
//	go func() { _ = w.Start(ctx, dir) }()
//	return refresher.Run(ctx, w.Events())
package watcher

package app

import (
	"go.uber.org/zap"

	"github.com/corey/menuqa/internal/domain/resolve"
	"github.com/corey/menuqa/internal/ports"
)

// Reload rebuilds the index from the dataset file and swaps it in
// atomically. On any failure the previous index stays in place; readers
// never observe a partial rebuild.
func (a *App) Reload() error {
	tables, err := LoadTables(a.cfg.DatasetPath)
	if err != nil {
		a.logger.Error("reload failed, keeping previous index", zap.Error(err))
		return err
	}

	idx := resolve.BuildIndex(tables)
	a.idx.Store(idx)
	a.logger.Info("index reloaded",
		zap.Int("items", len(idx.Items)),
		zap.Int("categories", len(idx.Categories)),
		zap.Int("discounts", len(idx.Discounts)))
	return nil
}

// StartWatch attaches a watcher to the dataset file; every debounced
// change triggers a Reload.
func (a *App) StartWatch(w ports.Watcher) error {
	if w == nil {
		return ErrNoWatcher
	}
	a.watcher = w
	return w.Watch(a.cfg.DatasetPath, func() {
		// Reload logs its own failures; a bad intermediate write must not
		// take the watch loop down.
		_ = a.Reload()
	})
}

// Stop releases the watcher, if any. Safe to call without StartWatch.
func (a *App) Stop() error {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Stop()
}

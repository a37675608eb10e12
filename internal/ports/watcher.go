package ports

// Watcher monitors the dataset file for changes and triggers an index
// rebuild. The adapter (fsnotify) must debounce rapid events (editors and
// sync tools often trigger multiple writes per save) before invoking
// onChange. Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring datasetPath. onChange is called after each
	// settled change to the file. The callback may be invoked from any
	// goroutine. Returns an error if the path's directory doesn't exist or
	// permissions are insufficient.
	Watch(datasetPath string, onChange func()) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}

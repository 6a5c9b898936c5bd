// Package watch reports changes to filter documents.
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("formulint.watch")

// Watcher calls OnChange with the paths of changed files. Inside watched
// directories only files with a configured extension are reported; files
// passed to New by name are always reported. Changes to the same path
// within the debounce window are reported once.
type Watcher struct {
	fs         *fsnotify.Watcher
	extensions []string
	debounce   time.Duration
	onChange   func(path string)

	files map[string]bool
	dirs  map[string]bool

	stopCh    chan struct{}
	done      chan struct{}
	started   bool
	stopOnce  sync.Once
	callbacks sync.WaitGroup

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher for paths. Directories are watched for files
// created or written inside them; a file is only reported itself, not its
// neighbours.
func New(paths []string, extensions []string, debounce time.Duration, onChange func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fs:         fsw,
		extensions: extensions,
		debounce:   debounce,
		onChange:   onChange,
		files:      make(map[string]bool),
		dirs:       make(map[string]bool),
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
		pending:    make(map[string]*time.Timer),
	}

	for _, p := range paths {
		if err := w.add(p); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// add watches the directory containing a file rather than the file itself,
// so editors that replace files on save keep being observed.
func (w *Watcher) add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	dir := filepath.Clean(path)
	if info.IsDir() {
		w.dirs[dir] = true
	} else {
		w.files[dir] = true
		dir = filepath.Dir(dir)
	}
	log.Debugf("watching %s", dir)
	return w.fs.Add(dir)
}

func (w *Watcher) Start() {
	w.started = true
	go w.run()
}

// Stop ends the watcher. When it returns no OnChange call is running and
// none will start.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		if w.started {
			<-w.done
		}
		w.fs.Close()

		w.mu.Lock()
		for path, t := range w.pending {
			if t.Stop() {
				w.callbacks.Done()
			}
			delete(w.pending, path)
		}
		w.mu.Unlock()

		w.callbacks.Wait()
	})
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if !w.matches(ev.Name) {
				continue
			}
			w.schedule(ev.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Errorf("watch: %s", err)
		}
	}
}

func (w *Watcher) matches(path string) bool {
	path = filepath.Clean(path)
	if w.files[path] {
		return true
	}
	if len(w.files)+len(w.dirs) > 0 && !w.dirs[filepath.Dir(path)] {
		return false
	}
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	if len(w.extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, e := range w.extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func (w *Watcher) schedule(path string) {
	if w.debounce <= 0 {
		w.onChange(path)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	// A timer that already fired is left to its callback and replaced.
	if t, ok := w.pending[path]; ok && t.Stop() {
		t.Reset(w.debounce)
		return
	}

	w.callbacks.Add(1)
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() {
		defer w.callbacks.Done()

		w.mu.Lock()
		if w.pending[path] == t {
			delete(w.pending, path)
		}
		w.mu.Unlock()

		select {
		case <-w.stopCh:
		default:
			w.onChange(path)
		}
	})
	w.pending[path] = t
}

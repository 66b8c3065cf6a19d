// Package watch notifies when a single file is rewritten on disk.
package watch

import (
	"errors"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches one file. Editors often replace files instead of writing
// them in place so the parent directory is watched and events are filtered
// by name.
type Watcher struct {
	path    string
	w       *fsnotify.Watcher
	changed chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	log     *log.Logger
}

// New starts watching path. Errors reported by the OS watcher are written
// to logger when it is not nil.
func New(path string, logger *log.Logger) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("empty watch path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	err = w.Add(filepath.Dir(abs))
	if err != nil {
		w.Close()
		return nil, err
	}
	fw := &Watcher{
		path:    abs,
		w:       w,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
		log:     logger,
	}
	fw.wg.Add(1)
	go fw.loop()
	return fw, nil
}

// Path returns the absolute path of the watched file.
func (fw *Watcher) Path() string { return fw.path }

// Changed receives a value after the file is written. Bursts of writes that
// happen before the receiver catches up coalesce into one notification.
func (fw *Watcher) Changed() <-chan struct{} { return fw.changed }

// Close stops watching. Changed is not closed.
func (fw *Watcher) Close() error {
	close(fw.done)
	err := fw.w.Close()
	fw.wg.Wait()
	return err
}

func (fw *Watcher) loop() {
	defer fw.wg.Done()
	for {
		select {
		case <-fw.done:
			return
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != fw.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			select {
			case fw.changed <- struct{}{}:
			default:
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			if fw.log != nil {
				fw.log.Printf("watching %s: %v", fw.path, err)
			}
		}
	}
}

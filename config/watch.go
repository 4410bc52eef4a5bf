/*
NAME
  watch.go

DESCRIPTION
  watch.go reloads a YAML config file whenever it changes on disk, the
  way a long-running ground-station receiver would pick up retuned
  parameters without a restart.

LICENSE
  See LICENSE.
*/

package config

import (
	"github.com/fsnotify/fsnotify"

	"github.com/dvdesolve/liblrpt/internal/logging"
)

// WatchFile watches path for writes and sends a freshly loaded and
// validated Config on the returned channel each time it changes. Load
// errors (a transient partial write, invalid YAML) are logged at
// Warning and skipped rather than closing the channel, since the next
// write to path may well be valid.
//
// The returned stop function closes the underlying watcher; callers
// must call it to release the fsnotify file descriptor.
func WatchFile(path string, logger logging.Logger) (<-chan *Config, func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, nil, err
	}

	out := make(chan *Config)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := Load(path)
				if err != nil {
					if logger != nil {
						logger.Log(logging.Warning, "config reload failed, keeping previous config", "path", path, "err", err)
					}
					continue
				}
				out <- cfg
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if logger != nil {
					logger.Log(logging.Warning, "config watcher error", "path", path, "err", err)
				}
			}
		}
	}()

	return out, watcher.Close, nil
}

// Package watcher follows an inbox directory and hands newly dropped receipt
// images to a handler as they appear.
package watcher

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// Watch blocks, invoking handle for every image file created in dir. Files
// already present at startup are handled first. Handler errors are logged,
// never fatal.
func Watch(dir string, handle func(path string) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() && imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			runHandler(handle, filepath.Join(dir, e.Name()))
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	log.Printf("watching %s for new receipt images", dir)

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !imageExts[strings.ToLower(filepath.Ext(ev.Name))] {
				continue
			}
			// give the writer a moment to finish the file
			time.Sleep(500 * time.Millisecond)
			runHandler(handle, ev.Name)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}

func runHandler(handle func(string) error, path string) {
	if err := handle(path); err != nil {
		log.Printf("handler error %s: %v", filepath.Base(path), err)
	}
}

// Command catalogwatch hot-reloads card-set JSON fixtures into a
// catalog.CardRepository as they change on disk, adapted from the teacher's
// cmd/watch (its fsnotify + debounce restart loop), but reloading sets
// in-process via CardRepository.LoadSet/ClearSet rather than restarting a
// server subprocess — there is no subprocess here, only the running catalog.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tcg-match-engine/internal/catalog"

	"github.com/fsnotify/fsnotify"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/catalogwatch/main.go <sets-dir>")
		fmt.Println("Example: go run cmd/catalogwatch/main.go fixtures/cardsets")
		os.Exit(1)
	}
	dir := os.Args[1]

	cards := catalog.NewMemoryCardRepository()
	loaded := make(map[string]catalog.SetMetadata) // path -> metadata currently loaded from it

	if err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || !strings.HasSuffix(path, ".json") {
			return err
		}
		return loadSetFile(cards, loaded, path)
	}); err != nil {
		log.Fatalf("initial load of %s: %v", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("create watcher: %v", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		log.Fatalf("watch %s: %v", dir, err)
	}

	fmt.Printf("watching %s for card-set changes...\n", dir)

	debounce := make(chan string, 16)
	go debounceLoop(cards, loaded, debounce)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".json") || event.Has(fsnotify.Chmod) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				debounce <- event.Name
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

// debounceLoop coalesces a burst of fsnotify events for the same path into
// one reload, following cmd/watch's 300ms debounce window.
func debounceLoop(cards catalog.CardRepository, loaded map[string]catalog.SetMetadata, changes <-chan string) {
	pending := make(map[string]bool)
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case path := <-changes:
			pending[path] = true
			timer.Reset(300 * time.Millisecond)
		case <-timer.C:
			for path := range pending {
				reload(cards, loaded, path)
			}
			pending = make(map[string]bool)
		}
	}
}

func reload(cards catalog.CardRepository, loaded map[string]catalog.SetMetadata, path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if meta, ok := loaded[path]; ok {
			cards.ClearSet(meta.Author, meta.SetName, meta.Version)
			delete(loaded, path)
			fmt.Printf("cleared set %s/%s (file removed)\n", meta.Author, meta.SetName)
		}
		return
	}
	if err := loadSetFile(cards, loaded, path); err != nil {
		log.Printf("reload %s: %v", path, err)
		return
	}
	fmt.Printf("reloaded %s\n", path)
}

func loadSetFile(cards catalog.CardRepository, loaded map[string]catalog.SetMetadata, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var set catalog.JSONCardSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if prev, ok := loaded[path]; ok {
		cards.ClearSet(prev.Author, prev.SetName, prev.Version)
	}

	meta := catalog.SetMetadata{
		Author:       set.Author,
		SetName:      set.SetName,
		Version:      set.Version,
		TotalCards:   len(set.Cards),
		Official:     set.Official,
		DateReleased: set.DateReleased,
	}
	result, err := cards.LoadSet(context.Background(), meta, set.Cards)
	if err != nil {
		return err
	}
	loaded[path] = meta
	if result.Failed > 0 {
		fmt.Printf("%s: loaded %d cards, %d failed\n", path, result.Loaded, result.Failed)
	} else {
		fmt.Printf("%s: loaded %d cards\n", path, result.Loaded)
	}
	return nil
}

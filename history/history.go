// Package history keeps a local journal of confirmed subscriptions and relays.
package history

import (
	"sort"
	"sync"

	"github.com/metafates/gache"
	"github.com/subgate-cli/subgate/filesystem"
	"github.com/subgate-cli/subgate/where"
)

var (
	cacher     *gache.Cache[map[string]*Entry]
	cacherOnce sync.Once

	// mu serializes read-modify-write cycles on the journal file.
	mu sync.Mutex
)

func journal() *gache.Cache[map[string]*Entry] {
	cacherOnce.Do(func() {
		cacher = gache.New[map[string]*Entry](&gache.Options{
			Path:       where.History(),
			FileSystem: &filesystem.GacheFs{},
		})
	})
	return cacher
}

func load() (map[string]*Entry, error) {
	cached, expired, err := journal().Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// Get returns every entry, most recent first.
func Get() ([]*Entry, error) {
	mu.Lock()
	defer mu.Unlock()

	saved, err := load()
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(saved))
	for _, e := range saved {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].At.After(entries[j].At)
	})
	return entries, nil
}

// Save records entry. Repeating an action on the same target bumps its count
// and keeps the first-seen title when the new one is empty.
func Save(entry *Entry) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := load()
	if err != nil {
		return err
	}

	id := entry.encode()
	if existing, ok := saved[id]; ok {
		entry.Count = existing.Count
		if entry.Title == "" {
			entry.Title = existing.Title
		}
	}
	entry.Count++
	saved[id] = entry

	return journal().Set(saved)
}

// Remove deletes one entry.
func Remove(entry *Entry) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := load()
	if err != nil {
		return err
	}

	delete(saved, entry.encode())
	return journal().Set(saved)
}

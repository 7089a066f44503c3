package dl

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/klauspost/compress/snappy"
	"github.com/vmihailenco/msgpack/v5"
)

// Registry remembers which document ids were already downloaded so
// repeat runs only fetch new documents. It is stored msgpack encoded
// and snappy compressed.
type Registry struct {
	path string

	mu   sync.Mutex
	seen map[string]int64
}

// LoadRegistry reads the registry at path; a missing file yields an
// empty registry.
func LoadRegistry(path string) (*Registry, error) {
	r := &Registry{path: path, seen: map[string]int64{}}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, err
	}
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("decompress download registry: %w", err)
	}
	if err := msgpack.Unmarshal(raw, &r.seen); err != nil {
		return nil, fmt.Errorf("decode download registry: %w", err)
	}
	return r, nil
}

// Seen reports whether the document id was downloaded before.
func (r *Registry) Seen(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.seen[id]
	return ok
}

// Add marks a document id as downloaded.
func (r *Registry) Add(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen[id] = time.Now().Unix()
}

// Len returns the number of recorded documents.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

// Save writes the registry back to disk.
func (r *Registry) Save() error {
	r.mu.Lock()
	raw, err := msgpack.Marshal(r.seen)
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, snappy.Encode(nil, raw), 0o600)
}

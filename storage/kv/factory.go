package kv

// Open creates a Store for the given path. An empty path selects the
// in-memory store.
func Open(path string) (Store, error) {
	if path == "" {
		return NewMemoryStore(), nil
	}
	return OpenBadgerStore(path)
}

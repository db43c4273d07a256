package hcp

import "sync"

// Cache memoizes fully resolved documents by absolute path. Entries are
// never invalidated on their own: if files change underneath, call Clear or
// Forget. The zero value is ready to use.
type Cache struct {
	mu   sync.Mutex
	docs map[string]*Document
	// paths serializes computation per path.
	paths map[string]*sync.Mutex
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{docs: make(map[string]*Document), paths: make(map[string]*sync.Mutex)}
}

// Resolve returns a copy of the document cached for path, computing and
// storing it first if needed. Concurrent callers for the same path compute
// it once and never see a half-built document; different paths compute in
// parallel. Failed computations are not stored. hit reports whether compute
// was skipped.
func (c *Cache) Resolve(path string, compute func() (*Document, error)) (doc *Document, hit bool, err error) {
	if doc, ok := c.get(path); ok {
		return doc, true, nil
	}

	lock := c.pathLock(path)
	lock.Lock()
	defer lock.Unlock()

	if doc, ok := c.get(path); ok {
		return doc, true, nil
	}
	doc, err = compute()
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.docs == nil {
		c.docs = make(map[string]*Document)
	}
	c.docs[path] = doc.Clone()
	return doc, false, nil
}

func (c *Cache) get(path string) (*Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cached, ok := c.docs[path]
	if !ok {
		return nil, false
	}
	return cached.Clone(), true
}

func (c *Cache) pathLock(path string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paths == nil {
		c.paths = make(map[string]*sync.Mutex)
	}
	lock, ok := c.paths[path]
	if !ok {
		lock = &sync.Mutex{}
		c.paths[path] = lock
	}
	return lock
}

// Forget drops the entry for path.
func (c *Cache) Forget(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.docs, path)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs = make(map[string]*Document)
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

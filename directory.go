package actionpack

import "sync"

// DefaultPackName is the name Directory.Get uses for an empty name.
const DefaultPackName = "default"

// Directory hands out named Packs, creating each on first use. It replaces a
// process-wide singleton: callers own the Directory and pass it around.
type Directory struct {
	mu    sync.Mutex
	opts  []Option
	packs map[string]*Pack
}

// NewDirectory creates a Directory whose Packs are built with opts.
func NewDirectory(opts ...Option) *Directory {
	return &Directory{
		opts:  opts,
		packs: make(map[string]*Pack),
	}
}

// Get returns the Pack called name, creating it if needed.
func (d *Directory) Get(name string) *Pack {
	if name == "" {
		name = DefaultPackName
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.packs[name]; ok {
		return p
	}
	p := New(d.opts...)
	d.packs[name] = p
	return p
}

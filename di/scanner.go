package di

import (
	"strings"
)

// Scanner enumerates the injectable descriptors found under a namespace root.
// It must not drop abstract descriptors; the Registry rejects them during Init.
type Scanner interface {
	Scan(root string) ([]Descriptor, error)
}

// ScannerFunc adapts a function to the Scanner interface.
type ScannerFunc func(root string) ([]Descriptor, error)

// Scan calls f(root).
func (f ScannerFunc) Scan(root string) ([]Descriptor, error) { return f(root) }

// List is a Scanner that yields its descriptors in order regardless of root.
// It gives tests a fixed, injected scan order.
type List []Descriptor

// Scan returns a copy of the list.
func (l List) Scan(string) ([]Descriptor, error) {
	out := make([]Descriptor, len(l))
	copy(out, l)
	return out, nil
}

type catalogEntry struct {
	namespace  string
	descriptor Descriptor
}

// Catalog is a build-time registration table. Each descriptor is recorded
// under the namespace that declares it, typically a Go import path.
// cmd/injectgen generates populated catalogs from source directives.
type Catalog struct {
	entries []catalogEntry
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Mark records descriptors under namespace and returns the catalog for chaining.
func (c *Catalog) Mark(namespace string, descriptors ...Descriptor) *Catalog {
	namespace = strings.TrimSuffix(namespace, "/")
	for _, d := range descriptors {
		c.entries = append(c.entries, catalogEntry{namespace: namespace, descriptor: d})
	}
	return c
}

// Scan returns, in mark order, every descriptor whose namespace is root or
// lies below it. An empty root matches everything.
func (c *Catalog) Scan(root string) ([]Descriptor, error) {
	root = strings.TrimSuffix(root, "/")
	out := make([]Descriptor, 0, len(c.entries))
	for _, e := range c.entries {
		if underRoot(e.namespace, root) {
			out = append(out, e.descriptor)
		}
	}
	return out, nil
}

// Len returns the number of recorded descriptors.
func (c *Catalog) Len() int { return len(c.entries) }

func underRoot(namespace, root string) bool {
	if root == "" || namespace == root {
		return true
	}
	return strings.HasPrefix(namespace, root+"/")
}

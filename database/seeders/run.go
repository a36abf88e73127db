// Package seeders holds the named seed functions run by `catalogue seed`.
//
//	func init() {
//	    seeders.Register("catalog", seedCatalog)
//	}
package seeders

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/shashiranjanraj/catalogue/app/services"
)

// SeederFunc seeds through the catalog services so that every invariant the
// API enforces also holds for seeded rows.
type SeederFunc func(ctx context.Context, svc *services.Catalog) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder. Seeders run in registration order.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder and stops on the first error.
func RunAll(ctx context.Context, svc *services.Catalog, out io.Writer) error {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Fprintln(out, "  (no seeders registered)")
		return nil
	}

	for _, e := range current {
		fmt.Fprintf(out, "  • Running seeder: %s … ", e.name)
		if err := e.fn(ctx, svc); err != nil {
			fmt.Fprintln(out, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintln(out, "done")
	}
	return nil
}

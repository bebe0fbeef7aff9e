package transfer

import (
	"context"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	ioutils "github.com/handiism/fplsync/internal/io"
)

// MinBudget is the smallest budget a Director accepts.
const MinBudget = 1024

// SpaceProbe reports the bytes available to unprivileged users on the file
// system holding path.
type SpaceProbe interface {
	Free(path string) (int64, error)
}

// SpaceProbeFunc adapts a function to SpaceProbe.
type SpaceProbeFunc func(path string) (int64, error)

// Free calls f(path).
func (f SpaceProbeFunc) Free(path string) (int64, error) {
	return f(path)
}

// ComputeBudget combines free and reclaimable space with the optional limits.
//
// total is free + reclaimable. A negative maxSize yields total + maxSize, a
// non-negative one min(total, maxSize). minFree further limits the budget to
// total - minFree.
func ComputeBudget(free, reclaimable int64, maxSize, minFree *int64) int64 {
	total := free + reclaimable
	budget := total

	if maxSize != nil {
		if *maxSize < 0 {
			budget = total + *maxSize
		} else {
			budget = min(total, *maxSize)
		}
	}
	if minFree != nil {
		budget = min(budget, total-*minFree)
	}
	return budget
}

// Reclaimable measures the regular files under dirs concurrently. Empty
// entries are skipped, and a directory inside another one (or equal to it)
// is only counted once.
func Reclaimable(ctx context.Context, dirs ...string) (int64, error) {
	var total atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for _, dir := range outermost(dirs) {
		g.Go(func() error {
			size, err := ioutils.DirSize(ctx, dir)
			if err != nil {
				return err
			}
			total.Add(size)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return total.Load(), nil
}

// outermost drops empty entries and entries lying within another entry.
func outermost(dirs []string) []string {
	var roots []string
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		dir = filepath.Clean(dir)

		covered := false
		kept := roots[:0]
		for _, root := range roots {
			switch {
			case within(dir, root):
				covered = true
				kept = append(kept, root)
			case within(root, dir):
				// root is replaced by dir below
			default:
				kept = append(kept, root)
			}
		}
		roots = kept
		if !covered {
			roots = append(roots, dir)
		}
	}
	return roots
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

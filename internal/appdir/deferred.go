package appdir

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"

	"github.com/probonopd/go-qtdeploy/internal/helpers"
)

// OperationKind tags a deferred filesystem operation
type OperationKind int

const (
	// OpSymlink creates a symlink inside the AppDir
	OpSymlink OperationKind = iota
	// OpDirectoryMerge merges a directory tree into the AppDir
	OpDirectoryMerge
)

// Operation is a queued filesystem mutation. Operations are plain
// descriptors rather than closures so that the queue stays inspectable.
type Operation struct {
	Kind OperationKind
	// Source is the symlink target or the merge source directory
	Source string
	// Destination is the link path or merge destination, relative to
	// the AppDir root
	Destination string
}

// QueueSymlink queues the creation of a symlink pointing at target, at the
// given link path relative to the AppDir root. Execution is postponed until
// ExecuteDeferredOperations so that links are never created before the
// deployers have laid out their targets.
func (a *AppDir) QueueSymlink(target, link string) {
	a.log.Debug().Str("target", target).Str("link", link).Msg("queueing symlink")
	a.deferredOperations = append(a.deferredOperations, Operation{
		Kind:        OpSymlink,
		Source:      target,
		Destination: link,
	})
}

// QueueDirectoryMerge queues merging the directory at src into the given
// destination relative to the AppDir root
func (a *AppDir) QueueDirectoryMerge(src, dst string) {
	a.log.Debug().Str("source", src).Str("destination", dst).Msg("queueing directory merge")
	a.deferredOperations = append(a.deferredOperations, Operation{
		Kind:        OpDirectoryMerge,
		Source:      src,
		Destination: dst,
	})
}

// DeferredOperations returns the queued operations in execution order
func (a *AppDir) DeferredOperations() []Operation {
	return a.deferredOperations
}

// ExecuteDeferredOperations drains the queue in order. It must be called
// exactly once, after every deployer has finished enqueuing.
func (a *AppDir) ExecuteDeferredOperations() error {
	for _, op := range a.deferredOperations {
		target := filepath.Join(a.path, op.Destination)
		switch op.Kind {
		case OpSymlink:
			if helpers.Exists(target) {
				a.log.Debug().Str("link", target).Msg("link path exists, leaving untouched")
				continue
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			if err := os.Symlink(op.Source, target); err != nil {
				return fmt.Errorf("could not create symlink %s: %w", target, err)
			}
		case OpDirectoryMerge:
			err := copy.Copy(op.Source, target, copy.Options{
				OnDirExists: func(src, dst string) copy.DirExistsAction {
					return copy.Merge
				},
			})
			if err != nil {
				return fmt.Errorf("could not merge directory into %s: %w", target, err)
			}
		default:
			return fmt.Errorf("unknown deferred operation kind: %d", op.Kind)
		}
	}
	a.deferredOperations = nil
	return nil
}

package syncer

import "context"

// Entry is one row of a remote directory listing. Names are only unique
// within a single listing, never across the tree.
type Entry struct {
	Name  string
	IsDir bool
	Size  int64
}

// Source is the remote tree capability the engine consumes. Implementations
// must return listings in server order and must not leave partially written
// files behind on a failed download.
type Source interface {
	List(ctx context.Context, dir string) ([]Entry, error)
	Download(ctx context.Context, remotePath, localPath string) error
}

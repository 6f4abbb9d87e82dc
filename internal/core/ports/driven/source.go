package driven

import "context"

// DocumentSource lists the documents waiting to be ingested.
type DocumentSource interface {
	// List returns document paths in dir in a stable order. A missing
	// directory is an error wrapping os.ErrNotExist.
	List(ctx context.Context, dir string) ([]string, error)
}

package templates

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches bounds parallel downloads per bundle.
const maxConcurrentFetches = 4

// FetchAll fetches every file in Files for version concurrently. The first
// failure cancels the remaining fetches.
func FetchAll(ctx context.Context, src Source, version string) (*Bundle, error) {
	return FetchFiles(ctx, src, version, Files)
}

// FetchFiles fetches files for version concurrently, keeping their order
// in the returned bundle.
func FetchFiles(ctx context.Context, src Source, version string, files []File) (*Bundle, error) {
	if version == "" {
		return nil, fmt.Errorf("rook version is required")
	}

	manifests := make([]Manifest, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i, file := range files {
		g.Go(func() error {
			data, err := src.Fetch(gctx, version, file)
			if err != nil {
				return err
			}
			manifests[i] = Manifest{File: file, Data: data}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Bundle{Version: version, Manifests: manifests}, nil
}

// Mirror uploads bundle to bucket under {prefix}/{version}/{name}, the
// layout S3Source reads.
func Mirror(ctx context.Context, bundle *Bundle, dst ObjectPutter, bucket, prefix string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for _, m := range bundle.Manifests {
		g.Go(func() error {
			key := objectKey(prefix, bundle.Version, m.File)
			if err := dst.PutObject(gctx, bucket, key, m.Data); err != nil {
				return fmt.Errorf("failed to mirror %s: %w", m.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

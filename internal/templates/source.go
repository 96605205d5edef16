package templates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/imamik/rookctl/internal/platform/s3"
	"github.com/imamik/rookctl/internal/util/retry"
)

// DefaultBaseURL is the upstream Rook repository on raw.githubusercontent.com.
const DefaultBaseURL = "https://raw.githubusercontent.com/rook/rook"

const examplesDir = "cluster/examples/kubernetes/ceph"

// ErrNotFound is returned when a source has no such manifest for a version.
var ErrNotFound = errors.New("manifest not found")

// Source fetches one manifest of a Rook release.
type Source interface {
	Fetch(ctx context.Context, version string, file File) ([]byte, error)
	// String describes the source for logs.
	String() string
}

// HTTPError is returned for non-200 responses.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is matches ErrNotFound for 404 responses.
func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// HTTPSource downloads manifests from a Rook repository over HTTP.
type HTTPSource struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// Client defaults to http.DefaultClient.
	Client *http.Client
	// Retry configures attempts for transient failures.
	Retry []retry.Option
}

// URL returns the download location of file for version.
func (s *HTTPSource) URL(version string, file File) string {
	base := s.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return fmt.Sprintf("%s/v%s/%s/%s", strings.TrimSuffix(base, "/"), version, examplesDir, file.Path)
}

func (s *HTTPSource) String() string {
	if s.BaseURL == "" {
		return DefaultBaseURL
	}
	return s.BaseURL
}

// Fetch downloads file, retrying network errors and 5xx responses. Client
// errors (4xx) are not retried.
func (s *HTTPSource) Fetch(ctx context.Context, version string, file File) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	url := s.URL(version, file)

	var data []byte
	err := retry.WithExponentialBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return retry.Fatal(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			httpErr := &HTTPError{URL: url, StatusCode: resp.StatusCode}
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return retry.Fatal(httpErr)
			}
			return httpErr
		}

		data, err = io.ReadAll(resp.Body)
		return err
	}, s.Retry...)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", file.Name, err)
	}
	return data, nil
}

// ObjectGetter reads objects from a bucket. *s3.Client implements it.
type ObjectGetter interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// ObjectPutter writes objects to a bucket. *s3.Client implements it.
type ObjectPutter interface {
	PutObject(ctx context.Context, bucket, key string, data []byte) error
}

// S3Source reads manifests mirrored under {prefix}/{version}/{name}.
type S3Source struct {
	Client ObjectGetter
	Bucket string
	Prefix string
}

// Key returns the object key of file for version.
func (s *S3Source) Key(version string, file File) string {
	return objectKey(s.Prefix, version, file)
}

func (s *S3Source) String() string {
	return fmt.Sprintf("s3://%s/%s", s.Bucket, strings.Trim(s.Prefix, "/"))
}

// Fetch downloads the mirrored object.
func (s *S3Source) Fetch(ctx context.Context, version string, file File) ([]byte, error) {
	data, err := s.Client.GetObject(ctx, s.Bucket, s.Key(version, file))
	if errors.Is(err, s3.ErrNotFound) {
		return nil, fmt.Errorf("failed to fetch %s from %s: %w: %w", file.Name, s, ErrNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s from %s: %w", file.Name, s, err)
	}
	return data, nil
}

func objectKey(prefix, version string, file File) string {
	return strings.TrimPrefix(path.Join(prefix, version, file.Name), "/")
}

// DirSource reads manifests from {Dir}/{version}/{name}.
type DirSource struct {
	Dir string
}

func (s *DirSource) String() string {
	return s.Dir
}

// Fetch reads the file from disk.
func (s *DirSource) Fetch(_ context.Context, version string, file File) ([]byte, error) {
	p := filepath.Join(s.Dir, version, file.Name)
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", p, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return data, nil
}

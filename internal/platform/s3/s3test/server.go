// Package s3test provides an in-memory S3 endpoint for tests.
package s3test

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Server is a path-style S3 endpoint holding buckets in memory. It supports
// the calls made by the s3 package: HeadBucket, CreateBucket, PutObject,
// GetObject and ListObjectsV2.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	buckets map[string]map[string][]byte
	// Requests counts handled requests by method.
	requests map[string]int
}

// NewServer starts a Server and closes it when the test ends.
func NewServer(t testing.TB, buckets ...string) *Server {
	t.Helper()
	s := &Server{
		buckets:  make(map[string]map[string][]byte),
		requests: make(map[string]int),
	}
	for _, b := range buckets {
		s.buckets[b] = make(map[string][]byte)
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Client returns an SDK client pointed at the server with retries disabled.
func (s *Server) Client() *s3.Client {
	return s3.New(s3.Options{
		Region:           "us-east-1",
		BaseEndpoint:     aws.String(s.URL),
		UsePathStyle:     true,
		Credentials:      credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		RetryMaxAttempts: 1,
	})
}

// Put stores an object directly.
func (s *Server) Put(bucket, key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buckets[bucket] == nil {
		s.buckets[bucket] = make(map[string][]byte)
	}
	s.buckets[bucket][key] = append([]byte(nil), data...)
}

// Object returns a stored object.
func (s *Server) Object(bucket, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.buckets[bucket][key]
	return data, ok
}

// HasBucket reports whether bucket exists.
func (s *Server) HasBucket(bucket string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.buckets[bucket]
	return ok
}

// Requests returns how many requests used method.
func (s *Server) Requests(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method]
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[r.Method]++

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	objects, exists := s.buckets[bucket]

	switch {
	case key == "" && r.Method == http.MethodHead:
		if !exists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)

	case key == "" && r.Method == http.MethodPut:
		if exists {
			writeError(w, http.StatusConflict, "BucketAlreadyOwnedByYou")
			return
		}
		s.buckets[bucket] = make(map[string][]byte)
		w.WriteHeader(http.StatusOK)

	case key == "" && r.Method == http.MethodGet:
		if !exists {
			writeError(w, http.StatusNotFound, "NoSuchBucket")
			return
		}
		s.list(w, bucket, objects, r.URL.Query().Get("prefix"))

	case r.Method == http.MethodPut:
		if !exists {
			writeError(w, http.StatusNotFound, "NoSuchBucket")
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "IncompleteBody")
			return
		}
		objects[key] = body
		w.WriteHeader(http.StatusOK)

	case r.Method == http.MethodGet:
		if !exists {
			writeError(w, http.StatusNotFound, "NoSuchBucket")
			return
		}
		data, ok := objects[key]
		if !ok {
			writeError(w, http.StatusNotFound, "NoSuchKey")
			return
		}
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)

	default:
		writeError(w, http.StatusMethodNotAllowed, "MethodNotAllowed")
	}
}

type listResult struct {
	XMLName     xml.Name      `xml:"ListBucketResult"`
	Name        string        `xml:"Name"`
	Prefix      string        `xml:"Prefix"`
	KeyCount    int           `xml:"KeyCount"`
	IsTruncated bool          `xml:"IsTruncated"`
	Contents    []listContent `xml:"Contents"`
}

type listContent struct {
	Key  string `xml:"Key"`
	Size int    `xml:"Size"`
}

func (s *Server) list(w http.ResponseWriter, bucket string, objects map[string][]byte, prefix string) {
	result := listResult{Name: bucket, Prefix: prefix}
	keys := make([]string, 0, len(objects))
	for k := range objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		result.Contents = append(result.Contents, listContent{Key: k, Size: len(objects[k])})
	}
	result.KeyCount = len(keys)

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_ = xml.NewEncoder(w).Encode(result)
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>%s</Code>
  <Message>%s</Message>
</Error>`, code, code)
}

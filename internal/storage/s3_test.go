package storage

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/EmpoweredVote/EV-Dashboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := NewS3(t.Context(), config.AWSConfig{Region: "us-east-1"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestURL(t *testing.T) {
	s := &S3{bucket: "pics", region: "eu-west-1"}
	assert.Equal(t, "https://pics.s3.eu-west-1.amazonaws.com/profile-pictures/a%20b.png", s.URL("profile-pictures/a b.png"))

	s.endpoint = "http://minio:9000"
	assert.Equal(t, "http://minio:9000/pics/profile-pictures/x.png", s.URL("profile-pictures/x.png"))
}

func TestPutAgainstCustomEndpoint(t *testing.T) {
	var (
		mu          sync.Mutex
		gotMethod   string
		gotPath     string
		gotType     string
		gotBodySize int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotMethod, gotPath, gotType, gotBodySize = r.Method, r.URL.Path, r.Header.Get("Content-Type"), len(body)
		mu.Unlock()
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, err := NewS3(t.Context(), config.AWSConfig{
		Region:          "us-east-1",
		Bucket:          "pics",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		Endpoint:        srv.URL + "/",
	})
	require.NoError(t, err)

	u, err := s.Put(t.Context(), "profile-pictures/x.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/pics/profile-pictures/x.png", u)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/pics/profile-pictures/x.png", gotPath)
	assert.Equal(t, "image/png", gotType)
	assert.Positive(t, gotBodySize)
}

func TestPutReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `<?xml version="1.0"?><Error><Code>AccessDenied</Code><Message>nope</Message></Error>`)
	}))
	defer srv.Close()

	s, err := NewS3(t.Context(), config.AWSConfig{
		Region: "us-east-1", Bucket: "pics", AccessKeyID: "k", SecretAccessKey: "s", Endpoint: srv.URL,
	})
	require.NoError(t, err)

	_, err = s.Put(t.Context(), "k.png", "image/png", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://pics/k.png")
}

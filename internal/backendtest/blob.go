package backendtest

import (
	"context"
	"io"
)

const PublicBaseURL = "https://blob.test"

type blobStore struct{ b *Backend }

func (s blobStore) Upload(ctx context.Context, bucket, name, contentType string, body io.Reader) (string, error) {
	if err := s.b.enter(ctx, OpUpload); err != nil {
		return "", err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	s.b.blobs[bucket+"/"+name] = data
	return PublicBaseURL + "/" + bucket + "/" + name, nil
}

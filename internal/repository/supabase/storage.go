package supabase

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/senuthbros6699-eng/dialect/domain"
)

type Storage struct {
	client *Client
}

var _ domain.BlobStore = (*Storage)(nil)

func NewStorage(client *Client) *Storage {
	return &Storage{client: client}
}

func (s *Storage) Upload(ctx context.Context, bucket, name, contentType string, body io.Reader) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	object := url.PathEscape(bucket) + "/" + url.PathEscape(name)
	req := request{
		method:      http.MethodPost,
		path:        "/storage/v1/object/" + object,
		bearer:      s.client.serviceKey,
		contentType: contentType,
		header:      map[string]string{"x-upsert": "false"},
		body:        body,
	}
	if err := s.client.do(ctx, req, nil); err != nil {
		return "", err
	}
	return s.client.baseURL + "/storage/v1/object/public/" + object, nil
}

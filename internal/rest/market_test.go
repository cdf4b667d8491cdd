package rest

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/backendtest"
	"github.com/senuthbros6699-eng/dialect/internal/rest/response"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/market"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartRequest(t *testing.T, method, path string, fields map[string]string, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func marketRoutes(b *backendtest.Backend, viewer *domain.Viewer) http.Handler {
	h := NewMarketHandler(market.NewService(b.MarketRepository(), b.BlobStore()))
	r := newRouter(viewer)
	r.GET("/market", h.Fetch)
	r.POST("/market", h.Sell)
	return r
}

func TestMarketSellAndFetch(t *testing.T) {
	b := backendtest.New()
	r := marketRoutes(b, ada)

	req := multipartRequest(t, http.MethodPost, "/market", map[string]string{"title": "Lamp", "price": "12.5"}, "lamp.png", []byte("png"))
	rec := serve(r, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	item := decode[response.MarketItem](t, rec)
	assert.Equal(t, "Lamp", item.Title)
	assert.Equal(t, ada.Email, item.SellerEmail)
	assert.Contains(t, item.ImageURL, "/marketplace/")
	assert.Contains(t, item.ImageURL, "-lamp.png")

	rec = doJSON(r, http.MethodGet, "/market", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]response.MarketItem](t, rec), 1)
}

func TestMarketSellRefusals(t *testing.T) {
	b := backendtest.New()

	rec := serve(marketRoutes(b, nil), multipartRequest(t, http.MethodPost, "/market",
		map[string]string{"title": "Lamp", "price": "1"}, "lamp.png", []byte("png")))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	r := marketRoutes(b, ada)
	rec = serve(r, multipartRequest(t, http.MethodPost, "/market",
		map[string]string{"title": "Lamp", "price": "1"}, "", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(r, multipartRequest(t, http.MethodPost, "/market",
		map[string]string{"title": "Lamp", "price": "-3"}, "lamp.png", []byte("png")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(r, multipartRequest(t, http.MethodPost, "/market",
		map[string]string{"price": "3"}, "lamp.png", []byte("png")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, b.Items())
}

func profileRoutes(b *backendtest.Backend, viewer *domain.Viewer) http.Handler {
	resolver := profile.NewResolver(b.ProfileRepository(), "")
	h := NewProfileHandler(profile.NewService(b.ProfileRepository(), b.PostRepository(), b.BlobStore(), resolver))
	r := newRouter(viewer)
	r.GET("/profiles/:username", h.GetByUsername)
	r.POST("/profiles/:username/:kind", h.UploadImage)
	return r
}

func TestProfilePage(t *testing.T) {
	b := backendtest.New()
	b.SeedPost(domain.Post{Author: "ada", Content: "one", LikesCount: 3})
	b.SeedPost(domain.Post{Author: "ada", Content: "two", LikesCount: -1})

	rec := doJSON(profileRoutes(b, ada), http.MethodGet, "/profiles/ada", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[response.Profile](t, rec)
	assert.True(t, page.IsOwner)
	assert.False(t, page.HasProfile)
	assert.Equal(t, 2, page.PostCount)
	assert.EqualValues(t, 3, page.Karma)
	assert.Contains(t, page.AvatarURL, "seed=ada")
}

func TestProfileUpload(t *testing.T) {
	b := backendtest.New()

	rec := serve(profileRoutes(b, ada), multipartRequest(t, http.MethodPost, "/profiles/ada/avatar", nil, "me.png", []byte("png")))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[domain.Profile](t, rec)
	assert.Contains(t, got.AvatarURL, backendtest.PublicBaseURL+"/profiles/ada-avatar-")

	rec = serve(profileRoutes(b, ada), multipartRequest(t, http.MethodPost, "/profiles/bob/avatar", nil, "me.png", []byte("png")))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(profileRoutes(b, nil), multipartRequest(t, http.MethodPost, "/profiles/ada/banner", nil, "me.png", []byte("png")))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(profileRoutes(b, ada), multipartRequest(t, http.MethodPost, "/profiles/ada/cover", nil, "me.png", []byte("png")))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

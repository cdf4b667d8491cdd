package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/rest/middleware"
	"github.com/senuthbros6699-eng/dialect/internal/rest/request"
	"github.com/senuthbros6699-eng/dialect/internal/rest/response"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/feed"
)

type FeedService interface {
	Communities(ctx context.Context) ([]domain.Community, error)
	Feed(ctx context.Context, slug, cursor string, num int64) (feed.Page, error)
	CommunityFeed(ctx context.Context, slug, cursor string, num int64) (feed.CommunityPage, error)
	CreatePost(ctx context.Context, viewer *domain.Viewer, slug, content string) (domain.Post, error)
}

// FeedHandler serves communities and their posts
type FeedHandler struct {
	Service FeedService
}

func NewFeedHandler(svc FeedService) *FeedHandler {
	return &FeedHandler{
		Service: svc,
	}
}

func (h *FeedHandler) FetchCommunities(c *gin.Context) {
	communities, err := h.Service.Communities(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	res := make([]response.Community, len(communities))
	for i := range communities {
		res[i] = response.NewCommunityFromDomain(&communities[i])
	}
	c.JSON(http.StatusOK, res)
}

// GetCommunity returns the community with its first page of posts
func (h *FeedHandler) GetCommunity(c *gin.Context) {
	slug := c.Param("slug")
	page, err := h.Service.CommunityFeed(c.Request.Context(), slug, c.Query("cursor"), pageNum(c))
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "community not found", "slug": slug})
		return
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("X-Cursor", page.NextCursor)
	c.JSON(http.StatusOK, response.NewCommunityFeed(page))
}

func (h *FeedHandler) FetchCommunityPosts(c *gin.Context) {
	h.fetch(c, c.Param("slug"))
}

// FetchHome lists posts of every community
func (h *FeedHandler) FetchHome(c *gin.Context) {
	h.fetch(c, "")
}

func (h *FeedHandler) fetch(c *gin.Context, slug string) {
	page, err := h.Service.Feed(c.Request.Context(), slug, c.Query("cursor"), pageNum(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("X-Cursor", page.NextCursor)
	c.JSON(http.StatusOK, response.NewFeed(page))
}

func (h *FeedHandler) StorePost(c *gin.Context) {
	var req request.Content
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	post, err := h.Service.CreatePost(c.Request.Context(), middleware.ViewerOf(c), c.Param("slug"), req.Content)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.NewPostFromDomain(&post, ""))
}

package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/rest/middleware"
	"github.com/senuthbros6699-eng/dialect/internal/rest/response"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/profile"
)

type ProfileService interface {
	Page(ctx context.Context, username string, viewer *domain.Viewer) (profile.Page, error)
	UploadImage(ctx context.Context, viewer *domain.Viewer, username string, kind profile.ImageKind, img profile.Upload) (domain.Profile, error)
}

type ProfileHandler struct {
	Service ProfileService
}

func NewProfileHandler(svc ProfileService) *ProfileHandler {
	return &ProfileHandler{
		Service: svc,
	}
}

func (h *ProfileHandler) GetByUsername(c *gin.Context) {
	page, err := h.Service.Page(c.Request.Context(), c.Param("username"), middleware.ViewerOf(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewProfile(page))
}

// UploadImage replaces the avatar or banner from the multipart field "image"
func (h *ProfileHandler) UploadImage(c *gin.Context) {
	kind, err := profile.ParseImageKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: "an image is required"})
		return
	}
	file, err := fh.Open()
	if err != nil {
		abortWithError(c, err)
		return
	}
	defer file.Close()

	p, err := h.Service.UploadImage(c.Request.Context(), middleware.ViewerOf(c), c.Param("username"), kind, profile.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

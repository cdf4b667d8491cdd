package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/senuthbros6699-eng/dialect/internal/rest/request"
	"github.com/senuthbros6699-eng/dialect/internal/rest/response"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/comment"
)

// FetchComments expands the thread when it is collapsed and returns it
func (h *SessionHandler) FetchComments(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	thread, err := h.session(c).Thread(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	view := thread.View()
	if view.State == comment.Collapsed {
		view, err = thread.Expand(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, response.NewThread(view))
}

func (h *SessionHandler) ToggleComments(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	thread, err := h.session(c).Thread(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	view, err := thread.Toggle(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewThread(view))
}

// CreateComment shows the comment as pending at once and stores it in the background
func (h *SessionHandler) CreateComment(c *gin.Context) {
	var req request.Content
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}
	id, ok := postID(c)
	if !ok {
		return
	}
	thread, err := h.session(c).Thread(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	pending, err := thread.PostComment(c.Request.Context(), req.Content)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, response.NewCommentFromDomain(&pending))
}

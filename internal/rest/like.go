package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/senuthbros6699-eng/dialect/internal/rest/response"
)

func (h *SessionHandler) GetLike(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	toggle, err := h.session(c).Like(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewLike(toggle.Snapshot()))
}

// ToggleLike flips the like at once; the write finishes in the background
func (h *SessionHandler) ToggleLike(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	toggle, err := h.session(c).Like(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	snap, err := toggle.Toggle(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, response.NewLike(snap))
}

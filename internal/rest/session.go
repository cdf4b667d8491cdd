package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/rest/middleware"
	"github.com/senuthbros6699-eng/dialect/internal/session"
)

type SessionStore interface {
	Get(viewer *domain.Viewer) *session.Session
}

// SessionHandler serves the stateful components of a viewer: likes, comment
// threads, the chat lounge and pending notices
type SessionHandler struct {
	Sessions SessionStore
}

func NewSessionHandler(sessions SessionStore) *SessionHandler {
	return &SessionHandler{
		Sessions: sessions,
	}
}

func (h *SessionHandler) session(c *gin.Context) *session.Session {
	return h.Sessions.Get(middleware.ViewerOf(c))
}

// FetchNotices drains the viewer's notices
func (h *SessionHandler) FetchNotices(c *gin.Context) {
	c.JSON(http.StatusOK, h.session(c).Notices().Drain())
}

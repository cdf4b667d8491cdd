package rest

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/rest/request"
	"github.com/senuthbros6699-eng/dialect/internal/rest/response"
	"github.com/sirupsen/logrus"
)

const streamBuffer = 64

// OpenChat switches the viewer's lounge to the community and returns its history
func (h *SessionHandler) OpenChat(c *gin.Context) {
	sess := h.session(c)
	chat, err := sess.Chat().Ensure(c.Request.Context(), c.Param("slug"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	msgs := chat.Messages()
	if sess.Ephemeral() {
		_ = sess.Close()
	}
	c.JSON(http.StatusOK, response.NewMessagesFromDomain(msgs))
}

func (h *SessionHandler) SendMessage(c *gin.Context) {
	var req request.Content
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}
	sess := h.session(c)
	// 匿名用户不能发言，也不必打开聊天室
	if sess.Ephemeral() {
		sess.Notices().Notify(domain.NewNotice("Please sign in to chat."))
		abortWithError(c, domain.ErrUnauthenticated)
		return
	}
	chat, err := sess.Chat().Ensure(c.Request.Context(), c.Param("slug"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	msg, err := chat.Send(c.Request.Context(), req.Content)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.NewMessageFromDomain(&msg))
}

// CloseChat leaves the lounge of the community if it is the open one
func (h *SessionHandler) CloseChat(c *gin.Context) {
	slot := h.session(c).Chat()
	if cur := slot.Current(); cur != nil && cur.Community() == c.Param("slug") {
		if err := slot.Close(); err != nil {
			logrus.Warnf("failed to close chat of %s: %v", cur.Community(), err)
		}
	}
	c.Status(http.StatusNoContent)
}

// StreamChat sends the history as one "history" event, then every new
// message as a "message" event until the client leaves or the lounge closes
func (h *SessionHandler) StreamChat(c *gin.Context) {
	sess := h.session(c)
	chat, err := sess.Chat().Ensure(c.Request.Context(), c.Param("slug"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if sess.Ephemeral() {
		defer sess.Close()
	}

	// 先监听再取历史，避免中间的消息丢失
	ch, cancel := chat.Listen(streamBuffer)
	defer cancel()
	history := response.NewMessagesFromDomain(chat.Messages())

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("history", history)
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case m, ok := <-ch:
			if !ok {
				c.SSEvent("closed", gin.H{"community": chat.Community()})
				return false
			}
			c.SSEvent("message", response.NewMessageFromDomain(&m))
			return true
		case <-ctx.Done():
			return false
		}
	})
}

package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/rest/middleware"
	"github.com/senuthbros6699-eng/dialect/internal/rest/request"
	"github.com/senuthbros6699-eng/dialect/internal/rest/response"
)

type AuthService interface {
	SignIn(ctx context.Context, email string) error
	Verify(ctx context.Context, email, token string) (domain.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

type AuthHandler struct {
	Service AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{
		Service: svc,
	}
}

// RequestOTP mails a magic link / one-time code
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req request.OTP
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}
	if err := h.Service.SignIn(c.Request.Context(), req.Email); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Check your e-mail for the sign in link"})
}

func (h *AuthHandler) Verify(c *gin.Context) {
	var req request.Verify
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}
	session, err := h.Service.Verify(c.Request.Context(), req.Email, req.Token)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewSessionFromDomain(&session))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Service.SignOut(c.Request.Context(), middleware.BearerToken(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

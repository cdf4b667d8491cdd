package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/sirupsen/logrus"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

const (
	DefaultPageNum = 20
	PageMinNum     = 1
	PageMaxNum     = 100
)

func pageNum(c *gin.Context) int64 {
	numS := c.Query("num")
	if numS == "" {
		return DefaultPageNum
	}
	num, err := strconv.Atoi(numS)
	if err != nil || num < PageMinNum || num > PageMaxNum {
		logrus.Warnf("Invalid param 'num': %q", numS)
		return DefaultPageNum
	}
	return int64(num)
}

func postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return 0, false
	}
	return id, true
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
}

// getStatusCode will get the code of the error returned by a component
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrBadParamInput), errors.Is(err, domain.ErrEmptyContent):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrSessionClosed):
		return http.StatusGone
	default:
		logrus.Error(err)
		return http.StatusInternalServerError
	}
}

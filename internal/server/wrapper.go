package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	bionic "github.com/tassa-yoniso-manasi-karoto/go-bionic"
)

var errBadRequest = errors.New("bad request")

type handlerFunc func(c *gin.Context) (interface{}, error)

// errorResponse is the body of every failed request
type errorResponse struct {
	Detail string `json:"detail"`
}

// statusOf maps an error to its HTTP status
func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, bionic.ErrInputEmpty):
		return http.StatusBadRequest
	case errors.Is(err, bionic.ErrAnalyzerUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, bionic.ErrAnalyzer):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func wrapHandler(handle handlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := handle(c)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(statusOf(err), errorResponse{Detail: err.Error()})
			return
		}
		c.JSON(http.StatusOK, data)
	}
}

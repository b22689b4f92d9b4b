package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	Err            error  `json:"-"`
	HTTPStatusCode int    `json:"-"`
	StatusText     string `json:"status"`
	ErrorMsg       string `json:"error"`
	// ArticleIDs lists the ids a purchase could not price.
	ArticleIDs []uint `json:"article_ids,omitempty"`
}

func (e *Err) Error() string {
	return e.ErrorMsg
}

// RenderErr aborts the request with err. Server errors are logged with their
// cause and only a generic message reaches the client.
func RenderErr(ctx *gin.Context, err *Err) {
	if err.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error(err.StatusText,
			zap.Error(err.Err),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
		)
	}

	ctx.AbortWithStatusJSON(err.HTTPStatusCode, err)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Bad request.",
		ErrorMsg:       err.Error(),
	}
}

func ErrNotFound(resource, field string, value any) *Err {
	return &Err{
		Err:            fmt.Errorf("%s not found", resource),
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Resource not found.",
		ErrorMsg:       fmt.Sprintf("%s with %s %v not found", resource, field, value),
	}
}

func ErrArticlesNotFound(err error, ids []uint) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Resource not found.",
		ErrorMsg:       "articles not found",
		ArticleIDs:     ids,
	}
}

func ErrPaymentRequired(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusPaymentRequired,
		StatusText:     "Payment required.",
		ErrorMsg:       "not enough credit",
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusConflict,
		StatusText:     "Conflict.",
		ErrorMsg:       "the operation conflicted with a concurrent one, try again",
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Wrong credentials.",
		ErrorMsg:       "username or password is incorrect",
	}
}

func ErrUnauthorized(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Unauthorized.",
		ErrorMsg:       err.Error(),
	}
}

func ErrTooManyRequests(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusTooManyRequests,
		StatusText:     "Too many requests.",
		ErrorMsg:       err.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
		ErrorMsg:       "something went wrong",
	}
}

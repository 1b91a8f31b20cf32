package middleware

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/section3-pro/compliance-backend/errors"
	"github.com/section3-pro/compliance-backend/logger"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ErrorHandler renders the last error attached to the context. Handlers call
// c.Error(err) and return.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		last := c.Errors.Last()
		err := last.Err

		var appError *errors.AppError
		if stderrors.As(err, &appError) {
			status := appError.GetHTTPStatus()
			logger.LogHTTPError(c, err, status, string(appError.Type)+" error")
			c.JSON(status, newErrorResponse(appError))
			return
		}

		if last.Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, http.StatusBadRequest, "Request binding error")
			response := ErrorResponse{
				Type:    string(errors.ValidationError),
				Message: "Failed to bind request",
				Code:    strconv.Itoa(http.StatusBadRequest),
			}
			if gin.IsDebugging() {
				response.Details = err.Error()
			}
			c.JSON(http.StatusBadRequest, response)
			return
		}

		logger.LogHTTPError(c, err, http.StatusInternalServerError, "Unexpected server error")
		c.JSON(http.StatusInternalServerError,
			newErrorResponse(errors.Wrap(err, errors.ServerError, "Internal Server Error")))
	}
}

// Recovery turns a panic into a SERVER_ERROR response. The stack trace goes
// to gin's error writer.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		appError := errors.InternalServerError("Internal Server Error")
		appError.Detail = fmt.Sprint(recovered)
		logger.LogHTTPError(c, appError, http.StatusInternalServerError, "Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, newErrorResponse(appError))
	})
}

func newErrorResponse(appError *errors.AppError) ErrorResponse {
	status := appError.GetHTTPStatus()
	response := ErrorResponse{
		Type:    string(appError.Type),
		Message: appError.Message,
		Code:    strconv.Itoa(status),
	}
	// Details of dependency and server errors stay in the logs.
	if appError.Detail != "" && (gin.IsDebugging() ||
		appError.Type == errors.ValidationError ||
		appError.Type == errors.NotFoundError) {
		response.Details = appError.Detail
	}
	return response
}

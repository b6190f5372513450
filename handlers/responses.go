package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"footnote/middleware"
	"footnote/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// statusFor maps a service error kind to an HTTP status.
func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": msg} for err. Server-side failures are
// logged with their cause and answered with fallback instead.
func respondError(c *gin.Context, log logrus.FieldLogger, err error, fallback string) {
	respondErrorStatus(c, log, err, statusFor(services.KindOf(err)), fallback)
}

func respondErrorStatus(c *gin.Context, log logrus.FieldLogger, err error, status int, fallback string) {
	entry := middleware.RequestLog(c, log).WithError(err).WithField("kind", services.KindOf(err).String())
	if status >= http.StatusInternalServerError {
		entry.Error(fallback)
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": fallback})
		return
	}

	entry.Debug("Request rejected")
	c.JSON(status, gin.H{"error": services.MessageOf(err)})
}

// respondBindError answers a failed ShouldBind* with 400.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request",
			"details": formatValidationErrors(verrs),
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func formatValidationErrors(verrs validator.ValidationErrors) []string {
	var out []string
	for _, fe := range verrs {
		element := fmt.Sprintf("Field '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			element = fmt.Sprintf("%s (value: %s)", element, fe.Param())
		}
		out = append(out, element)
	}
	return out
}

// parseID parses a positive int64 id.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/storepickup/internal/domain/errors"
	"github.com/polkiloo/storepickup/internal/domain/model"
	"github.com/polkiloo/storepickup/internal/server/http/dto"
	"github.com/polkiloo/storepickup/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: msg})
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domainErrors.ErrCapacityExceeded):
		abortWithError(c, http.StatusConflict, "pickup slot unavailable, choose another time")
	case errors.Is(err, domainErrors.ErrInvalidTransition):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, domainErrors.ErrExpired):
		abortWithError(c, http.StatusGone, err.Error())
	case errors.Is(err, domainErrors.ErrInvalidSlot),
		errors.Is(err, domainErrors.ErrInvalidCode),
		errors.Is(err, domainErrors.ErrInvalidOrder),
		errors.Is(err, domainErrors.ErrStoreUnavailable):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domainErrors.ErrCodeConflict):
		abortWithError(c, http.StatusServiceUnavailable, "could not issue pickup code, retry later")
	default:
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "internal error")
	}
}

// parsePage reads limit and offset query parameters.
func parsePage(c *gin.Context) (model.Page, bool) {
	var page model.Page
	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &page.Limit}, {"offset", &page.Offset}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			abortWithError(c, http.StatusBadRequest, "invalid "+p.name)
			return model.Page{}, false
		}
		*p.dst = n
	}
	return page, true
}

// Package handler holds helpers shared by the HTTP handlers.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/care-portal-api/internal/model"
	apperrors "github.com/jwalitptl/care-portal-api/pkg/errors"
	"github.com/jwalitptl/care-portal-api/pkg/httputil"
)

// BindJSON decodes the body into obj. On failure the error is handed to the
// validation middleware and false is returned.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return false
	}
	return true
}

// ParamID parses a uuid path parameter and answers 400 when it is malformed
func ParamID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validationf("invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

// Pagination reads page and page_size query parameters
func Pagination(c *gin.Context) model.Pagination {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("page_size"))
	return model.Pagination{Page: page, PageSize: size}.Normalize()
}

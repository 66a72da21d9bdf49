package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-admin-gateway/internal/middleware"
	appErrors "github.com/noah-isme/school-admin-gateway/pkg/errors"
)

// idParam parses a positive numeric path parameter.
func idParam(c *gin.Context, name string) (int64, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+name)
	}
	return id, nil
}

func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body")
	}
	return nil
}

func metaWithCache(c *gin.Context, hit bool) map[string]interface{} {
	middleware.SetCacheHit(c, hit)
	return middleware.ExtractMeta(c)
}

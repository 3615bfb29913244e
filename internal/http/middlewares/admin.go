package middlewares

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/hxuan190/fundswap/internal/common"
	"github.com/hxuan190/fundswap/internal/http/httputil"
)

const AdminTokenHeader = "X-Admin-Token"

// AdminAuthMiddleware requires the X-Admin-Token header to match token. An
// empty token turns every admin route off.
func AdminAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			httputil.Fail(c, common.HTTPErrorForbidden("admin api disabled"))
			return
		}
		got := c.GetHeader(AdminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			httputil.Fail(c, common.HTTPErrorUnauthorized("invalid admin token"))
			return
		}
		c.Next()
	}
}

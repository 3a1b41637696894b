package common

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"germplasm-accession-importer/logging"
	"github.com/gin-gonic/gin"
)

/*
LogRequest 记录每个请求的方法、路径、状态码和耗时
*/
func LogRequest(ctx *gin.Context) {
	start := time.Now()
	ctx.Next()

	logging.Default().WithField("component", "http").Infof("%s %s -> %d (%s)",
		ctx.Request.Method, ctx.Request.URL.Path, ctx.Writer.Status(), time.Since(start))
}

/*
RejectNotAuthorized 要求请求携带 "Authorization: Bearer <token>"。token 为空时不做检查
*/
func RejectNotAuthorized(token string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token == "" {
			ctx.Next()
			return
		}

		header := ctx.GetHeader("Authorization")
		given := strings.TrimPrefix(header, "Bearer ")
		if given == header || subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, MakeErrorResp(CodeBadParam, "unauthorized", nil))
			return
		}

		ctx.Next()
	}
}

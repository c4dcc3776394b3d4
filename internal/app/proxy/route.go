package proxy

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.Any("/*path", handler.Forward)
}

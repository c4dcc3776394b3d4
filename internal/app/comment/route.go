package comment

import "github.com/gin-gonic/gin"

// RegisterRoutes expects every handler in mw to run before the comment
// handlers, typically login and rate limiting.
func RegisterRoutes(rg gin.IRoutes, handler Handler, mw ...gin.HandlerFunc) {
	rg.POST("/boards/:id/comments", append(mw, handler.Create)...)
	rg.POST("/boards/:id/comments/:cid", append(mw, handler.Update)...)
	rg.POST("/boards/:id/comments/:cid/delete", append(mw, handler.Delete)...)
}

package board

import "github.com/gin-gonic/gin"

// RegisterRoutes wires the board pages. requireLogin guards every write page;
// limit additionally guards state-changing posts.
func RegisterRoutes(rg gin.IRoutes, handler Handler, requireLogin, limit gin.HandlerFunc) {
	rg.GET("/", handler.List)
	rg.GET("/users/:username", handler.UserList)

	rg.GET("/boards/new", requireLogin, handler.New)
	rg.POST("/boards", requireLogin, limit, handler.Create)
	rg.GET("/boards/:id", handler.Detail)
	rg.GET("/boards/:id/edit", requireLogin, handler.Edit)
	rg.POST("/boards/:id", requireLogin, limit, handler.Update)
	rg.GET("/boards/:id/delete", requireLogin, handler.DeleteConfirm)
	rg.POST("/boards/:id/delete", requireLogin, limit, handler.Delete)
}

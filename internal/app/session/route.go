package session

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler, limit gin.HandlerFunc) {
	rg.GET("/login", handler.LoginPage)
	rg.POST("/login", limit, handler.Login)
	rg.GET("/register", handler.RegisterPage)
	rg.POST("/register", limit, handler.Register)
	rg.POST("/logout", handler.Logout)
}

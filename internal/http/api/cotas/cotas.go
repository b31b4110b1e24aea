// Package cotas exposes the HTTP surface for investment quota records.
package cotas

import (
	"github.com/Mavegui/API-Investimentos/internal/store"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterRoutes mounts the cota endpoints on the engine.
func RegisterRoutes(engine *gin.Engine, conn *gorm.DB) {
	handler := NewCotaHandler(store.NewCotaStore(conn))

	group := engine.Group("/cotas")
	group.POST("/", handler.Create)
	group.GET("/", handler.List)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
	group.GET("/:id/profit", handler.Profit)
}

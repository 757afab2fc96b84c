package middlewares

import (
	"log"
	"net/http"

	"autotestgen/models"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into the relay's generic 500 payload.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal Server Error"})
	})
}

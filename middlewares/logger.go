package middlewares

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger reports errors attached to the context by handlers, after the
// response has been written. The access line itself comes from gin's logger,
// so requests without errors are not logged here.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		for _, err := range c.Errors {
			log.Printf("%s %s -> %d (%v): %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), err.Err)
		}
	}
}

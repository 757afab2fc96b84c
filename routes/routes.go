package routes

import (
	"net/http"
	"os"

	"autotestgen/controllers"
	"autotestgen/middlewares"

	"github.com/gin-gonic/gin"
)

func SetupRouter(generate *controllers.GenerateController, chat *controllers.ChatController) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(os.Stdout))
	r.Use(middlewares.Recovery())
	r.Use(middlewares.CORS())
	r.Use(middlewares.Logger())

	tmpl, err := controllers.Template()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/api/generate", generate.HandleGenerate)

	r.GET("/", chat.ShowChat)
	r.POST("/chat/send", chat.SendMessage)
	r.POST("/chat/reset", chat.ResetChat)
	r.GET("/chat/messages", chat.GetMessages)

	return r, nil
}

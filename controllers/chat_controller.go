package controllers

import (
	"html/template"
	"net/http"

	"autotestgen/models"
	"autotestgen/services"
	"autotestgen/templates"

	"github.com/gin-gonic/gin"
)

// ChatController serves the single chat page over one Conversation.
type ChatController struct {
	conversation *services.Conversation
	markdown     *services.MarkdownRenderer
	model        string
}

func NewChatController(conversation *services.Conversation, markdown *services.MarkdownRenderer, model string) *ChatController {
	return &ChatController{
		conversation: conversation,
		markdown:     markdown,
		model:        model,
	}
}

type messageView struct {
	ID          string
	Role        models.Role
	Label       string
	Time        string
	HTML        template.HTML
	IsAssistant bool
}

type chatPage struct {
	Model      string
	Messages   []messageView
	Generating bool
}

// Template parses the embedded chat page for gin's HTML renderer.
func Template() (*template.Template, error) {
	return template.ParseFS(templates.FS, templates.ChatPage)
}

func (cc *ChatController) ShowChat(c *gin.Context) {
	messages := cc.conversation.Messages()

	page := chatPage{
		Model:      cc.model,
		Messages:   make([]messageView, 0, len(messages)),
		Generating: cc.conversation.Generating(),
	}
	for _, msg := range messages {
		view := messageView{
			ID:          msg.ID,
			Role:        msg.Role,
			Label:       "You",
			Time:        services.FormatTimestamp(msg.Timestamp),
			HTML:        cc.markdown.MustRender(msg.Content),
			IsAssistant: msg.Role == models.RoleAssistant,
		}
		if view.IsAssistant {
			view.Label = "Assistant"
		}
		page.Messages = append(page.Messages, view)
	}

	c.HTML(http.StatusOK, templates.ChatPage, page)
}

// SendMessage always redirects back to the page; blank input and sends
// while generating are silently ignored.
func (cc *ChatController) SendMessage(c *gin.Context) {
	cc.conversation.Send(c.PostForm("prompt"))
	c.Redirect(http.StatusSeeOther, "/#latest")
}

func (cc *ChatController) ResetChat(c *gin.Context) {
	cc.conversation.Reset()
	c.Redirect(http.StatusSeeOther, "/")
}

func (cc *ChatController) GetMessages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"messages":   cc.conversation.Messages(),
		"generating": cc.conversation.Generating(),
	})
}

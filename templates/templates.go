package templates

import "embed"

//go:embed *.html
var FS embed.FS

const ChatPage = "chat.html"

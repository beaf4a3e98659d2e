package ui

import (
	"fmt"
	"regexp"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	appmodel "mcpchat/model"
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
)

func (a *AppView) updateViewportContent(gotoBottom bool) {
	conv := a.dataModel.Conversation.State()

	if len(conv.Messages) == 0 && !conv.Loading && conv.Error == "" {
		a.viewport.SetContent("No messages yet. Start chatting!")
		return
	}

	var content strings.Builder

	for _, msg := range conv.Messages {
		timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

		if msg.IsUser {
			content.WriteString(formatUserMessage(timestamp, UserStyle.Render("You"), msg.Content))
			continue
		}

		body := a.renderReply(msg)
		content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, AssistantStyle.Render("Assistant"), body))
	}

	if conv.Loading {
		content.WriteString(fmt.Sprintf("%s %s\n\n", a.loadingSpinner.View(), DimStyle.Render("Waiting for response...")))
	}

	if conv.Error != "" {
		content.WriteString(ErrorStyle.Render("Error: "+conv.Error) + "\n\n")
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

// renderReply returns the terminal rendering of an assistant message,
// rendering markdown once per message and width.
func (a *AppView) renderReply(msg appmodel.Message) string {
	if msg.IsLoading {
		return a.loadingSpinner.View()
	}
	if msg.Error != "" {
		return ErrorStyle.Render(msg.Error)
	}

	if rendered, ok := a.renderCache[msg.ID]; ok {
		return rendered
	}
	rendered := renderMarkdown(msg.Content, a.width)
	a.renderCache[msg.ID] = rendered
	return rendered
}

// renderMarkdown renders content for a terminal of the given width. Autolink
// is off so URLs stay plain text for the terminal to detect.
func renderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return DimStyle.Render("(empty response)")
	}

	lineWidth := width - 4
	if lineWidth < 20 {
		lineWidth = 20
	}

	content = mdLinkRegex.ReplaceAllString(content, "$2")

	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(lineWidth, 0)
	doc := p.Parse([]byte(content))
	rendered := string(gomarkdown.Render(doc, r))

	// Blue background italics for inline code reads poorly; use red text
	rendered = inlineCodeRegex.ReplaceAllString(rendered, "\x1b[31m$1\x1b[0m")

	return strings.TrimRight(rendered, "\n")
}

func formatUserMessage(timestamp, role, content string) string {
	bar := UserStyle.Render("┃")

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	result.WriteString("\n")

	return result.String()
}

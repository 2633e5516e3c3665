package handlers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"diagnostic-center-server/internal/chat"
	"diagnostic-center-server/internal/config"
	"diagnostic-center-server/internal/utils"
)

// ChatHandler relays AI support conversations to the configured
// upstream chat-completions endpoint and streams the reply back.
type ChatHandler struct {
	Cfg    *config.Config
	Client *http.Client
	Logger *zap.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(cfg *config.Config, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		Cfg: cfg,
		Client: &http.Client{
			Timeout: time.Duration(cfg.Chat.TimeoutSeconds) * time.Second,
		},
		Logger: logger,
	}
}

// ChatMessage is one turn of the conversation.
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=system user assistant"`
	Content string `json:"content" binding:"required"`
}

// ChatRequest represents the request body for the support chat.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" binding:"required,min=1,dive"`
}

const supportSystemPrompt = "You are the support assistant of a diagnostic center. " +
	"Help visitors with lab tests, doctor appointments, home sample collection and report queries. " +
	"Be brief and polite; for medical advice, tell the visitor to consult a doctor."

// StreamChat forwards the conversation upstream with stream enabled
// and relays the chunked reply. Wire format, both directions:
// "data: {json}" lines, blank line between events, ":"-prefixed
// comment lines skipped, "data: [DONE]" terminates.
func (h *ChatHandler) StreamChat(c *gin.Context) {
	if h.Cfg.Chat.UpstreamURL == "" {
		utils.InternalServerError(c, "Chat support is not configured")
		return
	}

	var req ChatRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	messages := make([]ChatMessage, 0, len(req.Messages)+1)
	messages = append(messages, ChatMessage{Role: "system", Content: supportSystemPrompt})
	messages = append(messages, req.Messages...)

	payload, err := json.Marshal(map[string]interface{}{
		"model":    h.Cfg.Chat.Model,
		"messages": messages,
		"stream":   true,
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to encode upstream request: "+err.Error())
		return
	}

	upstreamReq, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, h.Cfg.Chat.UpstreamURL, bytes.NewReader(payload))
	if err != nil {
		utils.InternalServerError(c, "Failed to build upstream request: "+err.Error())
		return
	}
	upstreamReq.Header.Set("Content-Type", "application/json")
	upstreamReq.Header.Set("Authorization", "Bearer "+h.Cfg.Chat.APIKey)

	resp, err := h.Client.Do(upstreamReq)
	if err != nil {
		h.Logger.Error("chat upstream unreachable", zap.Error(err))
		utils.InternalServerError(c, "Chat upstream unreachable")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		h.Logger.Error("chat upstream rejected request", zap.Int("status", resp.StatusCode))
		utils.InternalServerError(c, "Chat upstream returned an error")
		return
	}

	// Set headers for SSE
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		event, ok, err := chat.ParseLine(line)
		if err != nil {
			h.Logger.Warn("dropping malformed chat line", zap.Error(err))
			continue
		}
		if !ok {
			continue // comment or blank line
		}

		// Forward the upstream payload unmodified.
		if _, err := c.Writer.WriteString(chat.FormatLine(line[len("data: "):])); err != nil {
			return // client went away
		}
		c.Writer.Flush()

		if event.Done {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		h.Logger.Error("chat stream interrupted", zap.Error(err))
	}
}

package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lupa-app/lupa/internal/metrics"
	"github.com/lupa-app/lupa/internal/webhook"
	"github.com/lupa-app/lupa/pkg/response"
)

const userTokenHeader = "X-User-Token"

type chatReq struct {
	Message string `json:"message" binding:"required,max=4000"`
}

// Chat relays a chat widget message; the caller's X-User-Token identifies
// the conversation upstream.
func (h *Handler) Chat(c *gin.Context) {
	token := strings.TrimSpace(c.GetHeader(userTokenHeader))
	if token == "" {
		response.BadRequest(c, "user token is required")
		return
	}
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "message is required")
		return
	}

	reply, err := h.Webhook.Chat(c.Request.Context(), token, req.Message)
	if err != nil {
		h.webhookError(c, "chat", err)
		return
	}
	metrics.WebhookRequests.WithLabelValues("chat", metrics.ResultSuccess).Inc()
	response.OK(c, reply)
}

// Contact forwards the landing page contact form.
func (h *Handler) Contact(c *gin.Context) {
	var form webhook.ContactForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "nome, email and mensagem are required")
		return
	}
	if err := h.Webhook.SubmitContact(c.Request.Context(), form); err != nil {
		h.webhookError(c, "contact", err)
		return
	}
	metrics.WebhookRequests.WithLabelValues("contact", metrics.ResultSuccess).Inc()
	response.Message(c, "request received")
}

func (h *Handler) webhookError(c *gin.Context, hook string, err error) {
	var upErr *webhook.UpstreamError
	switch {
	case errors.As(err, &upErr), errors.Is(err, webhook.ErrMalformedReply):
		metrics.WebhookRequests.WithLabelValues(hook, metrics.ResultUpstream).Inc()
		h.Logger.Sugar().Warnw(hook+" webhook error", "err", err)
		response.BadGateway(c, hook+" service returned an error")
	default:
		metrics.WebhookRequests.WithLabelValues(hook, metrics.ResultUnavailable).Inc()
		h.Logger.Sugar().Errorw(hook+" webhook unavailable", "err", err)
		response.ServiceUnavailable(c, "failed to connect to "+hook+" service")
	}
}

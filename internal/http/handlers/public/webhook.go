package public

import (
	"github.com/carman72tmn/foodtech/internal/http/response"
	"github.com/carman72tmn/foodtech/internal/models"
	"github.com/carman72tmn/foodtech/internal/service"

	"github.com/gin-gonic/gin"
)

// webhookEventRequest is one event in the POS webhook batch.
type webhookEventRequest struct {
	EventType string      `json:"eventType"`
	EventID   string      `json:"correlationId"`
	EventInfo models.JSON `json:"eventInfo"`
}

// IikoWebhook ingests a POS webhook batch. Events are logged first, so a
// processing failure never loses the payload, and the endpoint always
// answers success to stop the POS from retrying forever.
func (h *Handler) IikoWebhook(c *gin.Context) {
	var events []webhookEventRequest
	if err := c.ShouldBindJSON(&events); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	inputs := make([]service.WebhookEventInput, 0, len(events))
	for _, event := range events {
		payload := models.JSON{}
		if event.EventInfo != nil {
			payload["eventInfo"] = map[string]interface{}(event.EventInfo)
		}
		inputs = append(inputs, service.WebhookEventInput{
			EventType: event.EventType,
			EventID:   event.EventID,
			Payload:   payload,
		})
	}

	if err := h.ReconcileService.HandleWebhookEvents(c.Request.Context(), inputs); err != nil {
		respondError(c, response.CodeInternal, "webhook processing failed", err)
		return
	}
	response.Success(c, gin.H{"received": len(inputs)})
}

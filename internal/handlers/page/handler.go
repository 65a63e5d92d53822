package page

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
)

// SubscribeTemplate must be loaded into the engine before serving.
const SubscribeTemplate = "subscribe.html"

// Subscribe renders the HTML subscription form.
func Subscribe(c *gin.Context) {
	c.HTML(http.StatusOK, SubscribeTemplate, gin.H{
		"Action":      "/api/subscribe",
		"Frequencies": models.Frequencies,
	})
}

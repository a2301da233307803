package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type campaignInput struct {
	Segment string `json:"segment" binding:"required"`
	Goal    string `json:"goal" binding:"required"`
	Tone    string `json:"tone"`
}

func (h *Handlers) GenerateMarketingContent(c *gin.Context) {
	var input campaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	text, err := h.Marketing.GenerateMarketingContent(ctx, input.Segment, input.Goal, input.Tone)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": text})
}

type sentimentInput struct {
	Feedback string `json:"feedback" binding:"required"`
}

func (h *Handlers) AnalyzeSentiment(c *gin.Context) {
	var input sentimentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	sentiment, err := h.Marketing.AnalyzeSentiment(ctx, input.Feedback)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sentiment": sentiment})
}

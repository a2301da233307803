package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handlers) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	token, user, err := h.Auth.Login(ctx, input.Email, input.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.SetCookie("token", token, 3600*24, "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"userID":   user.ID,
		"role":     user.Role,
		"fullName": user.Name,
	})
}

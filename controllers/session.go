package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bellapacxx/gwent-backend/services"
)

// SessionStatus returns seats, readiness and match progress
func SessionStatus(co *services.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, co.Status())
	}
}

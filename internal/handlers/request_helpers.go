package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

func respondNotFound(c *gin.Context, route string) {
	log.Printf("[%s] returning 404", route)
	c.String(http.StatusNotFound, "404 page not found")
	c.Abort()
}

func respondServerError(c *gin.Context, route string, err error) {
	log.Printf("[%s] returning 500: %v", route, err)
	c.String(http.StatusInternalServerError, "internal server error")
	c.Abort()
}

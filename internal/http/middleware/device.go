package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lumen-Displays-LLC/beacon/internal/db"
)

// DeviceTokenMiddleware authenticates device-originated calls. The permanent
// token is read from the X-Device-Token header or, for players that cannot
// set headers, the device_token query parameter. The loaded device is set as
// “currentDevice” in context.
func DeviceTokenMiddleware(store db.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Device-Token")
		if token == "" {
			token = c.Query("device_token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "device token is required"})
			return
		}

		device, err := store.GetDeviceByToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}

		c.Set("currentDevice", &device)
		c.Next()
	}
}

package delivery

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	natsio "github.com/nats-io/nats.go"
)

// NewHealthRouter exposes the operational health check. The business surface
// of this service is NATS-only; this listener exists for probes.
func NewHealthRouter(db *sql.DB, nc *natsio.Conn) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "reason": "database unreachable"})
			return
		}
		if !nc.IsConnected() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "reason": "nats disconnected"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

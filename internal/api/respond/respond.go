package respond

import (
	"ecobrinca/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Error writes err as {"error": "..."} with the status for its kind.
// Store and internal failures are logged with their cause and answered
// with a generic message.
func Error(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	if status >= 500 {
		log.Error().Err(err).Str("path", c.FullPath()).Str("kind", string(kind)).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": apperr.PublicMessage(err)})
}

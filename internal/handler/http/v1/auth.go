package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/campus_safety_system/internal/config"
	"github.com/shenikar/campus_safety_system/internal/models"
	"github.com/shenikar/campus_safety_system/internal/service"
	"github.com/sirupsen/logrus"
)

const actorContextKey = "actor"

// APIKeyAuthMiddleware - middleware для аутентификации по API-ключу
func APIKeyAuthMiddleware(cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			// Проверяем также заголовок Authorization: Bearer
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				apiKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if apiKey == "" {
			log.Warn("API key missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}

		isValid := false
		for _, key := range cfg.APIKeys {
			if key == apiKey {
				isValid = true
				break
			}
		}

		if !isValid {
			log.Warn("Invalid API key provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		c.Next()
	}
}

// ActorMiddleware извлекает действующее лицо из заголовков запроса.
// Аутентификация как таковая — внешний сервис; здесь только привязка
// идентичности к команде. Роли персонала сверяются со справочником,
// чтобы нельзя было объявить себя админом одним заголовком.
func ActorMiddleware(staff service.StaffDirectory, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, err := uuid.Parse(c.GetHeader("X-Actor-Id"))
		if err != nil {
			log.Warn("Actor id missing or malformed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "X-Actor-Id header required"})
			return
		}

		role, err := models.ParseRole(c.GetHeader("X-Actor-Role"))
		if err != nil {
			log.Warn("Actor role missing or unknown")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "X-Actor-Role header required"})
			return
		}

		actor := models.Actor{
			ID:   actorID,
			Name: c.GetHeader("X-Actor-Name"),
			Role: role,
		}

		if role.IsStaff() {
			verified, err := staff.GetStaff(c.Request.Context(), actorID)
			if err != nil || verified.Role != role {
				log.WithField("actor_id", actorID).Warn("Staff role claim rejected")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "staff role could not be verified"})
				return
			}
			actor.Name = verified.Name
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// actorFrom достает действующее лицо, положенное ActorMiddleware
func actorFrom(c *gin.Context) models.Actor {
	value, _ := c.Get(actorContextKey)
	actor, _ := value.(models.Actor)
	return actor
}

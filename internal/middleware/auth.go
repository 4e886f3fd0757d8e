package middleware

import (
	"strings"
	"time"

	apperrors "fintrack/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextKeySessionID is the gin context key holding the unlock
// session ID.
const ContextKeySessionID = "session_id"

// UnlockClaims are the JWT claims carried by an unlock token.
type UnlockClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// IssueUnlockToken creates a signed unlock token for a session. Tokens
// are issued only after the session's gate reaches the unlocked state.
func IssueUnlockToken(secret string, sessionID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := UnlockClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// RequireUnlock rejects requests that do not carry a valid unlock token.
func RequireUnlock(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			abortWithAppError(c, apperrors.ErrAppLocked)
			return
		}

		claims := &UnlockClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			abortWithAppError(c, apperrors.ErrAppLocked)
			return
		}

		c.Set(ContextKeySessionID, claims.SessionID)
		c.Next()
	}
}

func abortWithAppError(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{"code": appErr.Code, "message": appErr.Message},
	})
}

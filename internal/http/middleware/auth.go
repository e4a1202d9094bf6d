package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nurpe/ledger-service/internal/model"
	"github.com/nurpe/ledger-service/internal/service"
)

const (
	principalKey    = "principal"
	ProfileIDHeader = "profile_id"
)

type TokenParser interface {
	Enabled() bool
	Parse(token string) (uuid.UUID, error)
}

type IdentityResolver interface {
	Resolve(ctx context.Context, profileID uuid.UUID) (model.Principal, error)
	ResolveClient(ctx context.Context, profileID uuid.UUID) (model.Principal, error)
}

// Auth requires a resolvable caller. The profile id comes from a bearer
// token when tokens are enabled and one is sent, otherwise from the
// profile_id header.
func Auth(parser TokenParser, identities IdentityResolver) gin.HandlerFunc {
	return authenticate(parser, identities, true)
}

// OptionalAuth resolves the caller when credentials are present and lets
// anonymous requests through. Credentials that do not resolve are still
// rejected.
func OptionalAuth(parser TokenParser, identities IdentityResolver) gin.HandlerFunc {
	return authenticate(parser, identities, false)
}

func authenticate(parser TokenParser, identities IdentityResolver, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID, present, ok := declaredProfileID(c, parser)
		if !present {
			if required {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		principal, err := identities.Resolve(c.Request.Context(), profileID)
		if err != nil {
			abortResolveError(c, err, nil)
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireClient makes sure the request acts for a client profile. When
// param is set the client is taken from that path parameter and must match
// any already authenticated caller; otherwise the authenticated caller is
// used.
func RequireClient(identities IdentityResolver, param string) gin.HandlerFunc {
	justForClients := gin.H{"message": "Just for clients"}

	return func(c *gin.Context) {
		current, authenticated := MustPrincipal(c)

		var profileID uuid.UUID
		if param != "" {
			parsed, err := uuid.Parse(strings.TrimSpace(c.Param(param)))
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, justForClients)
				return
			}
			if authenticated && current.ProfileID != parsed {
				c.AbortWithStatusJSON(http.StatusUnauthorized, justForClients)
				return
			}
			profileID = parsed
		} else {
			if !authenticated {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			profileID = current.ProfileID
		}

		principal, err := identities.ResolveClient(c.Request.Context(), profileID)
		if err != nil {
			abortResolveError(c, err, justForClients)
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

func MustPrincipal(c *gin.Context) (model.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return model.Principal{}, false
	}
	principal, ok := value.(model.Principal)
	return principal, ok
}

// declaredProfileID reports the id the caller claims, whether any credential
// was sent, and whether it was well formed.
func declaredProfileID(c *gin.Context, parser TokenParser) (uuid.UUID, bool, bool) {
	if token := bearerToken(c); token != "" && parser != nil && parser.Enabled() {
		id, err := parser.Parse(token)
		return id, true, err == nil
	}

	raw := strings.TrimSpace(c.GetHeader(ProfileIDHeader))
	if raw == "" {
		return uuid.Nil, false, false
	}
	id, err := uuid.Parse(raw)
	return id, true, err == nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func abortResolveError(c *gin.Context, err error, unauthorizedBody interface{}) {
	if errors.Is(err, service.ErrUnauthorized) {
		if unauthorizedBody != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorizedBody)
			return
		}
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/awslabs/lisa-admin/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthHeader = errors.New("invalid authorization header format")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrMissingUserID     = errors.New("missing user ID in token")
)

// JWKSet represents a JSON Web Key Set
type JWKSet struct {
	Keys []JWK `json:"keys"`
}

// JWK represents a JSON Web Key
type JWK struct {
	Kid string   `json:"kid"`
	Kty string   `json:"kty"`
	Use string   `json:"use"`
	N   string   `json:"n"`
	E   string   `json:"e"`
	X5c []string `json:"x5c"`
}

// AuthConfig holds identity provider configuration
type AuthConfig struct {
	Authority  string // OIDC authority, e.g. a Cognito user pool domain
	Audience   string
	AdminGroup string // group granting access to admin routes
}

// NewAuthConfig creates a new identity provider configuration
func NewAuthConfig(authority, audience, adminGroup string) *AuthConfig {
	return &AuthConfig{
		Authority:  authority,
		Audience:   audience,
		AdminGroup: adminGroup,
	}
}

// Authentication middleware validates bearer JWT tokens without signature
// verification. Intended for local development; production deployments use
// AuthenticationWithAuthority.
func Authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			return
		}

		parts := strings.Split(tokenString, ".")
		if len(parts) != 3 {
			logger.WithFields(logrus.Fields{
				"path":        c.Request.URL.Path,
				"parts_count": len(parts),
			}).Warn("Authentication failed: malformed token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "malformed_token",
				"message": fmt.Sprintf("JWT token must have 3 parts (header.payload.signature), got %d part(s)", len(parts)),
			})
			return
		}

		parser := jwt.NewParser(jwt.WithoutClaimsValidation())
		token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
		if err != nil || token == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": fmt.Sprintf("Failed to parse token: %v", err),
			})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": "Invalid token claims",
			})
			return
		}

		if exp, ok := claims["exp"].(float64); ok {
			if time.Now().Unix() > int64(exp) {
				logger.WithField("path", c.Request.URL.Path).Warn("Authentication failed: token expired")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":   "token_expired",
					"message": "Token has expired",
				})
				return
			}
		}

		if !setIdentity(c, claims) {
			return
		}

		c.Next()
	}
}

// AuthenticationWithAuthority middleware validates JWT tokens with full
// signature verification against the authority's JWKS endpoint
func AuthenticationWithAuthority(config *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}

			cert, err := getPemCert(token, config.Authority)
			if err != nil {
				return nil, err
			}

			return jwt.ParseRSAPublicKeyFromPEM([]byte(cert))
		})
		if err != nil {
			logger.WithFields(logrus.Fields{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			}).Warn("Authentication failed: token validation error")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": err.Error(),
			})
			return
		}

		if !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": "Token is not valid",
			})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": "Invalid token claims",
			})
			return
		}

		if config.Audience != "" && !audienceMatches(claims, config.Audience) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": "Invalid audience",
			})
			return
		}

		expectedIssuer := fmt.Sprintf("https://%s/", config.Authority)
		if iss, ok := claims["iss"].(string); !ok || iss != expectedIssuer {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": "Invalid issuer",
			})
			return
		}

		if !setIdentity(c, claims) {
			return
		}

		c.Next()
	}
}

// AdminOnly gates a route group to members of the configured admin group.
// It must run after an authentication middleware has populated the context.
func AdminOnly(adminGroup string) gin.HandlerFunc {
	return func(c *gin.Context) {
		groups := c.GetStringSlice("user_groups")
		for _, g := range groups {
			if g == adminGroup {
				c.Next()
				return
			}
		}

		logger.WithFields(logrus.Fields{
			"user_id": c.GetString("user_id"),
			"path":    c.Request.URL.Path,
		}).Warn("Admin access denied")
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "Admin group membership required",
		})
	}
}

// bearerToken extracts the bearer token from the Authorization header,
// aborting the request when it is missing or malformed
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(authHeader) < len(prefix) || !strings.HasPrefix(authHeader, prefix) {
		logger.WithField("path", c.Request.URL.Path).Warn("Authentication failed: missing or invalid authorization header")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Missing or invalid authorization header",
		})
		return "", false
	}
	return authHeader[len(prefix):], true
}

// setIdentity records the caller's id and group memberships in the request
// context. Cognito puts groups under "cognito:groups"; other providers use
// "groups".
func setIdentity(c *gin.Context, claims jwt.MapClaims) bool {
	sub, ok := claims["sub"].(string)
	if !ok {
		logger.WithField("path", c.Request.URL.Path).Warn("Authentication failed: missing user ID in token")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":   "invalid_token",
			"message": "Missing user ID in token",
		})
		return false
	}

	var groups []string
	for _, claim := range []string{"cognito:groups", "groups"} {
		if raw, ok := claims[claim].([]interface{}); ok {
			for _, g := range raw {
				if s, ok := g.(string); ok {
					groups = append(groups, s)
				}
			}
			break
		}
	}

	c.Set("user_id", sub)
	c.Set("user_groups", groups)
	c.Set("token_claims", claims)

	logger.WithFields(logrus.Fields{
		"user_id": sub,
		"path":    c.Request.URL.Path,
	}).Debug("Authentication successful")

	return true
}

// audienceMatches checks the aud claim against the expected audience,
// handling both string and array forms
func audienceMatches(claims jwt.MapClaims, audience string) bool {
	if aud, ok := claims["aud"].(string); ok {
		return aud == audience
	}
	if audArray, ok := claims["aud"].([]interface{}); ok {
		for _, a := range audArray {
			if s, ok := a.(string); ok && s == audience {
				return true
			}
		}
	}
	return false
}

// getPemCert fetches the PEM certificate from the authority's JWKS endpoint
func getPemCert(token *jwt.Token, authority string) (string, error) {
	cert := ""
	jwksURL := fmt.Sprintf("https://%s/.well-known/jwks.json", authority)

	resp, err := http.Get(jwksURL)
	if err != nil {
		return cert, err
	}
	defer resp.Body.Close()

	var jwks JWKSet
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return cert, err
	}

	kid, ok := token.Header["kid"].(string)
	if !ok {
		return cert, errors.New("missing kid in token header")
	}

	for _, key := range jwks.Keys {
		if key.Kid == kid {
			if len(key.X5c) > 0 {
				cert = fmt.Sprintf("-----BEGIN CERTIFICATE-----\n%s\n-----END CERTIFICATE-----", key.X5c[0])
				return cert, nil
			}
		}
	}

	return cert, errors.New("unable to find appropriate key")
}

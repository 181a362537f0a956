package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Controller handles the authentication endpoints.
type Controller struct {
	service        *Service
	sessionManager *SessionManager
	rateLimiter    *RateLimiter
}

// NewController creates the auth controller.
func NewController(service *Service, sessionManager *SessionManager, rateLimiter *RateLimiter) *Controller {
	return &Controller{
		service:        service,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
	}
}

// RegisterRoutes registers the auth endpoints. They stay outside the session
// gate: login must be reachable anonymously, verify reports either state, and
// logout is idempotent for everyone.
func (ac *Controller) RegisterRoutes(router gin.IRouter) {
	router.POST("/auth/login", ac.Login)
	router.POST("/auth/logout", ac.Logout)
	router.GET("/auth/verify", ac.Verify)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login validates the admin credential and opens a session. Failures answer
// 401 with a message that does not say which field was wrong.
func (ac *Controller) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "username and password are required",
		})
		return
	}

	ip := c.ClientIP()
	if ac.rateLimiter != nil {
		if allowed, retryAfter := ac.rateLimiter.Allow(ip, req.Username); !allowed {
			c.Header("Retry-After", retryAfter.String())
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "too many failed attempts, try again later",
			})
			return
		}
	}

	if err := ac.service.Authenticate(req.Username, req.Password); err != nil {
		if ac.rateLimiter != nil {
			ac.rateLimiter.RecordFailure(ip, req.Username)
		}
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "invalid username or password",
		})
		return
	}

	if ac.rateLimiter != nil {
		ac.rateLimiter.RecordSuccess(ip, req.Username)
	}

	if err := ac.sessionManager.CreateSession(c.Request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to create session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "login successful",
	})
}

// Logout destroys the session. Always succeeds, with or without one.
func (ac *Controller) Logout(c *gin.Context) {
	_ = ac.sessionManager.DestroySession(c.Request)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Verify reports whether the caller holds a live session.
func (ac *Controller) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"isLoggedIn": ac.sessionManager.IsAuthenticated(c.Request),
	})
}

// DebugSession exposes the raw session cookie and state. Only mounted behind
// the debug flag.
func (ac *Controller) DebugSession(c *gin.Context) {
	cookieValue := ""
	if cookie, err := c.Request.Cookie(SessionCookieName); err == nil {
		cookieValue = cookie.Value
	}
	c.JSON(http.StatusOK, gin.H{
		"authSession": cookieValue,
		"isLoggedIn":  ac.sessionManager.IsAuthenticated(c.Request),
		"loginAt":     ac.sessionManager.LoginAt(c.Request),
	})
}

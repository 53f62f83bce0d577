package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"stem-orders/middleware"
	"stem-orders/models"
	"stem-orders/utils"
)

// Operator is the single dashboard account configured through the environment.
type Operator struct {
	Email        string
	PasswordHash string
}

type AuthController struct {
	operator     Operator
	secret       string
	expiry       time.Duration
	secureCookie bool
}

func NewAuthController(operator Operator, secret string, expiry time.Duration, secureCookie bool) *AuthController {
	return &AuthController{operator: operator, secret: secret, expiry: expiry, secureCookie: secureCookie}
}

// safeNext keeps redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/dashboard"
	}
	return next
}

// ShowLogin renders the operator login page.
// GET /login
func (ctrl *AuthController) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"title": "Operator Login",
		"next":  safeNext(c.Query("next")),
	})
}

// Login checks the operator credentials and sets the session cookie.
// POST /login
func (ctrl *AuthController) Login(c *gin.Context) {
	next := safeNext(c.PostForm("next"))

	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"title": "Operator Login",
			"next":  next,
			"email": req.Email,
			"error": "Email and password are required",
		})
		return
	}

	if !strings.EqualFold(req.Email, ctrl.operator.Email) || !utils.VerifyPassword(ctrl.operator.PasswordHash, req.Password) {
		log.Warn().Str("email", req.Email).Msg("Failed operator login")
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"title": "Operator Login",
			"next":  next,
			"email": req.Email,
			"error": "Invalid email or password",
		})
		return
	}

	token, err := utils.GenerateToken(ctrl.operator.Email, ctrl.secret, ctrl.expiry)
	if err != nil {
		_ = c.Error(err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"title": "Operator Login",
			"next":  next,
			"email": req.Email,
			"error": "Failed to generate token",
		})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(ctrl.expiry.Seconds()), "/", "", ctrl.secureCookie, true)
	log.Info().Str("email", ctrl.operator.Email).Msg("Operator logged in")
	c.Redirect(http.StatusSeeOther, next)
}

// Logout clears the session cookie.
// POST /logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", ctrl.secureCookie, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

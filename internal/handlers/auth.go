package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"plottwisters/internal/config"
	"plottwisters/internal/db"
	"plottwisters/internal/middleware"
	"plottwisters/internal/models"
	"plottwisters/internal/utils"
	"regexp"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "auth/register.html", nil)
}

// createUser hashes the password and inserts the user, granting the admin role to
// addresses listed in ADMIN_EMAILS.
func (h *AuthHandler) createUser(username, email, password string) (*models.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
		Role:     models.RoleUser,
	}
	if h.cfg.IsAdminEmail(email) {
		user.Role = models.RoleAdmin
	}

	if err := db.DB.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (h *AuthHandler) Register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))
	password := c.PostForm("password")
	form := gin.H{"Username": username, "Email": email}

	if !usernamePattern.MatchString(username) {
		form["Error"] = "Username must be 3-20 letters, digits or underscores"
		Render(c, http.StatusBadRequest, "auth/register.html", form)
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		form["Error"] = "Invalid email address"
		Render(c, http.StatusBadRequest, "auth/register.html", form)
		return
	}
	if len(password) < 6 {
		form["Error"] = "Password must be at least 6 characters"
		Render(c, http.StatusBadRequest, "auth/register.html", form)
		return
	}

	user, err := h.createUser(username, email, password)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			form["Error"] = "Username or email is already taken"
			Render(c, http.StatusConflict, "auth/register.html", form)
			return
		}
		c.Error(err)
		form["Error"] = "Could not create account"
		Render(c, http.StatusInternalServerError, "auth/register.html", form)
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", gin.H{"RedirectTo": c.Query("redirectTo")})
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))
	password := c.PostForm("password")
	redirectTo := c.PostForm("redirectTo")

	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Error": "Invalid email or password", "Email": email, "RedirectTo": redirectTo})
		return
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Error": "Invalid email or password", "Email": email, "RedirectTo": redirectTo})
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.ID)
	session.Save()

	c.Redirect(http.StatusFound, safeRedirect(redirectTo))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/")
}

// safeRedirect only allows local paths.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}

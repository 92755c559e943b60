package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-task-manager-api/internal/application"
	"github.com/oksasatya/go-task-manager-api/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager-api/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register POST /users
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"user": u.Public(), "token": token}, "registered")
}

// Login POST /users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"user": u.Public(), "token": token}, "login successful")
}

// Logout POST /users/logout revokes the token used on this request only.
func (h *UserHandler) Logout(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	token := c.GetString(middleware.CtxTokenKey)
	if err := h.Svc.Logout(c.Request.Context(), uid, token); err != nil {
		respondError(c, err)
		return
	}
	respondOK[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out")
}

// LogoutAll POST /users/logoutAll clears every session token.
func (h *UserHandler) LogoutAll(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.LogoutAll(c.Request.Context(), uid); err != nil {
		respondError(c, err)
		return
	}
	respondOK[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out everywhere")
}

// GetMe GET /users/me returns the public profile of the caller.
func (h *UserHandler) GetMe(c *gin.Context) {
	u, ok := middleware.UserFromContext(c)
	if !ok {
		respondError(c, userapp.ErrUserNotFound)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"user": u.Public()}, "profile")
}

// UpdateMe PATCH /users/me applies a whitelisted patch to the caller.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	var patch map[string]json.RawMessage
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"user": u.Public()}, "profile updated")
}

// DeleteMe DELETE /users/me cascades task deletion and fires the
// cancellation email.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	u, err := h.Svc.DeleteAccount(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"user": u.Public()}, "account deleted")
}

// UploadAvatar POST /users/me/avatar accepts a multipart upload in the
// "avatar" field.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	fh, err := c.FormFile("avatar")
	if err != nil {
		respondBadRequest(c, "avatar file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer func() { _ = f.Close() }()

	if err := h.Svc.UploadAvatar(c.Request.Context(), uid, f, fh.Filename, fh.Size); err != nil {
		respondError(c, err)
		return
	}
	respondOK[any](c, http.StatusOK, gin.H{"uploaded": true}, "avatar stored")
}

// GetAvatar GET /users/me/avatar serves the stored PNG bytes.
func (h *UserHandler) GetAvatar(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	avatar, err := h.Svc.GetAvatar(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", avatar)
}

// DeleteAvatar DELETE /users/me/avatar clears the stored bytes.
func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	if err := h.Svc.ClearAvatar(c.Request.Context(), uid); err != nil {
		respondError(c, err)
		return
	}
	respondOK[any](c, http.StatusOK, gin.H{"cleared": true}, "avatar cleared")
}

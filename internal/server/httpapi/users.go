package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/server/models"
	"github.com/dmitrijs2005/vidstream/internal/server/services"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (h *Handler) register(c *gin.Context) {
	files, err := h.stageFiles(c, "avatar", "coverImage")
	if err != nil {
		h.writeError(c, err)
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), services.RegisterInput{
		FullName:       c.PostForm("fullName"),
		Email:          c.PostForm("email"),
		Username:       c.PostForm("username"),
		Password:       c.PostForm("password"),
		AvatarPath:     files["avatar"],
		CoverImagePath: files["coverImage"],
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, user, "User registered successfully")
}

// login accepts either a username or an email as the identifier.
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
		return
	}

	identifier := strings.TrimSpace(req.Username)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}

	sess, err := h.sessions.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.setSessionCookies(c, sess.TokenPair)
	ok(c, http.StatusOK, sess, "User logged in successfully")
}

// refreshToken takes the refresh token from its cookie or, failing that,
// from the JSON body.
func (h *Handler) refreshToken(c *gin.Context) {
	presented, _ := c.Cookie(common.RefreshTokenCookieName)
	if presented == "" && c.Request.ContentLength != 0 {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			presented = strings.TrimSpace(req.RefreshToken)
		}
	}

	sess, err := h.sessions.Refresh(c.Request.Context(), presented)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.setSessionCookies(c, sess.TokenPair)
	ok(c, http.StatusOK, sess.TokenPair, "Access token refreshed")
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context(), currentUserID(c)); err != nil {
		h.writeError(c, err)
		return
	}
	h.clearSessionCookies(c)
	ok(c, http.StatusOK, gin.H{}, "User logged out")
}

func (h *Handler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
		return
	}

	err := h.sessions.ChangePassword(c.Request.Context(), currentUserID(c), req.OldPassword, req.NewPassword)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{}, "Password changed successfully")
}

func (h *Handler) currentUser(c *gin.Context) {
	user, err := h.accounts.CurrentUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, user, "User fetched successfully")
}

func (h *Handler) updateAccount(c *gin.Context) {
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
		return
	}

	user, err := h.accounts.UpdateAccount(c.Request.Context(), currentUserID(c), req.FullName, req.Email)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, user, "Account details updated successfully")
}

func (h *Handler) updateAvatar(c *gin.Context) {
	h.replaceImage(c, "avatar", h.accounts.UpdateAvatar, "Avatar image updated successfully")
}

func (h *Handler) updateCoverImage(c *gin.Context) {
	h.replaceImage(c, "coverImage", h.accounts.UpdateCoverImage, "Cover image updated successfully")
}

func (h *Handler) replaceImage(c *gin.Context, field string, update func(ctx context.Context, userID, path string) (*models.PublicUser, error), message string) {
	files, err := h.stageFiles(c, field)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if files[field] == "" {
		h.writeError(c, fmt.Errorf("%w: %s file is missing", common.ErrInvalidInput, field))
		return
	}

	user, err := update(c.Request.Context(), currentUserID(c), files[field])
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, user, message)
}

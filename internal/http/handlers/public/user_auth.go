package public

import (
	"errors"

	"github.com/luckywheel/luckywheel-api/internal/http/response"
	"github.com/luckywheel/luckywheel-api/internal/i18n"
	"github.com/luckywheel/luckywheel-api/internal/models"
	"github.com/luckywheel/luckywheel-api/internal/service"

	"github.com/gin-gonic/gin"
)

// UserView 用户响应结构
type UserView struct {
	ID          uint         `json:"id"`
	Email       string       `json:"email"`
	DisplayName string       `json:"display_name"`
	Balance     models.Money `json:"balance"`
	CreatedAt   string       `json:"created_at"`
}

func newUserView(user *models.User) UserView {
	return UserView{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Balance:     user.Balance,
		CreatedAt:   user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

type registerRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// Register 用户注册
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.validation_failed", nil)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Register(req.Email, req.Password, req.DisplayName)
	if err != nil {
		var perr interface {
			Key() string
			Args() []interface{}
		}
		if errors.As(err, &perr) {
			msg := i18n.Sprintf(i18n.ResolveLocale(c), perr.Key(), perr.Args()...)
			respondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
			return
		}
		respondUserAuthError(c, err)
		return
	}

	response.Success(c, gin.H{
		"user":       newUserView(user),
		"token":      token,
		"expires_at": expiresAt.Unix(),
	})
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.validation_failed", nil)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Login(req.Email, req.Password, req.RememberMe)
	if err != nil {
		respondUserAuthError(c, err)
		return
	}

	response.Success(c, gin.H{
		"user":       newUserView(user),
		"token":      token,
		"expires_at": expiresAt.Unix(),
	})
}

// Profile 获取当前用户资料
func (h *Handler) Profile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserAuthService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, newUserView(user))
}

package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lupa-app/lupa/internal/repository"
	"github.com/lupa-app/lupa/pkg"
	"github.com/lupa-app/lupa/pkg/model"
	"github.com/lupa-app/lupa/pkg/response"
)

// SignUp creates a company user.
func (h *Handler) SignUp(c *gin.Context) {
	var req model.SignUpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("signup bad request", "err", err)
		response.BadRequest(c, "a valid email and a password of at least 8 characters are required")
		return
	}

	ctx := c.Request.Context()
	pwHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		h.Logger.Sugar().Errorw("failed to hash password", "err", err)
		response.InternalError(c, "")
		return
	}

	user := &model.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: pwHash,
		Role:         model.UserRoleCompany,
	}
	if err := h.Store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			response.Conflict(c, "email already registered")
			return
		}
		h.Logger.Sugar().Errorw("user create failed", "email", user.Email, "err", err)
		response.InternalError(c, "could not create user")
		return
	}

	response.Created(c, model.UserRes{UserID: user.UserID, Email: user.Email, Role: user.Role})
}

// Login verifies credentials and returns an access token.
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("login bad request", "err", err)
		response.BadRequest(c, "email and password are required")
		return
	}

	ctx := c.Request.Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.Store.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.Logger.Sugar().Errorw("login lookup failed", "email", email, "err", err)
			response.InternalError(c, "")
			return
		}
		h.Logger.Sugar().Warnw("login user not found", "email", email)
		response.Unauthorized(c, "invalid credentials")
		return
	}
	if err := pkg.ComparePassword(user.PasswordHash, req.Password); err != nil {
		h.Logger.Sugar().Warnw("login password mismatch", "email", email)
		response.Unauthorized(c, "invalid credentials")
		return
	}

	accessToken, claims, err := h.TokenMaker.CreateToken(user.UserID, user.Email, user.Role, h.Config.JWT.AccessTokenTTL)
	if err != nil {
		h.Logger.Sugar().Errorw("error creating token", "err", err)
		response.InternalError(c, "could not generate token")
		return
	}

	response.OK(c, model.LoginRes{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: claims.ExpiresAt.Time,
		User:                 model.UserRes{UserID: user.UserID, Email: user.Email, Role: user.Role},
	})
}

// Me returns the current user.
func (h *Handler) Me(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	user, err := h.Store.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Unauthorized(c, "")
		return
	}
	response.OK(c, model.UserRes{UserID: user.UserID, Email: user.Email, Role: user.Role})
}

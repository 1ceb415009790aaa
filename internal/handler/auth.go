package handler

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stewardship-hub/internal/config"
	"github.com/iliyamo/stewardship-hub/internal/model"
	"github.com/iliyamo/stewardship-hub/internal/repository"
	"github.com/iliyamo/stewardship-hub/internal/session"
	"github.com/iliyamo/stewardship-hub/internal/utils"
)

const minPasswordLen = 8

// AuthHandler bundles dependencies for auth and account endpoints.
type AuthHandler struct {
	Cfg           config.Config
	Users         *repository.UserRepo
	Tokens        *repository.TokenRepo
	Teams         *repository.TeamRepo
	Verifications *repository.VerificationRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo,
	teams *repository.TeamRepo, v *repository.VerificationRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Teams: teams, Verifications: v}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	Session session.Session `json:"session"`
	Access  tokenPart       `json:"access"`
	Refresh tokenPart       `json:"refresh"`
}

// Register creates the account and its pending verification request, then
// signs the user in.  New users hold the PENDING role until an admin
// approves them.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return jsonError(c, http.StatusBadRequest, "email, password and name are required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid email")
	}
	if len(req.Password) < minPasswordLen {
		return jsonError(c, http.StatusBadRequest, "password must be at least 8 characters")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Email, req.Name, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return jsonError(c, http.StatusConflict, "email already exists")
		}
		return repoError(c, err, "user")
	}
	if _, _, err := h.Verifications.Create(ctx, u.ID, u.Name, u.Email); err != nil {
		return repoError(c, err, "verification request")
	}

	resp, err := h.issue(ctx, u)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "issue tokens failed")
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login verifies the password and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return jsonError(c, http.StatusBadRequest, "email/password required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusUnauthorized, "invalid credentials")
		}
		return repoError(c, err, "user")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return jsonError(c, http.StatusUnauthorized, "invalid credentials")
	}

	resp, err := h.issue(ctx, u)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "issue tokens failed")
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh validates the refresh token by hash, revokes it and issues a new
// pair.  The role is derived again, so a newly approved member picks up
// MEMBER here.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return jsonError(c, http.StatusBadRequest, "refreshToken required")
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := reqCtx(c)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "invalid refresh")
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return repoError(c, err, "refresh token")
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusUnauthorized, "invalid refresh")
		}
		return repoError(c, err, "user")
	}

	resp, err := h.issue(ctx, u)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "issue tokens failed")
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout revokes one session when a refresh token is supplied, or every
// session of the bearer when only an Authorization header is present.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if refreshToken != "" {
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return jsonError(c, http.StatusUnauthorized, "invalid refresh token")
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return repoError(c, err, "refresh token")
		}
		return c.NoContent(http.StatusNoContent)
	}

	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		claims, err := utils.ParseAccessToken(h.Cfg.JWTSecret, strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")))
		if err != nil {
			return jsonError(c, http.StatusUnauthorized, "unauthorized")
		}
		if err := h.Tokens.RevokeAllForUser(ctx, claims.Subject); err != nil {
			return repoError(c, err, "refresh token")
		}
		return c.NoContent(http.StatusNoContent)
	}
	return jsonError(c, http.StatusBadRequest, "provide Authorization header or refreshToken")
}

// Me returns the caller's session, preferences and verification state.
func (h *AuthHandler) Me(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, s.UserID)
	if err != nil {
		return repoError(c, err, "user")
	}
	resp := echo.Map{
		"session":     s,
		"preferences": echo.Map{"isBudgetVisible": u.IsBudgetVisible},
	}
	if v, err := h.Verifications.LatestForUser(ctx, s.UserID); err == nil {
		resp["verification"] = v
	} else if !errors.Is(err, repository.ErrNotFound) {
		return repoError(c, err, "verification request")
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdatePreferences handles PUT /v1/me/preferences.
func (h *AuthHandler) UpdatePreferences(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	var body struct {
		IsBudgetVisible *bool `json:"isBudgetVisible"`
	}
	if err := c.Bind(&body); err != nil || body.IsBudgetVisible == nil {
		return jsonError(c, http.StatusBadRequest, "isBudgetVisible is required")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Users.SetBudgetVisible(ctx, s.UserID, *body.IsBudgetVisible); err != nil {
		return repoError(c, err, "user")
	}
	return c.JSON(http.StatusOK, echo.Map{"isBudgetVisible": *body.IsBudgetVisible})
}

// RequestVerification lets a pending user ask for access again, for
// example after a denial.  At most one request is pending per user.
func (h *AuthHandler) RequestVerification(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	if s.Verified() {
		return jsonError(c, http.StatusConflict, "already verified")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, s.UserID)
	if err != nil {
		return repoError(c, err, "user")
	}
	v, created, err := h.Verifications.Create(ctx, u.ID, u.Name, u.Email)
	if err != nil {
		return repoError(c, err, "verification request")
	}
	if !created {
		return c.JSON(http.StatusOK, v)
	}
	return c.JSON(http.StatusCreated, v)
}

// issue derives the role from team membership and returns a fresh access
// and refresh token pair for u.
func (h *AuthHandler) issue(ctx context.Context, u model.User) (authResp, error) {
	teams, err := h.Teams.TeamsForUser(ctx, u.ID)
	if err != nil {
		return authResp{}, err
	}
	role := session.RoleFor(teams, h.Cfg.AdminTeamID, h.Cfg.MembersTeamID)

	claims := utils.AccessClaims{Email: u.Email, Name: u.Name, Teams: teams, Role: role}
	claims.Subject = u.ID
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, claims, h.Cfg.AccessTTLMin)
	if err != nil {
		return authResp{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return authResp{}, err
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return authResp{}, err
	}
	return authResp{
		Session: session.New(u.ID, u.Email, u.Name, teams, role),
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	}, nil
}

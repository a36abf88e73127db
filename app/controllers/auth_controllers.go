package controllers

import (
	"errors"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/catalogue/app/requests"
	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{service: svc}
}

// Login exchanges admin credentials for a bearer token.
func (h *AuthController) Login(c *ctx.Context) {
	var in requests.Login
	if !c.BindJSON(&in) {
		return
	}

	token, err := h.service.Login(c.Context(), &in)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.Unauthorized("Invalid email or password")
		return
	}
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(token)
}

// Me returns the account of the current token.
func (h *AuthController) Me(c *ctx.Context) {
	id, err := uuid.Parse(c.Actor())
	if err != nil {
		c.Unauthorized()
		return
	}
	user, err := h.service.User(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(user)
}

// CreateUser registers another admin account. Admin role only.
func (h *AuthController) CreateUser(c *ctx.Context) {
	var in requests.CreateAdminUser
	if !c.BindJSON(&in) {
		return
	}
	user, err := h.service.CreateUser(c.Context(), &in, c.Actor())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(user)
}

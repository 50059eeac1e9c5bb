package handlers

import (
	"errors"
	"strconv"

	"vaultpay/internal/services/user"
	"vaultpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func userError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, user.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, user.ErrEmailTaken):
		return response.Conflict(c, err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		return response.NotFound(c, err.Error())
	default:
		return response.ServerError(c, "internal error")
	}
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var input user.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	u, err := h.userService.Register(c.Context(), input)
	if err != nil {
		return userError(c, err)
	}
	return response.Created(c, "user created", u)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.BadRequest(c, "invalid user id")
	}

	u, err := h.userService.GetByID(c.Context(), uint(id))
	if err != nil {
		return userError(c, err)
	}
	return response.Success(c, "user", u)
}

func (h *UserHandler) GetByEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return response.BadRequest(c, "email is required")
	}

	u, err := h.userService.GetByEmail(c.Context(), email)
	if err != nil {
		return userError(c, err)
	}
	return response.Success(c, "user", u)
}

func (h *UserHandler) GetWallets(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.BadRequest(c, "invalid user id")
	}

	wallets, err := h.userService.GetWallets(c.Context(), uint(id))
	if err != nil {
		return userError(c, err)
	}
	return response.Success(c, "wallets", wallets)
}

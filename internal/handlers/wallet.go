package handlers

import (
	"errors"
	"strconv"

	"vaultpay/internal/services/wallet"
	"vaultpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

func parseWalletID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}

// walletError maps service errors to HTTP responses.
func walletError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, wallet.ErrCurrencyMismatch),
		errors.Is(err, wallet.ErrSameWallet):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, wallet.ErrInsufficientFunds):
		return response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, wallet.ErrWalletNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, wallet.ErrDuplicateWallet), errors.Is(err, wallet.ErrWalletLocked):
		return response.Conflict(c, err.Error())
	case errors.Is(err, wallet.ErrTransactionFailed):
		return response.Error(c, fiber.StatusBadGateway, err.Error())
	default:
		return response.ServerError(c, "internal error")
	}
}

func (h *WalletHandler) Create(c *fiber.Ctx) error {
	var input struct {
		UserID   uint   `json:"user_id"`
		Currency string `json:"currency"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}
	if input.UserID == 0 {
		return response.BadRequest(c, "user_id is required")
	}

	w, err := h.walletService.CreateWallet(c.Context(), input.UserID, input.Currency)
	if err != nil {
		return walletError(c, err)
	}
	return response.Created(c, "wallet created", w)
}

func (h *WalletHandler) Get(c *fiber.Ctx) error {
	id, err := parseWalletID(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	w, err := h.walletService.GetWallet(c.Context(), id)
	if err != nil {
		return walletError(c, err)
	}
	return response.Success(c, "wallet", w)
}

func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	id, err := parseWalletID(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	balance, err := h.walletService.GetBalance(c.Context(), id)
	if err != nil {
		return walletError(c, err)
	}
	return response.Success(c, "balance", fiber.Map{
		"wallet_id": id,
		"balance":   balance,
	})
}

type amountInput struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (h *WalletHandler) Deposit(c *fiber.Ctx) error {
	id, err := parseWalletID(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	var input amountInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	txn, err := h.walletService.Deposit(c.Context(), id, input.Amount, input.Description)
	if err != nil {
		return walletError(c, err)
	}
	return response.Success(c, "deposit completed", txn)
}

func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	id, err := parseWalletID(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	var input amountInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	txn, err := h.walletService.Withdraw(c.Context(), id, input.Amount, input.Description)
	if err != nil {
		return walletError(c, err)
	}
	return response.Success(c, "withdrawal completed", txn)
}

func (h *WalletHandler) Transfer(c *fiber.Ctx) error {
	id, err := parseWalletID(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	var input struct {
		ToWalletID  uint            `json:"to_wallet_id"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}
	if input.ToWalletID == 0 {
		return response.BadRequest(c, "to_wallet_id is required")
	}

	txn, err := h.walletService.Transfer(c.Context(), id, input.ToWalletID, input.Amount, input.Description)
	if err != nil {
		return walletError(c, err)
	}
	return response.Success(c, "transfer completed", txn)
}

func (h *WalletHandler) Lock(c *fiber.Ctx) error {
	id, err := parseWalletID(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	if err := h.walletService.LockWallet(c.Context(), id, input.Reason); err != nil {
		return walletError(c, err)
	}
	return response.Success(c, "wallet locked", fiber.Map{"wallet_id": id})
}

func (h *WalletHandler) Unlock(c *fiber.Ctx) error {
	id, err := parseWalletID(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	if err := h.walletService.UnlockWallet(c.Context(), id); err != nil {
		return walletError(c, err)
	}
	return response.Success(c, "wallet unlocked", fiber.Map{"wallet_id": id})
}

package handlers

import (
	"errors"
	"strconv"
	"time"

	"vaultpay/internal/repositories"
	"vaultpay/internal/services/wallet"
	"vaultpay/internal/utils/pagination"
	"vaultpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	walletService wallet.Service
	repo          repositories.WalletRepository
}

func NewTransactionHandler(walletService wallet.Service, repo repositories.WalletRepository) *TransactionHandler {
	return &TransactionHandler{
		walletService: walletService,
		repo:          repo,
	}
}

// parseTimeBound reads an optional RFC3339 query parameter.
func parseTimeBound(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetWalletTransactions returns a wallet's ledger entries, optionally
// narrowed to a closed [start, end] interval and paginated.
func (h *TransactionHandler) GetWalletTransactions(c *fiber.Ctx) error {
	walletID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || walletID == 0 {
		return response.BadRequest(c, "invalid wallet id")
	}

	from, err := parseTimeBound(c, "start")
	if err != nil {
		return response.BadRequest(c, "start must be RFC3339")
	}
	to, err := parseTimeBound(c, "end")
	if err != nil {
		return response.BadRequest(c, "end must be RFC3339")
	}

	p := pagination.ParseFromRequest(c)
	txs, err := h.walletService.GetTransactionHistory(c.Context(), uint(walletID), wallet.HistoryFilter{
		From:   from,
		To:     to,
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return walletError(c, err)
	}

	p.Total, err = h.repo.CountTransactionHistory(c.Context(), uint(walletID), from, to)
	if err != nil {
		return response.ServerError(c, "failed to count transactions")
	}

	return c.JSON(pagination.Response(p, txs))
}

// Get looks a transaction up by its external id.
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	externalID := c.Params("id")
	if externalID == "" {
		return response.BadRequest(c, "invalid transaction id")
	}

	txn, err := h.repo.GetTransactionByExternalID(externalID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return response.NotFound(c, "transaction not found")
		}
		return response.ServerError(c, "failed to get transaction")
	}
	return response.Success(c, "transaction", txn)
}

// Stats returns aggregated ledger statistics for a time window
// (defaulting to the last 30 days) plus the total balance held.
func (h *TransactionHandler) Stats(c *fiber.Ctx) error {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)

	if from, err := parseTimeBound(c, "start"); err == nil && from != nil {
		start = *from
	}
	if to, err := parseTimeBound(c, "end"); err == nil && to != nil {
		end = *to
	}

	stats, err := h.repo.GetTransactionStats(start, end)
	if err != nil {
		return response.ServerError(c, "failed to get transaction stats")
	}

	totalBalance, err := h.repo.GetTotalBalance()
	if err != nil {
		return response.ServerError(c, "failed to get total balance")
	}

	return response.Success(c, "stats", fiber.Map{
		"window_start":  start,
		"window_end":    end,
		"transactions":  stats,
		"total_balance": totalBalance,
	})
}

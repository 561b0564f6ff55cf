package handlers

import (
	"errors"
	"fmt"

	"primepool/internal/middleware"
	"primepool/internal/services/wallet"
	"primepool/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// WalletHandler exposes the wallet tab endpoints.
type WalletHandler struct {
	walletService wallet.Service
}

// NewWalletHandler creates a WalletHandler.
func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// GetWallet returns the balances plus the deposit addresses the form shows.
func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}

	snapshot, err := h.walletService.GetLedger(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to load wallet")
	}

	addresses := fiber.Map{}
	for _, coin := range []string{"USDT", "USDC"} {
		if addr, err := h.walletService.DepositAddress(coin); err == nil {
			addresses[coin] = addr
		}
	}

	return utils.Success(c, fiber.Map{
		"ledger":            snapshot,
		"deposit_addresses": addresses,
	})
}

// RequestDeposit queues a deposit for manual verification.
func (h *WalletHandler) RequestDeposit(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input wallet.DepositInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	req, err := h.walletService.RequestDeposit(c.Context(), claims.UserID, input)
	if err != nil {
		return h.walletError(c, err)
	}

	return utils.Created(c, fiber.Map{
		"message": "Deposit request submitted successfully. It will be credited after manual verification.",
		"request": req,
	})
}

// Withdraw deducts the balance and queues the payout.
func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input wallet.WithdrawInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	req, err := h.walletService.Withdraw(c.Context(), claims.UserID, input)
	if err != nil {
		return h.walletError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message": "Withdrawal request submitted. Funds deducted and processing manually.",
		"request": req,
	})
}

// Transfer moves USD to another member by username.
func (h *WalletHandler) Transfer(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input wallet.TransferInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	result, err := h.walletService.Transfer(c.Context(), claims.UserID, input)
	if err != nil {
		return h.walletError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message": fmt.Sprintf("Successfully transferred $%.2f to %s.", result.Amount, result.ToUsername),
		"result":  result,
	})
}

// AddToPool moves points into the weekly distribution pool.
func (h *WalletHandler) AddToPool(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Points int64 `json:"points"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	snapshot, err := h.walletService.AddToPool(c.Context(), claims.UserID, input.Points)
	if err != nil {
		return h.walletError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message": fmt.Sprintf("Successfully added %d points to the weekly distribution pool!", input.Points),
		"ledger":  snapshot,
	})
}

// History returns the latest transactions, newest first.
func (h *WalletHandler) History(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}

	txs, err := h.walletService.History(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to load transaction history")
	}
	return utils.Success(c, fiber.Map{"transactions": txs})
}

// walletError maps service errors onto HTTP responses. Business failures
// become inline messages; anything else is a generic retry prompt.
func (h *WalletHandler) walletError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, wallet.ErrInvalidAddress),
		errors.Is(err, wallet.ErrBelowMinimum),
		errors.Is(err, wallet.ErrUnsupportedCoin),
		errors.Is(err, wallet.ErrSelfTransfer):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, wallet.ErrInsufficientFunds),
		errors.Is(err, wallet.ErrInsufficientPoints):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, wallet.ErrRecipientNotFound):
		return utils.NotFound(c, err.Error())
	case errors.Is(err, wallet.ErrConcurrentModification):
		return utils.Conflict(c, "Balance changed while processing. Please try again.")
	default:
		return utils.InternalError(c, "Operation failed. Please try again.")
	}
}

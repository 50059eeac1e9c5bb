// Demonstration scenario: two users, one USD wallet each; the first
// deposits 1000 and transfers 500 to the second. Prints the resulting
// balances and the first wallet's transaction history.
package main

import (
	"context"
	"errors"
	"log"

	"vaultpay/internal/config"
	"vaultpay/internal/models"
	"vaultpay/internal/repositories"
	"vaultpay/internal/services/settlement"
	usersvc "vaultpay/internal/services/user"
	walletsvc "vaultpay/internal/services/wallet"

	"github.com/shopspring/decimal"
)

func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			sqlDB.Close()
		}
		repositories.CacheService.Close()
	}()

	ctx := context.Background()

	walletRepo := repositories.NewWalletRepository(repositories.DB)
	userRepo := repositories.NewUserRepository(repositories.DB, repositories.CacheService)

	walletService := walletsvc.NewService(
		walletRepo,
		repositories.CacheService,
		settlement.NewProcessor(),
		walletsvc.Config{},
		&walletsvc.NoopMetricsCollector{},
	)
	userService := usersvc.NewService(userRepo, walletRepo)

	alice := ensureUser(ctx, userService, "Alice", "alice@example.com", "+15550101")
	bob := ensureUser(ctx, userService, "Bob", "bob@example.com", "+15550102")

	aliceWallet := ensureWallet(ctx, walletService, alice, "USD")
	bobWallet := ensureWallet(ctx, walletService, bob, "USD")

	if _, err := walletService.Deposit(ctx, aliceWallet.ID, decimal.NewFromInt(1000), "initial deposit"); err != nil {
		log.Fatalf("Deposit failed: %v", err)
	}
	if _, err := walletService.Transfer(ctx, aliceWallet.ID, bobWallet.ID, decimal.NewFromInt(500), "demo transfer"); err != nil {
		log.Fatalf("Transfer failed: %v", err)
	}

	aliceBalance, err := walletService.GetBalance(ctx, aliceWallet.ID)
	if err != nil {
		log.Fatalf("Failed to get balance: %v", err)
	}
	bobBalance, err := walletService.GetBalance(ctx, bobWallet.ID)
	if err != nil {
		log.Fatalf("Failed to get balance: %v", err)
	}

	log.Printf("%s's balance: %s %s", alice.Name, aliceBalance, aliceWallet.Currency)
	log.Printf("%s's balance: %s %s", bob.Name, bobBalance, bobWallet.Currency)

	history, err := walletService.GetTransactionHistory(ctx, aliceWallet.ID, walletsvc.HistoryFilter{})
	if err != nil {
		log.Fatalf("Failed to get history: %v", err)
	}
	log.Printf("%s's transaction history (%d entries):", alice.Name, len(history))
	for _, tx := range history {
		log.Printf("  [%s] %-10s %s %s  %s", tx.Status, tx.Type, tx.Amount, tx.Currency, tx.Description)
	}
}

func ensureUser(ctx context.Context, svc usersvc.Service, name, email, phone string) *models.User {
	u, err := svc.Register(ctx, usersvc.RegisterInput{Name: name, Email: email, Phone: phone})
	if err == nil {
		return u
	}
	if errors.Is(err, usersvc.ErrEmailTaken) {
		existing, err := svc.GetByEmail(ctx, email)
		if err != nil {
			log.Fatalf("Failed to fetch user %s: %v", email, err)
		}
		return existing
	}
	log.Fatalf("Failed to create user %s: %v", email, err)
	return nil
}

func ensureWallet(ctx context.Context, svc walletsvc.Service, owner *models.User, currency string) *models.Wallet {
	w, err := svc.CreateWallet(ctx, owner.ID, currency)
	if err == nil {
		return w
	}
	if errors.Is(err, walletsvc.ErrDuplicateWallet) {
		existing, err := repositories.NewWalletRepository(repositories.DB).GetByUserIDAndCurrency(owner.ID, currency)
		if err != nil {
			log.Fatalf("Failed to fetch wallet for %s: %v", owner.Email, err)
		}
		return existing
	}
	log.Fatalf("Failed to create wallet for %s: %v", owner.Email, err)
	return nil
}

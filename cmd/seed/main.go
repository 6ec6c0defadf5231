// Command seed creates a mint and funds an owner's token account so the
// transfer step of the introspection call has balances to move.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"

	"introspect/internal/config"
	"introspect/internal/models"
	"introspect/internal/repositories"
)

func main() {
	config.LoadEnv()

	mintAddr := os.Getenv("SEED_MINT")
	ownerAddr := os.Getenv("SEED_OWNER")
	if mintAddr == "" || ownerAddr == "" {
		log.Fatal("SEED_MINT and SEED_OWNER must be set in environment")
	}

	mintKey, err := models.PubkeyFromBase58(mintAddr)
	if err != nil {
		log.Fatalf("SEED_MINT: %v", err)
	}
	owner, err := models.PubkeyFromBase58(ownerAddr)
	if err != nil {
		log.Fatalf("SEED_OWNER: %v", err)
	}
	decimals := config.GetIntEnv("SEED_DECIMALS", 6)
	if decimals < 0 || decimals > 255 {
		log.Fatalf("SEED_DECIMALS out of range: %d", decimals)
	}
	amount, err := strconv.ParseUint(config.GetEnv("SEED_AMOUNT", "1000000000"), 10, 64)
	if err != nil {
		log.Fatalf("SEED_AMOUNT: %v", err)
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer repositories.Close()

	ctx := context.Background()
	repo := repositories.NewIntrospectionRepository(repositories.DB)
	err = repo.ExecuteInTransaction(ctx, func(tx repositories.IntrospectionRepository) error {
		mint, err := tx.GetMint(ctx, mintKey)
		if errors.Is(err, repositories.ErrMintNotFound) {
			mint = &models.Mint{Address: mintKey, Decimals: uint8(decimals)}
			if err := tx.CreateMint(ctx, mint); err != nil {
				return err
			}
			log.Printf("Created mint %s with %d decimals", mintKey, decimals)
		} else if err != nil {
			return err
		}

		account, err := tx.GetOrCreateTokenAccount(ctx, owner, mintKey)
		if err != nil {
			return err
		}
		account.Amount = amount
		return tx.UpdateTokenAccount(ctx, account)
	})
	if err != nil {
		log.Fatalf("Failed to seed balances: %v", err)
	}

	log.Printf("✅ Funded %s with %d of mint %s", owner, amount, mintKey)
}

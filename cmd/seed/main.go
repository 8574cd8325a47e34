package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/mesa-pos/api/internal/config"
	"github.com/mesa-pos/api/internal/database"
	"github.com/mesa-pos/api/internal/logger"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// starterMenu is stocked when the inventory ledger is empty.
var starterMenu = []struct {
	name     string
	quantity int32
	price    string
}{
	{"Margherita Pizza", 20, "12.00"},
	{"Caesar Salad", 15, "8.50"},
	{"Spaghetti Carbonara", 15, "13.00"},
	{"Tiramisu", 10, "6.00"},
	{"Soda", 48, "2.00"},
	{"Espresso", 40, "2.50"},
}

func main() {
	// CLI flags
	email := flag.String("email", "", "Admin email address")
	password := flag.String("password", "", "Admin password")
	name := flag.String("name", "", "Admin full name")
	menu := flag.Bool("menu", true, "Stock the starter menu when inventory is empty")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, true)

	// Fall back to environment variables
	if *email == "" {
		*email = os.Getenv("SEED_EMAIL")
	}
	if *password == "" {
		*password = os.Getenv("SEED_PASSWORD")
	}
	if *name == "" {
		*name = os.Getenv("SEED_NAME")
	}

	// Fall back to defaults
	if *email == "" {
		*email = "admin@mesa.local"
	}
	if *password == "" {
		*password = "password123"
		log.Warn().Msg("using default password 'password123'; change it before going live")
	}
	if *name == "" {
		*name = "Mesa Admin"
	}

	if err := database.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()
	log.Info().Msg("connected to database")

	// Seed in a transaction: the admin and the menu land together or not at all.
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("begin transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck
	q := database.New(tx)

	user, err := seedAdmin(ctx, q, *email, *password, *name)
	if err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}

	stocked := 0
	if *menu {
		stocked, err = seedMenu(ctx, q)
		if err != nil {
			log.Fatal().Err(err).Msg("seed menu")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatal().Err(err).Msg("commit")
	}

	log.Info().Str("admin_id", user.ID.String()).Int("menu_items", stocked).Msg("seed completed")
}

// seedAdmin creates the admin user if it doesn't exist.
func seedAdmin(ctx context.Context, q *database.Queries, email, password, fullName string) (database.User, error) {
	existing, err := q.GetUserByEmail(ctx, email)
	if err == nil {
		log.Info().Str("email", email).Str("id", existing.ID.String()).Msg("admin already exists, skipping")
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return database.User{}, fmt.Errorf("check user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return database.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := q.CreateUser(ctx, database.CreateUserParams{
		Email:          email,
		HashedPassword: string(hashed),
		FullName:       fullName,
	})
	if err != nil {
		return database.User{}, fmt.Errorf("insert user: %w", err)
	}

	log.Info().Str("email", email).Str("id", user.ID.String()).Msg("created admin")
	return user, nil
}

// seedMenu stocks the starter menu unless inventory already has entries.
func seedMenu(ctx context.Context, q *database.Queries) (int, error) {
	items, err := q.ListInventoryItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("list inventory: %w", err)
	}
	if len(items) > 0 {
		log.Info().Int("items", len(items)).Msg("inventory not empty, skipping menu")
		return 0, nil
	}

	for _, m := range starterMenu {
		if _, err := q.CreateInventoryItem(ctx, database.CreateInventoryItemParams{
			Name:      m.name,
			Quantity:  m.quantity,
			UnitPrice: database.DecimalToNumeric(decimal.RequireFromString(m.price)),
		}); err != nil {
			return 0, fmt.Errorf("insert %s: %w", m.name, err)
		}
	}
	return len(starterMenu), nil
}

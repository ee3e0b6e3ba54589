package main

import (
	"context"
	"database/sql"
	"math/rand"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/store-leaderboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/store-leaderboard-api/internal/config"
	"github.com/vfg2006/store-leaderboard-api/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail     = "admin@leaderboard.dev"
	adminRoleID    = 1
	seedRandomSeed = 2024
)

var schema = []struct {
	name  string
	query string
}{
	{
		name: "roles",
		query: `CREATE TABLE IF NOT EXISTS roles (
			id INTEGER PRIMARY KEY,
			name VARCHAR(50) NOT NULL UNIQUE
		)`,
	},
	{
		name: "users",
		query: `CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			role_id INTEGER NOT NULL REFERENCES roles(id),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{
		name: "stores",
		query: `CREATE TABLE IF NOT EXISTS stores (
			id VARCHAR(6) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			url VARCHAR(512) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{
		name: "transactions",
		query: `CREATE TABLE IF NOT EXISTS transactions (
			id VARCHAR(6) PRIMARY KEY,
			store_id VARCHAR(6) NOT NULL REFERENCES stores(id),
			amount NUMERIC(14, 2) NOT NULL CHECK (amount >= 0),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{
		name:  "transactions_store_created_idx",
		query: `CREATE INDEX IF NOT EXISTS transactions_store_created_idx ON transactions (store_id, created_at)`,
	},
	{
		// Sem FK para stores: o snapshot sobrevive à loja e o reset apaga as lojas antes do ranking
		name: "store_ranking",
		query: `CREATE TABLE IF NOT EXISTS store_ranking (
			id SERIAL PRIMARY KEY,
			store_id VARCHAR(6) NOT NULL,
			month VARCHAR(7) NOT NULL,
			store_name VARCHAR(255) NOT NULL,
			revenue NUMERIC(14, 2) NOT NULL DEFAULT 0,
			orders INTEGER NOT NULL DEFAULT 0,
			position INTEGER NOT NULL,
			position_change INTEGER NOT NULL DEFAULT 0,
			previous_position INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT store_ranking_store_month_unique UNIQUE (store_id, month)
		)`,
	},
}

type demoStore struct {
	Name         string
	URL          string
	DaysAgo      int
	Transactions int
	MaxAmount    int64
}

var demoStores = []demoStore{
	{"Ótica Central", "https://www.oticacentral.com.br/", 120, 80, 900},
	{"Visão Norte", "http://visaonorte.com", 90, 55, 1200},
	{"Loja do Centro", "https://lojadocentro.com", 60, 40, 700},
	{"Olhar Sul", "https://www.olharsul.com.br", 45, 30, 1500},
	{"Ótica Bairro", "oticabairro.com", 20, 12, 400},
	{"Nova Visão", "", 5, 3, 300},
}

func createSchema(ctx context.Context, db *postgres.Connection) {
	for _, step := range schema {
		if _, err := db.ExecContext(ctx, step.query); err != nil {
			logrus.WithError(err).WithField("step", step.name).Fatal("ERRO ao criar schema")
		}
		logrus.WithField("step", step.name).Info("Schema aplicado")
	}
}

func seedRoles(ctx context.Context, tx *sql.Tx) error {
	roles := map[int]string{1: "admin", 2: "supervisor", 3: "viewer"}
	for id, name := range roles {
		_, err := tx.ExecContext(ctx, `INSERT INTO roles (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`, id, name)
		if err != nil {
			return err
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, tx *sql.Tx, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (name, email, password_hash, active, role_id)
		VALUES ($1, $2, $3, TRUE, $4)
		ON CONFLICT (email) DO NOTHING`,
		"Administrador", adminEmail, string(hash), adminRoleID,
	)
	return err
}

func seedStores(ctx context.Context, tx *sql.Tx, now time.Time) error {
	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM stores`).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		logrus.WithField("stores", existing).Info("Lojas já cadastradas, seed de demonstração ignorado")
		return nil
	}

	rng := rand.New(rand.NewSource(seedRandomSeed))
	startTime := time.Now()
	transactionCount := 0

	for _, s := range demoStores {
		storeID, err := utils.GenerateID()
		if err != nil {
			return err
		}

		createdAt := now.AddDate(0, 0, -s.DaysAgo)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO stores (id, name, url, created_at) VALUES ($1, $2, $3, $4)`,
			storeID, s.Name, s.URL, createdAt,
		); err != nil {
			return err
		}

		for i := 0; i < s.Transactions; i++ {
			transactionID, err := utils.GenerateID()
			if err != nil {
				return err
			}

			amount := decimal.NewFromInt(rng.Int63n(s.MaxAmount*100) + 100).Shift(-2)
			offset := time.Duration(rng.Int63n(int64(s.DaysAgo)*24)) * time.Hour

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO transactions (id, store_id, amount, created_at) VALUES ($1, $2, $3, $4)`,
				transactionID, storeID, amount, createdAt.Add(offset),
			); err != nil {
				return err
			}
			transactionCount++
		}
	}

	logrus.WithFields(logrus.Fields{
		"stores":       len(demoStores),
		"transactions": transactionCount,
		"elapsed":      time.Since(startTime).String(),
	}).Info("Seed de demonstração concluído")

	return nil
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.Info("Iniciando script de migração...")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.WithError(err).Fatal("ERRO ao carregar configuração")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("ERRO ao conectar ao banco de dados")
	}
	defer db.Close()
	logrus.Info("Conexão com o banco de dados estabelecida com sucesso")

	createSchema(ctx, db)

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
		logrus.Warn("ADMIN_PASSWORD não definido, usando senha padrão de desenvolvimento")
	}

	err = db.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if err := seedRoles(ctx, tx); err != nil {
			return err
		}
		if err := seedAdmin(ctx, tx, adminPassword); err != nil {
			return err
		}
		return seedStores(ctx, tx, time.Now())
	})
	if err != nil {
		logrus.WithError(err).Fatal("ERRO ao executar seed")
	}

	logrus.Info("Migração concluída")
}

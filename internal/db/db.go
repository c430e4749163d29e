package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/lib/pq"

	"newsingest/internal/config"
)

// DSN builds the lib/pq connection URL for cfg.
func DSN(cfg config.Config) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.PGUser, cfg.PGPassword),
		Host:     fmt.Sprintf("%s:%d", cfg.PGHost, cfg.PGPort),
		Path:     "/" + cfg.PGDatabase,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func OpenDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	dbConn, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, err
	}
	dbConn.SetMaxOpenConns(10)
	dbConn.SetMaxIdleConns(10)
	dbConn.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := dbConn.PingContext(pingCtx); err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	return dbConn, nil
}

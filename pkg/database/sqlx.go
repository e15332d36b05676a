package database

import (
	"context"
	"fmt"
	"time"
	"course_mall/internal/pkg/config"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// InitReportDB 报表查询使用的 sqlx 连接
// 统计类 SQL 聚合较多，直接写 SQL 比 GORM 链式调用清晰
func InitReportDB(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	connCfg, err := pgx.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse report db config: %w", err)
	}

	// NUMERIC 直接扫描成 decimal.Decimal
	db := stdlib.OpenDB(*connCfg, stdlib.OptionAfterConnect(func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}))

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	return sqlx.NewDb(db, "pgx"), nil
}

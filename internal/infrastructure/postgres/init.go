package postgres

import (
	"log"

	"github.com/LavaJover/shvark-escrow-service/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MustInitDB opens the pool. Schema is owned by migrations, not AutoMigrate.
// TranslateError maps unique violations to gorm.ErrDuplicatedKey.
func MustInitDB(cfg *config.EscrowConfig) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.EscrowDB.Dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v\n", err)
	}
	sqlDB.SetMaxOpenConns(cfg.EscrowDB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.EscrowDB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.EscrowDB.ConnMaxLifetime)

	return db
}

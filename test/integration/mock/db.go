//go:build integration

// Package mock provides in-process stand-ins for the service's backing stores.
package mock

import (
	"fmt"
	"sync"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var once sync.Once
var db *Db

// Db is a shared in-memory sqlite database with the given models migrated.
type Db struct {
	DbConn *gorm.DB
	models map[string]any
}

// NewDb returns the process-wide test database, opening it on first use.
func NewDb(models map[string]any) *Db {
	once.Do(func() {
		db = open(models)
	})
	return db
}

func open(models map[string]any) *Db {
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	dbConn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	sqlDB, err := dbConn.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	newDbMock := &Db{
		DbConn: dbConn,
		models: models,
	}

	modelList := make([]any, 0, len(models))
	for _, model := range models {
		modelList = append(modelList, model)
	}
	if err := dbConn.AutoMigrate(modelList...); err != nil {
		panic(fmt.Sprintf("failed to migrate database. err: %s", err.Error()))
	}

	return newDbMock
}

// ClearDB deletes every row, soft-deleted ones included.
func (d *Db) ClearDB() error {
	for table, model := range d.models {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error
		if err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// GetModel returns the model registered for a table name.
func (d *Db) GetModel(table string) (any, bool) {
	model, ok := d.models[table]
	return model, ok
}

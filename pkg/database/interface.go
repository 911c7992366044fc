package database

import (
	"github.com/google/wire"
	"gorm.io/gorm"
)

// ProviderSet is the Wire provider set for the database package.
var ProviderSet = wire.NewSet(NewDatabase, ProvideIDatabase)

// IDatabase provides access to the underlying database connection.
// Repositories depend on this interface rather than *gorm.DB so tests
// can substitute an in-memory implementation.
type IDatabase interface {
	DB() *gorm.DB
}

// ProvideIDatabase adapts *Database to the IDatabase interface.
func ProvideIDatabase(d *Database) IDatabase {
	return d
}

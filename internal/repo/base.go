package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is embedded by the domain repositories. It carries either the pooled connection
// or an open transaction.
type Base struct {
	db *gorm.DB
}

// NewBase binds a Base to conn, which may be a transaction handle.
func NewBase(conn *gorm.DB) Base {
	return Base{db: conn}
}

// DB returns the connection bound to ctx.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Conn exposes the unbound handle, mainly so services can open transactions from it.
func (b Base) Conn() *gorm.DB {
	return b.db
}

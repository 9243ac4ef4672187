package postgres

import (
	"fmt"

	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/sessionrepo"
	"dispatch/internal/core/domain/model/order"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MustConnect opens the database connection or panics. The process cannot
// do anything useful without its store, so startup fails fast.
func MustConnect(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(fmt.Sprintf("failed to connect to database: %v", err))
	}
	return db
}

// Migrate creates the schema. Besides the AutoMigrate tables it installs
// the partial unique index enforcing one active order per requester, which
// GORM tags cannot express. The index is the authoritative guard for the
// create race: the application-level check only exists for a friendly error
// message on the common path.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&courierrepo.CourierDTO{},
		&courierrepo.RoleDTO{},
		&sessionrepo.SessionDTO{},
	); err != nil {
		return err
	}

	stmt := fmt.Sprintf(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_one_active_per_requester
		 ON orders (requester_id)
		 WHERE status IN (%d, %d, %d)`,
		order.Pending, order.Accepted, order.Delivering,
	)
	return db.Exec(stmt).Error
}

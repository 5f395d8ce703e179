package infrastructure

import (
	"github.com/JGonCor/lottery-platform-sub001/application"
	"github.com/JGonCor/lottery-platform-sub001/database"
	"github.com/JGonCor/lottery-platform-sub001/domain/interfaces"
	"github.com/JGonCor/lottery-platform-sub001/repository"
)

// TestUnitOfWorkFactory is a test factory that creates new unit of work instances
// This is placed in infrastructure package to avoid circular dependencies between
// application and repository packages
type TestUnitOfWorkFactory struct {
	db                     *database.DB
	transactionalPublisher interfaces.TransactionalEventPublisher
}

// NewTestUnitOfWorkFactory creates a new test unit of work factory
func NewTestUnitOfWorkFactory(db *database.DB, transactionalPublisher interfaces.TransactionalEventPublisher) *TestUnitOfWorkFactory {
	return &TestUnitOfWorkFactory{
		db:                     db,
		transactionalPublisher: transactionalPublisher,
	}
}

// Create creates a new UnitOfWork instance for testing
func (f *TestUnitOfWorkFactory) Create() application.UnitOfWork {
	// Create a fresh UoW for each call to avoid transaction state issues
	return repository.CreateTestUnitOfWork(f.db, f.transactionalPublisher)
}

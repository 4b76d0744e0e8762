package testutil

import (
	"context"

	"github.com/credlane/credlane/internal/config"
	"github.com/credlane/credlane/internal/logger"
	"github.com/stretchr/testify/suite"
)

// Stores bundles every in-memory repository a service test needs
type Stores struct {
	Accounts       *InMemoryAccountStore
	Invoices       *InMemoryInvoiceStore
	Payments       *InMemoryPaymentStore
	CreditRequests *InMemoryCreditRequestStore
	Activities     *InMemoryActivityLog
	Blobs          *InMemoryBlobStore
}

// BaseServiceTestSuite provides common setup for service layer tests
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	logger *logger.Logger
	config *config.Configuration
	db     *InMemoryLedger
	stores Stores
}

// SetupTest initializes fresh state before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.config = config.GetDefaultConfig()

	log, err := logger.NewLogger(s.config)
	s.Require().NoError(err)
	s.logger = log

	s.db = NewInMemoryLedger()
	s.stores = Stores{
		Accounts:       NewInMemoryAccountStore(),
		Invoices:       NewInMemoryInvoiceStore(),
		Payments:       NewInMemoryPaymentStore(),
		CreditRequests: NewInMemoryCreditRequestStore(),
		Activities:     NewInMemoryActivityLog(),
		Blobs:          NewInMemoryBlobStore(),
	}
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetDB returns the in-memory ledger client
func (s *BaseServiceTestSuite) GetDB() *InMemoryLedger {
	return s.db
}

// GetStores returns the in-memory repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// ClearStores resets all repositories without rebuilding the suite
func (s *BaseServiceTestSuite) ClearStores() {
	s.stores.Accounts.Clear()
	s.stores.Invoices.Clear()
	s.stores.Payments.Clear()
	s.stores.CreditRequests.Clear()
	s.stores.Activities.Clear()
	s.stores.Blobs.Clear()
}

package service

import (
	"github.com/credlane/credlane/internal/blob"
	"github.com/credlane/credlane/internal/config"
	"github.com/credlane/credlane/internal/domain/account"
	"github.com/credlane/credlane/internal/domain/activity"
	"github.com/credlane/credlane/internal/domain/creditrequest"
	"github.com/credlane/credlane/internal/domain/invoice"
	"github.com/credlane/credlane/internal/domain/payment"
	"github.com/credlane/credlane/internal/ledger"
	"github.com/credlane/credlane/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	// DB is the ledger store; every multi-read decision runs inside one
	// of its transactions
	DB ledger.Client

	// Repositories
	AccountRepo       account.Repository
	InvoiceRepo       invoice.Repository
	PaymentRepo       payment.Repository
	CreditRequestRepo creditrequest.Repository
	ActivityRepo      activity.Repository

	// Blob is the opaque receipt store
	Blob blob.Store
}

package service

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/credlane/credlane/internal/api/dto"
	"github.com/credlane/credlane/internal/domain/account"
	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/credlane/credlane/internal/testutil"
	"github.com/credlane/credlane/internal/types"
	"github.com/stretchr/testify/suite"
)

type AccountServiceSuite struct {
	testutil.BaseServiceTestSuite
	accountService AccountService
	invoiceService InvoiceService
	paymentService PaymentService
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceSuite))
}

func (s *AccountServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestParams(&s.BaseServiceTestSuite)
	s.accountService = NewAccountService(params)
	s.invoiceService = NewInvoiceService(params)
	s.paymentService = NewPaymentService(params)
}

func (s *AccountServiceSuite) newAccount(limit string) *account.Account {
	resp, err := s.accountService.CreateAccount(s.GetContext(), &dto.CreateAccountRequest{
		ProviderID:  "prov_01",
		UserID:      "user_client_01",
		Name:        "Acme Retail",
		Contact:     account.ContactDetails{Email: "billing@acme.test"},
		CreditLimit: dec(limit),
	})
	s.Require().NoError(err)
	return resp.Account
}

func (s *AccountServiceSuite) TestCreateAccount() {
	acct := s.newAccount("1000")

	s.NotEmpty(acct.ID)
	s.Equal(types.AccountStatusActive, acct.AccountStatus)
	s.Equal(testutil.TestUserID, acct.CreatedBy)
	s.True(acct.CreditLimit.Equal(dec("1000")))
}

func (s *AccountServiceSuite) TestCreateAccountRejectsNegativeLimit() {
	_, err := s.accountService.CreateAccount(s.GetContext(), &dto.CreateAccountRequest{
		ProviderID:  "prov_01",
		Name:        "Acme Retail",
		CreditLimit: dec("-5"),
	})
	s.Error(err)
	s.True(errors.Is(err, ierr.ErrInvalidLimit))
}

func (s *AccountServiceSuite) TestGetAccountByUserID() {
	acct := s.newAccount("1000")

	found, err := s.accountService.GetAccountByUserID(s.GetContext(), "user_client_01")
	s.NoError(err)
	s.Equal(acct.ID, found.ID)

	_, err = s.accountService.GetAccountByUserID(s.GetContext(), "user_unknown")
	s.True(ierr.IsNotFound(err))
}

func (s *AccountServiceSuite) TestAvailableCredit() {
	acct := s.newAccount("1000")

	_, err := s.invoiceService.CreateInvoice(s.GetContext(), invoiceRequest(acct.ID, "prov_01", "300"))
	s.Require().NoError(err)
	_, err = s.invoiceService.CreateInvoice(s.GetContext(), invoiceRequest(acct.ID, "prov_01", "250"))
	s.Require().NoError(err)

	credit, err := s.accountService.AvailableCredit(s.GetContext(), acct.ID)
	s.NoError(err)
	s.True(credit.CreditLimit.Equal(dec("1000")))
	s.True(credit.PendingTotal.Equal(dec("550")))
	s.True(credit.Available.Equal(dec("450")))
}

func (s *AccountServiceSuite) TestAvailableCreditUnknownAccount() {
	_, err := s.accountService.AvailableCredit(s.GetContext(), "acct_missing")
	s.True(ierr.IsNotFound(err))
}

func (s *AccountServiceSuite) TestAvailableCreditIgnoresSettledAndCancelled() {
	acct := s.newAccount("1000")

	inv1, err := s.invoiceService.CreateInvoice(s.GetContext(), invoiceRequest(acct.ID, "prov_01", "400"))
	s.Require().NoError(err)
	inv2, err := s.invoiceService.CreateInvoice(s.GetContext(), invoiceRequest(acct.ID, "prov_01", "300"))
	s.Require().NoError(err)

	_, err = s.paymentService.RecordPayment(s.GetContext(), paymentRequest(inv1.ID, "400"))
	s.Require().NoError(err)
	_, err = s.invoiceService.CancelInvoice(s.GetContext(), inv2.ID, "ordered in error")
	s.Require().NoError(err)

	credit, err := s.accountService.AvailableCredit(s.GetContext(), acct.ID)
	s.NoError(err)
	s.True(credit.PendingTotal.IsZero())
	s.True(credit.Available.Equal(dec("1000")))
}

func (s *AccountServiceSuite) TestApplyLimitChange() {
	acct := s.newAccount("1000")

	updated, err := s.accountService.ApplyLimitChange(s.GetContext(), acct.ID, dec("2500"))
	s.NoError(err)
	s.True(updated.CreditLimit.Equal(dec("2500")))
}

func (s *AccountServiceSuite) TestApplyLimitChangeRejectsNegative() {
	acct := s.newAccount("1000")

	_, err := s.accountService.ApplyLimitChange(s.GetContext(), acct.ID, dec("-1"))
	s.Error(err)
	s.True(errors.Is(err, ierr.ErrInvalidLimit))
}

func (s *AccountServiceSuite) TestLimitDecreaseBelowPendingGoesNegative() {
	acct := s.newAccount("1000")

	_, err := s.invoiceService.CreateInvoice(s.GetContext(), invoiceRequest(acct.ID, "prov_01", "800"))
	s.Require().NoError(err)

	_, err = s.accountService.ApplyLimitChange(s.GetContext(), acct.ID, dec("500"))
	s.NoError(err)

	credit, err := s.accountService.AvailableCredit(s.GetContext(), acct.ID)
	s.NoError(err)
	s.True(credit.Available.Equal(dec("-300")))
}

func (s *AccountServiceSuite) TestUpdateAccountStatus() {
	acct := s.newAccount("1000")

	updated, err := s.accountService.UpdateAccountStatus(s.GetContext(), acct.ID, types.AccountStatusSuspended)
	s.NoError(err)
	s.Equal(types.AccountStatusSuspended, updated.AccountStatus)

	_, err = s.accountService.UpdateAccountStatus(s.GetContext(), acct.ID, "paused")
	s.True(ierr.IsValidation(err))
}

func (s *AccountServiceSuite) TestDeleteAccountBlockedByInvoices() {
	acct := s.newAccount("1000")

	_, err := s.invoiceService.CreateInvoice(s.GetContext(), invoiceRequest(acct.ID, "prov_01", "100"))
	s.Require().NoError(err)

	err = s.accountService.DeleteAccount(s.GetContext(), acct.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	// still there
	_, err = s.accountService.GetAccount(s.GetContext(), acct.ID)
	s.NoError(err)
}

func (s *AccountServiceSuite) TestDeleteAccountWithoutInvoices() {
	acct := s.newAccount("1000")

	err := s.accountService.DeleteAccount(s.GetContext(), acct.ID)
	s.NoError(err)

	_, err = s.accountService.GetAccount(s.GetContext(), acct.ID)
	s.True(ierr.IsNotFound(err))
}

func (s *AccountServiceSuite) TestListAccountsByProvider() {
	s.newAccount("1000")

	other, err := s.accountService.CreateAccount(s.GetContext(), &dto.CreateAccountRequest{
		ProviderID:  "prov_02",
		Name:        "Beta Wholesale",
		CreditLimit: dec("500"),
	})
	s.Require().NoError(err)

	filter := types.NewAccountFilter()
	filter.ProviderID = "prov_02"
	listed, err := s.accountService.ListAccounts(s.GetContext(), filter)
	s.NoError(err)
	s.Equal(1, listed.Total)
	s.Equal(other.ID, listed.Items[0].ID)
}

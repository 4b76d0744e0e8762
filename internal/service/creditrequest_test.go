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

type CreditRequestServiceSuite struct {
	testutil.BaseServiceTestSuite
	creditService  CreditRequestService
	accountService AccountService
}

func TestCreditRequestService(t *testing.T) {
	suite.Run(t, new(CreditRequestServiceSuite))
}

func (s *CreditRequestServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestParams(&s.BaseServiceTestSuite)
	s.creditService = NewCreditRequestService(params)
	s.accountService = NewAccountService(params)
}

func (s *CreditRequestServiceSuite) newAccount(limit string) *account.Account {
	resp, err := s.accountService.CreateAccount(s.GetContext(), &dto.CreateAccountRequest{
		ProviderID:  "prov_01",
		Name:        "Acme Retail",
		CreditLimit: dec(limit),
	})
	s.Require().NoError(err)
	return resp.Account
}

func (s *CreditRequestServiceSuite) request(accountID, requested string) *dto.CreditRequestResponse {
	resp, err := s.creditService.RequestLimitChange(s.GetContext(), &dto.CreateCreditRequestRequest{
		AccountID:      accountID,
		RequestedLimit: dec(requested),
		Notes:          "seasonal stock build-up",
	})
	s.Require().NoError(err)
	return resp
}

func (s *CreditRequestServiceSuite) accountLimit(accountID string) string {
	acct, err := s.accountService.GetAccount(s.GetContext(), accountID)
	s.Require().NoError(err)
	return acct.CreditLimit.String()
}

func (s *CreditRequestServiceSuite) TestRequestLimitChange() {
	acct := s.newAccount("1000")

	req := s.request(acct.ID, "2000")
	s.Equal(types.CreditRequestStatusPending, req.RequestStatus)
	s.Equal("prov_01", req.ProviderID)
	s.True(req.CurrentLimit.Equal(dec("1000")))
	s.True(req.RequestedLimit.Equal(dec("2000")))
}

func (s *CreditRequestServiceSuite) TestRequestMustExceedCurrentLimit() {
	acct := s.newAccount("1000")

	_, err := s.creditService.RequestLimitChange(s.GetContext(), &dto.CreateCreditRequestRequest{
		AccountID:      acct.ID,
		RequestedLimit: dec("1000"),
	})
	s.Error(err)
	s.True(errors.Is(err, ierr.ErrInvalidLimit))
}

func (s *CreditRequestServiceSuite) TestRequestUnknownAccount() {
	_, err := s.creditService.RequestLimitChange(s.GetContext(), &dto.CreateCreditRequestRequest{
		AccountID:      "acct_missing",
		RequestedLimit: dec("2000"),
	})
	s.True(ierr.IsNotFound(err))
}

func (s *CreditRequestServiceSuite) TestApproveRaisesLimitAtomically() {
	acct := s.newAccount("1000")
	req := s.request(acct.ID, "2000")

	decided, err := s.creditService.DecideRequest(s.GetContext(), req.ID, &dto.DecideCreditRequestRequest{
		Decision:  types.CreditDecisionApprove,
		DecidedBy: "user_provider_01",
	})
	s.NoError(err)
	s.Equal(types.CreditRequestStatusApproved, decided.RequestStatus)
	s.Equal("user_provider_01", decided.DecidedBy)
	s.NotNil(decided.DecidedAt)
	s.Equal("2000", s.accountLimit(acct.ID))
}

func (s *CreditRequestServiceSuite) TestRejectLeavesLimitUntouched() {
	acct := s.newAccount("1000")
	req := s.request(acct.ID, "2000")

	decided, err := s.creditService.DecideRequest(s.GetContext(), req.ID, &dto.DecideCreditRequestRequest{
		Decision:  types.CreditDecisionReject,
		DecidedBy: "user_provider_01",
		Notes:     "insufficient payment history",
	})
	s.NoError(err)
	s.Equal(types.CreditRequestStatusRejected, decided.RequestStatus)
	s.Equal("1000", s.accountLimit(acct.ID))
}

func (s *CreditRequestServiceSuite) TestRepeatedApproveIsIdempotent() {
	acct := s.newAccount("1000")
	req := s.request(acct.ID, "2000")

	decide := &dto.DecideCreditRequestRequest{
		Decision:  types.CreditDecisionApprove,
		DecidedBy: "user_provider_01",
	}
	_, err := s.creditService.DecideRequest(s.GetContext(), req.ID, decide)
	s.Require().NoError(err)

	// the limit was raised in the meantime; re-approving must not touch it
	_, err = s.accountService.ApplyLimitChange(s.GetContext(), acct.ID, dec("3000"))
	s.Require().NoError(err)

	again, err := s.creditService.DecideRequest(s.GetContext(), req.ID, decide)
	s.NoError(err)
	s.Equal(types.CreditRequestStatusApproved, again.RequestStatus)
	s.Equal("3000", s.accountLimit(acct.ID))
}

func (s *CreditRequestServiceSuite) TestConflictingRedecideFails() {
	acct := s.newAccount("1000")
	req := s.request(acct.ID, "2000")

	_, err := s.creditService.DecideRequest(s.GetContext(), req.ID, &dto.DecideCreditRequestRequest{
		Decision:  types.CreditDecisionApprove,
		DecidedBy: "user_provider_01",
	})
	s.Require().NoError(err)

	_, err = s.creditService.DecideRequest(s.GetContext(), req.ID, &dto.DecideCreditRequestRequest{
		Decision:  types.CreditDecisionReject,
		DecidedBy: "user_provider_01",
	})
	s.Error(err)
	s.True(errors.Is(err, ierr.ErrRequestNotPending))
	s.Equal("2000", s.accountLimit(acct.ID))
}

func (s *CreditRequestServiceSuite) TestApproveRetriesOnConflict() {
	acct := s.newAccount("1000")
	req := s.request(acct.ID, "2000")

	s.GetDB().ForceConflicts(1)
	_, err := s.creditService.DecideRequest(s.GetContext(), req.ID, &dto.DecideCreditRequestRequest{
		Decision:  types.CreditDecisionApprove,
		DecidedBy: "user_provider_01",
	})
	s.NoError(err)
	s.Equal("2000", s.accountLimit(acct.ID))
}

func (s *CreditRequestServiceSuite) TestListCreditRequestsByStatus() {
	acct := s.newAccount("1000")
	req := s.request(acct.ID, "2000")
	s.request(acct.ID, "1500")

	_, err := s.creditService.DecideRequest(s.GetContext(), req.ID, &dto.DecideCreditRequestRequest{
		Decision:  types.CreditDecisionApprove,
		DecidedBy: "user_provider_01",
	})
	s.Require().NoError(err)

	filter := types.NewCreditRequestFilter()
	filter.AccountID = acct.ID
	filter.RequestStatus = types.CreditRequestStatusPending
	listed, err := s.creditService.ListCreditRequests(s.GetContext(), filter)
	s.NoError(err)
	s.Equal(1, listed.Total)
	s.True(listed.Items[0].RequestedLimit.Equal(dec("1500")))
}

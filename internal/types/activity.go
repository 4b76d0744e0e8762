package types

import (
	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/samber/lo"
)

// ActivityType categorizes what an audit entry records
type ActivityType string

const (
	ActivityTypeCreate  ActivityType = "create"
	ActivityTypeUpdate  ActivityType = "update"
	ActivityTypeDelete  ActivityType = "delete"
	ActivityTypeCancel  ActivityType = "cancel"
	ActivityTypeApprove ActivityType = "approve"
	ActivityTypeReject  ActivityType = "reject"
)

func (t ActivityType) String() string {
	return string(t)
}

func (t ActivityType) Validate() error {
	allowed := []ActivityType{
		ActivityTypeCreate,
		ActivityTypeUpdate,
		ActivityTypeDelete,
		ActivityTypeCancel,
		ActivityTypeApprove,
		ActivityTypeReject,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid activity type").
			WithHint("Please provide a valid activity type").
			WithDetail("allowed", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// EntityType names the aggregate an audit entry refers to
type EntityType string

const (
	EntityTypeAccount       EntityType = "account"
	EntityTypeInvoice       EntityType = "invoice"
	EntityTypePayment       EntityType = "payment"
	EntityTypeCreditRequest EntityType = "credit_request"
)

func (t EntityType) String() string {
	return string(t)
}

func (t EntityType) Validate() error {
	allowed := []EntityType{
		EntityTypeAccount,
		EntityTypeInvoice,
		EntityTypePayment,
		EntityTypeCreditRequest,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid entity type").
			WithHint("Please provide a valid entity type").
			WithDetail("allowed", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}

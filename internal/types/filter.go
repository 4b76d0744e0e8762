package types

import (
	ierr "github.com/credlane/credlane/internal/errors"
)

const (
	// FilterDefaultLimit is applied when a caller does not set one
	FilterDefaultLimit = 50
	// FilterMaxLimit bounds a single page of results
	FilterMaxLimit = 1000
)

// BaseFilter is the interface all list filters implement
type BaseFilter interface {
	GetLimit() int
	GetOffset() int
	GetStatus() string
	IsUnlimited() bool
	Validate() error
}

// QueryFilter holds the common pagination and status options for list queries
type QueryFilter struct {
	Limit  *int    `json:"limit,omitempty" form:"limit" validate:"omitempty,min=1,max=1000"`
	Offset *int    `json:"offset,omitempty" form:"offset" validate:"omitempty,min=0"`
	Status *Status `json:"status,omitempty" form:"status"`
}

// NewDefaultQueryFilter creates a filter with the default page size
func NewDefaultQueryFilter() *QueryFilter {
	limit := FilterDefaultLimit
	offset := 0
	status := StatusActive
	return &QueryFilter{
		Limit:  &limit,
		Offset: &offset,
		Status: &status,
	}
}

// NewNoLimitQueryFilter creates a filter without pagination
func NewNoLimitQueryFilter() *QueryFilter {
	offset := 0
	status := StatusActive
	return &QueryFilter{
		Offset: &offset,
		Status: &status,
	}
}

func (f *QueryFilter) GetLimit() int {
	if f == nil || f.Limit == nil {
		return FilterDefaultLimit
	}
	return *f.Limit
}

func (f *QueryFilter) GetOffset() int {
	if f == nil || f.Offset == nil {
		return 0
	}
	return *f.Offset
}

func (f *QueryFilter) GetStatus() string {
	if f == nil || f.Status == nil {
		return string(StatusActive)
	}
	return string(*f.Status)
}

func (f *QueryFilter) IsUnlimited() bool {
	return f != nil && f.Limit == nil
}

func (f *QueryFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.Limit != nil && (*f.Limit < 1 || *f.Limit > FilterMaxLimit) {
		return ierr.NewError("invalid limit").
			WithHintf("Limit must be between 1 and %d", FilterMaxLimit).
			Mark(ierr.ErrValidation)
	}
	if f.Offset != nil && *f.Offset < 0 {
		return ierr.NewError("invalid offset").
			WithHint("Offset must be non negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

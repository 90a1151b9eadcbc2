package domain

import (
	"errors"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound    = errors.New("data not found")
	ErrNoUpdatedData   = errors.New("no data to update")
	ErrConflictingData = errors.New("data conflicts with existing data in unique column")

	// * Communication errors.
	ErrBadRequest = errors.New("error parsing request")

	// * Authority errors.
	ErrTokenCreation              = errors.New("error creating token")
	ErrExpiredToken               = errors.New("access token has expired")
	ErrInvalidToken               = errors.New("access token is invalid")
	ErrEmptyAuthorizationHeader   = errors.New("authorization header is not provided")
	ErrInvalidAuthorizationHeader = errors.New("authorization header format is invalid")
	ErrInvalidAuthorizationType   = errors.New("authorization type is not supported")

	// * Business errors.
	ErrUnknownOrderFamily       = errors.New("unknown order family")
	ErrOrderExists              = errors.New("order already exists with this number, model, series and counterparty")
	ErrProductNotFound          = errors.New("referenced product not found")
	ErrPaymentMethodNotFound    = errors.New("referenced payment method not found")
	ErrEmployeeNotFound         = errors.New("referenced employee not found or inactive")
	ErrNoActiveEmployee         = errors.New("no active employee available for default approval")
	ErrMissingCounterparty      = errors.New("order counterparty is required")
	ErrItemQuantityNotPositive  = errors.New("item quantity must be positive")
	ErrItemDiscountExceedsPrice = errors.New("item discount exceeds unit price")
)

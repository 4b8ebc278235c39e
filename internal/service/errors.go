package service

import "errors"

var (
	// Catalog and customer errors.
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrCustomerBlocked    = errors.New("customer blocked")
	ErrBranchNotFound     = errors.New("branch not found")
	ErrBranchClosed       = errors.New("branch not accepting orders")

	// Discount engine errors.
	ErrInsufficientBonus   = errors.New("insufficient bonus balance")
	ErrPromoNotFound       = errors.New("promo code not found")
	ErrPromoInactive       = errors.New("promo code inactive")
	ErrPromoExpired        = errors.New("promo code outside validity window")
	ErrPromoExhausted      = errors.New("promo code usage limit reached")
	ErrPromoAlreadyUsed    = errors.New("promo code already used by customer")
	ErrPromoFirstOrderOnly = errors.New("promo code valid for first order only")
	ErrPromoNotApplicable  = errors.New("promo code conditions not met")

	// Order lifecycle errors.
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderEmpty        = errors.New("order has no items")
	ErrInvalidTransition = errors.New("invalid order status transition")

	// External integration errors.
	ErrExternalSubmissionFailed = errors.New("external order submission failed")
	ErrSyncFailed               = errors.New("sync run failed")
)

package public

import (
	"errors"

	"github.com/carman72tmn/foodtech/internal/http/response"
	"github.com/carman72tmn/foodtech/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError maps a business error to an API response.
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var orderCommonErrorRules = []mappedHandlerError{
	{target: service.ErrOrderEmpty, code: response.CodeBadRequest, msg: "order has no items"},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest, msg: "product not found"},
	{target: service.ErrProductUnavailable, code: response.CodeBadRequest, msg: "product unavailable"},
	{target: service.ErrInsufficientBonus, code: response.CodeBadRequest, msg: "insufficient bonus balance"},
	{target: service.ErrPromoNotFound, code: response.CodeBadRequest, msg: "promo code not found"},
	{target: service.ErrPromoInactive, code: response.CodeBadRequest, msg: "promo code inactive"},
	{target: service.ErrPromoExpired, code: response.CodeBadRequest, msg: "promo code expired"},
	{target: service.ErrPromoExhausted, code: response.CodeBadRequest, msg: "promo code usage limit reached"},
	{target: service.ErrPromoAlreadyUsed, code: response.CodeBadRequest, msg: "promo code already used"},
	{target: service.ErrPromoFirstOrderOnly, code: response.CodeBadRequest, msg: "promo code valid for first order only"},
	{target: service.ErrPromoNotApplicable, code: response.CodeBadRequest, msg: "promo code not applicable to this order"},
}

var orderCreateExtraErrorRules = []mappedHandlerError{
	{target: service.ErrCustomerBlocked, code: response.CodeBadRequest, msg: "customer is blocked"},
	{target: service.ErrBranchNotFound, code: response.CodeBadRequest, msg: "branch not found"},
	{target: service.ErrBranchClosed, code: response.CodeBadRequest, msg: "branch is not accepting orders"},
}

func respondOrderPreviewError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderCommonErrorRules, response.CodeInternal, "order preview failed")
}

func respondOrderCreateError(c *gin.Context, err error) {
	rules := append(append([]mappedHandlerError{}, orderCommonErrorRules...), orderCreateExtraErrorRules...)
	respondWithMappedError(c, err, rules, response.CodeInternal, "order create failed")
}

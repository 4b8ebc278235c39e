package service

import (
	"context"

	"github.com/carman72tmn/foodtech/internal/iiko"
	"github.com/carman72tmn/foodtech/internal/models"
	"github.com/carman72tmn/foodtech/internal/repository"

	"github.com/shopspring/decimal"
)

// LoyaltyService mirrors the external loyalty wallet balance onto the
// local customer record.
type LoyaltyService struct {
	client       *iiko.Client
	customerRepo repository.CustomerRepository
}

// NewLoyaltyService creates a loyalty service.
func NewLoyaltyService(client *iiko.Client, customerRepo repository.CustomerRepository) *LoyaltyService {
	return &LoyaltyService{client: client, customerRepo: customerRepo}
}

// Refresh pulls the customer's wallet balances and updates the local bonus
// balance. Callers treat failures as non-fatal.
func (s *LoyaltyService) Refresh(ctx context.Context, customer *models.Customer) error {
	if s == nil || s.client == nil || customer == nil {
		return nil
	}
	info, err := s.client.CustomerInfo(ctx, customer.Phone)
	if err != nil {
		return err
	}

	balance := decimal.Zero
	for _, wallet := range info.WalletBalances {
		balance = balance.Add(decimal.NewFromFloat(wallet.Balance))
	}

	updates := map[string]interface{}{
		"bonus_points": models.NewMoneyFromDecimal(balance),
	}
	if info.ID != "" && info.ID != customer.IikoCustomerID {
		updates["iiko_customer_id"] = info.ID
	}
	if err := s.customerRepo.UpdateFields(customer.ID, updates); err != nil {
		return err
	}
	customer.BonusPoints = models.NewMoneyFromDecimal(balance)
	if info.ID != "" {
		customer.IikoCustomerID = info.ID
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/carman72tmn/foodtech/internal/cache"
	"github.com/carman72tmn/foodtech/internal/models"
	"github.com/carman72tmn/foodtech/internal/repository"
)

const defaultCartTTL = 24 * time.Hour

// Cart is a customer's pending selection, stored outside the database
// until checkout.
type Cart struct {
	Key       string     `json:"key"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is one cart line.
type CartItem struct {
	ProductID uint         `json:"product_id"`
	Name      string       `json:"name"`
	Price     models.Money `json:"price"`
	Quantity  int          `json:"quantity"`
}

// CartStore persists carts keyed by an opaque client key.
type CartStore interface {
	Get(ctx context.Context, key string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, key string) error
}

// CartService manages carts. Product details are resolved at add time so
// the cart shows names and prices without extra queries.
type CartService struct {
	store       CartStore
	productRepo repository.ProductRepository
}

// NewCartService creates a cart service.
func NewCartService(store CartStore, productRepo repository.ProductRepository) *CartService {
	return &CartService{store: store, productRepo: productRepo}
}

// AddItem adds quantity of a product to the cart, merging with an
// existing line for the same product.
func (s *CartService) AddItem(ctx context.Context, key string, productID uint, quantity int) (*Cart, error) {
	if quantity < 1 {
		quantity = 1
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
	}
	if !product.IsAvailable {
		return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, product.Name)
	}

	cart, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &Cart{Key: key}
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += quantity
			cart.Items[i].Price = product.Price
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, CartItem{
			ProductID: productID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
		})
	}
	cart.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// GetCart returns the cart, empty when none exists.
func (s *CartService) GetCart(ctx context.Context, key string) (*Cart, error) {
	cart, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &Cart{Key: key, Items: []CartItem{}}
	}
	return cart, nil
}

// ClearCart drops the cart.
func (s *CartService) ClearCart(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}

// QuoteItems converts the cart into pricing input.
func (s *CartService) QuoteItems(ctx context.Context, key string) ([]QuoteItem, error) {
	cart, err := s.GetCart(ctx, key)
	if err != nil {
		return nil, err
	}
	items := make([]QuoteItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, QuoteItem{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return items, nil
}

// RedisCartStore keeps carts in Redis with a TTL.
type RedisCartStore struct {
	ttl time.Duration
}

// NewRedisCartStore creates a Redis-backed cart store.
func NewRedisCartStore(ttl time.Duration) *RedisCartStore {
	if ttl <= 0 {
		ttl = defaultCartTTL
	}
	return &RedisCartStore{ttl: ttl}
}

func cartCacheKey(key string) string {
	return "cart:" + key
}

// Get fetches a cart, nil when absent.
func (s *RedisCartStore) Get(ctx context.Context, key string) (*Cart, error) {
	var cart Cart
	ok, err := cache.GetJSON(ctx, cartCacheKey(key), &cart)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &cart, nil
}

// Save stores a cart with the configured TTL.
func (s *RedisCartStore) Save(ctx context.Context, cart *Cart) error {
	return cache.SetJSON(ctx, cartCacheKey(cart.Key), cart, s.ttl)
}

// Delete drops a cart.
func (s *RedisCartStore) Delete(ctx context.Context, key string) error {
	return cache.Del(ctx, cartCacheKey(key))
}

// MemoryCartStore keeps carts in process memory. Used when Redis is not
// configured, carts then do not survive a restart.
type MemoryCartStore struct {
	mu    sync.RWMutex
	carts map[string]*Cart
	ttl   time.Duration
}

// NewMemoryCartStore creates an in-memory cart store.
func NewMemoryCartStore(ttl time.Duration) *MemoryCartStore {
	if ttl <= 0 {
		ttl = defaultCartTTL
	}
	return &MemoryCartStore{carts: make(map[string]*Cart), ttl: ttl}
}

// Get fetches a cart, nil when absent or expired.
func (s *MemoryCartStore) Get(ctx context.Context, key string) (*Cart, error) {
	s.mu.RLock()
	cart, ok := s.carts[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if time.Since(cart.UpdatedAt) > s.ttl {
		s.mu.Lock()
		delete(s.carts, key)
		s.mu.Unlock()
		return nil, nil
	}
	copied := *cart
	copied.Items = append([]CartItem(nil), cart.Items...)
	return &copied, nil
}

// Save stores a cart.
func (s *MemoryCartStore) Save(ctx context.Context, cart *Cart) error {
	copied := *cart
	copied.Items = append([]CartItem(nil), cart.Items...)
	s.mu.Lock()
	s.carts[cart.Key] = &copied
	s.mu.Unlock()
	return nil
}

// Delete drops a cart.
func (s *MemoryCartStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.carts, key)
	s.mu.Unlock()
	return nil
}

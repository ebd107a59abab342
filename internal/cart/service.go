package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
)

const CartStorageKey = "cart"

// Service owns a single session's cart. Every mutation reloads the persisted
// cart, applies the change, and writes the whole cart back before returning,
// so the in-memory and persisted views never diverge. The mutex serializes
// concurrent mutations; two racing adds of the same selection must merge into
// one line, not produce two.
type Service struct {
	mu    sync.Mutex
	store Store
	key   string
}

func NewService(store Store) *Service {
	return NewServiceWithKey(store, CartStorageKey)
}

// NewServiceWithKey scopes the cart under a caller-chosen storage key, one per
// waiter session.
func NewServiceWithKey(store Store, key string) *Service {
	return &Service{store: store, key: key}
}

// Load returns the persisted cart. Missing or malformed persisted data yields
// an empty cart rather than an error; the shape is always fully valid.
func (s *Service) Load(ctx context.Context) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Service) load(ctx context.Context) Cart {
	data, found, err := s.store.Get(ctx, s.key)
	if err != nil {
		log.Printf("cart: failed to read persisted cart: %v", err)
		return EmptyCart()
	}
	if !found {
		return EmptyCart()
	}

	var parsed Cart
	if err := json.Unmarshal([]byte(data), &parsed); err != nil {
		log.Printf("cart: discarding malformed persisted cart: %v", err)
		return EmptyCart()
	}
	if parsed.Items == nil {
		parsed.Items = []CartItem{}
	}
	return parsed
}

func (s *Service) save(ctx context.Context, c Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.store.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

// AddItem builds a cart line from the resolved selection and merges it into
// the cart: an identical selection bumps the existing line's quantity, a new
// one is prepended.
func (s *Service) AddItem(ctx context.Context, category CategoryRef, item ItemRef, variant *OptionRef, attribute *OptionRef, values []SelectedValue) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.load(ctx)

	cartItem := CartItem{
		CategoryID:   category.ID,
		CategoryName: category.Name,
		CustomID:     item.CustomID,
		ItemID:       item.ID,
		ItemName:     item.Name,
		ItemPrice:    item.Price,
		Quantity:     1,
		Tax:          category.Tax,
		GroupType:    0,
	}
	if cartItem.CustomID == 0 {
		cartItem.CustomID = item.ID
	}

	if variant != nil {
		cartItem.VariantID = variant.ID
		cartItem.VariantName = variant.Name
		cartItem.VariantPrice = variant.Price
	}

	if attribute != nil {
		cartItem.AttributeID = attribute.ID
		cartItem.AttributeName = attribute.Name
		cartItem.AttributePrice = attribute.Price
	}

	if len(values) > 0 {
		attributeValues := make([]AttributeValue, 0, len(values))
		for _, value := range values {
			price := value.Price
			quantity := float64(value.Quantity)
			if quantity < 1 {
				quantity = 1
			}
			attributeValues = append(attributeValues, AttributeValue{
				AttributeValueID:       value.ID,
				AttributeValueName:     value.Name,
				AttributeValuePrice:    &price,
				AttributeValueQuantity: &quantity,
			})
		}
		cartItem.AttributeValues = attributeValues
	}

	cartItem.CartID = GenerateCartID(cartItem)

	merged := false
	for i := range c.Items {
		if c.Items[i].CartID == cartItem.CartID {
			c.Items[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		c.Items = append([]CartItem{cartItem}, c.Items...)
	}

	if err := s.save(ctx, c); err != nil {
		return c, err
	}
	return c, nil
}

// SetQuantity sets a line's quantity directly; anything non-positive removes
// the line.
func (s *Service) SetQuantity(ctx context.Context, cartID string, quantity int) (Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, cartID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.load(ctx)
	for i := range c.Items {
		if c.Items[i].CartID == cartID {
			c.Items[i].Quantity = float64(quantity)
			break
		}
	}

	if err := s.save(ctx, c); err != nil {
		return c, err
	}
	return c, nil
}

// RemoveItem drops the matching line. Removing the last line also clears the
// order note and discount so an empty cart carries no leftover state.
func (s *Service) RemoveItem(ctx context.Context, cartID string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.load(ctx)
	items := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.CartID != cartID {
			items = append(items, item)
		}
	}
	c.Items = items

	if len(c.Items) == 0 {
		c.OrderNote = ""
		c.Discount = nil
	}

	if err := s.save(ctx, c); err != nil {
		return c, err
	}
	return c, nil
}

// SetItemNote trims and stores free text on the matching line; an unknown
// cartID is a no-op.
func (s *Service) SetItemNote(ctx context.Context, cartID, note string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.load(ctx)
	for i := range c.Items {
		if c.Items[i].CartID == cartID {
			c.Items[i].OrderItemNote = strings.TrimSpace(note)
			break
		}
	}

	if err := s.save(ctx, c); err != nil {
		return c, err
	}
	return c, nil
}

func (s *Service) SetOrderNote(ctx context.Context, note string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.load(ctx)
	c.OrderNote = strings.TrimSpace(note)

	if err := s.save(ctx, c); err != nil {
		return c, err
	}
	return c, nil
}

func (s *Service) SetDiscount(ctx context.Context, discount *CartDiscount) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.load(ctx)
	c.Discount = discount

	if err := s.save(ctx, c); err != nil {
		return c, err
	}
	return c, nil
}

func (s *Service) Clear(ctx context.Context) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := EmptyCart()
	if err := s.save(ctx, c); err != nil {
		return c, err
	}
	return c, nil
}

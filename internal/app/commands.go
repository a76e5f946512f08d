package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_finder/internal/domain"
)

type WishlistService struct {
	repo  domain.WishlistRepository
	cache domain.Cache
}

func NewWishlistService(r domain.WishlistRepository, c domain.Cache) *WishlistService {
	return &WishlistService{repo: r, cache: c}
}

func validateWishlistArgs(userID, hotelID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrUnauthenticated
	}
	if strings.TrimSpace(hotelID) == "" {
		return fmt.Errorf("%w: hotel_id is required", domain.ErrInvalidInput)
	}
	return nil
}

// Add saves a hotel; saving it twice is not an error.
func (s *WishlistService) Add(ctx context.Context, userID, hotelID string) error {
	if err := validateWishlistArgs(userID, hotelID); err != nil {
		return err
	}
	if err := s.repo.AddItem(ctx, userID, strings.TrimSpace(hotelID)); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *WishlistService) Remove(ctx context.Context, userID, hotelID string) error {
	if err := validateWishlistArgs(userID, hotelID); err != nil {
		return err
	}
	if err := s.repo.RemoveItem(ctx, userID, strings.TrimSpace(hotelID)); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *WishlistService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, wishlistKey(userID)); err != nil {
		log.Warn().Err(err).Str("component", "wishlist").Str("user", userID).Msg("cache invalidation failed")
	}
}

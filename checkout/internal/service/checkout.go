package service

import (
	"context"

	"github.com/velvetlane/storefront/cart/pkg/repository"
	"github.com/velvetlane/storefront/checkout/pkg/response"
	"github.com/velvetlane/storefront/checkout/pkg/verifier"
	"github.com/velvetlane/storefront/internal/payment"
)

// cartClearer adapts the cart persistence to the narrow clear-only
// dependency the verifier needs. Clearing a cart is deleting its stored
// document.
type cartClearer struct {
	carts repository.Persistence
}

func (a cartClearer) Clear(c context.Context, cartSessionID string) error {
	return a.carts.Delete(c, cartSessionID)
}

type CheckoutService struct {
	verifier *verifier.Verifier
}

func NewCheckoutService(paymentClient *payment.Client, carts repository.Persistence, guard verifier.ClearGuard) *CheckoutService {
	return &CheckoutService{
		verifier: verifier.NewVerifier(paymentClient, cartClearer{carts: carts}, guard),
	}
}

func (s *CheckoutService) VerifySession(c context.Context, checkoutSessionID, cartSessionID string) (response.Session, error) {
	result, err := s.verifier.Verify(c, checkoutSessionID, cartSessionID)
	return response.NewSession(result), err
}

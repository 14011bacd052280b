package response

import "github.com/velvetlane/storefront/checkout/pkg/verifier"

// Session is the normalized view of a checkout attempt returned by the
// session-check endpoint.
type Session struct {
	State               string `json:"state"`
	ID                  string `json:"id,omitempty"`
	Status              string `json:"status,omitempty"`
	PaymentStatus       string `json:"paymentStatus,omitempty"`
	Currency            string `json:"currency,omitempty"`
	CustomerEmail       string `json:"customerEmail,omitempty"`
	CustomerName        string `json:"customerName,omitempty"`
	PaymentIntentID     string `json:"paymentIntentId,omitempty"`
	PaymentIntentStatus string `json:"paymentIntentStatus,omitempty"`
	AmountTotal         int64  `json:"amountTotal"`
	ExpiresAt           int64  `json:"expiresAt,omitempty"`
}

func NewSession(result verifier.Result) Session {
	session := result.Session
	return Session{
		State:               string(result.State),
		ID:                  session.ID,
		Status:              session.Status,
		PaymentStatus:       session.PaymentStatus,
		Currency:            session.Currency,
		CustomerEmail:       session.CustomerDetails.Email,
		CustomerName:        session.CustomerDetails.Name,
		PaymentIntentID:     session.PaymentIntent.ID,
		PaymentIntentStatus: session.PaymentIntent.Status,
		AmountTotal:         session.AmountTotal,
		ExpiresAt:           session.ExpiresAt,
	}
}

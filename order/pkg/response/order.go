package response

import "encoding/json"

// Order echoes the record the content repository created, attributes
// included, so submitters see the persisted order as stored.
type Order struct {
	Attributes json.RawMessage `json:"attributes,omitempty"`
	ID         int64           `json:"id"`
}

// CheckoutSession is the handoff to the hosted payment page.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Checkout wraps the session under the key the storefront client reads
// before redirecting to the hosted payment page.
type Checkout struct {
	StripeSession CheckoutSession `json:"stripeSession"`
}

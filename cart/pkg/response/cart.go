package response

import "github.com/velvetlane/storefront/cart/pkg/store"

type Cart struct {
	Lines         []store.Line `json:"lines"`
	Notice        store.Notice `json:"notice"`
	TotalQuantity int          `json:"totalQuantity"`
	Hydrated      bool         `json:"hydrated"`
}

func NewCart(state store.State, notice store.Notice) Cart {
	lines := state.Lines
	if lines == nil {
		lines = []store.Line{}
	}
	return Cart{
		Lines:         lines,
		Notice:        notice,
		TotalQuantity: state.TotalQuantity(),
		Hydrated:      true,
	}
}

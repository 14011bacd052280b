package constants

const (
	APP_MAIN_STOREFRONT  = "main storefront"
	APP_CATALOG_SERVICE  = "catalog-service"
	APP_CART_SERVICE     = "cart-service"
	APP_ORDER_SERVICE    = "order-service"
	APP_CHECKOUT_SERVICE = "checkout-service"
	APP_CONTACT_SERVICE  = "contact-service"
)

package constants

const (
	KEY_APP_NAME             = "app"
	KEY_REQUEST_ID           = "requestId"
	KEY_PROCESS              = "process"
	KEY_TAG                  = "tag"
	KEY_CONFIG               = "config"
	KEY_REQUEST              = "request"
	KEY_HEADER               = "header"
	KEY_BODY                 = "body"
	KEY_REQUEST_HOST         = "host"
	KEY_REQUEST_IP           = "requesterIP"
	KEY_REQUEST_METHOD       = "requestMethod"
	KEY_REQUEST_URI          = "requestURI"
	KEY_REQUEST_URL          = "requestURL"
	KEY_SESSION_ID           = "sessionId"
	KEY_CACHE_KEY            = "cacheKey"
	KEY_CART                 = "cart"
	KEY_CART_LINES           = "cartLines"
	KEY_CART_LINE_COUNT      = "cartLineCount"
	KEY_NOTICE               = "notice"
	KEY_SLUG                 = "slug"
	KEY_SIZE                 = "size"
	KEY_COLOR                = "color"
	KEY_QUANTITY             = "quantity"
	KEY_PRODUCTS             = "products"
	KEY_PRODUCT_ID           = "productId"
	KEY_COLLECTIONS          = "collections"
	KEY_CATEGORIES           = "categories"
	KEY_HOME_IMAGES          = "homeImages"
	KEY_ORDER                = "order"
	KEY_ORDER_PRODUCTS       = "orderProducts"
	KEY_CHECKOUT_SESSION_ID  = "checkoutSessionId"
	KEY_CHECKOUT_STATE       = "checkoutState"
	KEY_PAYMENT_STATUS       = "paymentStatus"
	KEY_SESSION_STATUS       = "sessionStatus"
	KEY_RATE_LIMIT_KEY       = "rateLimitKey"
	KEY_RETRY_AFTER          = "retryAfter"
	KEY_ORIGIN               = "origin"
	KEY_UPSTREAM_STATUS_CODE = "upstreamStatusCode"
	KEY_EMAIL                = "email"
)

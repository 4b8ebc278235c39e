package constants

// Order statuses.
const (
	OrderStatusNew        = "new"
	OrderStatusPending    = "pending" // submitted, awaiting POS confirmation
	OrderStatusConfirmed  = "confirmed"
	OrderStatusCooking    = "cooking"
	OrderStatusReady      = "ready"
	OrderStatusDelivering = "delivering"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Promo code types.
const (
	PromoTypePercent   = "percent"
	PromoTypeFixed     = "fixed"
	PromoTypeGift      = "gift"
	PromoTypeFreeItems = "free_items"
	PromoTypeFunnel    = "funnel"
)

// Promo usage types.
const (
	PromoUsageMulti         = "multi"
	PromoUsageSingle        = "single"
	PromoUsageSinglePerUser = "single_per_user"
)

// Automatic action types.
const (
	ActionTypeGiftProduct  = "gift_product"
	ActionTypeCartDiscount = "cart_discount"
)

// Sync run types.
const (
	SyncTypeMenu      = "menu"
	SyncTypePrices    = "prices"
	SyncTypeStopLists = "stop_lists"
)

// Sync run statuses.
const (
	SyncStatusRunning = "running"
	SyncStatusSuccess = "success"
	SyncStatusError   = "error"
)

// Webhook event types.
const (
	WebhookEventDeliveryOrderUpdate = "DeliveryOrderUpdate"
	WebhookEventStopListUpdate      = "StopListUpdate"
)

// Async task names.
const (
	TaskOrderSubmit   = "order:submit"
	TaskSyncStopLists = "sync:stop_lists"
)

// Queue names.
const (
	QueueDefault = "default"
)

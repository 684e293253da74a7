package constants

// Order status constants
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Shipment status constants (carrier lifecycle)
const (
	ShipmentStatusNone            = "none"
	ShipmentStatusCreated         = "created"
	ShipmentStatusAWBGenerated    = "awb_generated"
	ShipmentStatusPickupScheduled = "pickup_scheduled"
	ShipmentStatusInTransit       = "in_transit"
	ShipmentStatusOutForDelivery  = "out_for_delivery"
	ShipmentStatusDelivered       = "delivered"
	ShipmentStatusRTO             = "rto"
	ShipmentStatusCancelled       = "cancelled"
)

// Payment method constants
const (
	PaymentMethodCOD     = "cod"
	PaymentMethodPrepaid = "prepaid"
)

// Payment status constants
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Discount type constants (coupons and combo offers)
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// User status constants
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// JWT subject type constants
const (
	JWTSubjectAdmin = "admin"
	JWTSubjectUser  = "user"
)

// Queue task type constants
const (
	TaskShipmentTrackSync = "shipment:track_sync"
	TaskWebhookRetry      = "shipment:webhook_retry"
	QueueDefault          = "default"
	QueueShipment         = "shipment"
)

// Upload constants
const (
	UploadBucketProducts = "product-images"
)

// Carrier defaults applied when an order does not specify package
// dimensions. Values follow the account's standard packaging.
const (
	CarrierDefaultPickupLocation = "Primary"
	CarrierDefaultLengthCM       = 10
	CarrierDefaultBreadthCM      = 10
	CarrierDefaultHeightCM       = 10
	CarrierDefaultWeightKG       = 0.5
	CarrierDefaultHSN            = 441122
)

// Webhook event status constants
const (
	WebhookEventStatusFailed  = "failed"
	WebhookEventStatusApplied = "applied"
)

package service

import "errors"

// Shared business errors returned by the service layer. Handlers map
// these onto response codes.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password too weak")
	ErrUserNotFound       = errors.New("user not found")

	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category has products")
	ErrSlugTaken        = errors.New("slug already in use")

	ErrProductNotFound   = errors.New("product not found")
	ErrProductInactive   = errors.New("product not available")
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewInvalidRating = errors.New("rating must be between 1 and 5")

	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponCodeTaken    = errors.New("coupon code already exists")
	ErrCouponInactive     = errors.New("coupon not active")
	ErrCouponExpired      = errors.New("coupon expired")
	ErrCouponUsageLimit   = errors.New("coupon usage limit reached")
	ErrCouponMinAmount    = errors.New("order amount below coupon minimum")
	ErrCouponNotApplicable = errors.New("coupon not applicable to these products")

	ErrComboNotFound = errors.New("combo offer not found")
	ErrComboInvalid  = errors.New("combo offer requires at least one product")

	ErrGSTRateNotFound    = errors.New("gst rate not found")
	ErrGSTRateInUse       = errors.New("active gst rate cannot be deleted")
	ErrGSTInvalidPercent  = errors.New("gst percentage out of range")

	ErrOrderNotFound         = errors.New("order not found")
	ErrInvalidOrderItem      = errors.New("order item is invalid")
	ErrOrderNotOwned         = errors.New("order does not belong to user")
	ErrInvalidOrderStatus    = errors.New("invalid order status transition")
	ErrOrderNotShippable     = errors.New("order is not ready for shipping")

	ErrShipmentExists        = errors.New("shipment already created for order")
	ErrShipmentNotFound      = errors.New("order has no shipment")
	ErrAWBExists             = errors.New("awb already assigned")
	ErrAWBMissing            = errors.New("shipment has no awb yet")
	ErrShipmentNotCancelable = errors.New("shipment cannot be cancelled in its current state")

	ErrUploadInvalidType = errors.New("unsupported file type")
	ErrUploadTooLarge    = errors.New("file exceeds size limit")
	ErrStorageDisabled   = errors.New("object storage not configured")
)

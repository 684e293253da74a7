package models

import (
	"time"

	"gorm.io/gorm"
)

// Order customer order with its carrier shipment state
type Order struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	OrderNo        string `gorm:"uniqueIndex;not null" json:"order_no"`
	UserID         uint   `gorm:"index;not null" json:"user_id"`
	Status         string `gorm:"index;not null;default:'pending'" json:"status"`
	PaymentMethod  string `gorm:"not null;default:'cod'" json:"payment_method"`
	PaymentStatus  string `gorm:"not null;default:'pending'" json:"payment_status"`
	Subtotal       Money  `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`
	DiscountAmount Money  `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`
	GSTAmount      Money  `gorm:"type:decimal(20,2);not null;default:0" json:"gst_amount"`
	DeliveryCharge Money  `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_charge"`
	TotalAmount    Money  `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`
	CouponID       *uint  `gorm:"index" json:"coupon_id,omitempty"`

	// Delivery address snapshot
	ShippingName    string `gorm:"not null" json:"shipping_name"`
	ShippingPhone   string `gorm:"type:varchar(20);not null" json:"shipping_phone"`
	ShippingEmail   string `gorm:"type:varchar(255)" json:"shipping_email"`
	AddressLine1    string `gorm:"not null" json:"address_line1"`
	AddressLine2    string `json:"address_line2"`
	City            string `gorm:"not null" json:"city"`
	State           string `gorm:"not null" json:"state"`
	PostalCode      string `gorm:"type:varchar(10);not null;index" json:"postal_code"`
	Country         string `gorm:"not null;default:'India'" json:"country"`

	// Carrier shipment state. CarrierOrderID/CarrierShipmentID come back
	// from shipment creation; the AWB fields from courier assignment.
	CarrierOrderID        string     `gorm:"column:shiprocket_order_id;index" json:"shiprocket_order_id"`
	CarrierShipmentID     string     `gorm:"column:shiprocket_shipment_id;index" json:"shiprocket_shipment_id"`
	AWBNumber             string     `gorm:"column:awb_number;index" json:"awb_number"`
	CourierID             int        `gorm:"column:courier_id" json:"courier_id"`
	CourierName           string     `gorm:"column:courier_name" json:"courier_name"`
	ShipmentStatus        string     `gorm:"index;not null;default:'none'" json:"shipment_status"`
	PickupScheduledDate   *time.Time `json:"pickup_scheduled_date"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date"`
	TrackingURL           string     `gorm:"type:varchar(500)" json:"tracking_url"`
	LabelURL              string     `gorm:"type:varchar(500)" json:"label_url"`
	ManifestURL           string     `gorm:"type:varchar(500)" json:"manifest_url"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	User  User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName table name
func (Order) TableName() string {
	return "orders"
}

// HasCarrierShipment reports whether a shipment exists at the carrier
func (o *Order) HasCarrierShipment() bool {
	return o.CarrierShipmentID != ""
}

// HasAWB reports whether a courier AWB has been assigned
func (o *Order) HasAWB() bool {
	return o.AWBNumber != ""
}

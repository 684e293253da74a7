package shiprocket

// OrderItem line item sent with order creation
type OrderItem struct {
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Units        int     `json:"units"`
	SellingPrice float64 `json:"selling_price"`
	Discount     float64 `json:"discount"`
	Tax          float64 `json:"tax"`
	HSN          int     `json:"hsn"`
}

// OrderRequest adhoc order creation payload
type OrderRequest struct {
	OrderID               string      `json:"order_id"`
	OrderDate             string      `json:"order_date"`
	PickupLocation        string      `json:"pickup_location"`
	BillingCustomerName   string      `json:"billing_customer_name"`
	BillingLastName       string      `json:"billing_last_name"`
	BillingAddress        string      `json:"billing_address"`
	BillingAddress2       string      `json:"billing_address_2,omitempty"`
	BillingCity           string      `json:"billing_city"`
	BillingPincode        string      `json:"billing_pincode"`
	BillingState          string      `json:"billing_state"`
	BillingCountry        string      `json:"billing_country"`
	BillingEmail          string      `json:"billing_email"`
	BillingPhone          string      `json:"billing_phone"`
	ShippingIsBilling     bool        `json:"shipping_is_billing"`
	OrderItems            []OrderItem `json:"order_items"`
	PaymentMethod         string      `json:"payment_method"`
	ShippingCharges       float64     `json:"shipping_charges"`
	TotalDiscount         float64     `json:"total_discount"`
	SubTotal              float64     `json:"sub_total"`
	Length                float64     `json:"length"`
	Breadth               float64     `json:"breadth"`
	Height                float64     `json:"height"`
	Weight                float64     `json:"weight"`
}

// OrderResponse order creation result
type OrderResponse struct {
	OrderID     int64  `json:"order_id"`
	ShipmentID  int64  `json:"shipment_id"`
	Status      string `json:"status"`
	StatusCode  int    `json:"status_code"`
	OnboardingCompletedNow int `json:"onboarding_completed_now"`
}

// CourierCompany one serviceable courier option
type CourierCompany struct {
	CourierCompanyID int     `json:"courier_company_id"`
	CourierName      string  `json:"courier_name"`
	Rate             float64 `json:"rate"`
	EstimatedDays    string  `json:"estimated_delivery_days"`
	ETD              string  `json:"etd"`
	CODCharges       float64 `json:"cod_charges"`
	FreightCharge    float64 `json:"freight_charge"`
	Rating           float64 `json:"rating"`
}

// ServiceabilityData serviceability payload body
type ServiceabilityData struct {
	AvailableCourierCompanies   []CourierCompany `json:"available_courier_companies"`
	RecommendedCourierCompanyID int              `json:"recommended_courier_company_id"`
	ShiprocketRecommendedCourierID int           `json:"shiprocket_recommended_courier_id"`
}

// ServiceabilityResponse serviceability result
type ServiceabilityResponse struct {
	Status int                `json:"status"`
	Data   ServiceabilityData `json:"data"`
}

// ServiceabilityQuery parameters for a postcode serviceability check
type ServiceabilityQuery struct {
	PickupPostcode   string
	DeliveryPostcode string
	WeightKG         float64
	COD              bool
}

// AWBData courier assignment body
type AWBData struct {
	AWBCode          string `json:"awb_code"`
	CourierCompanyID int    `json:"courier_company_id"`
	CourierName      string `json:"courier_name"`
}

// AWBResponse courier assignment result
type AWBResponse struct {
	AWBAssignStatus int `json:"awb_assign_status"`
	Response        struct {
		Data AWBData `json:"data"`
	} `json:"response"`
}

// PickupResponse pickup scheduling result
type PickupResponse struct {
	PickupStatus int `json:"pickup_status"`
	Response     struct {
		PickupScheduledDate string `json:"pickup_scheduled_date"`
		PickupTokenNumber   string `json:"pickup_token_number"`
	} `json:"response"`
}

// TrackActivity one scan event in the tracking history
type TrackActivity struct {
	Date     string `json:"date"`
	Status   string `json:"status"`
	Activity string `json:"activity"`
	Location string `json:"location"`
}

// TrackingData tracking payload body
type TrackingData struct {
	TrackStatus             int             `json:"track_status"`
	ShipmentStatus          int             `json:"shipment_status"`
	CurrentStatus           string          `json:"current_status"`
	ETD                     string          `json:"etd"`
	TrackURL                string          `json:"track_url"`
	ShipmentTrackActivities []TrackActivity `json:"shipment_track_activities"`
}

// TrackingResponse tracking result
type TrackingResponse struct {
	TrackingData TrackingData `json:"tracking_data"`
}

// LabelResponse label generation result
type LabelResponse struct {
	LabelCreated int    `json:"label_created"`
	LabelURL     string `json:"label_url"`
}

// ManifestResponse manifest generation result
type ManifestResponse struct {
	Status      int    `json:"status"`
	ManifestURL string `json:"manifest_url"`
}

// CancelResponse shipment cancellation result
type CancelResponse struct {
	Message string `json:"message"`
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string `json:"token"`
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
}

type awbRequest struct {
	ShipmentID int64 `json:"shipment_id"`
	CourierID  int   `json:"courier_id,omitempty"`
}

type pickupRequest struct {
	ShipmentID []int64 `json:"shipment_id"`
}

type cancelRequest struct {
	AWBs []string `json:"awbs"`
}

type shipmentIDsRequest struct {
	ShipmentID []int64 `json:"shipment_id"`
}

type carrierErrorBody struct {
	Message string `json:"message"`
}

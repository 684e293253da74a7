package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glowmart/glowmart-api/internal/constants"
	"github.com/glowmart/glowmart-api/internal/logger"
	"github.com/glowmart/glowmart-api/internal/models"
	"github.com/glowmart/glowmart-api/internal/queue"
	"github.com/glowmart/glowmart-api/internal/repository"
	"github.com/glowmart/glowmart-api/internal/shipping/shiprocket"

	"gorm.io/gorm"
)

// CarrierClient is the carrier API surface the shipment lifecycle needs.
type CarrierClient interface {
	Configured() bool
	CreateOrder(ctx context.Context, req *shiprocket.OrderRequest) (*shiprocket.OrderResponse, error)
	GetRecommendedCouriers(ctx context.Context, shipmentID string) (*shiprocket.ServiceabilityResponse, error)
	GenerateAWB(ctx context.Context, shipmentID string, courierID int) (*shiprocket.AWBResponse, error)
	RequestPickup(ctx context.Context, shipmentID string) (*shiprocket.PickupResponse, error)
	TrackShipment(ctx context.Context, shipmentID string) (*shiprocket.TrackingResponse, error)
	TrackByAWB(ctx context.Context, awb string) (*shiprocket.TrackingResponse, error)
	CancelShipments(ctx context.Context, awbs []string) (*shiprocket.CancelResponse, error)
	GenerateLabel(ctx context.Context, shipmentIDs []string) (*shiprocket.LabelResponse, error)
	GenerateManifest(ctx context.Context, shipmentIDs []string) (*shiprocket.ManifestResponse, error)
	CheckServiceability(ctx context.Context, query shiprocket.ServiceabilityQuery) (*shiprocket.ServiceabilityResponse, error)
}

// ShipmentService drives an order through the carrier shipment lifecycle.
// Every step that mutates shipment state runs inside a transaction holding
// a row lock on the order, so concurrent admin actions serialize per order.
type ShipmentService struct {
	orderRepo   repository.OrderRepository
	webhookRepo repository.WebhookEventRepository
	carrier     CarrierClient
	queueClient *queue.Client
	pickupPIN   string
}

// NewShipmentService creates the shipment service
func NewShipmentService(orderRepo repository.OrderRepository, webhookRepo repository.WebhookEventRepository, carrier CarrierClient, queueClient *queue.Client, pickupPIN string) *ShipmentService {
	return &ShipmentService{
		orderRepo:   orderRepo,
		webhookRepo: webhookRepo,
		carrier:     carrier,
		queueClient: queueClient,
		pickupPIN:   pickupPIN,
	}
}

// CreateShipmentInput optional package overrides for shipment creation
type CreateShipmentInput struct {
	OrderID        uint
	PickupLocation string
	LengthCM       float64
	BreadthCM      float64
	HeightCM       float64
	WeightKG       float64
}

func (in *CreateShipmentInput) applyDefaults() {
	if in.PickupLocation == "" {
		in.PickupLocation = constants.CarrierDefaultPickupLocation
	}
	if in.LengthCM <= 0 {
		in.LengthCM = constants.CarrierDefaultLengthCM
	}
	if in.BreadthCM <= 0 {
		in.BreadthCM = constants.CarrierDefaultBreadthCM
	}
	if in.HeightCM <= 0 {
		in.HeightCM = constants.CarrierDefaultHeightCM
	}
	if in.WeightKG <= 0 {
		in.WeightKG = constants.CarrierDefaultWeightKG
	}
}

// CreateShipment registers the order with the carrier and records the
// returned carrier order/shipment ids. On carrier failure nothing is
// persisted.
func (s *ShipmentService) CreateShipment(ctx context.Context, input CreateShipmentInput) (*shiprocket.OrderResponse, error) {
	input.applyDefaults()
	var resp *shiprocket.OrderResponse
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetByIDForUpdate(tx, input.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.HasCarrierShipment() {
			return ErrShipmentExists
		}
		if order.Status == constants.OrderStatusCancelled {
			return ErrOrderNotShippable
		}

		req := buildCarrierOrder(order, input)
		resp, err = s.carrier.CreateOrder(ctx, req)
		if err != nil {
			logger.Errorw("carrier_order_create_failed", "order_id", order.ID, "error", err)
			return err
		}

		return s.orderRepo.UpdateShipmentFields(tx, order.ID, map[string]interface{}{
			"shiprocket_order_id":    fmt.Sprintf("%d", resp.OrderID),
			"shiprocket_shipment_id": fmt.Sprintf("%d", resp.ShipmentID),
			"shipment_status":        constants.ShipmentStatusCreated,
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("shipment_created", "order_id", input.OrderID, "shipment_id", resp.ShipmentID)
	return resp, nil
}

// AssignCourier generates an AWB for the order's shipment. When courierID
// is zero the first recommended courier is used.
func (s *ShipmentService) AssignCourier(ctx context.Context, orderID uint, courierID int) (*shiprocket.AWBResponse, error) {
	var resp *shiprocket.AWBResponse
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetByIDForUpdate(tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !order.HasCarrierShipment() {
			return ErrShipmentNotFound
		}
		if order.HasAWB() {
			return ErrAWBExists
		}

		selected := courierID
		if selected == 0 {
			recommendations, err := s.carrier.GetRecommendedCouriers(ctx, order.CarrierShipmentID)
			if err != nil {
				return err
			}
			couriers := recommendations.Data.AvailableCourierCompanies
			if len(couriers) == 0 {
				return shiprocket.ErrNoCouriersAvailable
			}
			selected = couriers[0].CourierCompanyID
		}

		resp, err = s.carrier.GenerateAWB(ctx, order.CarrierShipmentID, selected)
		if err != nil {
			logger.Errorw("carrier_awb_assign_failed", "order_id", order.ID, "courier_id", selected, "error", err)
			return err
		}

		assigned := resp.Response.Data
		courierName := assigned.CourierName
		if assigned.CourierCompanyID != 0 {
			selected = assigned.CourierCompanyID
		}
		return s.orderRepo.UpdateShipmentFields(tx, order.ID, map[string]interface{}{
			"awb_number":      assigned.AWBCode,
			"courier_id":      selected,
			"courier_name":    courierName,
			"shipment_status": constants.ShipmentStatusAWBGenerated,
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("awb_assigned", "order_id", orderID, "awb", resp.Response.Data.AWBCode)
	return resp, nil
}

// RequestPickup schedules courier pickup and moves the order to shipped.
func (s *ShipmentService) RequestPickup(ctx context.Context, orderID uint) (*shiprocket.PickupResponse, error) {
	var resp *shiprocket.PickupResponse
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetByIDForUpdate(tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !order.HasCarrierShipment() {
			return ErrShipmentNotFound
		}
		if !order.HasAWB() {
			return ErrAWBMissing
		}

		resp, err = s.carrier.RequestPickup(ctx, order.CarrierShipmentID)
		if err != nil {
			logger.Errorw("carrier_pickup_failed", "order_id", order.ID, "error", err)
			return err
		}

		scheduled := parseCarrierTime(resp.Response.PickupScheduledDate)
		if scheduled.IsZero() {
			scheduled = time.Now()
		}
		return s.orderRepo.UpdateShipmentFields(tx, order.ID, map[string]interface{}{
			"pickup_scheduled_date": scheduled,
			"shipment_status":       constants.ShipmentStatusPickupScheduled,
			"status":                constants.OrderStatusShipped,
		})
	})
	if err != nil {
		return nil, err
	}
	if err := s.queueClient.EnqueueShipmentTrackSync(queue.ShipmentTrackSyncPayload{OrderID: orderID}, 6*time.Hour); err != nil {
		logger.Warnw("track_sync_enqueue_failed", "order_id", orderID, "error", err)
	}
	logger.Infow("pickup_scheduled", "order_id", orderID)
	return resp, nil
}

// Track returns live carrier tracking for an order, preferring the AWB
// route once an AWB exists. Read-only.
func (s *ShipmentService) Track(ctx context.Context, orderID uint) (*shiprocket.TrackingResponse, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.track(ctx, order)
}

// TrackForUser returns tracking for an order owned by userID.
func (s *ShipmentService) TrackForUser(ctx context.Context, orderID uint, userID uint) (*shiprocket.TrackingResponse, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.track(ctx, order)
}

func (s *ShipmentService) track(ctx context.Context, order *models.Order) (*shiprocket.TrackingResponse, error) {
	switch {
	case order.HasAWB():
		return s.carrier.TrackByAWB(ctx, order.AWBNumber)
	case order.HasCarrierShipment():
		return s.carrier.TrackShipment(ctx, order.CarrierShipmentID)
	default:
		return nil, ErrShipmentNotFound
	}
}

// GenerateLabel creates the shipping label and stores its URL.
func (s *ShipmentService) GenerateLabel(ctx context.Context, orderID uint) (*shiprocket.LabelResponse, error) {
	var resp *shiprocket.LabelResponse
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetByIDForUpdate(tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !order.HasCarrierShipment() {
			return ErrShipmentNotFound
		}
		if !order.HasAWB() {
			return ErrAWBMissing
		}

		resp, err = s.carrier.GenerateLabel(ctx, []string{order.CarrierShipmentID})
		if err != nil {
			return err
		}
		if resp.LabelURL == "" {
			return nil
		}
		return s.orderRepo.UpdateShipmentFields(tx, order.ID, map[string]interface{}{
			"label_url": resp.LabelURL,
		})
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GenerateManifest creates the pickup manifest and stores its URL.
func (s *ShipmentService) GenerateManifest(ctx context.Context, orderID uint) (*shiprocket.ManifestResponse, error) {
	var resp *shiprocket.ManifestResponse
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetByIDForUpdate(tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !order.HasCarrierShipment() {
			return ErrShipmentNotFound
		}

		resp, err = s.carrier.GenerateManifest(ctx, []string{order.CarrierShipmentID})
		if err != nil {
			return err
		}
		if resp.ManifestURL == "" {
			return nil
		}
		return s.orderRepo.UpdateShipmentFields(tx, order.ID, map[string]interface{}{
			"manifest_url": resp.ManifestURL,
		})
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CancelShipment cancels the courier shipment at the carrier.
func (s *ShipmentService) CancelShipment(ctx context.Context, orderID uint) (*shiprocket.CancelResponse, error) {
	var resp *shiprocket.CancelResponse
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetByIDForUpdate(tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !order.HasAWB() {
			return ErrAWBMissing
		}
		if order.ShipmentStatus == constants.ShipmentStatusDelivered ||
			order.ShipmentStatus == constants.ShipmentStatusCancelled {
			return ErrShipmentNotCancelable
		}

		resp, err = s.carrier.CancelShipments(ctx, []string{order.AWBNumber})
		if err != nil {
			logger.Errorw("carrier_cancel_failed", "order_id", order.ID, "awb", order.AWBNumber, "error", err)
			return err
		}

		return s.orderRepo.UpdateShipmentFields(tx, order.ID, map[string]interface{}{
			"shipment_status": constants.ShipmentStatusCancelled,
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("shipment_cancelled", "order_id", orderID)
	return resp, nil
}

// CheckServiceability queries courier availability between two pincodes.
// Pure pass-through; defaults the pickup pincode to the configured
// warehouse when omitted.
func (s *ShipmentService) CheckServiceability(ctx context.Context, query shiprocket.ServiceabilityQuery) (*shiprocket.ServiceabilityResponse, error) {
	if query.PickupPostcode == "" {
		query.PickupPostcode = s.pickupPIN
	}
	if query.WeightKG <= 0 {
		query.WeightKG = constants.CarrierDefaultWeightKG
	}
	return s.carrier.CheckServiceability(ctx, query)
}

// WebhookPayload the fields consumed from a carrier webhook delivery
type WebhookPayload struct {
	AWB           string `json:"awb"`
	AWBCode       string `json:"awb_code"`
	CurrentStatus string `json:"current_status"`
	ETD           string `json:"etd"`
}

func (p WebhookPayload) awb() string {
	if p.AWB != "" {
		return p.AWB
	}
	return p.AWBCode
}

// ApplyWebhook applies a carrier status push to the matching order. It
// never returns an error to the caller path that acks the carrier; any
// failure is dead-lettered instead.
func (s *ShipmentService) ApplyWebhook(payload WebhookPayload, raw []byte) {
	if err := s.applyWebhook(payload); err != nil {
		s.deadLetter(payload, raw, err)
	}
}

func (s *ShipmentService) applyWebhook(payload WebhookPayload) error {
	awb := payload.awb()
	if awb == "" {
		return errors.New("webhook payload has no awb")
	}
	status := normalizeCarrierStatus(payload.CurrentStatus)
	if status == "" {
		return fmt.Errorf("webhook payload has no usable status %q", payload.CurrentStatus)
	}

	return s.orderRepo.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetByAWBForUpdate(tx, awb)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("no order with awb %s", awb)
		}

		updates := map[string]interface{}{
			"shipment_status": status,
		}
		if status == constants.ShipmentStatusDelivered {
			updates["status"] = constants.OrderStatusDelivered
		}
		if etd := parseCarrierTime(payload.ETD); !etd.IsZero() {
			updates["estimated_delivery_date"] = etd
		}
		if err := s.orderRepo.UpdateShipmentFields(tx, order.ID, updates); err != nil {
			return err
		}
		logger.Infow("webhook_applied", "order_id", order.ID, "awb", awb, "shipment_status", status)
		return nil
	})
}

func (s *ShipmentService) deadLetter(payload WebhookPayload, raw []byte, cause error) {
	if len(raw) == 0 {
		raw, _ = json.Marshal(payload)
	}
	event := &models.WebhookEvent{
		AWBNumber:  payload.awb(),
		Status:     constants.WebhookEventStatusFailed,
		Payload:    string(raw),
		FailReason: cause.Error(),
	}
	if err := s.webhookRepo.Create(event); err != nil {
		logger.Errorw("webhook_dead_letter_failed", "awb", payload.awb(), "error", err)
		return
	}
	logger.Warnw("webhook_dead_lettered", "awb", payload.awb(), "event_id", event.ID, "reason", cause.Error())
	if err := s.queueClient.EnqueueWebhookRetry(queue.WebhookRetryPayload{EventID: event.ID}, 10*time.Minute); err != nil {
		logger.Warnw("webhook_retry_enqueue_failed", "event_id", event.ID, "error", err)
	}
}

// RetryWebhookEvent re-applies a dead-lettered webhook event.
func (s *ShipmentService) RetryWebhookEvent(eventID uint) error {
	event, err := s.webhookRepo.GetByID(eventID)
	if err != nil {
		return err
	}
	if event == nil || event.Status == constants.WebhookEventStatusApplied {
		return nil
	}

	var payload WebhookPayload
	if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
		return s.webhookRepo.MarkRetryFailed(event.ID, "payload unmarshal: "+err.Error())
	}
	if err := s.applyWebhook(payload); err != nil {
		return s.webhookRepo.MarkRetryFailed(event.ID, err.Error())
	}
	return s.webhookRepo.MarkApplied(event.ID, time.Now())
}

// SyncTracking pulls current tracking for a shipped order and persists
// status and ETA changes. Used by the background refresh task.
func (s *ShipmentService) SyncTracking(ctx context.Context, orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if !order.HasAWB() && !order.HasCarrierShipment() {
		return nil
	}

	tracking, err := s.track(ctx, order)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if status := normalizeCarrierStatus(tracking.TrackingData.CurrentStatus); status != "" && status != order.ShipmentStatus {
		updates["shipment_status"] = status
		if status == constants.ShipmentStatusDelivered {
			updates["status"] = constants.OrderStatusDelivered
		}
	}
	if etd := parseCarrierTime(tracking.TrackingData.ETD); !etd.IsZero() {
		updates["estimated_delivery_date"] = etd
	}
	if tracking.TrackingData.TrackURL != "" && tracking.TrackingData.TrackURL != order.TrackingURL {
		updates["tracking_url"] = tracking.TrackingData.TrackURL
	}
	if len(updates) == 0 {
		return nil
	}
	return s.orderRepo.Transaction(func(tx *gorm.DB) error {
		locked, err := s.orderRepo.GetByIDForUpdate(tx, order.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return nil
		}
		return s.orderRepo.UpdateShipmentFields(tx, locked.ID, updates)
	})
}

// buildCarrierOrder maps an order onto the carrier's order payload.
func buildCarrierOrder(order *models.Order, input CreateShipmentInput) *shiprocket.OrderRequest {
	firstName, lastName := splitName(order.ShippingName)

	items := make([]shiprocket.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		sku := item.SKU
		if sku == "" {
			sku = fmt.Sprintf("%d", item.ProductID)
		}
		items = append(items, shiprocket.OrderItem{
			Name:         item.ProductName,
			SKU:          sku,
			Units:        item.Quantity,
			SellingPrice: item.UnitPrice.InexactFloat64(),
			Discount:     0,
			Tax:          item.GSTPercent,
			HSN:          constants.CarrierDefaultHSN,
		})
	}

	email := order.ShippingEmail
	if email == "" {
		email = order.User.Email
	}
	total := order.TotalAmount.InexactFloat64()
	shippingCharges := order.DeliveryCharge.InexactFloat64()

	return &shiprocket.OrderRequest{
		OrderID:             order.OrderNo,
		OrderDate:           order.CreatedAt.Format("2006-01-02"),
		PickupLocation:      input.PickupLocation,
		BillingCustomerName: firstName,
		BillingLastName:     lastName,
		BillingAddress:      order.AddressLine1,
		BillingAddress2:     order.AddressLine2,
		BillingCity:         order.City,
		BillingPincode:      order.PostalCode,
		BillingState:        order.State,
		BillingCountry:      order.Country,
		BillingEmail:        email,
		BillingPhone:        order.ShippingPhone,
		ShippingIsBilling:   true,
		OrderItems:          items,
		PaymentMethod:       carrierPaymentMethod(order.PaymentMethod),
		ShippingCharges:     shippingCharges,
		SubTotal:            total - shippingCharges,
		Length:              input.LengthCM,
		Breadth:             input.BreadthCM,
		Height:              input.HeightCM,
		Weight:              input.WeightKG,
	}
}

func carrierPaymentMethod(method string) string {
	if method == constants.PaymentMethodCOD {
		return "COD"
	}
	return "Prepaid"
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "Customer", "Name"
	}
	if len(parts) == 1 {
		return parts[0], "Name"
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// normalizeCarrierStatus maps a carrier status label onto the internal
// shipment status vocabulary. Unknown labels are kept lowercased with
// underscores so nothing is silently dropped.
func normalizeCarrierStatus(raw string) string {
	status := strings.ToLower(strings.TrimSpace(raw))
	status = strings.ReplaceAll(status, " ", "_")
	switch status {
	case "":
		return ""
	case "pickup_scheduled", "pickup_generated":
		return constants.ShipmentStatusPickupScheduled
	case "picked_up", "shipped", "in_transit", "reached_at_destination_hub":
		return constants.ShipmentStatusInTransit
	case "out_for_delivery":
		return constants.ShipmentStatusOutForDelivery
	case "delivered":
		return constants.ShipmentStatusDelivered
	case "rto_initiated", "rto_delivered", "rto":
		return constants.ShipmentStatusRTO
	case "canceled", "cancelled":
		return constants.ShipmentStatusCancelled
	default:
		return status
	}
}

var carrierTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"Jan 02, 2006",
}

func parseCarrierTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range carrierTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

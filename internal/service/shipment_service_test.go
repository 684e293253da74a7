package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glowmart/glowmart-api/internal/constants"
	"github.com/glowmart/glowmart-api/internal/models"
	"github.com/glowmart/glowmart-api/internal/queue"
	"github.com/glowmart/glowmart-api/internal/repository"
	"github.com/glowmart/glowmart-api/internal/shipping/shiprocket"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type stubCarrier struct {
	createOrderCalls  int
	lastOrderRequest  *shiprocket.OrderRequest
	createOrderResp   *shiprocket.OrderResponse
	createOrderErr    error
	recommendedResp   *shiprocket.ServiceabilityResponse
	awbResp           *shiprocket.AWBResponse
	awbCalls          int
	lastAWBCourierID  int
	pickupResp        *shiprocket.PickupResponse
	trackByAWBCalls   int
	trackShipmentCalls int
	trackingResp      *shiprocket.TrackingResponse
	cancelResp        *shiprocket.CancelResponse
	cancelCalls       int
	serviceQuery      shiprocket.ServiceabilityQuery
	carrierTouched    int
}

func (c *stubCarrier) Configured() bool { return true }

func (c *stubCarrier) CreateOrder(ctx context.Context, req *shiprocket.OrderRequest) (*shiprocket.OrderResponse, error) {
	c.carrierTouched++
	c.createOrderCalls++
	c.lastOrderRequest = req
	if c.createOrderErr != nil {
		return nil, c.createOrderErr
	}
	return c.createOrderResp, nil
}

func (c *stubCarrier) GetRecommendedCouriers(ctx context.Context, shipmentID string) (*shiprocket.ServiceabilityResponse, error) {
	c.carrierTouched++
	if c.recommendedResp == nil {
		return &shiprocket.ServiceabilityResponse{}, nil
	}
	return c.recommendedResp, nil
}

func (c *stubCarrier) GenerateAWB(ctx context.Context, shipmentID string, courierID int) (*shiprocket.AWBResponse, error) {
	c.carrierTouched++
	c.awbCalls++
	c.lastAWBCourierID = courierID
	return c.awbResp, nil
}

func (c *stubCarrier) RequestPickup(ctx context.Context, shipmentID string) (*shiprocket.PickupResponse, error) {
	c.carrierTouched++
	if c.pickupResp == nil {
		return &shiprocket.PickupResponse{}, nil
	}
	return c.pickupResp, nil
}

func (c *stubCarrier) TrackShipment(ctx context.Context, shipmentID string) (*shiprocket.TrackingResponse, error) {
	c.carrierTouched++
	c.trackShipmentCalls++
	return c.trackingResponse(), nil
}

func (c *stubCarrier) TrackByAWB(ctx context.Context, awb string) (*shiprocket.TrackingResponse, error) {
	c.carrierTouched++
	c.trackByAWBCalls++
	return c.trackingResponse(), nil
}

func (c *stubCarrier) trackingResponse() *shiprocket.TrackingResponse {
	if c.trackingResp == nil {
		return &shiprocket.TrackingResponse{}
	}
	return c.trackingResp
}

func (c *stubCarrier) CancelShipments(ctx context.Context, awbs []string) (*shiprocket.CancelResponse, error) {
	c.carrierTouched++
	c.cancelCalls++
	if c.cancelResp == nil {
		return &shiprocket.CancelResponse{}, nil
	}
	return c.cancelResp, nil
}

func (c *stubCarrier) GenerateLabel(ctx context.Context, shipmentIDs []string) (*shiprocket.LabelResponse, error) {
	c.carrierTouched++
	return &shiprocket.LabelResponse{LabelCreated: 1, LabelURL: "https://cdn.example.com/label.pdf"}, nil
}

func (c *stubCarrier) GenerateManifest(ctx context.Context, shipmentIDs []string) (*shiprocket.ManifestResponse, error) {
	c.carrierTouched++
	return &shiprocket.ManifestResponse{Status: 1, ManifestURL: "https://cdn.example.com/manifest.pdf"}, nil
}

func (c *stubCarrier) CheckServiceability(ctx context.Context, query shiprocket.ServiceabilityQuery) (*shiprocket.ServiceabilityResponse, error) {
	c.carrierTouched++
	c.serviceQuery = query
	return &shiprocket.ServiceabilityResponse{Status: 200}, nil
}

func newShipmentTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:shipment_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}, &models.WebhookEvent{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func newShipmentService(db *gorm.DB, carrier *stubCarrier) *ShipmentService {
	queueClient, _ := queue.NewClient(nil)
	return NewShipmentService(
		repository.NewOrderRepository(db),
		repository.NewWebhookEventRepository(db),
		carrier,
		queueClient,
		"110001",
	)
}

func seedShippableOrder(t *testing.T, db *gorm.DB, mutate func(*models.Order)) *models.Order {
	t.Helper()
	user := models.User{FullName: "Asha Verma", Email: fmt.Sprintf("asha%d@example.com", time.Now().UnixNano()), PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	order := models.Order{
		OrderNo:        fmt.Sprintf("GM%d", time.Now().UnixNano()),
		UserID:         user.ID,
		Status:         constants.OrderStatusConfirmed,
		PaymentMethod:  constants.PaymentMethodCOD,
		Subtotal:       models.NewMoneyFromFloat(599),
		DeliveryCharge: models.NewMoneyFromFloat(49),
		TotalAmount:    models.NewMoneyFromFloat(648),
		ShippingName:   "Asha Verma",
		ShippingPhone:  "9876543210",
		AddressLine1:   "12 MG Road",
		City:           "Bengaluru",
		State:          "Karnataka",
		PostalCode:     "560001",
		Country:        "India",
	}
	if mutate != nil {
		mutate(&order)
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	item := models.OrderItem{
		OrderID:     order.ID,
		ProductID:   7,
		ProductName: "Vitamin C Serum",
		SKU:         "VCS-30",
		UnitPrice:   models.NewMoneyFromFloat(599),
		Quantity:    1,
		GSTPercent:  18,
		TotalPrice:  models.NewMoneyFromFloat(599),
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create order item failed: %v", err)
	}
	return &order
}

func TestCreateShipmentBuildsCarrierPayload(t *testing.T) {
	db := newShipmentTestDB(t, "create_payload")
	carrier := &stubCarrier{createOrderResp: &shiprocket.OrderResponse{OrderID: 9001, ShipmentID: 5001}}
	svc := newShipmentService(db, carrier)
	order := seedShippableOrder(t, db, nil)

	if _, err := svc.CreateShipment(context.Background(), CreateShipmentInput{OrderID: order.ID}); err != nil {
		t.Fatalf("create shipment failed: %v", err)
	}

	req := carrier.lastOrderRequest
	if req == nil {
		t.Fatal("carrier did not receive an order request")
	}
	if req.PickupLocation != "Primary" {
		t.Fatalf("unexpected pickup location: %s", req.PickupLocation)
	}
	if req.Weight != 0.5 || req.Length != 10 || req.Breadth != 10 || req.Height != 10 {
		t.Fatalf("default package dimensions not applied: %+v", req)
	}
	if req.PaymentMethod != "COD" {
		t.Fatalf("cod order must map to COD, got %s", req.PaymentMethod)
	}
	if req.SubTotal != 599 {
		t.Fatalf("sub_total must exclude delivery charge, got %v", req.SubTotal)
	}
	if len(req.OrderItems) != 1 || req.OrderItems[0].HSN != 441122 {
		t.Fatalf("unexpected order items: %+v", req.OrderItems)
	}
	if req.BillingCustomerName != "Asha" || req.BillingLastName != "Verma" {
		t.Fatalf("name split wrong: %s / %s", req.BillingCustomerName, req.BillingLastName)
	}

	var stored models.Order
	if err := db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if stored.CarrierOrderID != "9001" || stored.CarrierShipmentID != "5001" {
		t.Fatalf("carrier ids not persisted: %+v", stored)
	}
	if stored.ShipmentStatus != constants.ShipmentStatusCreated {
		t.Fatalf("unexpected shipment status: %s", stored.ShipmentStatus)
	}
}

func TestCreateShipmentCarrierFailurePersistsNothing(t *testing.T) {
	db := newShipmentTestDB(t, "create_fail")
	carrier := &stubCarrier{createOrderErr: &shiprocket.CarrierError{Op: "create_order", StatusCode: 422, Message: "Wrong Pickup location entered."}}
	svc := newShipmentService(db, carrier)
	order := seedShippableOrder(t, db, nil)

	_, err := svc.CreateShipment(context.Background(), CreateShipmentInput{OrderID: order.ID})
	if err == nil {
		t.Fatal("expected carrier error")
	}

	var stored models.Order
	if err := db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if stored.ShipmentStatus != constants.ShipmentStatusNone || stored.CarrierShipmentID != "" {
		t.Fatalf("carrier failure must not persist shipment state: %+v", stored)
	}
}

func TestCreateShipmentRejectsDuplicate(t *testing.T) {
	db := newShipmentTestDB(t, "create_dup")
	carrier := &stubCarrier{}
	svc := newShipmentService(db, carrier)
	order := seedShippableOrder(t, db, func(o *models.Order) {
		o.CarrierOrderID = "9001"
		o.CarrierShipmentID = "5001"
		o.ShipmentStatus = constants.ShipmentStatusCreated
	})

	_, err := svc.CreateShipment(context.Background(), CreateShipmentInput{OrderID: order.ID})
	if !errors.Is(err, ErrShipmentExists) {
		t.Fatalf("expected ErrShipmentExists, got %v", err)
	}
	if carrier.carrierTouched != 0 {
		t.Fatal("precondition failure must not reach the carrier")
	}
}

func TestAssignCourierRequiresShipment(t *testing.T) {
	db := newShipmentTestDB(t, "awb_precond")
	carrier := &stubCarrier{}
	svc := newShipmentService(db, carrier)
	order := seedShippableOrder(t, db, nil)

	_, err := svc.AssignCourier(context.Background(), order.ID, 0)
	if !errors.Is(err, ErrShipmentNotFound) {
		t.Fatalf("expected ErrShipmentNotFound, got %v", err)
	}
	if carrier.carrierTouched != 0 {
		t.Fatal("precondition failure must not reach the carrier")
	}
}

func TestAssignCourierFallsBackToRecommended(t *testing.T) {
	db := newShipmentTestDB(t, "awb_recommended")
	awbResp := &shiprocket.AWBResponse{AWBAssignStatus: 1}
	awbResp.Response.Data = shiprocket.AWBData{AWBCode: "19011112345", CourierCompanyID: 24, CourierName: "Bluedart"}
	carrier := &stubCarrier{
		recommendedResp: &shiprocket.ServiceabilityResponse{
			Data: shiprocket.ServiceabilityData{
				AvailableCourierCompanies: []shiprocket.CourierCompany{
					{CourierCompanyID: 24, CourierName: "Bluedart"},
					{CourierCompanyID: 51, CourierName: "Delhivery"},
				},
			},
		},
		awbResp: awbResp,
	}
	svc := newShipmentService(db, carrier)
	order := seedShippableOrder(t, db, func(o *models.Order) {
		o.CarrierShipmentID = "5001"
		o.CarrierOrderID = "9001"
		o.ShipmentStatus = constants.ShipmentStatusCreated
	})

	if _, err := svc.AssignCourier(context.Background(), order.ID, 0); err != nil {
		t.Fatalf("assign courier failed: %v", err)
	}
	if carrier.lastAWBCourierID != 24 {
		t.Fatalf("first recommended courier not selected, got %d", carrier.lastAWBCourierID)
	}

	var stored models.Order
	if err := db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if stored.AWBNumber != "19011112345" || stored.CourierName != "Bluedart" || stored.CourierID != 24 {
		t.Fatalf("awb fields not persisted: %+v", stored)
	}
	if stored.ShipmentStatus != constants.ShipmentStatusAWBGenerated {
		t.Fatalf("unexpected shipment status: %s", stored.ShipmentStatus)
	}
}

func TestAssignCourierNoCouriersAvailable(t *testing.T) {
	db := newShipmentTestDB(t, "awb_none")
	carrier := &stubCarrier{recommendedResp: &shiprocket.ServiceabilityResponse{}}
	svc := newShipmentService(db, carrier)
	order := seedShippableOrder(t, db, func(o *models.Order) {
		o.CarrierShipmentID = "5001"
		o.ShipmentStatus = constants.ShipmentStatusCreated
	})

	_, err := svc.AssignCourier(context.Background(), order.ID, 0)
	if !errors.Is(err, shiprocket.ErrNoCouriersAvailable) {
		t.Fatalf("expected ErrNoCouriersAvailable, got %v", err)
	}
	if carrier.awbCalls != 0 {
		t.Fatal("awb must not be generated without a courier")
	}
}

func TestRequestPickupMovesOrderToShipped(t *testing.T) {
	db := newShipmentTestDB(t, "pickup")
	pickup := &shiprocket.PickupResponse{PickupStatus: 1}
	pickup.Response.PickupScheduledDate = "2026-09-02 11:00:00"
	carrier := &stubCarrier{pickupResp: pickup}
	svc := newShipmentService(db, carrier)
	order := seedShippableOrder(t, db, func(o *models.Order) {
		o.CarrierShipmentID = "5001"
		o.AWBNumber = "19011112345"
		o.ShipmentStatus = constants.ShipmentStatusAWBGenerated
	})

	if _, err := svc.RequestPickup(context.Background(), order.ID); err != nil {
		t.Fatalf("request pickup failed: %v", err)
	}

	var stored models.Order
	if err := db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if stored.ShipmentStatus != constants.ShipmentStatusPickupScheduled {
		t.Fatalf("unexpected shipment status: %s", stored.ShipmentStatus)
	}
	if stored.Status != constants.OrderStatusShipped {
		t.Fatalf("order status must become shipped, got %s", stored.Status)
	}
	if stored.PickupScheduledDate == nil {
		t.Fatal("pickup scheduled date not persisted")
	}
}

func TestRequestPickupRequiresAWB(t *testing.T) {
	db := newShipmentTestDB(t, "pickup_precond")
	carrier := &stubCarrier{}
	svc := newShipmentService(db, carrier)
	order := seedShippableOrder(t, db, func(o *models.Order) {
		o.CarrierShipmentID = "5001"
		o.ShipmentStatus = constants.ShipmentStatusCreated
	})

	_, err := svc.RequestPickup(context.Background(), order.ID)
	if !errors.Is(err, ErrAWBMissing) {
		t.Fatalf("expected ErrAWBMissing, got %v", err)
	}
	if carrier.carrierTouched != 0 {
		t.Fatal("precondition failure must not reach the carrier")
	}
}

func TestTrackPrefersAWB(t *testing.T) {
	db := newShipmentTestDB(t, "track")
	carrier := &stubCarrier{}
	svc := newShipmentService(db, carrier)
	order := seedShippableOrder(t, db, func(o *models.Order) {
		o.CarrierShipmentID = "5001"
		o.AWBNumber = "19011112345"
	})

	if _, err := svc.Track(context.Background(), order.ID); err != nil {
		t.Fatalf("track failed: %v", err)
	}
	if carrier.trackByAWBCalls != 1 || carrier.trackShipmentCalls != 0 {
		t.Fatalf("tracking must prefer awb: awb=%d shipment=%d", carrier.trackByAWBCalls, carrier.trackShipmentCalls)
	}
}

func TestTrackWithoutShipmentIdentifiers(t *testing.T) {
	db := newShipmentTestDB(t, "track_none")
	svc := newShipmentService(db, &stubCarrier{})
	order := seedShippableOrder(t, db, nil)

	_, err := svc.Track(context.Background(), order.ID)
	if !errors.Is(err, ErrShipmentNotFound) {
		t.Fatalf("expected ErrShipmentNotFound, got %v", err)
	}
}

func TestTrackForUserScoping(t *testing.T) {
	db := newShipmentTestDB(t, "track_owner")
	svc := newShipmentService(db, &stubCarrier{})
	order := seedShippableOrder(t, db, func(o *models.Order) {
		o.AWBNumber = "19011112345"
	})

	if _, err := svc.TrackForUser(context.Background(), order.ID, order.UserID); err != nil {
		t.Fatalf("owner track failed: %v", err)
	}
	_, err := svc.TrackForUser(context.Background(), order.ID, order.UserID+1)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("foreign order must look missing, got %v", err)
	}
}

func TestCancelShipmentDeliveredIsFinal(t *testing.T) {
	db := newShipmentTestDB(t, "cancel_final")
	carrier := &stubCarrier{}
	svc := newShipmentService(db, carrier)
	order := seedShippableOrder(t, db, func(o *models.Order) {
		o.CarrierShipmentID = "5001"
		o.AWBNumber = "19011112345"
		o.ShipmentStatus = constants.ShipmentStatusDelivered
	})

	_, err := svc.CancelShipment(context.Background(), order.ID)
	if !errors.Is(err, ErrShipmentNotCancelable) {
		t.Fatalf("expected ErrShipmentNotCancelable, got %v", err)
	}
	if carrier.cancelCalls != 0 {
		t.Fatal("delivered shipment must not be cancelled at the carrier")
	}
}

func TestCheckServiceabilityDefaultsPickupPIN(t *testing.T) {
	db := newShipmentTestDB(t, "serviceability")
	carrier := &stubCarrier{}
	svc := newShipmentService(db, carrier)
	order := seedShippableOrder(t, db, nil)

	_, err := svc.CheckServiceability(context.Background(), shiprocket.ServiceabilityQuery{DeliveryPostcode: "400001"})
	if err != nil {
		t.Fatalf("serviceability failed: %v", err)
	}
	if carrier.serviceQuery.PickupPostcode != "110001" {
		t.Fatalf("pickup pin not defaulted: %+v", carrier.serviceQuery)
	}
	if carrier.serviceQuery.WeightKG != 0.5 {
		t.Fatalf("weight not defaulted: %+v", carrier.serviceQuery)
	}

	var stored models.Order
	if err := db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if stored.ShipmentStatus != constants.ShipmentStatusNone {
		t.Fatal("serviceability must not mutate orders")
	}
}

func TestApplyWebhookUpdatesOrder(t *testing.T) {
	db := newShipmentTestDB(t, "webhook_apply")
	svc := newShipmentService(db, &stubCarrier{})
	order := seedShippableOrder(t, db, func(o *models.Order) {
		o.CarrierShipmentID = "5001"
		o.AWBNumber = "19011112345"
		o.ShipmentStatus = constants.ShipmentStatusPickupScheduled
	})

	svc.ApplyWebhook(WebhookPayload{AWB: "19011112345", CurrentStatus: "Out For Delivery", ETD: "2026-09-05 18:00:00"}, nil)

	var stored models.Order
	if err := db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if stored.ShipmentStatus != constants.ShipmentStatusOutForDelivery {
		t.Fatalf("webhook status not applied: %s", stored.ShipmentStatus)
	}
	if stored.EstimatedDeliveryDate == nil {
		t.Fatal("etd not persisted")
	}

	var events int64
	db.Model(&models.WebhookEvent{}).Count(&events)
	if events != 0 {
		t.Fatalf("successful webhook must not dead-letter, got %d events", events)
	}
}

func TestApplyWebhookDeliveredCompletesOrder(t *testing.T) {
	db := newShipmentTestDB(t, "webhook_delivered")
	svc := newShipmentService(db, &stubCarrier{})
	order := seedShippableOrder(t, db, func(o *models.Order) {
		o.AWBNumber = "19011112345"
		o.ShipmentStatus = constants.ShipmentStatusInTransit
		o.Status = constants.OrderStatusShipped
	})

	svc.ApplyWebhook(WebhookPayload{AWBCode: "19011112345", CurrentStatus: "Delivered"}, nil)

	var stored models.Order
	if err := db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if stored.ShipmentStatus != constants.ShipmentStatusDelivered {
		t.Fatalf("unexpected shipment status: %s", stored.ShipmentStatus)
	}
	if stored.Status != constants.OrderStatusDelivered {
		t.Fatalf("delivered webhook must complete the order, got %s", stored.Status)
	}
}

func TestApplyWebhookUnknownAWBDeadLetters(t *testing.T) {
	db := newShipmentTestDB(t, "webhook_dead")
	svc := newShipmentService(db, &stubCarrier{})

	raw := []byte(`{"awb":"00000000000","current_status":"Delivered"}`)
	svc.ApplyWebhook(WebhookPayload{AWB: "00000000000", CurrentStatus: "Delivered"}, raw)

	var event models.WebhookEvent
	if err := db.First(&event).Error; err != nil {
		t.Fatalf("dead-letter event not created: %v", err)
	}
	if event.AWBNumber != "00000000000" || event.Status != constants.WebhookEventStatusFailed {
		t.Fatalf("unexpected dead-letter event: %+v", event)
	}
	if event.Payload != string(raw) {
		t.Fatalf("raw payload not preserved: %s", event.Payload)
	}
}

func TestRetryWebhookEventAppliesLater(t *testing.T) {
	db := newShipmentTestDB(t, "webhook_retry")
	svc := newShipmentService(db, &stubCarrier{})

	// delivery arrives before the AWB is known locally
	svc.ApplyWebhook(WebhookPayload{AWB: "19011112345", CurrentStatus: "In Transit"}, []byte(`{"awb":"19011112345","current_status":"In Transit"}`))

	var event models.WebhookEvent
	if err := db.First(&event).Error; err != nil {
		t.Fatalf("dead-letter event not created: %v", err)
	}

	order := seedShippableOrder(t, db, func(o *models.Order) {
		o.AWBNumber = "19011112345"
		o.ShipmentStatus = constants.ShipmentStatusPickupScheduled
	})

	if err := svc.RetryWebhookEvent(event.ID); err != nil {
		t.Fatalf("retry failed: %v", err)
	}

	var stored models.Order
	if err := db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if stored.ShipmentStatus != constants.ShipmentStatusInTransit {
		t.Fatalf("retried webhook not applied: %s", stored.ShipmentStatus)
	}

	var applied models.WebhookEvent
	if err := db.First(&applied, event.ID).Error; err != nil {
		t.Fatalf("reload event failed: %v", err)
	}
	if applied.Status != constants.WebhookEventStatusApplied || applied.AppliedAt == nil {
		t.Fatalf("event not marked applied: %+v", applied)
	}
}

func TestNormalizeCarrierStatus(t *testing.T) {
	cases := map[string]string{
		"Delivered":        constants.ShipmentStatusDelivered,
		"OUT FOR DELIVERY": constants.ShipmentStatusOutForDelivery,
		"In Transit":       constants.ShipmentStatusInTransit,
		"Picked Up":        constants.ShipmentStatusInTransit,
		"RTO Initiated":    constants.ShipmentStatusRTO,
		"Canceled":         constants.ShipmentStatusCancelled,
		"Pickup Scheduled": constants.ShipmentStatusPickupScheduled,
		"":                 "",
		"Misrouted":        "misrouted",
	}
	for raw, want := range cases {
		if got := normalizeCarrierStatus(raw); got != want {
			t.Errorf("normalizeCarrierStatus(%q) = %q, want %q", raw, got, want)
		}
	}
}

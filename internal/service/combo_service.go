package service

import (
	"time"

	"github.com/glowmart/glowmart-api/internal/constants"
	"github.com/glowmart/glowmart-api/internal/models"
	"github.com/glowmart/glowmart-api/internal/repository"

	"github.com/shopspring/decimal"
)

// ComboService manages bundled product offers. Pricing is computed on
// read: subtotal over the items, discount applied, total floored at
// zero.
type ComboService struct {
	comboRepo   repository.ComboRepository
	productRepo repository.ProductRepository
}

// NewComboService creates the combo service
func NewComboService(comboRepo repository.ComboRepository, productRepo repository.ProductRepository) *ComboService {
	return &ComboService{comboRepo: comboRepo, productRepo: productRepo}
}

// ComboItemInput one product line inside a combo
type ComboItemInput struct {
	ProductID uint
	Quantity  int
}

// ComboInput create/update payload
type ComboInput struct {
	Title         string
	Description   string
	ImageURL1     string
	ImageURL2     string
	ImageURL3     string
	ImageURL4     string
	DiscountType  string
	DiscountValue decimal.Decimal
	StartsAt      *time.Time
	EndsAt        *time.Time
	IsActive      bool
	Items         []ComboItemInput
}

// ComboPricing computed pricing for a combo
type ComboPricing struct {
	Subtotal models.Money `json:"subtotal"`
	Discount models.Money `json:"discount"`
	Total    models.Money `json:"total"`
}

// ComboView a combo with its computed pricing
type ComboView struct {
	models.ComboOffer
	Pricing ComboPricing `json:"pricing"`
}

// List lists combos with computed pricing
func (s *ComboService) List(filter repository.ComboListFilter) ([]ComboView, int64, error) {
	combos, total, err := s.comboRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	views := make([]ComboView, 0, len(combos))
	for i := range combos {
		views = append(views, ComboView{
			ComboOffer: combos[i],
			Pricing:    computeComboPricing(&combos[i]),
		})
	}
	return views, total, nil
}

// Get fetches one combo with pricing
func (s *ComboService) Get(id uint) (*ComboView, error) {
	combo, err := s.comboRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if combo == nil {
		return nil, ErrComboNotFound
	}
	return &ComboView{ComboOffer: *combo, Pricing: computeComboPricing(combo)}, nil
}

// Create creates a combo with its items
func (s *ComboService) Create(input ComboInput) (*ComboView, error) {
	items, err := s.resolveItems(input.Items)
	if err != nil {
		return nil, err
	}
	combo := &models.ComboOffer{
		Title:         input.Title,
		Description:   input.Description,
		ImageURL1:     input.ImageURL1,
		ImageURL2:     input.ImageURL2,
		ImageURL3:     input.ImageURL3,
		ImageURL4:     input.ImageURL4,
		DiscountType:  normalizeDiscountType(input.DiscountType),
		DiscountValue: models.NewMoneyFromDecimal(input.DiscountValue),
		StartsAt:      input.StartsAt,
		EndsAt:        input.EndsAt,
		IsActive:      input.IsActive,
	}
	if err := s.comboRepo.Create(combo, items); err != nil {
		return nil, err
	}
	return s.Get(combo.ID)
}

// Update replaces a combo's fields and items
func (s *ComboService) Update(id uint, input ComboInput) (*ComboView, error) {
	combo, err := s.comboRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if combo == nil {
		return nil, ErrComboNotFound
	}
	items, err := s.resolveItems(input.Items)
	if err != nil {
		return nil, err
	}

	combo.Title = input.Title
	combo.Description = input.Description
	combo.ImageURL1 = input.ImageURL1
	combo.ImageURL2 = input.ImageURL2
	combo.ImageURL3 = input.ImageURL3
	combo.ImageURL4 = input.ImageURL4
	combo.DiscountType = normalizeDiscountType(input.DiscountType)
	combo.DiscountValue = models.NewMoneyFromDecimal(input.DiscountValue)
	combo.StartsAt = input.StartsAt
	combo.EndsAt = input.EndsAt
	combo.IsActive = input.IsActive
	combo.Items = nil
	if err := s.comboRepo.Update(combo); err != nil {
		return nil, err
	}
	if err := s.comboRepo.ReplaceItems(combo.ID, items); err != nil {
		return nil, err
	}
	return s.Get(combo.ID)
}

// Delete removes a combo and its items
func (s *ComboService) Delete(id uint) error {
	combo, err := s.comboRepo.GetByID(id)
	if err != nil {
		return err
	}
	if combo == nil {
		return ErrComboNotFound
	}
	return s.comboRepo.Delete(id)
}

func (s *ComboService) resolveItems(inputs []ComboItemInput) ([]models.ComboOfferItem, error) {
	if len(inputs) == 0 {
		return nil, ErrComboInvalid
	}
	ids := make([]uint, 0, len(inputs))
	for _, item := range inputs {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, ErrComboInvalid
		}
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	known := make(map[uint]bool, len(products))
	for _, p := range products {
		known[p.ID] = true
	}
	items := make([]models.ComboOfferItem, 0, len(inputs))
	for _, item := range inputs {
		if !known[item.ProductID] {
			return nil, ErrProductNotFound
		}
		items = append(items, models.ComboOfferItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return items, nil
}

func normalizeDiscountType(t string) string {
	if t == constants.DiscountTypeFixed {
		return constants.DiscountTypeFixed
	}
	return constants.DiscountTypePercentage
}

// computeComboPricing sums item subtotals and applies the discount,
// flooring the total at zero.
func computeComboPricing(combo *models.ComboOffer) ComboPricing {
	subtotal := decimal.Zero
	for _, item := range combo.Items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		subtotal = subtotal.Add(item.Product.Price.Decimal.Mul(qty))
	}

	var discount decimal.Decimal
	switch combo.DiscountType {
	case constants.DiscountTypeFixed:
		discount = combo.DiscountValue.Decimal
	default:
		discount = subtotal.Mul(combo.DiscountValue.Decimal).Div(decimal.NewFromInt(100))
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	return ComboPricing{
		Subtotal: models.NewMoneyFromDecimal(subtotal),
		Discount: models.NewMoneyFromDecimal(discount),
		Total:    models.NewMoneyFromDecimal(subtotal.Sub(discount)),
	}
}

package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kidusabdula/oskaz-storefront-api/internal/erpnext"
)

// ItemGateway is the slice of the ERPNext client the item detail aggregator
// needs.
type ItemGateway interface {
	GetItem(ctx context.Context, itemCode string) (*erpnext.Item, error)
	GetItemPrice(ctx context.Context, itemCode string) (*erpnext.ItemPrice, error)
	GetStock(ctx context.Context, itemCode, warehouse string) (*erpnext.Bin, error)
	GetItemGroup(ctx context.Context, name string) (*erpnext.ItemGroup, error)
	GetItemTags(ctx context.Context, itemCode string) ([]string, error)
	GetRelatedItems(ctx context.Context, itemGroup, selfItemCode string) ([]erpnext.Item, error)
}

// ItemGroupDetails is the category metadata attached to an item detail.
type ItemGroupDetails struct {
	Name            string `json:"name"`
	ItemGroupName   string `json:"item_group_name"`
	ParentItemGroup string `json:"parent_item_group,omitempty"`
	Image           string `json:"image,omitempty"`
}

// RelatedItem is a compact listing entry for same-category items.
type RelatedItem struct {
	ItemCode  string `json:"item_code"`
	ItemName  string `json:"item_name"`
	ItemGroup string `json:"item_group"`
	Image     string `json:"image,omitempty"`
}

// ItemDetail is the assembled detail payload for one product. Fields backed
// by auxiliary lookups are nil/empty when their lookup failed.
type ItemDetail struct {
	ItemCode      string            `json:"item_code"`
	ItemName      string            `json:"item_name"`
	Description   string            `json:"description,omitempty"`
	Image         string            `json:"image,omitempty"`
	Price         *float64          `json:"price"`
	Currency      string            `json:"currency,omitempty"`
	Stock         *float64          `json:"stock"`
	Warehouse     string            `json:"warehouse,omitempty"`
	WeightPerUnit float64           `json:"weight_per_unit,omitempty"`
	WeightUOM     string            `json:"weight_uom,omitempty"`
	MinOrderQty   float64           `json:"min_order_qty"`
	Tags          []string          `json:"tags"`
	ItemGroup     *ItemGroupDetails `json:"item_group_details"`
	RelatedItems  []RelatedItem     `json:"related_items"`
}

const itemLookupTimeout = 10 * time.Second

type ItemService struct {
	erp       ItemGateway
	warehouse string
	logger    *zap.Logger
	sfg       singleflight.Group // collapses concurrent lookups per item code
}

// NewItemService creates a new item detail aggregator
func NewItemService(erp ItemGateway, warehouse string, logger *zap.Logger) *ItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemService{
		erp:       erp,
		warehouse: warehouse,
		logger:    logger,
	}
}

// GetItemDetail assembles the detail payload for one item. The base item
// document is required; every auxiliary field lookup is independently
// fault-tolerant and defaults on failure instead of failing the request.
func (s *ItemService) GetItemDetail(ctx context.Context, itemCode string) (*ItemDetail, error) {
	v, err, _ := s.sfg.Do(itemCode, func() (interface{}, error) {
		return s.assemble(ctx, itemCode)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ItemDetail), nil
}

func (s *ItemService) assemble(ctx context.Context, itemCode string) (*ItemDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, itemLookupTimeout)
	defer cancel()

	item, err := s.erp.GetItem(ctx, itemCode)
	if err != nil {
		return nil, err
	}

	detail := &ItemDetail{
		ItemCode:      item.ItemCode,
		ItemName:      item.ItemName,
		Description:   item.Description,
		Image:         erpnext.NormalizeImagePath(item.Image),
		WeightPerUnit: item.WeightPerUnit,
		WeightUOM:     item.WeightUOM,
		MinOrderQty:   1,
		Tags:          []string{},
		RelatedItems:  []RelatedItem{},
	}
	if item.MinOrderQty > 0 {
		detail.MinOrderQty = item.MinOrderQty
	}

	if price, err := s.erp.GetItemPrice(ctx, itemCode); err != nil {
		s.degrade(itemCode, "price", err)
	} else if price != nil {
		detail.Price = &price.PriceListRate
		detail.Currency = price.Currency
	}

	if bin, err := s.erp.GetStock(ctx, itemCode, s.warehouse); err != nil {
		s.degrade(itemCode, "stock", err)
	} else if bin != nil {
		detail.Stock = &bin.ActualQty
		detail.Warehouse = bin.Warehouse
	} else {
		zero := 0.0
		detail.Stock = &zero
		detail.Warehouse = s.warehouse
	}

	if tags, err := s.erp.GetItemTags(ctx, itemCode); err != nil {
		s.degrade(itemCode, "tags", err)
	} else if tags != nil {
		detail.Tags = tags
	}

	if item.ItemGroup != "" {
		if group, err := s.erp.GetItemGroup(ctx, item.ItemGroup); err != nil {
			s.degrade(itemCode, "item_group", err)
		} else if group != nil {
			detail.ItemGroup = &ItemGroupDetails{
				Name:            group.Name,
				ItemGroupName:   group.ItemGroupName,
				ParentItemGroup: group.ParentItemGroup,
				Image:           erpnext.NormalizeImagePath(group.Image),
			}
		}

		if related, err := s.erp.GetRelatedItems(ctx, item.ItemGroup, itemCode); err != nil {
			s.degrade(itemCode, "related_items", err)
		} else {
			for _, r := range related {
				detail.RelatedItems = append(detail.RelatedItems, RelatedItem{
					ItemCode:  r.ItemCode,
					ItemName:  r.ItemName,
					ItemGroup: r.ItemGroup,
					Image:     erpnext.NormalizeImagePath(r.Image),
				})
			}
		}
	}

	return detail, nil
}

// degrade logs a failed auxiliary lookup. The field stays defaulted; the
// failure never reaches the client.
func (s *ItemService) degrade(itemCode, field string, err error) {
	s.logger.Warn("Item detail lookup degraded",
		zap.String("item_code", itemCode),
		zap.String("field", field),
		zap.Error(err),
	)
}

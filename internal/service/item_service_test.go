package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidusabdula/oskaz-storefront-api/internal/erpnext"
	"github.com/kidusabdula/oskaz-storefront-api/pkg/errors"
)

// MockItemGateway implements ItemGateway for testing
type MockItemGateway struct {
	Item    *erpnext.Item
	ItemErr error

	Price    *erpnext.ItemPrice
	PriceErr error

	Bin    *erpnext.Bin
	BinErr error

	Group    *erpnext.ItemGroup
	GroupErr error

	Tags    []string
	TagsErr error

	Related    []erpnext.Item
	RelatedErr error
}

func (m *MockItemGateway) GetItem(_ context.Context, _ string) (*erpnext.Item, error) {
	return m.Item, m.ItemErr
}

func (m *MockItemGateway) GetItemPrice(_ context.Context, _ string) (*erpnext.ItemPrice, error) {
	return m.Price, m.PriceErr
}

func (m *MockItemGateway) GetStock(_ context.Context, _, _ string) (*erpnext.Bin, error) {
	return m.Bin, m.BinErr
}

func (m *MockItemGateway) GetItemGroup(_ context.Context, _ string) (*erpnext.ItemGroup, error) {
	return m.Group, m.GroupErr
}

func (m *MockItemGateway) GetItemTags(_ context.Context, _ string) ([]string, error) {
	return m.Tags, m.TagsErr
}

func (m *MockItemGateway) GetRelatedItems(_ context.Context, _, _ string) ([]erpnext.Item, error) {
	return m.Related, m.RelatedErr
}

func baseItem() *erpnext.Item {
	return &erpnext.Item{
		Name:          "ITEM-001",
		ItemCode:      "ITEM-001",
		ItemName:      "Steel Widget",
		Description:   "A sturdy widget",
		ItemGroup:     "Widgets",
		Image:         "/files/widget.png",
		WeightPerUnit: 1.5,
		WeightUOM:     "Kg",
		MinOrderQty:   5,
	}
}

func TestGetItemDetail_FullAssembly(t *testing.T) {
	mock := &MockItemGateway{
		Item:  baseItem(),
		Price: &erpnext.ItemPrice{PriceListRate: 120.0, Currency: "ETB"},
		Bin:   &erpnext.Bin{Warehouse: "Stores - OD", ActualQty: 42},
		Group: &erpnext.ItemGroup{Name: "Widgets", ItemGroupName: "Widgets", Image: "/files/widgets.png"},
		Tags:  []string{"steel", "hardware"},
		Related: []erpnext.Item{
			{ItemCode: "ITEM-002", ItemName: "Brass Gadget", ItemGroup: "Widgets", Image: "/files/gadget.png"},
		},
	}
	svc := NewItemService(mock, "Stores - OD", nil)

	detail, err := svc.GetItemDetail(context.Background(), "ITEM-001")

	require.NoError(t, err)
	assert.Equal(t, "Steel Widget", detail.ItemName)
	assert.Equal(t, "/api/files/widget.png", detail.Image)
	require.NotNil(t, detail.Price)
	assert.Equal(t, 120.0, *detail.Price)
	assert.Equal(t, "ETB", detail.Currency)
	require.NotNil(t, detail.Stock)
	assert.Equal(t, 42.0, *detail.Stock)
	assert.Equal(t, 5.0, detail.MinOrderQty)
	assert.Equal(t, []string{"steel", "hardware"}, detail.Tags)
	require.NotNil(t, detail.ItemGroup)
	assert.Equal(t, "/api/files/widgets.png", detail.ItemGroup.Image)
	require.Len(t, detail.RelatedItems, 1)
	assert.Equal(t, "/api/files/gadget.png", detail.RelatedItems[0].Image)
}

func TestGetItemDetail_MissingItemIsHardError(t *testing.T) {
	mock := &MockItemGateway{
		ItemErr: &errors.ErrNotFound{Resource: "Item", ID: "NOPE"},
	}
	svc := NewItemService(mock, "Stores - OD", nil)

	detail, err := svc.GetItemDetail(context.Background(), "NOPE")

	assert.Nil(t, detail)
	var nferr *errors.ErrNotFound
	require.True(t, stderrors.As(err, &nferr))
}

func TestGetItemDetail_AuxiliaryFailuresDegrade(t *testing.T) {
	mock := &MockItemGateway{
		Item:       baseItem(),
		PriceErr:   stderrors.New("price list down"),
		BinErr:     stderrors.New("bin query failed"),
		GroupErr:   stderrors.New("group query failed"),
		TagsErr:    stderrors.New("tags query failed"),
		RelatedErr: stderrors.New("related query failed"),
	}
	svc := NewItemService(mock, "Stores - OD", nil)

	detail, err := svc.GetItemDetail(context.Background(), "ITEM-001")

	require.NoError(t, err)
	assert.Nil(t, detail.Price)
	assert.Nil(t, detail.Stock)
	assert.Nil(t, detail.ItemGroup)
	assert.Empty(t, detail.Tags)
	assert.Empty(t, detail.RelatedItems)
	assert.Equal(t, "Steel Widget", detail.ItemName)
}

func TestGetItemDetail_NoBinMeansZeroStock(t *testing.T) {
	mock := &MockItemGateway{Item: baseItem()}
	svc := NewItemService(mock, "Stores - OD", nil)

	detail, err := svc.GetItemDetail(context.Background(), "ITEM-001")

	require.NoError(t, err)
	require.NotNil(t, detail.Stock)
	assert.Equal(t, 0.0, *detail.Stock)
	assert.Equal(t, "Stores - OD", detail.Warehouse)
}

func TestGetItemDetail_NoPriceStaysNil(t *testing.T) {
	mock := &MockItemGateway{Item: baseItem()}
	svc := NewItemService(mock, "Stores - OD", nil)

	detail, err := svc.GetItemDetail(context.Background(), "ITEM-001")

	require.NoError(t, err)
	assert.Nil(t, detail.Price)
	assert.Empty(t, detail.Currency)
}

func TestGetItemDetail_MinOrderQtyDefaultsToOne(t *testing.T) {
	item := baseItem()
	item.MinOrderQty = 0
	mock := &MockItemGateway{Item: item}
	svc := NewItemService(mock, "Stores - OD", nil)

	detail, err := svc.GetItemDetail(context.Background(), "ITEM-001")

	require.NoError(t, err)
	assert.Equal(t, 1.0, detail.MinOrderQty)
}

func TestGetItemDetail_NoGroupSkipsGroupLookups(t *testing.T) {
	item := baseItem()
	item.ItemGroup = ""
	mock := &MockItemGateway{
		Item:       item,
		GroupErr:   stderrors.New("should not be called"),
		RelatedErr: stderrors.New("should not be called"),
	}
	svc := NewItemService(mock, "Stores - OD", nil)

	detail, err := svc.GetItemDetail(context.Background(), "ITEM-001")

	require.NoError(t, err)
	assert.Nil(t, detail.ItemGroup)
	assert.Empty(t, detail.RelatedItems)
}

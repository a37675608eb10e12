package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/menuqa/internal/adapters/fuzzy"
	"github.com/corey/menuqa/internal/domain/resolve"
	"github.com/corey/menuqa/internal/ports"
)

func intPtr(v int) *int { return &v }

func toolTables() ports.Tables {
	return ports.Tables{
		Items: map[int]*ports.MenuItem{
			1: {ID: 1, Name: "Nutty Bowl", Title: "Bowls - Nutty Bowl", PathKey: "k-nutty",
				CategoryPath: []string{"Bowls"},
				Prices: []ports.Price{
					{Portion: "Small", Amount: 7.99},
					{Portion: "Medium", Amount: 9.99},
					{Portion: "Large", Amount: 11.99},
				}},
			2: {ID: 2, Name: "Dragon Bowl", Title: "Dragon Bowl", PathKey: "k-dragon",
				CategoryPath: []string{"Bowls"},
				Prices:       []ports.Price{{Portion: "Regular", Amount: 10.49}},
				Calories:     intPtr(240), CaloriesFrom: ports.CaloriesParsed},
			10: {ID: 10, Name: "Acai Elixir", Title: "Acai Elixir", PathKey: "k-acai",
				CategoryPath: []string{"Smoothies"},
				Prices:       []ports.Price{{Amount: 6.49}}},
			11: {ID: 11, Name: "Go Green", Title: "Go Green", PathKey: "k-gogreen",
				CategoryPath: []string{"Smoothies"}},
			12: {ID: 12, Name: "Berry Blast", Title: "Berry Blast",
				CategoryPath: []string{"Seasonal Specials"}},
		},
		Categories: map[int]*ports.Category{
			100: {ID: 100, Title: "Bowls", Path: []string{"Bowls"}},
			101: {ID: 101, Title: "Smoothies", Path: []string{"Smoothies"}},
		},
		Discounts: map[int]*ports.Discount{
			500: {ID: 500, Name: "BOGO Any Smoothie", Raw: map[string]any{
				"typeId":     float64(2),
				"couponCode": "BOGO24",
				"autoApply":  false,
				"targetItems": []any{
					map[string]any{
						"menuItemPathKey": "k-acai",
						"discountDetails": map[string]any{"itemGroupId": float64(7)},
					},
					map[string]any{"menuItemPathKey": "k-gogreen"},
				},
			}},
			501: {ID: 501, Raw: map[string]any{"couponCode": ""}},
			502: {ID: 502, Name: "Happy Hour", Raw: map[string]any{
				"amount": float64(15),
				"targetItems": []any{
					map[string]any{"menuItemPathKey": "stale-key"},
					map[string]any{
						"discountDetails": map[string]any{"itemGroupId": float64(3)},
					},
				},
			}},
		},
	}
}

func newToolSet() (*Tools, *resolve.Index) {
	return New(resolve.NewResolver(fuzzy.NewWRatioScorer(), 0)), resolve.BuildIndex(toolTables())
}

func TestItemPrice_SinglePriceSucceedsWithoutPortion(t *testing.T) {
	ts, idx := newToolSet()

	res := ts.ItemPrice(idx, "acai elixir", "", "")
	require.True(t, res.OK)
	data, ok := res.Data.(PriceData)
	require.True(t, ok)
	assert.Equal(t, 10, data.ItemID)
	assert.Equal(t, 6.49, data.Price)
	assert.Empty(t, data.Portion)
}

func TestItemPrice_PortionRequiredReturnsAmbiguous(t *testing.T) {
	ts, idx := newToolSet()

	res := ts.ItemPrice(idx, "nutty bowl", "", "")
	require.False(t, res.OK)
	require.NotNil(t, res.Err)
	assert.Equal(t, CodeAmbiguous, res.Err.Code)
	assert.Contains(t, res.Err.Message, "Small, Medium, and Large")
	require.Len(t, res.Portions, 3)
	assert.Equal(t, PortionOption{Portion: "Small", Price: 7.99}, res.Portions[0])
	assert.Equal(t, []string{"Small", "Medium", "Large"}, res.Meta.AvailablePortions)
}

func TestItemPrice_PortionMatch(t *testing.T) {
	ts, idx := newToolSet()

	for q, want := range map[string]float64{
		"large": 11.99,
		"LG":    11.99,
		"med":   9.99,
		"sm":    7.99,
	} {
		res := ts.ItemPrice(idx, "nutty bowl", q, "")
		require.True(t, res.OK, "portion %q", q)
		data := res.Data.(PriceData)
		assert.Equal(t, want, data.Price, "portion %q", q)
	}
}

func TestItemPrice_UnknownPortionReturnsInvalidArgument(t *testing.T) {
	ts, idx := newToolSet()

	res := ts.ItemPrice(idx, "nutty bowl", "extra huge", "")
	require.False(t, res.OK)
	require.NotNil(t, res.Err)
	assert.Equal(t, CodeInvalidArgument, res.Err.Code)
	assert.Len(t, res.Portions, 3)
}

func TestItemPrice_ValidLabelNotOfferedReturnsInvalidArgument(t *testing.T) {
	ts, idx := newToolSet()

	// "kid" normalizes fine but Nutty Bowl has no kid portion.
	res := ts.ItemPrice(idx, "nutty bowl", "kids", "")
	require.False(t, res.OK)
	require.NotNil(t, res.Err)
	assert.Equal(t, CodeInvalidArgument, res.Err.Code)
}

func TestItemPrice_SinglePortionedPriceIgnoresPortionMismatch(t *testing.T) {
	ts, idx := newToolSet()

	// Dragon Bowl has exactly one price; it wins even with a stray portion.
	res := ts.ItemPrice(idx, "dragon bowl", "large", "")
	require.True(t, res.OK)
	data := res.Data.(PriceData)
	assert.Equal(t, 10.49, data.Price)
	assert.Equal(t, "Regular", data.Portion)
}

func TestItemPrice_NoPricesReturnsIncompleteData(t *testing.T) {
	ts, idx := newToolSet()

	res := ts.ItemPrice(idx, "go green", "", "")
	require.False(t, res.OK)
	assert.Equal(t, CodeIncompleteData, res.Err.Code)
}

func TestItemPrice_UnknownItemReturnsNotFound(t *testing.T) {
	ts, idx := newToolSet()

	res := ts.ItemPrice(idx, "unicorn burger", "", "")
	require.False(t, res.OK)
	assert.Equal(t, CodeNotFound, res.Err.Code)
	assert.Equal(t, ToolItemPrice, res.Tool)
}

func TestItemPrice_ChannelRecordedInMeta(t *testing.T) {
	ts, idx := newToolSet()

	res := ts.ItemPrice(idx, "acai elixir", "", "doordash")
	require.True(t, res.OK)
	assert.Equal(t, "doordash", res.Meta.ChannelRequested)
}

func TestItemCalories_ParsedSource(t *testing.T) {
	ts, idx := newToolSet()

	res := ts.ItemCalories(idx, "dragon bowl")
	require.True(t, res.OK)
	data, ok := res.Data.(CaloriesData)
	require.True(t, ok)
	assert.Equal(t, 240, data.Calories)
	assert.Equal(t, ports.CaloriesParsed, data.Source)
}

func TestItemCalories_MissingReturnsIncompleteData(t *testing.T) {
	ts, idx := newToolSet()

	res := ts.ItemCalories(idx, "acai elixir")
	require.False(t, res.OK)
	assert.Equal(t, CodeIncompleteData, res.Err.Code)
	assert.Equal(t, 10, res.Meta.ResolvedID)
}

func TestItemsByCategory_ResolvedCategory(t *testing.T) {
	ts, idx := newToolSet()

	res := ts.ItemsByCategory(idx, "Smoothies")
	require.True(t, res.OK)
	data := res.Data.(CategoryData)
	assert.Equal(t, "Smoothies", data.Category)
	require.Equal(t, 2, data.Count)
	assert.Equal(t, "Acai Elixir", data.Items[0].Name)
	assert.Equal(t, "Go Green", data.Items[1].Name)
	assert.False(t, res.Meta.PathFallback)
}

func TestItemsByCategory_PathFallback(t *testing.T) {
	ts, idx := newToolSet()

	// "Seasonal Specials" has no category entity, only item path segments.
	res := ts.ItemsByCategory(idx, "seasonal specials")
	require.True(t, res.OK)
	assert.True(t, res.Meta.PathFallback)
	data := res.Data.(CategoryData)
	require.Equal(t, 1, data.Count)
	assert.Equal(t, 12, data.Items[0].ItemID)
}

func TestItemsByCategory_UnknownReturnsNotFound(t *testing.T) {
	ts, idx := newToolSet()

	res := ts.ItemsByCategory(idx, "underwater basket weaving")
	require.False(t, res.OK)
	assert.Equal(t, CodeNotFound, res.Err.Code)
}

func TestListDiscounts_SortedWithCouponFlags(t *testing.T) {
	ts, idx := newToolSet()

	res := ts.ListDiscounts(idx)
	require.True(t, res.OK)
	data := res.Data.(DiscountListData)
	require.Equal(t, 3, data.Count)

	// Nameless discount sorts first on empty name.
	assert.Equal(t, 501, data.Discounts[0].DiscountID)
	require.NotNil(t, data.Discounts[0].HasCoupon)
	assert.False(t, *data.Discounts[0].HasCoupon)

	assert.Equal(t, "BOGO Any Smoothie", data.Discounts[1].Name)
	require.NotNil(t, data.Discounts[1].HasCoupon)
	assert.True(t, *data.Discounts[1].HasCoupon)

	assert.Equal(t, "Happy Hour", data.Discounts[2].Name)
	assert.Nil(t, data.Discounts[2].HasCoupon)
}

func TestDiscountDetails_AllowListOnly(t *testing.T) {
	ts, idx := newToolSet()

	res := ts.DiscountDetails(idx, "bogo any smoothie")
	require.True(t, res.OK)
	data := res.Data.(DiscountDetailsData)
	assert.Equal(t, 500, data.DiscountID)
	assert.Equal(t, float64(2), data.Fields["typeId"])
	assert.Equal(t, "BOGO24", data.Fields["couponCode"])
	assert.Equal(t, false, data.Fields["autoApply"])
	assert.NotContains(t, data.Fields, "targetItems")
	assert.Equal(t, 2, data.TargetItemsCount)
	assert.Contains(t, data.FieldsExtracted, "targetItems")
}

func TestDiscountDetails_ByNumericID(t *testing.T) {
	ts, idx := newToolSet()

	res := ts.DiscountDetails(idx, "501")
	require.True(t, res.OK)
	data := res.Data.(DiscountDetailsData)
	assert.Equal(t, 501, data.DiscountID)
	assert.Empty(t, data.Name)
}

func TestDiscountTriggers_JoinsPathKeys(t *testing.T) {
	ts, idx := newToolSet()

	res := ts.DiscountTriggers(idx, "bogo any smoothie")
	require.True(t, res.OK)
	data := res.Data.(TriggersData)
	assert.Equal(t, 500, data.DiscountID)
	require.Equal(t, 2, data.Count)
	assert.Equal(t, "Acai Elixir", data.Items[0].Name)
	assert.Equal(t, "Go Green", data.Items[1].Name)
	assert.Equal(t, []int{7}, data.ItemGroupIDs)
}

func TestDiscountTriggers_UnmappableReturnsIncompleteData(t *testing.T) {
	ts, idx := newToolSet()

	res := ts.DiscountTriggers(idx, "happy hour")
	require.False(t, res.OK)
	require.NotNil(t, res.Err)
	assert.Equal(t, CodeIncompleteData, res.Err.Code)
	data := res.Data.(TriggersData)
	assert.Equal(t, []string{"stale-key"}, data.PathKeys)
	assert.Equal(t, []int{3}, data.ItemGroupIDs)
}

func TestResolveFailure_AmbiguousExactMapsToAmbiguous(t *testing.T) {
	tables := toolTables()
	tables.Items[20] = &ports.MenuItem{ID: 20, Name: "Detox Tea", Title: "Detox Tea"}
	tables.Items[21] = &ports.MenuItem{ID: 21, Name: "DETOX-TEA", Title: "DETOX-TEA"}
	ts := New(resolve.NewResolver(fuzzy.NewWRatioScorer(), 0))
	idx := resolve.BuildIndex(tables)

	res := ts.ItemPrice(idx, "detox tea", "", "")
	require.False(t, res.OK)
	assert.Equal(t, CodeAmbiguous, res.Err.Code)
	assert.Contains(t, res.Err.Message, "multiple matches")
	assert.GreaterOrEqual(t, len(res.Candidates), 2)
}

func TestComparePriceAcrossChannels_Unsupported(t *testing.T) {
	ts, idx := newToolSet()

	res := ts.ComparePriceAcrossChannels(idx, "nutty bowl", "large")
	require.False(t, res.OK)
	assert.Equal(t, CodeUnsupported, res.Err.Code)
	assert.Equal(t, ToolChannelCompare, res.Tool)
}

func TestJoinHuman(t *testing.T) {
	assert.Equal(t, "", joinHuman(nil))
	assert.Equal(t, "Small", joinHuman([]string{"Small"}))
	assert.Equal(t, "Small and Large", joinHuman([]string{"Small", "Large"}))
	assert.Equal(t, "Small, Medium, and Large", joinHuman([]string{"Small", "Medium", "Large"}))
}

package reply

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corey/menuqa/internal/domain/resolve"
	"github.com/corey/menuqa/internal/domain/tools"
)

func TestFormat_PriceWithPortion(t *testing.T) {
	res := tools.Result{OK: true, Tool: tools.ToolItemPrice, Data: tools.PriceData{
		ItemName: "Nutty Bowl", Portion: "Large", Price: 11.99,
	}}
	assert.Equal(t, "$11.99 — Nutty Bowl (Large)", Format(res))
}

func TestFormat_PriceWithoutPortion(t *testing.T) {
	res := tools.Result{OK: true, Tool: tools.ToolItemPrice, Data: tools.PriceData{
		ItemName: "Acai Elixir", Price: 6.49,
	}}
	assert.Equal(t, "$6.49 — Acai Elixir", Format(res))
}

func TestFormat_Calories(t *testing.T) {
	res := tools.Result{OK: true, Tool: tools.ToolItemCalories, Data: tools.CaloriesData{
		ItemName: "Dragon Bowl", Calories: 240,
	}}
	assert.Equal(t, "Dragon Bowl: 240 calories", Format(res))
}

func TestFormat_CategoryListCapped(t *testing.T) {
	items := make([]tools.CategoryItem, 12)
	for i := range items {
		items[i] = tools.CategoryItem{ItemID: i, Name: fmt.Sprintf("Item %02d", i)}
	}
	res := tools.Result{OK: true, Tool: tools.ToolCategoryItems, Data: tools.CategoryData{
		Category: "Bowls", Count: 12, Items: items,
	}}

	out := Format(res)
	assert.True(t, strings.HasPrefix(out, "Bowls (12 items): "))
	assert.Contains(t, out, "Item 09")
	assert.NotContains(t, out, "Item 10")
	assert.True(t, strings.HasSuffix(out, "…"))
}

func TestFormat_DiscountListFallsBackToID(t *testing.T) {
	res := tools.Result{OK: true, Tool: tools.ToolListDiscounts, Data: tools.DiscountListData{
		Count: 2,
		Discounts: []tools.DiscountSummary{
			{DiscountID: 501},
			{DiscountID: 500, Name: "BOGO Any Smoothie"},
		},
	}}
	assert.Equal(t, "Discounts (2): 501, BOGO Any Smoothie", Format(res))
}

func TestFormat_DiscountDetails(t *testing.T) {
	res := tools.Result{OK: true, Tool: tools.ToolDiscountDetails, Data: tools.DiscountDetailsData{
		DiscountID: 502, Name: "Happy Hour",
	}}
	assert.Equal(t, "Happy Hour (id: 502)", Format(res))
}

func TestFormat_Triggers(t *testing.T) {
	res := tools.Result{OK: true, Tool: tools.ToolDiscountTriggers, Data: tools.TriggersData{
		DiscountName: "BOGO Any Smoothie",
		Items:        []tools.TriggerItem{{ItemID: 10, Name: "Acai Elixir"}, {ItemID: 11, Name: "Go Green"}},
		Count:        2,
	}}
	assert.Equal(t, "BOGO Any Smoothie triggers: Acai Elixir, Go Green", Format(res))
}

func TestFormat_NotFoundWithCandidates(t *testing.T) {
	res := tools.Result{
		Tool: tools.ToolItemPrice,
		Err:  &tools.Error{Code: tools.CodeNotFound, Message: "I couldn't find 'draggon'. Did you mean one of these?"},
		Candidates: []resolve.Candidate{
			{ID: 2, Display: "Dragon Bowl", Score: 88},
			{ID: 3, Display: "Green Bowl", Score: 62},
		},
	}
	out := Format(res)
	assert.Contains(t, out, "Did you mean one of these?")
	assert.Contains(t, out, "1. Dragon Bowl")
	assert.Contains(t, out, "2. Green Bowl")
}

func TestFormat_CandidatesCappedAtFive(t *testing.T) {
	cands := make([]resolve.Candidate, 8)
	for i := range cands {
		cands[i] = resolve.Candidate{ID: i, Display: fmt.Sprintf("Option %d", i)}
	}
	res := tools.Result{
		Err:        &tools.Error{Code: tools.CodeAmbiguous, Message: "Which one?"},
		Candidates: cands,
	}
	out := Format(res)
	assert.Contains(t, out, "5. Option 4")
	assert.NotContains(t, out, "Option 5")
}

func TestFormat_PortionAmbiguity(t *testing.T) {
	res := tools.Result{
		Err: &tools.Error{Code: tools.CodeAmbiguous, Message: "Nutty Bowl is available in Small, Medium, and Large. Which portion do you want?"},
		Portions: []tools.PortionOption{
			{Portion: "Small", Price: 7.99},
			{Portion: "Medium", Price: 9.99},
			{Portion: "Large", Price: 11.99},
		},
	}
	out := Format(res)
	assert.Contains(t, out, "Which portion do you want?")
	assert.Contains(t, out, "1. Small ($7.99)")
	assert.Contains(t, out, "3. Large ($11.99)")
}

func TestFormat_InvalidArgumentAppendsOptions(t *testing.T) {
	res := tools.Result{
		Err:      &tools.Error{Code: tools.CodeInvalidArgument, Message: "Nutty Bowl is available in Small and Large. Which portion do you want?"},
		Portions: []tools.PortionOption{{Portion: "Small", Price: 7.99}, {Portion: "Large", Price: 11.99}},
	}
	out := Format(res)
	assert.True(t, strings.HasPrefix(out, "Nutty Bowl is available in"))
	assert.Contains(t, out, "2. Large ($11.99)")
}

func TestFormat_VerbatimCodes(t *testing.T) {
	for _, code := range []tools.Code{tools.CodeUnsupported, tools.CodeIncompleteData} {
		res := tools.Result{Err: &tools.Error{Code: code, Message: "exact message"}}
		assert.Equal(t, "exact message", Format(res))
	}
}

func TestFormat_NoErrorNoData(t *testing.T) {
	assert.Equal(t, "Something went wrong.", Format(tools.Result{}))
}

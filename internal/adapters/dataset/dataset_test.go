package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/menuqa/internal/ports"
)

const fixtureJSON = `{
  "succeed": true,
  "value": {
    "itemMasterId": 1,
    "itemType": 10,
    "title": "Menu",
    "children": [
      {
        "itemMasterId": 100,
        "itemType": 6,
        "title": "Bowls",
        "children": [
          {
            "itemMasterId": 1001,
            "itemType": 1,
            "itemPathKey": "1.100.1001",
            "title": "Nutty Bowl",
            "displayAttribute": {"itemTitle": "Nutty Bowl", "description": "Peanut butter base."},
            "priceAttribute": {"prices": [
              {"portion": "sm", "price": 7.99},
              {"portion": "medium", "price": 9.99},
              {"portion": "lg", "price": 11.99}
            ]},
            "applicableDiscounts": [{"discountId": 500}, {"discountId": 500}, {"id": 502}]
          },
          {
            "itemMasterId": 1002,
            "itemType": 1,
            "title": "Dragon Bowl",
            "displayAttribute": {"description": "Pitaya blend, about 240 calories per serving."},
            "priceAttribute": {"prices": [{"price": 10.49}]}
          },
          {
            "itemMasterId": 1003,
            "itemType": 4,
            "title": "Toppings"
          }
        ]
      },
      {
        "itemMasterId": 101,
        "itemType": 6,
        "displayAttribute": {"screenTitle": "Smoothies"},
        "children": [
          {
            "itemMasterId": 1010,
            "itemType": 1,
            "title": "Acai Elixir",
            "price": 6.49,
            "nutritionInfo": {"calories": 310}
          },
          {
            "itemMasterId": 1011,
            "itemType": 1,
            "displayAttribute": {}
          }
        ]
      }
    ],
    "discounts": {
      "500": {"checkTitle": "BOGO Any Smoothie", "couponCode": "BOGO24"},
      "501": {"typeId": 2},
      "bogus": {"noid": true}
    }
  }
}`

func fixtureData(t *testing.T) map[string]any {
	t.Helper()
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(fixtureJSON), &data))
	return data
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, os.WriteFile(path, []byte(fixtureJSON), 0o644))

	data, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, data, "value")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestMenuRoots_ValueShape(t *testing.T) {
	roots, err := MenuRoots(fixtureData(t))
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "Menu", roots[0]["title"])
}

func TestMenuRoots_NoRoot(t *testing.T) {
	_, err := MenuRoots(map[string]any{"succeed": true})
	assert.Error(t, err)
}

func TestBuildTables_Items(t *testing.T) {
	tables, err := BuildTables(fixtureData(t))
	require.NoError(t, err)

	// 1011 has no title anywhere, 1003 is a modifier group.
	require.Len(t, tables.Items, 3)

	nutty := tables.Items[1001]
	require.NotNil(t, nutty)
	assert.Equal(t, "Nutty Bowl", nutty.Name)
	assert.Equal(t, "1.100.1001", nutty.PathKey)
	assert.Equal(t, []string{"Bowls"}, nutty.CategoryPath)
	require.Len(t, nutty.Prices, 3)
	assert.Equal(t, ports.Price{Portion: "Small", Amount: 7.99}, nutty.Prices[0])
	assert.Equal(t, ports.Price{Portion: "Medium", Amount: 9.99}, nutty.Prices[1])
	assert.Equal(t, ports.Price{Portion: "Large", Amount: 11.99}, nutty.Prices[2])
	assert.Equal(t, []int{500, 502}, nutty.DiscountIDs)
}

func TestBuildTables_CaloriesParsedFromDescription(t *testing.T) {
	tables, err := BuildTables(fixtureData(t))
	require.NoError(t, err)

	dragon := tables.Items[1002]
	require.NotNil(t, dragon)
	require.NotNil(t, dragon.Calories)
	assert.Equal(t, 240, *dragon.Calories)
	assert.Equal(t, ports.CaloriesParsed, dragon.CaloriesFrom)
}

func TestBuildTables_CaloriesStructuredAndDirectPrice(t *testing.T) {
	tables, err := BuildTables(fixtureData(t))
	require.NoError(t, err)

	acai := tables.Items[1010]
	require.NotNil(t, acai)
	require.NotNil(t, acai.Calories)
	assert.Equal(t, 310, *acai.Calories)
	assert.Equal(t, ports.CaloriesStructured, acai.CaloriesFrom)
	require.Len(t, acai.Prices, 1)
	assert.Equal(t, ports.Price{Amount: 6.49}, acai.Prices[0])
	assert.Equal(t, []string{"Smoothies"}, acai.CategoryPath)
}

func TestBuildTables_Categories(t *testing.T) {
	tables, err := BuildTables(fixtureData(t))
	require.NoError(t, err)

	require.Len(t, tables.Categories, 2)
	assert.Equal(t, "Bowls", tables.Categories[100].Title)
	assert.Equal(t, []string{"Bowls"}, tables.Categories[100].Path)
	// Title fell back to displayAttribute.screenTitle.
	assert.Equal(t, "Smoothies", tables.Categories[101].Title)
}

func TestBuildTables_Discounts(t *testing.T) {
	tables, err := BuildTables(fixtureData(t))
	require.NoError(t, err)

	require.Len(t, tables.Discounts, 2)
	assert.Equal(t, "BOGO Any Smoothie", tables.Discounts[500].Name)
	assert.Equal(t, "BOGO24", tables.Discounts[500].Raw["couponCode"])
	assert.Empty(t, tables.Discounts[501].Name)
}

func TestExtractDiscounts_TopLevelList(t *testing.T) {
	data := map[string]any{
		"discounts": []any{
			map[string]any{"id": float64(7), "checkTitle": "Lunch Deal"},
			map[string]any{"noid": true},
		},
	}
	out := extractDiscounts(data)
	require.Len(t, out, 1)
	assert.Equal(t, "Lunch Deal", out[7].Name)
}

func TestPortionLabel(t *testing.T) {
	cases := map[string]string{
		"sm": "Small", "LG": "Large", "med": "Medium",
		"kid": "Kid", "Family": "Family", "": "",
	}
	for in, want := range cases {
		assert.Equal(t, want, portionLabel(in), "label %q", in)
	}
}

func TestSummarize(t *testing.T) {
	summary, err := Summarize(fixtureData(t))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Roots)
	assert.Equal(t, 8, summary.TotalNodes)
	assert.Equal(t, 3, summary.NodesWithChildren)
	assert.Equal(t, 5, summary.LeafNodes)
	assert.Equal(t, []int{1, 4, 6, 10}, summary.DistinctItemTypes)
}

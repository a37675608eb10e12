// Package reply renders tool results into user-facing text. Rendering is
// purely template driven; no generation, no state. Every Result maps to
// exactly one string.
package reply

import (
	"fmt"
	"strings"

	"github.com/corey/menuqa/internal/domain/resolve"
	"github.com/corey/menuqa/internal/domain/tools"
)

const (
	maxListedItems      = 10
	maxListedCandidates = 5
)

// Format converts a tool result into the response text. It handles
// success, error, and clarification shapes consistently and never returns
// an empty string for a well-formed result.
func Format(res tools.Result) string {
	if res.OK && res.Data != nil {
		return formatSuccess(res)
	}
	if res.Err == nil {
		return "Something went wrong."
	}

	switch res.Err.Code {
	case tools.CodeAmbiguous, tools.CodeNotFound:
		if len(res.Candidates) > 0 {
			return res.Err.Message + "\n" + numberedCandidates(res.Candidates)
		}
		if len(res.Portions) > 0 {
			return res.Err.Message + "\n" + numberedPortions(res.Portions)
		}
		return res.Err.Message
	case tools.CodeInvalidArgument:
		if len(res.Portions) > 0 {
			return res.Err.Message + "\n" + numberedPortions(res.Portions)
		}
		if len(res.Candidates) > 0 {
			return res.Err.Message + "\n" + numberedCandidates(res.Candidates)
		}
		return res.Err.Message
	default:
		// UNSUPPORTED and INCOMPLETE_DATA surface their message verbatim.
		return res.Err.Message
	}
}

func formatSuccess(res tools.Result) string {
	switch d := res.Data.(type) {
	case tools.PriceData:
		name := d.ItemName
		if name == "" {
			name = d.ItemTitle
		}
		if d.Portion != "" {
			return fmt.Sprintf("%s — %s (%s)", money(d.Price), name, d.Portion)
		}
		return fmt.Sprintf("%s — %s", money(d.Price), name)

	case tools.CaloriesData:
		return fmt.Sprintf("%s: %d calories", d.ItemName, d.Calories)

	case tools.CategoryData:
		names := make([]string, 0, len(d.Items))
		for _, it := range d.Items {
			if len(names) == maxListedItems {
				break
			}
			n := it.Name
			if n == "" {
				n = it.Title
			}
			names = append(names, n)
		}
		return fmt.Sprintf("%s (%d items): %s%s",
			d.Category, d.Count, strings.Join(names, ", "), ellipsis(len(d.Items)))

	case tools.DiscountListData:
		names := make([]string, 0, len(d.Discounts))
		for _, disc := range d.Discounts {
			if len(names) == maxListedItems {
				break
			}
			if disc.Name != "" {
				names = append(names, disc.Name)
			} else {
				names = append(names, fmt.Sprintf("%d", disc.DiscountID))
			}
		}
		return fmt.Sprintf("Discounts (%d): %s%s", d.Count, strings.Join(names, ", "), ellipsis(len(d.Discounts)))

	case tools.DiscountDetailsData:
		name := d.Name
		if name == "" {
			name = "Discount"
		}
		return fmt.Sprintf("%s (id: %d)", name, d.DiscountID)

	case tools.TriggersData:
		name := d.DiscountName
		if name == "" {
			name = "Discount"
		}
		if len(d.Items) == 0 {
			return fmt.Sprintf("%s: no trigger items found.", name)
		}
		names := make([]string, 0, len(d.Items))
		for _, it := range d.Items {
			if len(names) == maxListedItems {
				break
			}
			names = append(names, it.Name)
		}
		return fmt.Sprintf("%s triggers: %s%s", name, strings.Join(names, ", "), ellipsis(len(d.Items)))

	default:
		return fmt.Sprintf("%v", res.Data)
	}
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func ellipsis(total int) string {
	if total > maxListedItems {
		return "…"
	}
	return ""
}

func numberedCandidates(cands []resolve.Candidate) string {
	var b strings.Builder
	for i, c := range cands {
		if i == maxListedCandidates {
			break
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, c.Display)
	}
	return b.String()
}

func numberedPortions(opts []tools.PortionOption) string {
	var b strings.Builder
	for i, o := range opts {
		if i == maxListedCandidates {
			break
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s (%s)", i+1, o.Portion, money(o.Price))
	}
	return b.String()
}

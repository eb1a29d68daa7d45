package report

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// GroupSalesByDay folds sale totals into UTC days, ascending
func GroupSalesByDay(rows []SaleTotal) []DailySales {
	index := make(map[string]int)
	var out []DailySales
	for _, r := range rows {
		day := r.CreatedAt.UTC().Format("2006-01-02")
		i, ok := index[day]
		if !ok {
			i = len(out)
			index[day] = i
			out = append(out, DailySales{Day: day, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(r.Total)
		out[i].Count++
	}
	for i := range out {
		out[i].Total = valueobject.QuantizeMoney(out[i].Total)
	}
	slices.SortFunc(out, func(a, b DailySales) int { return cmp.Compare(a.Day, b.Day) })
	return out
}

// RankTurnover sums sold lines per product and returns the top limit by
// quantity, ties by name
func RankTurnover(lines []SoldLine, limit int) []ProductTurnover {
	if limit <= 0 {
		limit = DefaultTurnoverLimit
	}
	byProduct := make(map[uuid.UUID]*ProductTurnover)
	for _, l := range lines {
		t, ok := byProduct[l.ProductID]
		if !ok {
			t = &ProductTurnover{ProductID: l.ProductID, Name: l.Name, Quantity: decimal.Zero, Revenue: decimal.Zero}
			byProduct[l.ProductID] = t
		}
		t.Quantity = t.Quantity.Add(l.Quantity)
		t.Revenue = t.Revenue.Add(l.Total)
	}

	out := make([]ProductTurnover, 0, len(byProduct))
	for _, t := range byProduct {
		t.Quantity = valueobject.QuantizeQty(t.Quantity)
		t.Revenue = valueobject.QuantizeMoney(t.Revenue)
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b ProductTurnover) int {
		if c := b.Quantity.Cmp(a.Quantity); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FilterReorder keeps the candidates whose quantity reached the reorder point
func FilterReorder(candidates []ReorderLine) []ReorderLine {
	out := make([]ReorderLine, 0, len(candidates))
	for _, c := range candidates {
		if c.ReorderPoint.IsPositive() && c.Quantity.LessThanOrEqual(c.ReorderPoint) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b ReorderLine) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

package portfolio

import (
	"sort"
	"strings"

	"github.com/bobmcallan/carteira/internal/models"
)

// Distribute groups holdings by category. Groups are sorted by category
// name, holdings inside a group by quantity descending. Invested totals use
// the stored Value of each holding.
func Distribute(holdings []models.Holding) *models.Distribution {
	groups := make(map[string]*models.CategoryGroup)
	total := 0.0

	for _, h := range holdings {
		name := strings.TrimSpace(h.Category)
		if name == "" {
			name = string(models.CategoryOther)
		}
		g, ok := groups[name]
		if !ok {
			g = &models.CategoryGroup{Category: name, Kind: models.ClassifyCategory(name)}
			groups[name] = g
		}
		g.Count++
		g.TotalInvested += h.Value
		g.Holdings = append(g.Holdings, h)
		total += h.Value
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	dist := &models.Distribution{Groups: make([]models.CategoryGroup, 0, len(names)), TotalInvested: total}
	for _, name := range names {
		g := groups[name]
		sort.SliceStable(g.Holdings, func(i, j int) bool {
			return g.Holdings[i].Quantity > g.Holdings[j].Quantity
		})
		if total != 0 {
			g.Allocation = g.TotalInvested / total * 100
		}
		dist.Groups = append(dist.Groups, *g)
	}
	return dist
}

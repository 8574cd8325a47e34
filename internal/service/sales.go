package service

import (
	"sort"
)

// TopSellerLimit is how many entries the dashboard ranking shows.
const TopSellerLimit = 5

// TopSeller is one entry of the best-seller ranking.
type TopSeller struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// TopSellers sums line quantities per item name across sales and ranks them
// by quantity, highest first. Names with equal totals keep the order in which
// they were first seen. limit <= 0 returns the full ranking.
func TopSellers(sales []Sale, limit int) []TopSeller {
	index := make(map[string]int)
	ranking := []TopSeller{}
	for _, sale := range sales {
		for _, li := range sale.Items {
			i, ok := index[li.Name]
			if !ok {
				i = len(ranking)
				index[li.Name] = i
				ranking = append(ranking, TopSeller{Name: li.Name})
			}
			ranking[i].Quantity += int64(li.Quantity)
		}
	}

	sort.SliceStable(ranking, func(a, b int) bool {
		return ranking[a].Quantity > ranking[b].Quantity
	})

	if limit > 0 && len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking
}

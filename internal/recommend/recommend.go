// Package recommend は「似た商品」パネルの並び順を決める。
package recommend

import (
	"sort"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"

	"github.com/shopspring/decimal"
)

const (
	DefaultLimit = 6
	MaxLimit     = 20
)

var priceBand = decimal.NewFromFloat(0.2)

// 0は未指定としてデフォルト、範囲外は[1,20]に丸める
func ClampLimit(limit int) int {
	if limit == 0 {
		return DefaultLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// 価格帯±20%で+2、おすすめで+1、在庫ありで+1
func Score(source, candidate model.Product) int {
	score := 0
	if inPriceBand(source.Price, candidate.Price) {
		score += 2
	}
	if candidate.Featured {
		score++
	}
	if candidate.TotalStock() > 0 {
		score++
	}
	return score
}

func inPriceBand(source, candidate decimal.Decimal) bool {
	delta := source.Mul(priceBand).Abs()
	return candidate.Sub(source).Abs().LessThanOrEqual(delta)
}

// 元の商品は除外する。在庫切れも除外せず、スコアが下がるだけ。
// 同点は作成日の新しい順。
func Rank(source model.Product, candidates []model.Product, limit int) []model.Product {
	limit = ClampLimit(limit)

	type scored struct {
		p     model.Product
		score int
	}
	pool := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == source.ID {
			continue
		}
		pool = append(pool, scored{p: c, score: Score(source, c)})
	}

	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].score != pool[j].score {
			return pool[i].score > pool[j].score
		}
		return pool[i].p.CreatedAt.After(pool[j].p.CreatedAt)
	})

	if len(pool) > limit {
		pool = pool[:limit]
	}
	out := make([]model.Product, 0, len(pool))
	for _, s := range pool {
		out = append(out, s.p)
	}
	return out
}

package costing

import "fmt"

// Ingredient is one component of a fragrance blend. Percent is a share of the
// total fragrance weight; a recipe's percentages are taken as given.
type Ingredient struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

// ShoppingItem is one line of a batch shopping list. Weighed materials carry
// grams and pounds, counted ones carry Count.
type ShoppingItem struct {
	Material string  `json:"material"`
	Grams    float64 `json:"grams,omitempty"`
	Pounds   float64 `json:"pounds,omitempty"`
	Count    int     `json:"count,omitempty"`
	Cost     float64 `json:"cost"`
}

// BlendPortion is the weight of one fragrance ingredient in a batch.
type BlendPortion struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
	Grams   float64 `json:"grams"`
}

// BatchPlan is the aggregated requirement for producing Quantity vessels.
type BatchPlan struct {
	Quantity       int            `json:"quantity"`
	WaxGrams       float64        `json:"wax_grams"`
	FragranceGrams float64        `json:"fragrance_grams"`
	CementGrams    float64        `json:"cement_grams"`
	Wicks          int            `json:"wicks"`
	Paint          int            `json:"paint"`
	ShoppingList   []ShoppingItem `json:"shopping_list"`
	Blend          []BlendPortion `json:"blend"`
	BatchCost      float64        `json:"batch_cost"`
}

// Plan scales the per-unit breakdown to quantity vessels and splits the
// fragrance across recipe in order. No economies of scale are modeled.
func Plan(b VesselCostBreakdown, quantity int, recipe []Ingredient) (BatchPlan, error) {
	if quantity <= 0 {
		return BatchPlan{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	q := float64(quantity)

	plan := BatchPlan{
		Quantity:       quantity,
		WaxGrams:       b.WaxWeightG * q,
		FragranceGrams: b.FragranceWeightG * q,
		CementGrams:    b.CementWeightG * q,
		Wicks:          b.WicksNeeded * quantity,
		Paint:          quantity,
		BatchCost:      b.TotalCost * q,
	}

	plan.ShoppingList = []ShoppingItem{
		weighed(MaterialWax, plan.WaxGrams, b.WaxCost*q),
		weighed(MaterialFragrance, plan.FragranceGrams, b.FragranceCost*q),
		weighed(MaterialCement, plan.CementGrams, b.CementCost*q),
		{Material: MaterialWicks, Count: plan.Wicks, Cost: b.WickCost * q},
		{Material: MaterialPaint, Count: plan.Paint, Cost: b.PaintCost * q},
	}

	plan.Blend = make([]BlendPortion, 0, len(recipe))
	for _, ing := range recipe {
		plan.Blend = append(plan.Blend, BlendPortion{
			Name:    ing.Name,
			Percent: ing.Percent,
			Grams:   plan.FragranceGrams * ing.Percent / 100.0,
		})
	}

	return plan, nil
}

func weighed(material string, grams, cost float64) ShoppingItem {
	return ShoppingItem{Material: material, Grams: grams, Pounds: grams / GramsPerPound, Cost: cost}
}

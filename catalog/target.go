package catalog

import "math"

// EstimateTarget derives a deterministic demo funding target for a catalog
// record: a base on living size, a bonus for newer construction and a stable
// per-id perturbation so equal-sized listings do not all share one number.
// The result is rounded to 5,000 and clamped to the allowed target range.
func EstimateTarget(p Property) float64 {
	sqft := p.LivingSize
	if sqft <= 0 {
		sqft = 900
	}
	base := sqft * 280

	var ageBonus float64
	switch {
	case p.YearBuilt >= 2010:
		ageBonus = 60000
	case p.YearBuilt >= 1980:
		ageBonus = 25000
	}

	noise := 15000.0
	if p.ID != "" {
		noise = float64(hashDjb2(p.ID) % 50000)
	}

	raw := base + ageBonus + noise
	rounded := math.Round(raw/5000) * 5000
	return math.Min(1200000, math.Max(120000, rounded))
}

func hashDjb2(s string) uint32 {
	var h uint32 = 5381
	for i := 0; i < len(s); i++ {
		h = h*33 + uint32(s[i])
	}
	return h
}

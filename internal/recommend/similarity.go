package recommend

import "math"

// cosineSimilarity entre dos vectores dispersos de pesos no negativos.
// Si alguna magnitud es cero devuelve 0, nunca error.
func cosineSimilarity(a, b map[string]float64) float64 {
	var dot, magA, magB float64
	for term, wa := range a {
		magA += wa * wa
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	for _, wb := range b {
		magB += wb * wb
	}
	mag := math.Sqrt(magA) * math.Sqrt(magB)
	if mag == 0 {
		return 0
	}
	return dot / mag
}

// jaccardSimilarity entre dos conjuntos de ids: |intersección| / |unión|.
// Conjuntos vacíos dan 0.
func jaccardSimilarity(a, b map[int]struct{}) float64 {
	inter := 0
	for id := range a {
		if _, ok := b[id]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

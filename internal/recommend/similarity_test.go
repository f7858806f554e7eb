package recommend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func set(ids ...int) map[int]struct{} {
	s := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func TestJaccardSimilarity(t *testing.T) {
	a := set(1, 2, 3)
	b := set(2, 3, 4)

	require.InDelta(t, 0.5, jaccardSimilarity(a, b), 1e-9)

	// simétrica
	require.Equal(t, jaccardSimilarity(a, b), jaccardSimilarity(b, a))

	// conjuntos idénticos de un solo elemento: similitud 1.0
	require.Equal(t, 1.0, jaccardSimilarity(set(7), set(7)))

	// sin solapamiento
	require.Equal(t, 0.0, jaccardSimilarity(set(1), set(2)))

	// unión vacía no divide por cero
	require.Equal(t, 0.0, jaccardSimilarity(set(), set()))
}

func TestCosineSimilarity(t *testing.T) {
	a := map[string]float64{"limpieza": 2, "hogar": 1}
	b := map[string]float64{"limpieza": 1, "plomeria": 3}

	sim := cosineSimilarity(a, b)
	require.Greater(t, sim, 0.0)
	require.LessOrEqual(t, sim, 1.0)
	require.Equal(t, sim, cosineSimilarity(b, a))

	// vector contra sí mismo: 1
	require.InDelta(t, 1.0, cosineSimilarity(a, a), 1e-9)

	// magnitud cero: similitud 0, nunca error
	require.Equal(t, 0.0, cosineSimilarity(a, map[string]float64{}))
	require.Equal(t, 0.0, cosineSimilarity(map[string]float64{}, b))
}

func TestTokenize(t *testing.T) {
	terms := tokenize("Deep Cleaning, AC & repair-2024!")
	require.Equal(t, []string{"deep", "cleaning", "ac", "repair", "2024"}, terms)
	require.Empty(t, tokenize("  ...  "))
}

func TestCorpusVectors(t *testing.T) {
	c := newCorpus()
	c.add("cleaning home cleaning")
	c.add("plumbing pipes")

	v0 := c.vector(0)
	require.Contains(t, v0, "cleaning")
	require.Contains(t, v0, "home")
	// término repetido pesa más que el único
	require.Greater(t, v0["cleaning"], v0["home"])

	// todos los pesos son no negativos
	for _, w := range v0 {
		require.GreaterOrEqual(t, w, 0.0)
	}

	// índice fuera de rango
	require.Nil(t, c.vector(5))
}

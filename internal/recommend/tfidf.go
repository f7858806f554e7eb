package recommend

import (
	"math"
	"strings"
	"unicode"
)

// tokenize parte el texto en términos alfanuméricos en minúscula.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// corpus acumula documentos y calcula pesos tf-idf por término.
type corpus struct {
	docs []map[string]int // frecuencia cruda de términos por documento
	df   map[string]int   // en cuántos documentos aparece cada término
}

func newCorpus() *corpus {
	return &corpus{df: make(map[string]int)}
}

func (c *corpus) add(text string) {
	tf := make(map[string]int)
	for _, term := range tokenize(text) {
		tf[term]++
	}
	for term := range tf {
		c.df[term]++
	}
	c.docs = append(c.docs, tf)
}

// vector devuelve el vector tf-idf del documento i.
// idf = log(1 + N/(1+df)): nunca negativo, así el coseno queda en [0,1].
func (c *corpus) vector(i int) map[string]float64 {
	if i < 0 || i >= len(c.docs) {
		return nil
	}
	n := float64(len(c.docs))
	v := make(map[string]float64, len(c.docs[i]))
	for term, count := range c.docs[i] {
		idf := math.Log(1 + n/float64(1+c.df[term]))
		v[term] = float64(count) * idf
	}
	return v
}

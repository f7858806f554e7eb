package recommend

import (
	"sort"

	"servizo-backend/internal/models"
)

// Pesos fijos del blend híbrido y corte de usuarios similares.
// Son constantes de diseño: no se infieren de los datos.
const (
	contentWeight  = 0.5
	collabWeight   = 0.3
	categoryWeight = 0.2

	maxSimilarUsers = 10

	// score asumido cuando una señal no trae score numérico propio
	defaultSignalScore = 0.5
)

// Razones legibles que acompañan cada recomendación.
const (
	ReasonHistory      = "Based on your booking history"
	ReasonSimilar      = "Similar to your bookings"
	ReasonSimilarUsers = "Users with similar interests booked this"
	ReasonCategories   = "From your favorite categories"
	ReasonTrending     = "Trending service"
	ReasonGeneric      = "Recommended for you"
)

// RankedService es el resultado intermedio de cada señal.
// Score == 0 significa "sin score numérico propio" (categoría, popularidad).
type RankedService struct {
	Service models.ServiceDoc
	Score   float64
	Reason  string
}

// Engine calcula recomendaciones híbridas sobre snapshots en memoria.
// Es puro: no hace I/O, no guarda estado entre llamadas y una misma
// instancia puede usarse desde varios handlers concurrentes.
//
// Los límites de entrada (últimas 50 reservas del usuario, snapshot
// global de a lo sumo 2000 reservas) los impone el caller; el engine
// trabaja con lo que recibe.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// ====== Señal de contenido (tf-idf + coseno) ======

// ByContent puntúa cada candidato por su similitud textual promedio
// contra los servicios del historial. Asume que `available` ya viene
// filtrado (sin los servicios que el usuario reservó).
func (e *Engine) ByContent(history []models.BookingDoc, available []models.ServiceDoc, limit int) []RankedService {
	// solo reservas con proyección de servicio resuelta
	var histDocs []*models.ServiceDoc
	for i := range history {
		if history[i].Service != nil && history[i].Service.Title != "" {
			histDocs = append(histDocs, history[i].Service)
		}
	}
	if len(histDocs) == 0 {
		return e.Popular(available, limit)
	}

	// un documento por servicio del historial y uno por candidato;
	// el idf se calcula sobre el corpus combinado
	c := newCorpus()
	for _, s := range histDocs {
		c.add(serviceText(s))
	}
	for i := range available {
		c.add(serviceText(&available[i]))
	}

	histVecs := make([]map[string]float64, len(histDocs))
	for i := range histDocs {
		histVecs[i] = c.vector(i)
	}

	var ranked []RankedService
	for i := range available {
		candVec := c.vector(len(histDocs) + i)

		var total float64
		for _, hv := range histVecs {
			total += cosineSimilarity(hv, candVec)
		}
		avg := total / float64(len(histDocs))

		// candidatos sin similitud con ningún documento quedan fuera,
		// no entran con score 0
		if avg <= 0 {
			continue
		}
		ranked = append(ranked, RankedService{
			Service: available[i],
			Score:   avg,
			Reason:  ReasonHistory,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return truncate(ranked, limit)
}

func serviceText(s *models.ServiceDoc) string {
	return s.Title + " " + s.Description + " " + s.Category
}

// ====== Señal colaborativa (Jaccard sobre conjuntos de reservas) ======

type similarUser struct {
	userID     int
	similarity float64
}

// ByCollaboration recomienda lo que reservaron usuarios con conjuntos
// de reservas parecidos al del usuario objetivo. `allBookings` es el
// snapshot global acotado que entrega el caller.
func (e *Engine) ByCollaboration(userID int, allBookings []models.BookingDoc, available []models.ServiceDoc, limit int) []RankedService {
	booked := bookedSetsByUser(allBookings)

	target, ok := booked[userID]
	if !ok {
		return e.Popular(available, limit)
	}

	similar := findSimilarUsers(userID, booked)

	byID := make(map[int]*models.ServiceDoc, len(available))
	for i := range available {
		byID[available[i].ServiceID] = &available[i]
	}

	// score acumulado: un servicio reservado por dos usuarios
	// medianamente similares puede superar al de uno muy similar
	scores := make(map[int]float64)
	var order []int
	for _, su := range similar {
		for _, serviceID := range sortedIDs(booked[su.userID]) {
			if _, already := target[serviceID]; already {
				continue
			}
			if _, inCatalog := byID[serviceID]; !inCatalog {
				continue
			}
			if _, seen := scores[serviceID]; !seen {
				order = append(order, serviceID)
			}
			scores[serviceID] += su.similarity
		}
	}

	ranked := make([]RankedService, 0, len(order))
	for _, id := range order {
		ranked = append(ranked, RankedService{
			Service: *byID[id],
			Score:   scores[id],
			Reason:  ReasonSimilarUsers,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return truncate(ranked, limit)
}

// bookedSetsByUser arma el mapa usuario -> servicios distintos reservados.
// Reservas sin customer o sin servicio resoluble se ignoran.
func bookedSetsByUser(bookings []models.BookingDoc) map[int]map[int]struct{} {
	sets := make(map[int]map[int]struct{})
	for _, b := range bookings {
		if b.CustomerID == 0 || b.ServiceID == 0 {
			continue
		}
		set, ok := sets[b.CustomerID]
		if !ok {
			set = make(map[int]struct{})
			sets[b.CustomerID] = set
		}
		set[b.ServiceID] = struct{}{}
	}
	return sets
}

func findSimilarUsers(userID int, booked map[int]map[int]struct{}) []similarUser {
	target := booked[userID]

	var sims []similarUser
	for otherID, services := range booked {
		if otherID == userID {
			continue
		}
		sim := jaccardSimilarity(target, services)
		if sim > 0 {
			sims = append(sims, similarUser{userID: otherID, similarity: sim})
		}
	}

	sort.Slice(sims, func(i, j int) bool {
		if sims[i].similarity != sims[j].similarity {
			return sims[i].similarity > sims[j].similarity
		}
		return sims[i].userID < sims[j].userID // desempate determinista
	})
	if len(sims) > maxSimilarUsers {
		sims = sims[:maxSimilarUsers]
	}
	return sims
}

func sortedIDs(set map[int]struct{}) []int {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ====== Señal de afinidad por categoría ======

// ByCategory ordena los candidatos según qué tan frecuente es su
// categoría en el historial del usuario. La pertenencia es binaria:
// el ranking solo usa el índice de preferencia, sin score numérico.
func (e *Engine) ByCategory(history []models.BookingDoc, available []models.ServiceDoc, limit int) []RankedService {
	counts := make(map[string]int)
	var cats []string // orden de primera aparición, para desempatar
	for i := range history {
		if history[i].Service == nil || history[i].Service.Category == "" {
			continue
		}
		cat := history[i].Service.Category
		if counts[cat] == 0 {
			cats = append(cats, cat)
		}
		counts[cat]++
	}
	if len(cats) == 0 {
		return e.Popular(available, limit)
	}

	sort.SliceStable(cats, func(i, j int) bool { return counts[cats[i]] > counts[cats[j]] })

	rank := make(map[string]int, len(cats))
	for i, cat := range cats {
		rank[cat] = i
	}

	var ranked []RankedService
	for i := range available {
		if _, ok := rank[available[i].Category]; ok {
			ranked = append(ranked, RankedService{Service: available[i]})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return rank[ranked[i].Service.Category] < rank[ranked[j].Service.Category]
	})
	return truncate(ranked, limit)
}

// ====== Señal por ubicación ======

// ByLocation filtra candidatos cuyo proveedor atiende la ciudad (o el
// estado) del usuario. Sin ciudad registrada cae a popularidad.
func (e *Engine) ByLocation(user models.UserDoc, available []models.ServiceDoc, limit int) []RankedService {
	if user.City == "" {
		return e.Popular(available, limit)
	}

	var ranked []RankedService
	for i := range available {
		p := available[i].Provider
		if p == nil {
			continue
		}
		if p.City == user.City || (user.State != "" && p.State == user.State) {
			ranked = append(ranked, RankedService{Service: available[i]})
		}
	}
	return truncate(ranked, limit)
}

// ====== Fallback por popularidad ======

// Popular ordena el catálogo por rating promedio descendente (rating
// ausente cuenta como 0). Es el fallback de todas las señales y la
// fuente de relleno del blend.
func (e *Engine) Popular(available []models.ServiceDoc, limit int) []RankedService {
	sorted := make([]models.ServiceDoc, len(available))
	copy(sorted, available)
	sort.SliceStable(sorted, func(i, j int) bool {
		return ratingAverage(&sorted[i]) > ratingAverage(&sorted[j])
	})

	ranked := make([]RankedService, 0, len(sorted))
	for i := range sorted {
		ranked = append(ranked, RankedService{Service: sorted[i], Reason: ReasonTrending})
	}
	return truncate(ranked, limit)
}

func ratingAverage(s *models.ServiceDoc) float64 {
	if s.Rating == nil {
		return 0
	}
	return s.Rating.Average
}

// ====== Blend híbrido ======

type blendEntry struct {
	service models.ServiceDoc
	score   float64
	reasons []string
}

// Recommend combina contenido, colaborativo y categoría en una sola
// lista ordenada, deduplicada y con razones. El filtro de "ya
// reservado" se aplica una única vez acá; las señales reciben el
// catálogo ya depurado.
func (e *Engine) Recommend(user models.UserDoc, history, allBookings []models.BookingDoc, catalog []models.ServiceDoc, limit int) []models.RecommendedService {
	bookedIDs := make(map[int]struct{}, len(history))
	for _, b := range history {
		if b.ServiceID != 0 {
			bookedIDs[b.ServiceID] = struct{}{}
		}
	}

	available := make([]models.ServiceDoc, 0, len(catalog))
	for _, s := range catalog {
		if _, ok := bookedIDs[s.ServiceID]; !ok {
			available = append(available, s)
		}
	}

	// cold start: sin historial no hay nada que mezclar
	if len(history) == 0 {
		return toRecommended(e.Popular(available, limit))
	}

	subLimit := 2 * limit
	if subLimit > 20 {
		subLimit = 20
	}

	contentBased := e.ByContent(history, available, subLimit)
	collaborative := e.ByCollaboration(user.UserID, allBookings, available, subLimit)
	categoryBased := e.ByCategory(history, available, subLimit)

	combined := make(map[int]*blendEntry)
	var order []int // orden de inserción: desempate estable del sort final

	merge := func(svc models.ServiceDoc, score float64, reason string) {
		entry, ok := combined[svc.ServiceID]
		if !ok {
			entry = &blendEntry{service: svc}
			combined[svc.ServiceID] = entry
			order = append(order, svc.ServiceID)
		}
		entry.score += score
		if reason != "" {
			entry.reasons = addReason(entry.reasons, reason)
		}
	}

	for _, r := range contentBased {
		merge(r.Service, signalScore(r)*contentWeight, ReasonSimilar)
	}
	for _, r := range collaborative {
		reason := r.Reason
		if reason == "" {
			reason = ReasonGeneric
		}
		merge(r.Service, signalScore(r)*collabWeight, reason)
	}
	for _, r := range categoryBased {
		merge(r.Service, categoryWeight, ReasonCategories)
	}

	entries := make([]*blendEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, combined[id])
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].score > entries[j].score })
	if len(entries) > limit {
		entries = entries[:limit]
	}

	results := make([]models.RecommendedService, 0, len(entries))
	selected := make(map[int]struct{}, len(entries))
	for _, entry := range entries {
		results = append(results, models.RecommendedService{
			ServiceDoc:            entry.service,
			RecommendationReasons: entry.reasons,
		})
		selected[entry.service.ServiceID] = struct{}{}
	}

	// relleno con populares hasta llegar al límite o agotar el catálogo
	if len(results) < limit {
		for _, r := range e.Popular(available, len(available)) {
			if len(results) >= limit {
				break
			}
			if _, ok := selected[r.Service.ServiceID]; ok {
				continue
			}
			results = append(results, models.RecommendedService{
				ServiceDoc:            r.Service,
				RecommendationReasons: []string{ReasonTrending},
			})
			selected[r.Service.ServiceID] = struct{}{}
		}
	}

	return results
}

// signalScore aplica el default cuando la señal no trajo score propio.
func signalScore(r RankedService) float64 {
	if r.Score == 0 {
		return defaultSignalScore
	}
	return r.Score
}

func addReason(reasons []string, reason string) []string {
	for _, r := range reasons {
		if r == reason {
			return reasons
		}
	}
	return append(reasons, reason)
}

func toRecommended(ranked []RankedService) []models.RecommendedService {
	out := make([]models.RecommendedService, 0, len(ranked))
	for _, r := range ranked {
		reasons := []string{}
		if r.Reason != "" {
			reasons = append(reasons, r.Reason)
		}
		out = append(out, models.RecommendedService{
			ServiceDoc:            r.Service,
			RecommendationReasons: reasons,
		})
	}
	return out
}

func truncate(ranked []RankedService, limit int) []RankedService {
	if limit < 0 {
		limit = 0
	}
	if len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}

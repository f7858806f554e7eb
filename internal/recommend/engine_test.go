package recommend

import (
	"testing"

	"servizo-backend/internal/models"

	"github.com/stretchr/testify/require"
)

func testService(id int, title, desc, category string, rating float64) models.ServiceDoc {
	s := models.ServiceDoc{
		ServiceID:   id,
		Title:       title,
		Description: desc,
		Category:    category,
		IsActive:    true,
	}
	if rating > 0 {
		s.Rating = &models.RatingStats{Average: rating, Count: 10}
	}
	return s
}

func testBooking(bookingID, customerID int, svc models.ServiceDoc) models.BookingDoc {
	return models.BookingDoc{
		BookingID:  bookingID,
		CustomerID: customerID,
		ServiceID:  svc.ServiceID,
		ProviderID: svc.ProviderID,
		Status:     models.BookingStatusCompleted,
		Service:    &svc,
	}
}

func resultIDs(results []models.RecommendedService) []int {
	ids := make([]int, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ServiceID)
	}
	return ids
}

func TestPopularOrdering(t *testing.T) {
	e := NewEngine()

	// todos con rating 0 (o sin rating) menos uno con 4.5
	catalog := []models.ServiceDoc{
		testService(1, "Sofa cleaning", "deep sofa wash", "cleaning", 0),
		testService(2, "AC gas refill", "cooling repair", "ac", 4.5),
		testService(3, "Wall painting", "interior paint", "painting", 0),
	}
	catalog[2].Rating = nil // rating ausente cuenta como 0

	top := e.Popular(catalog, 1)
	require.Len(t, top, 1)
	require.Equal(t, 2, top[0].Service.ServiceID)
	require.Equal(t, ReasonTrending, top[0].Reason)

	// el resto conserva el orden del catálogo (sort estable)
	all := e.Popular(catalog, 10)
	require.Equal(t, []int{2, 1, 3}, []int{
		all[0].Service.ServiceID,
		all[1].Service.ServiceID,
		all[2].Service.ServiceID,
	})
}

func TestRecommendColdStartEqualsPopular(t *testing.T) {
	e := NewEngine()

	catalog := []models.ServiceDoc{
		testService(1, "Sofa cleaning", "deep sofa wash", "cleaning", 3.0),
		testService(2, "AC gas refill", "cooling repair", "ac", 4.5),
		testService(3, "Wall painting", "interior paint", "painting", 2.0),
	}
	user := models.UserDoc{UserID: 9, Role: models.RoleCustomer}

	got := e.Recommend(user, nil, nil, catalog, 2)
	want := e.Popular(catalog, 2)

	require.Len(t, got, 2)
	for i := range got {
		require.Equal(t, want[i].Service.ServiceID, got[i].ServiceID)
		require.Equal(t, []string{ReasonTrending}, got[i].RecommendationReasons)
	}
}

func TestByContentScoresAndDrops(t *testing.T) {
	e := NewEngine()

	booked := testService(100, "Home cleaning", "dust mop floors", "cleaning", 4)
	history := []models.BookingDoc{testBooking(1, 7, booked)}

	available := []models.ServiceDoc{
		testService(1, "Deep cleaning", "dust removal for floors", "cleaning", 3),
		testService(2, "Pipe fix", "leak repair", "plumbing", 5),
	}

	ranked := e.ByContent(history, available, 10)

	// el candidato sin similitud textual alguna queda fuera, no con score 0
	require.Len(t, ranked, 1)
	require.Equal(t, 1, ranked[0].Service.ServiceID)
	require.Greater(t, ranked[0].Score, 0.0)
	require.LessOrEqual(t, ranked[0].Score, 1.0)
	require.Equal(t, ReasonHistory, ranked[0].Reason)
}

func TestByContentFallsBackWithoutServiceData(t *testing.T) {
	e := NewEngine()

	// reservas sin proyección de servicio: historial inutilizable
	history := []models.BookingDoc{{BookingID: 1, CustomerID: 7, ServiceID: 100}}
	available := []models.ServiceDoc{
		testService(1, "Sofa cleaning", "wash", "cleaning", 2),
		testService(2, "AC service", "cooling", "ac", 5),
	}

	ranked := e.ByContent(history, available, 10)
	require.Len(t, ranked, 2)
	require.Equal(t, 2, ranked[0].Service.ServiceID) // orden de popularidad
	require.Equal(t, ReasonTrending, ranked[0].Reason)
}

func TestByCollaborationAccumulatesSimilarity(t *testing.T) {
	e := NewEngine()

	s1 := testService(1, "Home cleaning", "mop", "cleaning", 4)
	s2 := testService(2, "AC repair", "gas", "ac", 4)
	s3 := testService(3, "Painting", "walls", "painting", 4)
	s8 := testService(8, "Pest control", "spray", "pest-control", 4)
	s9 := testService(9, "Beauty at home", "salon", "beauty", 4)

	// usuario 1 reservó s1; usuario 2 comparte la mitad de su set;
	// usuarios 3 y 4 comparten un tercio cada uno pero ambos reservaron s3
	allBookings := []models.BookingDoc{
		testBooking(1, 1, s1),
		testBooking(2, 2, s1), testBooking(3, 2, s2),
		testBooking(4, 3, s1), testBooking(5, 3, s9), testBooking(6, 3, s3),
		testBooking(7, 4, s1), testBooking(8, 4, s8), testBooking(9, 4, s3),
	}
	available := []models.ServiceDoc{s2, s3}

	ranked := e.ByCollaboration(1, allBookings, available, 10)
	require.Len(t, ranked, 2)

	// s3: 1/3 + 1/3 supera a s2: 1/2
	require.Equal(t, 3, ranked[0].Service.ServiceID)
	require.InDelta(t, 2.0/3.0, ranked[0].Score, 1e-9)
	require.Equal(t, 2, ranked[1].Service.ServiceID)
	require.InDelta(t, 0.5, ranked[1].Score, 1e-9)
	require.Equal(t, ReasonSimilarUsers, ranked[0].Reason)
}

func TestByCollaborationIdenticalSets(t *testing.T) {
	e := NewEngine()

	s1 := testService(1, "Home cleaning", "mop", "cleaning", 4)
	s2 := testService(2, "AC repair", "gas", "ac", 4)

	// dos usuarios con exactamente la misma reserva única: Jaccard 1.0;
	// cuando el vecino suma otra reserva, esa similitud puntúa completa
	allBookings := []models.BookingDoc{
		testBooking(1, 1, s1),
		testBooking(2, 2, s1),
	}
	require.Empty(t, e.ByCollaboration(1, allBookings, []models.ServiceDoc{s2}, 10))

	allBookings = append(allBookings, testBooking(3, 2, s2))
	ranked := e.ByCollaboration(1, allBookings, []models.ServiceDoc{s2}, 10)
	require.Len(t, ranked, 1)
	require.Equal(t, 2, ranked[0].Service.ServiceID)
	require.InDelta(t, 0.5, ranked[0].Score, 1e-9)
}

func TestByCollaborationFallsBackForUnknownUser(t *testing.T) {
	e := NewEngine()

	available := []models.ServiceDoc{
		testService(1, "Sofa cleaning", "wash", "cleaning", 2),
		testService(2, "AC service", "cooling", "ac", 5),
	}

	ranked := e.ByCollaboration(99, nil, available, 10)
	require.Len(t, ranked, 2)
	require.Equal(t, 2, ranked[0].Service.ServiceID)
	require.Equal(t, ReasonTrending, ranked[0].Reason)
}

func TestByCategoryPrefersFrequentCategories(t *testing.T) {
	e := NewEngine()

	cleaning1 := testService(100, "Home shine", "dust mop", "cleaning", 4)
	cleaning2 := testService(101, "Glass shine", "mop windows", "cleaning", 4)
	acSvc := testService(102, "AC tune", "cooling", "ac", 4)

	// dos reservas de cleaning y una de ac: cleaning va primero
	history := []models.BookingDoc{
		testBooking(1, 7, cleaning1),
		testBooking(2, 7, acSvc),
		testBooking(3, 7, cleaning2),
	}

	available := []models.ServiceDoc{
		testService(1, "AC gas refill", "gas", "ac", 3),
		testService(2, "Deep cleaning", "dust", "cleaning", 3),
		testService(3, "Pipe fix", "leak", "plumbing", 5),
		testService(4, "Office cleaning", "desks", "cleaning", 1),
	}

	ranked := e.ByCategory(history, available, 10)

	// plumbing no aparece: no está entre las categorías del historial
	require.Equal(t, []int{2, 4, 1}, []int{
		ranked[0].Service.ServiceID,
		ranked[1].Service.ServiceID,
		ranked[2].Service.ServiceID,
	})
}

func TestRecommendCategoryScenario(t *testing.T) {
	e := NewEngine()

	// historial: dos reservas de cleaning (servicios fuera del catálogo)
	history := []models.BookingDoc{
		testBooking(1, 7, testService(100, "Home shine", "dust mop", "cleaning", 4)),
		testBooking(2, 7, testService(101, "Glass shine", "mop windows", "cleaning", 4)),
	}

	catalog := []models.ServiceDoc{
		testService(1, "Deep cleaning", "dust removal", "cleaning", 3),
		testService(2, "Office cleaning", "desk dusting", "cleaning", 2),
		testService(3, "Pipe fix", "leak repair", "plumbing", 5),
	}

	user := models.UserDoc{UserID: 7, Role: models.RoleCustomer}
	results := e.Recommend(user, history, history, catalog, 3)

	// los tres entran (plumbing por relleno de popularidad), cleaning adelante
	require.Len(t, results, 3)
	require.ElementsMatch(t, []int{1, 2, 3}, resultIDs(results))
	require.Equal(t, 3, results[2].ServiceID)
	require.Equal(t, []string{ReasonTrending}, results[2].RecommendationReasons)

	// los de cleaning acumulan contenido + categoría
	require.Contains(t, results[0].RecommendationReasons, ReasonSimilar)
	require.Contains(t, results[0].RecommendationReasons, ReasonCategories)
}

func TestRecommendExcludesBookedAndRespectsLimit(t *testing.T) {
	e := NewEngine()

	s1 := testService(1, "Home cleaning", "dust mop", "cleaning", 4)
	s2 := testService(2, "Deep cleaning", "dust removal", "cleaning", 3)
	s3 := testService(3, "AC repair", "cooling gas", "ac", 5)
	s4 := testService(4, "Painting", "interior walls", "painting", 2)

	history := []models.BookingDoc{testBooking(1, 7, s1)}
	catalog := []models.ServiceDoc{s1, s2, s3, s4}
	user := models.UserDoc{UserID: 7, Role: models.RoleCustomer}

	results := e.Recommend(user, history, history, catalog, 2)

	require.LessOrEqual(t, len(results), 2)
	require.NotContains(t, resultIDs(results), 1) // lo ya reservado nunca vuelve

	// mismo input, mismo orden
	again := e.Recommend(user, history, history, catalog, 2)
	require.Equal(t, resultIDs(results), resultIDs(again))
}

func TestRecommendBackfillsWhenSignalsAreEmpty(t *testing.T) {
	e := NewEngine()

	// historial sin solapamiento textual, de categoría ausente en el
	// catálogo, y sin otros usuarios en el snapshot
	history := []models.BookingDoc{
		testBooking(1, 7, testService(100, "Termite shield", "fumigation visit", "pest-control", 4)),
	}
	catalog := []models.ServiceDoc{
		testService(1, "Sofa wash", "deep foam", "cleaning", 2),
		testService(2, "Geyser check", "heating element", "appliance", 5),
		testService(3, "Wall art", "mural paint", "painting", 3),
	}
	user := models.UserDoc{UserID: 7, Role: models.RoleCustomer}

	results := e.Recommend(user, history, history, catalog, 5)

	require.Len(t, results, 3) // min(limit, catálogo disponible)
	require.Equal(t, []int{2, 3, 1}, resultIDs(results)) // orden de popularidad
	for _, r := range results {
		require.Equal(t, []string{ReasonTrending}, r.RecommendationReasons)
	}
}

func TestRecommendDeduplicatesReasons(t *testing.T) {
	e := NewEngine()

	s1 := testService(1, "Deep home cleaning", "dust mop floors", "cleaning", 4)
	booked := testService(100, "Home cleaning", "dust mop", "cleaning", 4)

	history := []models.BookingDoc{testBooking(1, 7, booked)}

	// otro usuario que también reservó lo del historial y además s1
	allBookings := []models.BookingDoc{
		testBooking(1, 7, booked),
		testBooking(2, 8, booked),
		testBooking(3, 8, s1),
	}

	user := models.UserDoc{UserID: 7, Role: models.RoleCustomer}
	results := e.Recommend(user, history, allBookings, []models.ServiceDoc{s1, booked}, 5)

	require.NotEmpty(t, results)
	top := results[0]
	require.Equal(t, 1, top.ServiceID)

	// las tres señales aportan, cada razón aparece una sola vez
	require.Contains(t, top.RecommendationReasons, ReasonSimilar)
	require.Contains(t, top.RecommendationReasons, ReasonSimilarUsers)
	require.Contains(t, top.RecommendationReasons, ReasonCategories)
	seen := map[string]int{}
	for _, reason := range top.RecommendationReasons {
		seen[reason]++
		require.Equal(t, 1, seen[reason])
	}
}

func TestByLocationMatchesCityOrState(t *testing.T) {
	e := NewEngine()

	mk := func(id int, city, state string) models.ServiceDoc {
		s := testService(id, "Svc", "desc", "cleaning", 3)
		s.Provider = &models.ProviderInfo{UserID: id + 50, Name: "prov", City: city, State: state}
		return s
	}

	available := []models.ServiceDoc{
		mk(1, "Mumbai", "MH"),
		mk(2, "Pune", "MH"),
		mk(3, "Delhi", "DL"),
		testService(4, "Sin proveedor", "desc", "cleaning", 5), // sin join: se omite
	}

	user := models.UserDoc{UserID: 7, City: "Mumbai", State: "MH"}
	ranked := e.ByLocation(user, available, 10)
	require.Equal(t, 2, len(ranked))
	require.Equal(t, 1, ranked[0].Service.ServiceID)
	require.Equal(t, 2, ranked[1].Service.ServiceID)

	// estado vacío en ambos lados no cuenta como coincidencia
	user2 := models.UserDoc{UserID: 8, City: "Goa"}
	available2 := []models.ServiceDoc{mk(9, "Panaji", "")}
	require.Empty(t, e.ByLocation(user2, available2, 10))

	// sin ciudad registrada: popularidad
	anon := models.UserDoc{UserID: 9}
	ranked = e.ByLocation(anon, available, 10)
	require.Len(t, ranked, 4)
	require.Equal(t, ReasonTrending, ranked[0].Reason)
}

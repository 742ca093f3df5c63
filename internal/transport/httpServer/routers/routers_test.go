package routers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campusEvents/internal/config"
	"campusEvents/internal/metrics"
	"campusEvents/internal/models/domain"
	"campusEvents/internal/orchestrator"
	"campusEvents/internal/repositories"
	"campusEvents/internal/transport/httpServer/handlers"
	"campusEvents/internal/transport/httpServer/handlers/dto"
	"campusEvents/internal/web"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// straightLine отвечает маршрутом по прямой от origin до destination.
type straightLine struct{}

func (straightLine) WalkingDirections(ctx context.Context, origin, destination domain.LngLat) (domain.Route, error) {
	b, _ := domain.BoundsFromPoints(origin, destination)
	return domain.Route{
		ID: uuid.New(),
		Result: domain.DirectionsResult{
			DurationMinutes: 4,
			DistanceMiles:   0.2,
			Steps: []domain.DirectionsStep{
				{Instruction: "Head north", DistanceFeet: 600},
				{Instruction: "You have arrived at your destination", DistanceFeet: 0},
			},
		},
		Geometry: []domain.LngLat{origin, destination},
		Bounds:   b,
	}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Env: "local",
		Mapbox: config.MapboxConfig{
			AccessToken: "pk.test",
			StyleURL:    "mapbox://styles/mapbox/streets-v12",
		},
		Campus: config.CampusConfig{
			Name:      "FAU Boca Raton",
			Bounds:    config.BoundsConfig{North: 26.3771, South: 26.3671, West: -80.1070, East: -80.0970},
			CenterLng: -80.1020,
			CenterLat: 26.3721,
			Zoom:      15.5,
			MinZoom:   14.5,
			MaxZoom:   18,
		},
		Geolocation: config.GeolocationConfig{EnableHighAccuracy: true, Timeout: 30 * time.Millisecond},
		MapSessions: config.MapSessionsConfig{TTL: time.Minute, CleanupInterval: time.Minute},
	}
}

func newTestMux(t *testing.T) *chi.Mux {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	cfg := testConfig()

	repo, err := repositories.New(log, cfg)
	require.NoError(t, err)

	m := metrics.New()
	orch := orchestrator.New(log, cfg, repo, straightLine{}, m)
	t.Cleanup(func() { _ = orch.Shutdown(context.Background()) })

	renderer, err := web.NewRenderer(log)
	require.NoError(t, err)

	router := NewRouter(log,
		handlers.NewEventHandler(log, repo),
		handlers.NewMapHandler(log, orch),
		handlers.NewPageHandler(log, cfg, repo, repo, orch, renderer),
		m,
	)

	mux := chi.NewRouter()
	router.Mount(mux)
	return mux
}

func do(t *testing.T, mux http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func page(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func cardIDs(doc *goquery.Document) []string {
	var ids []string
	doc.Find(".events-list article.event-card").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("data-event-id")
		ids = append(ids, id)
	})
	return ids
}

func TestHomePage(t *testing.T) {
	mux := newTestMux(t)

	rec := do(t, mux, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	doc := page(t, rec)
	assert.Equal(t, "Discover FAU Events", doc.Find(".hero h1").Text())
	assert.Equal(t, 3, doc.Find(".upcoming .event-card").Length())
	assert.Equal(t, "Home", doc.Find(".nav-link.active").Text())
	assert.Contains(t, doc.Find(".footer").Text(), "© 2025 FAU Event App")
}

func TestEventsPage(t *testing.T) {
	mux := newTestMux(t)

	t.Run("no filters lists the whole catalog", func(t *testing.T) {
		doc := page(t, do(t, mux, http.MethodGet, "/events", ""))
		assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, cardIDs(doc))
		assert.Equal(t, "Events", doc.Find(".nav-link.active").Text())
	})

	t.Run("query matches at word start", func(t *testing.T) {
		doc := page(t, do(t, mux, http.MethodGet, "/events?q=AI", ""))
		assert.Equal(t, []string{"4"}, cardIDs(doc))
		assert.Equal(t, "Guest Lecture: AI Ethics", doc.Find(".event-card .event-title").Text())

		q, _ := doc.Find("input[name=q]").Attr("value")
		assert.Equal(t, "AI", q)
	})

	t.Run("category filter", func(t *testing.T) {
		doc := page(t, do(t, mux, http.MethodGet, "/events?category=Academic", ""))
		assert.Equal(t, []string{"3", "4"}, cardIDs(doc))
		assert.Equal(t, "Academic", doc.Find("select[name=category] option[selected]").Text())
	})

	t.Run("nothing found shows the empty state", func(t *testing.T) {
		doc := page(t, do(t, mux, http.MethodGet, "/events?q=quidditch", ""))
		assert.Empty(t, cardIDs(doc))
		assert.Equal(t, web.MsgNoEvents, strings.TrimSpace(doc.Find(".empty-state").Text()))
	})
}

func TestEventDetailPage(t *testing.T) {
	mux := newTestMux(t)

	rec := do(t, mux, http.MethodGet, "/events/3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := page(t, rec)
	assert.Equal(t, "Hackathon 2025", doc.Find("h1.event-title").Text())
	assert.Equal(t, "Apr 22-24, 2025", doc.Find(".event-date").Text())
	assert.Equal(t, "Engineering East Building", doc.Find(".event-location").Text())
	assert.Equal(t, 0, doc.Find(".nav-link.active").Length(), "nav highlights exact paths only")

	var cfg web.DetailMapConfig
	require.NoError(t, json.Unmarshal([]byte(doc.Find("#map-config").Text()), &cfg))
	assert.Equal(t, "pk.test", cfg.AccessToken)
	assert.Equal(t, float64(16), cfg.Zoom)
	assert.Equal(t, cfg.Center, cfg.Marker.LngLat)
	assert.Equal(t, "Hackathon 2025", cfg.Marker.Title)
}

func TestEventDetailPage_NotFound(t *testing.T) {
	mux := newTestMux(t)

	for _, target := range []string{"/events/999", "/events/abc"} {
		t.Run(target, func(t *testing.T) {
			rec := do(t, mux, http.MethodGet, target, "")
			require.Equal(t, http.StatusNotFound, rec.Code)

			doc := page(t, rec)
			assert.Equal(t, "Event not found", doc.Find(".not-found h2").Text())
			href, _ := doc.Find(".not-found a").Attr("href")
			assert.Equal(t, "/events", href)
		})
	}
}

func TestUnknownPath(t *testing.T) {
	mux := newTestMux(t)

	rec := do(t, mux, http.MethodGet, "/nowhere", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Page not found", page(t, rec).Find(".not-found h2").Text())
}

func TestMapPage(t *testing.T) {
	mux := newTestMux(t)

	rec := do(t, mux, http.MethodGet, "/map", "")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := page(t, rec)
	assert.Equal(t, "FAU Boca Raton Campus Map", doc.Find("h1").First().Text())
	assert.Equal(t, 3, doc.Find(".featured-event").Length())
	assert.Equal(t, len(web.MapTips), doc.Find(".tips li").Length())
	assert.Equal(t, 1, doc.Find(`script[src="/static/js/campus-map.js"]`).Length())

	var cfg web.MapPageConfig
	require.NoError(t, json.Unmarshal([]byte(doc.Find("#map-config").Text()), &cfg))
	assert.Equal(t, [2]domain.LngLat{{-80.1070, 26.3671}, {-80.0970, 26.3771}}, cfg.Bounds)
	assert.Equal(t, 15.5, cfg.Zoom)
	assert.Len(t, cfg.Markers, 6)
	assert.Len(t, cfg.Outline, 5)
	assert.Equal(t, "/api/v1/map/sessions", cfg.SessionsURL)
	assert.Equal(t, int64(30), cfg.Geolocation.Timeout)
	assert.True(t, cfg.Geolocation.EnableHighAccuracy)
	assert.Equal(t, web.MsgLocationRequired, cfg.Messages.LocationRequired)
	assert.Equal(t, web.MsgLocationUnavailable, cfg.Messages.LocationUnavailable)

	hint := doc.Find("#location-hint")
	assert.Equal(t, 1, hint.Length(), "location failures are shown in the hint")
}

func TestProfilePage(t *testing.T) {
	mux := newTestMux(t)

	t.Run("upcoming tab by default", func(t *testing.T) {
		doc := page(t, do(t, mux, http.MethodGet, "/profile", ""))
		assert.Equal(t, "Alex Johnson", doc.Find(".profile-info h1").Text())
		assert.Equal(t, "Upcoming Events", doc.Find("a.tab.active").Text())
		assert.Equal(t, 3, doc.Find(".profile-event").Length())
	})

	t.Run("unknown tab falls back to upcoming", func(t *testing.T) {
		doc := page(t, do(t, mux, http.MethodGet, "/profile?tab=bogus", ""))
		tab, _ := doc.Find("a.tab.active").Attr("data-tab")
		assert.Equal(t, "upcoming", tab)
	})

	t.Run("past tab", func(t *testing.T) {
		doc := page(t, do(t, mux, http.MethodGet, "/profile?tab=past", ""))
		assert.Equal(t, "Your Past Events", doc.Find(".tab-body h2").Text())
		assert.Equal(t, 2, doc.Find(".profile-event").Length())
	})

	t.Run("settings tab groups toggles", func(t *testing.T) {
		doc := page(t, do(t, mux, http.MethodGet, "/profile?tab=settings", ""))

		var legends []string
		doc.Find(".settings-group legend").Each(func(_ int, s *goquery.Selection) {
			legends = append(legends, s.Text())
		})
		assert.Equal(t, []string{"Notification Preferences", "Privacy Settings"}, legends)

		_, checked := doc.Find("#share-attendance").Attr("checked")
		assert.False(t, checked)
		_, checked = doc.Find("#event-reminders").Attr("checked")
		assert.True(t, checked)
	})
}

func TestEventsAPI(t *testing.T) {
	mux := newTestMux(t)

	rec := do(t, mux, http.MethodGet, "/api/v1/events?category=Academic", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list dto.EventListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, "Academic", list.Category)

	rec = do(t, mux, http.MethodGet, "/api/v1/events/4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var event dto.EventResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&event))
	assert.Equal(t, "Guest Lecture: AI Ethics", event.Title)

	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodGet, "/api/v1/events/999", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodGet, "/api/v1/events/abc", "").Code)
}

func TestMapSessionFlow(t *testing.T) {
	mux := newTestMux(t)

	rec := do(t, mux, http.MethodPost, "/api/v1/map/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var opened dto.SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&opened))
	require.NotNil(t, opened.View)
	assert.Len(t, opened.View.Markers, 6)
	assert.Nil(t, opened.Route)

	base := "/api/v1/map/sessions/" + opened.ID.String()

	// Позиции ещё нет: ждём таймаут геолокации и получаем отказ.
	rec = do(t, mux, http.MethodPost, base+"/directions", `{"eventId":1}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	var apiErr dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
	assert.Equal(t, dto.CodeLocationRequired, apiErr.Code)
	assert.Equal(t, web.MsgLocationRequired, apiErr.Error)

	rec = do(t, mux, http.MethodPut, base+"/location", `{"lng":-80.1020,"lat":26.3721,"accuracy":12}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, mux, http.MethodPost, base+"/directions", `{"eventId":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var route dto.RouteResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&route))
	assert.Equal(t, 1, route.EventID)
	assert.Equal(t, "LineString", route.Geometry.Type)
	assert.Len(t, route.Steps, 2)

	rec = do(t, mux, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap dto.SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	require.NotNil(t, snap.Location)
	assert.Equal(t, domain.LngLat{-80.1020, 26.3721}, snap.Location.LngLat)
	require.NotNil(t, snap.Route)
	assert.Equal(t, route.ID, snap.Route.ID)

	rec = do(t, mux, http.MethodPost, base+"/directions", `{"eventId":999}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.Equal(t, http.StatusNoContent, do(t, mux, http.MethodDelete, base, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodGet, base, "").Code)
}

func TestMapSession_BadRequests(t *testing.T) {
	mux := newTestMux(t)

	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodGet, "/api/v1/map/sessions/not-a-uuid", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodGet, "/api/v1/map/sessions/"+uuid.NewString(), "").Code)

	rec := do(t, mux, http.MethodPost, "/api/v1/map/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var opened dto.SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&opened))
	base := "/api/v1/map/sessions/" + opened.ID.String()

	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodPut, base+"/location", `{"accuracy":5}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodPut, base+"/location", `{"lng":500,"lat":26.3}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodPost, base+"/directions", `not json`).Code)

	// Отказ в доступе к геолокации: маршрут сразу недоступен.
	require.Equal(t, http.StatusNoContent,
		do(t, mux, http.MethodPut, base+"/location", `{"errorCode":1,"message":"User denied Geolocation"}`).Code)
	assert.Equal(t, http.StatusConflict, do(t, mux, http.MethodPost, base+"/directions", `{"eventId":2}`).Code)
}

func TestInfrastructureRoutes(t *testing.T) {
	mux := newTestMux(t)

	assert.Equal(t, http.StatusOK, do(t, mux, http.MethodGet, "/ping", "").Code)

	rec := do(t, mux, http.MethodGet, "/static/css/app.css", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")

	do(t, mux, http.MethodGet, "/events", "")
	rec = do(t, mux, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `campus_events_http_requests_total{method="GET",route="/events",status="200"} 1`)
}

package application

import (
	"compress/flate"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/auth"
	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/infrastructure/config"
	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/infrastructure/logging"
	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/infrastructure/metrics"
	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/infrastructure/repositories/database"
	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/models"
	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/query"
)

type RequestRouter struct {
	impl *chi.Mux
}

//Get accepts a pattern that should be routed to the handlerFn on a GET request
func (router *RequestRouter) Get(pattern string, handlerFn http.HandlerFunc) {
	router.impl.Get(pattern, handlerFn)
}

//Post accepts a pattern that should be routed to the handlerFn on a POST request
func (router *RequestRouter) Post(pattern string, handlerFn http.HandlerFunc) {
	router.impl.Post(pattern, handlerFn)
}

//Put accepts a pattern that should be routed to the handlerFn on a PUT request
func (router *RequestRouter) Put(pattern string, handlerFn http.HandlerFunc) {
	router.impl.Put(pattern, handlerFn)
}

func newRequestRouter(allowedOrigins []string) *RequestRouter {
	router := &RequestRouter{impl: chi.NewRouter()}

	router.impl.Use(cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		Debug:            false,
	}).Handler)

	router.impl.Use(withRequestID)
	router.impl.Use(middleware.Recoverer)
	router.impl.Use(withMetrics)

	compressor := middleware.NewCompressor(flate.DefaultCompression, "application/json")
	router.impl.Use(compressor.Handler)
	router.impl.Use(middleware.Logger)

	return router
}

func (router *RequestRouter) addPointHandlers(a *api) {
	router.Post("/points", a.authenticated(a.insertPoints))
	router.Get("/points", a.authenticated(a.getPoints))
}

func (router *RequestRouter) addTrackHandlers(a *api) {
	router.Get("/tracks/{name}", a.authenticated(a.getTrack))
	router.Put("/tracks/{name}", a.authenticated(a.insertTrack))
}

func (router *RequestRouter) addServiceHandlers(a *api) {
	router.Get("/health", a.health)
	router.impl.Handle("/metrics", promhttp.Handler())
}

func createRequestRouter(a *api, allowedOrigins []string) *RequestRouter {
	router := newRequestRouter(allowedOrigins)

	router.addServiceHandlers(a)
	router.addPointHandlers(a)
	router.addTrackHandlers(a)

	return router
}

//CreateRouterAndStartServing sets up the router and starts serving incoming requests
func CreateRouterAndStartServing(cfg config.Config, log logging.Logger, messenger MessagingContext, db database.Datastore) {
	metrics.MustRegister()

	a := &api{db: db, log: log, messenger: messenger}
	router := createRequestRouter(a, cfg.CORSOrigins)

	log.Infof("Starting geolog on port %s.", cfg.ServicePort)
	log.Fatal(http.ListenAndServe(":"+cfg.ServicePort, router.impl))
}

type api struct {
	db        database.Datastore
	log       logging.Logger
	messenger MessagingContext
}

//authenticatedHandlerFunc receives the device that was resolved from the request's credentials
type authenticatedHandlerFunc func(w http.ResponseWriter, r *http.Request, device *models.Device)

func (a *api) authenticated(next authenticatedHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		device, err := auth.AuthenticateRequest(r, a.db)
		if err != nil {
			metrics.AuthenticationsTotal.WithLabelValues("failure").Inc()
			a.writeError(w, r, err, statusFromAuthError(err))
			return
		}

		metrics.AuthenticationsTotal.WithLabelValues("success").Inc()
		next(w, r, device)
	}
}

func (a *api) insertPoints(w http.ResponseWriter, r *http.Request, device *models.Device) {
	points, err := decodePoints(r.Body)
	if err != nil {
		a.writeError(w, r, err, http.StatusBadRequest)
		return
	}

	if err = a.db.InsertPoints(r.Context(), points, device.Username); err != nil {
		a.writeError(w, r, err, http.StatusInternalServerError)
		return
	}

	if len(points) > 0 {
		metrics.PointsInsertedTotal.Add(float64(len(points)))
		a.publish(newPointsCreated(device.Username, points))
	}

	w.WriteHeader(http.StatusCreated)
}

func (a *api) getPoints(w http.ResponseWriter, r *http.Request, device *models.Device) {
	filter, err := query.ParseFilter(r.URL.Query())
	if err != nil {
		a.writeError(w, r, err, http.StatusBadRequest)
		return
	}
	filter.Owner = device.Username

	records, err := a.db.GetPoints(r.Context(), filter)
	if err != nil {
		a.writeError(w, r, err, statusFromError(err))
		return
	}

	metrics.PointsReturnedTotal.Add(float64(len(records)))
	writeJSON(w, http.StatusOK, records)
}

func (a *api) getTrack(w http.ResponseWriter, r *http.Request, device *models.Device) {
	name := chi.URLParam(r, "name")

	track, err := a.db.GetTrack(r.Context(), name, device.Username)
	if err != nil {
		a.writeError(w, r, err, statusFromError(err))
		return
	}

	records, err := a.db.GetPoints(r.Context(), query.FromTrack(*track))
	if err != nil {
		a.writeError(w, r, err, http.StatusInternalServerError)
		return
	}

	metrics.PointsReturnedTotal.Add(float64(len(records)))
	writeJSON(w, http.StatusOK, models.TrackWithPoints{Definition: track.Spec, Points: records})
}

func (a *api) insertTrack(w http.ResponseWriter, r *http.Request, device *models.Device) {
	spec, err := decodeTrackSpec(r.Body)
	if err != nil {
		a.writeError(w, r, err, http.StatusBadRequest)
		return
	}

	track := models.Track{
		Name:  chi.URLParam(r, "name"),
		Owner: device.Username,
		Spec:  spec,
	}

	if err = a.db.InsertTrack(r.Context(), track); err != nil {
		a.writeError(w, r, err, statusFromError(err))
		return
	}

	a.publish(newTrackCreated(track))

	w.WriteHeader(http.StatusCreated)
}

func (a *api) health(w http.ResponseWriter, r *http.Request) {
	if err := a.db.Ping(r.Context()); err != nil {
		a.log.Errorf("Health check failed: %s", err.Error())
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Package middleware provides net/http middleware for the Vela server:
// Prometheus request metrics, OpenTelemetry request spans and structured
// request logging.
//
// Every constructor returns a func(http.Handler) http.Handler, so the
// middleware composes with chi's Use and with plain handlers alike:
//
//	r := chi.NewRouter()
//	r.Use(middleware.Logger(logger))
//	r.Use(middleware.OpenTelemetry(middleware.WithTracerName("my-app")))
//	r.Use(middleware.Prometheus(middleware.WithRegistry(reg)))
//
// Route labels come from chi's route pattern when the handler was routed by
// chi, so "/users/{id}" is one series rather than one per user.
package middleware

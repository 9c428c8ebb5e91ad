package httpserver

import (
	"net/http"

	"github.com/pktikkani/forecastio/internal/server/http/middleware"
	"github.com/pktikkani/forecastio/internal/server/service"
)

// Routes aggregates handlers for the HTTP server.
type Routes struct {
	Signup http.HandlerFunc
	Login  http.HandlerFunc
	Health http.HandlerFunc

	ListCustomers  http.HandlerFunc
	CreateCustomer http.HandlerFunc
	GetCustomer    http.HandlerFunc
	UpdateCustomer http.HandlerFunc
	DeleteCustomer http.HandlerFunc

	ListLocations  http.HandlerFunc
	CreateLocation http.HandlerFunc
	GetLocation    http.HandlerFunc
	DeleteLocation http.HandlerFunc

	ListMenus  http.HandlerFunc
	CreateMenu http.HandlerFunc
	DeleteMenu http.HandlerFunc

	CSVUpload http.HandlerFunc
	BulkAdd   http.HandlerFunc

	TrainModel http.HandlerFunc
	Forecast   http.HandlerFunc
}

// NewRouter wires all HTTP routes. Everything except auth and health sits
// behind the token middleware.
func NewRouter(routes Routes, tokens *service.TokenService) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.Auth(tokens)
	protected := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	mux.Handle("POST /auth/signup", routes.Signup)
	mux.Handle("POST /auth/login", routes.Login)
	mux.Handle("GET /health", routes.Health)

	mux.Handle("GET /customers/{$}", protected(routes.ListCustomers))
	mux.Handle("POST /customers/{$}", protected(routes.CreateCustomer))
	mux.Handle("GET /customers/{id}/{$}", protected(routes.GetCustomer))
	mux.Handle("PUT /customers/{id}/{$}", protected(routes.UpdateCustomer))
	mux.Handle("DELETE /customers/{id}/{$}", protected(routes.DeleteCustomer))

	mux.Handle("GET /locations/{$}", protected(routes.ListLocations))
	mux.Handle("POST /locations/{$}", protected(routes.CreateLocation))
	mux.Handle("GET /locations/{id}", protected(routes.GetLocation))
	mux.Handle("DELETE /locations/{id}", protected(routes.DeleteLocation))

	mux.Handle("GET /menus/{$}", protected(routes.ListMenus))
	mux.Handle("POST /menus/{$}", protected(routes.CreateMenu))
	mux.Handle("DELETE /menus/{id}", protected(routes.DeleteMenu))

	mux.Handle("POST /datapoints/csv_upload/{$}", protected(routes.CSVUpload))
	mux.Handle("POST /datapoints/bulk_add/{$}", protected(routes.BulkAdd))

	mux.Handle("GET /mlmodels/train_model/{$}", protected(routes.TrainModel))
	mux.Handle("GET /mlmodels/forecast/{$}", protected(routes.Forecast))

	return mux
}

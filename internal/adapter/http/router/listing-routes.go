package router

import (
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/handler"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupListingRoutes configures listing creation, browsing and detail pages.
func SetupListingRoutes(r *chi.Mux, h *handler.ListingHandler, gate *middleware.SessionGate) {
	// Detail pages are public; the session is loaded only to fill the header.
	r.Group(func(public chi.Router) {
		public.Use(gate.LoadSession)

		public.Get("/cars/{id}", h.CarDetail)
		public.Get("/properties/{id}", h.PropertyDetail)
	})

	r.Group(func(authRouter chi.Router) {
		authRouter.Use(gate.RequireSession)

		authRouter.Get("/choosecategory", h.ChooseCategory)
		authRouter.Get("/cars", h.CarForm)
		authRouter.Post("/cars", h.CreateCar)
		authRouter.Get("/properties", h.PropertyForm)
		authRouter.Post("/postproperty", h.CreateProperty)
		authRouter.Get("/carsonly", h.CarsOnly)
		authRouter.Get("/propertyonly", h.PropertyOnly)
	})
}

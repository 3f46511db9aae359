package router

import (
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/handler"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupAccountRoutes configures the dashboard, favorites and profile pages.
func SetupAccountRoutes(r *chi.Mux, h *handler.AccountHandler, gate *middleware.SessionGate) {
	r.Group(func(authRouter chi.Router) {
		authRouter.Use(gate.RequireSession)

		authRouter.Get("/dashboard", h.Dashboard)
		authRouter.Get("/myads", h.MyAds)
		authRouter.Get("/favorite", h.Favorites)
		authRouter.Get("/userprofile", h.UserProfile)
		authRouter.Get("/edituserprofile", h.EditProfilePage)
		authRouter.Post("/edituserprofile", h.EditProfile)
	})

	r.Group(func(apiRouter chi.Router) {
		apiRouter.Use(gate.RequireSessionJSON)
		apiRouter.Post("/toggle", h.Toggle)
	})
}

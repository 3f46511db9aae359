package router

import (
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/handler"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupAuthRoutes configures login, signup and logout.
func SetupAuthRoutes(r *chi.Mux, h *handler.AuthHandler, gate *middleware.SessionGate) {
	r.Group(func(public chi.Router) {
		public.Use(gate.LoadSession)

		public.Get("/", h.LoginPage)
		public.Post("/userlogin", h.Login)
		public.Get("/usersignup", h.SignupPage)
		public.Post("/usersignup", h.Signup)
	})

	r.Group(func(authRouter chi.Router) {
		authRouter.Use(gate.RequireSession)
		authRouter.Post("/logout", h.Logout)
	})
}

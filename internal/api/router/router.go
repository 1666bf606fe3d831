package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	m "github.com/RoyceAzure/lab/storefront/internal/api/middleware"
	"github.com/RoyceAzure/lab/storefront/internal/auth"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
)

func SetupRouter(server *api.Server, tokenStore *auth.TokenStore, users db.IUserRepository, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(m.RequestIdMiddleware)
	r.Use(chimiddleware.RealIP)
	r.Use(m.LoggerMiddleware(logger))
	r.Use(m.RecoverMiddleware(logger))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", server.AuthHandler.Signup)
			r.Post("/login", server.AuthHandler.Login)
			r.Post("/logout", server.AuthHandler.Logout)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", server.ProductHandler.ListProducts)
			r.Get("/{productID}", server.ProductHandler.GetProduct)
			r.With(m.AuthMiddleware(tokenStore), m.RequireAdmin(users)).Post("/", server.ProductHandler.SaveProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(m.AuthMiddleware(tokenStore))

			r.Route("/cart", func(r chi.Router) {
				r.Post("/", server.CartHandler.AddToCart)
				r.Put("/", server.CartHandler.UpdateCartItem)
				r.Get("/", server.CartHandler.GetCart)
				r.Delete("/", server.CartHandler.ClearCart)
				r.Delete("/items/{productID}", server.CartHandler.RemoveFromCart)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", server.OrderHandler.CreateOrder)
				r.Get("/", server.OrderHandler.ListOrders)
				r.Get("/{orderID}", server.OrderHandler.GetOrder)
			})
		})
	})

	return r
}

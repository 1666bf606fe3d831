package api

import (
	"github.com/RoyceAzure/lab/storefront/internal/api/handler"
)

type Server struct {
	AuthHandler    *handler.AuthHandler
	CartHandler    *handler.CartHandler
	OrderHandler   *handler.OrderHandler
	ProductHandler *handler.ProductHandler
}

func NewServer(
	authHandler *handler.AuthHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	productHandler *handler.ProductHandler,
) *Server {
	return &Server{
		AuthHandler:    authHandler,
		CartHandler:    cartHandler,
		OrderHandler:   orderHandler,
		ProductHandler: productHandler,
	}
}

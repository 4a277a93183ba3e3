// Package routes declares the API surface and binds it to controllers.
package routes

import (
	"time"

	"github.com/travlrgetaways/travlr/app/controllers"
	"github.com/travlrgetaways/travlr/pkg/metrics"
	"github.com/travlrgetaways/travlr/pkg/middleware"
	"github.com/travlrgetaways/travlr/pkg/reqid"
	"github.com/travlrgetaways/travlr/pkg/router"
)

// Controllers groups everything Register needs.
type Controllers struct {
	Auth      *controllers.AuthController
	Cart      *controllers.CartController
	Catalog   *controllers.CatalogController
	TwoFactor *controllers.TwoFactorController
}

// Register mounts every route on r.
func Register(r *router.Router, c Controllers) {
	r.Use(
		middleware.Recover,
		reqid.Middleware,
		middleware.Logger,
		metrics.Middleware,
		middleware.CORS,
	)

	api := r.Group("/api")

	// Public catalog.
	api.Get("/travel", "travel.list", c.Catalog.ListTrips)
	api.Get("/travel/{tripCode}", "travel.get", c.Catalog.GetTrip)
	api.Get("/rooms", "rooms.list", c.Catalog.ListRooms)
	api.Get("/meals", "meals.list", c.Catalog.ListMeals)

	// Catalog management, admin only.
	admin := api.Group("", middleware.Auth, middleware.Admin)
	admin.Post("/travel", "travel.create", c.Catalog.CreateTrip)
	admin.Put("/travel/{tripCode}", "travel.update", c.Catalog.UpdateTrip)
	admin.Delete("/travel/{tripCode}", "travel.delete", c.Catalog.DeleteTrip)
	admin.Post("/travel/{tripCode}/image", "travel.image", c.Catalog.UploadTripImage)

	// Accounts and sessions.
	api.Post("/register", "auth.register", c.Auth.Register)
	api.Post("/login", "auth.login", c.Auth.Login, middleware.RateLimit(10, time.Minute))
	api.Post("/guest", "auth.guest", c.Auth.RegisterGuest)
	api.Get("/checkSession", "auth.session", c.Auth.CheckSession)
	api.Post("/logout", "auth.logout", c.Auth.Logout)

	// Two-factor enrollment rides the session cookie, not the bearer token.
	api.Post("/2fa/setup", "2fa.setup", c.TwoFactor.Setup)
	api.Post("/2fa/verify", "2fa.verify", c.TwoFactor.Verify)

	// Cart, bearer token required.
	cart := api.Group("/cart", middleware.Auth)
	cart.Get("", "cart.list", c.Cart.List)
	cart.Get("/{collection}/{id}", "cart.get", c.Cart.Get)
	cart.Post("", "cart.add", c.Cart.Add)
	cart.Put("", "cart.update", c.Cart.Update)
	cart.Delete("", "cart.remove", c.Cart.Remove)
}

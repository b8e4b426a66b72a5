package routes

import (
	"net/http"
	"time"

	"project/controllers/auth"
	"project/controllers/users"
	"project/middleware"

	"github.com/gorilla/mux"
)

// UsersRoutes registers every user-facing route on the given subrouter.
func UsersRoutes(api *mux.Router) {
	// Rate limiter login/register: 60 per IP per 5 minutes
	loginLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute)
	// Rate limiter session: 120 reads / 60 writes per user per minute
	userLimiter := middleware.NewUserRateLimiter(120, 60, 60)

	// Register & Login
	api.Handle("/auth/register", loginLimiter.Middleware(http.HandlerFunc(auth.RegisterHandler))).Methods(http.MethodPost)
	api.Handle("/auth/login", loginLimiter.Middleware(http.HandlerFunc(auth.LoginHandler))).Methods(http.MethodPost)
	api.Handle("/auth/refresh", loginLimiter.Middleware(http.HandlerFunc(auth.RefreshHandler))).Methods(http.MethodPost)
	api.Handle("/auth/logout", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(auth.LogoutHandler)))).Methods(http.MethodPost)
	api.Handle("/auth/logout-all", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(auth.LogoutAllHandler)))).Methods(http.MethodPost)

	// Change password (write)
	api.Handle("/users/change-password", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ChangePasswordHandler)))).Methods(http.MethodPost)

	// User info (read)
	api.Handle("/users/info", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.InfoHandler)))).Methods(http.MethodGet)

	// Investment ledger
	api.Handle("/users/investments", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.CreateInvestmentHandler)))).Methods(http.MethodPost)
	api.Handle("/users/investments", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ListInvestmentsHandler)))).Methods(http.MethodGet)
	api.Handle("/users/investments/recent", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.RecentInvestmentsHandler)))).Methods(http.MethodGet)
	api.Handle("/users/investments/{id:[0-9]+}", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetInvestmentHandler)))).Methods(http.MethodGet)
	api.Handle("/users/investments/{id:[0-9]+}", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.DeleteInvestmentHandler)))).Methods(http.MethodDelete)
	api.Handle("/users/investments/{id:[0-9]+}/cancel", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.CancelInvestmentHandler)))).Methods(http.MethodPost)
	api.Handle("/users/investments/{id:[0-9]+}/request-cancel", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.RequestCancelHandler)))).Methods(http.MethodPost)

	// Portfolio & rewards
	api.Handle("/users/portfolio", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.PortfolioHandler)))).Methods(http.MethodGet)
	api.Handle("/users/rewards", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.RewardsHandler)))).Methods(http.MethodGet)
	api.Handle("/users/rewards/referral", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ReferralHandler)))).Methods(http.MethodGet)

	// Favorites
	api.Handle("/users/favorites", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ListFavoritesHandler)))).Methods(http.MethodGet)
	api.Handle("/users/favorites", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ToggleFavoriteHandler)))).Methods(http.MethodPost)
}

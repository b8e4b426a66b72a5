package routes

import (
	"net/http"
	"time"

	"project/controllers/admins"
	"project/middleware"

	"github.com/gorilla/mux"
)

func SetAdminRoutes(api *mux.Router) {
	// Rate limiter for admin login: 5 attempts per IP per minute
	adminLoginLimiter := middleware.NewIPRateLimiter(5, time.Minute)

	// Public admin routes
	api.Handle("/admin/login", adminLoginLimiter.Middleware(http.HandlerFunc(admins.Login))).Methods(http.MethodPost)

	// Protected admin routes
	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.AdminAuthMiddleware)

	// Dashboard stats
	adminRouter.Handle("/dashboard", http.HandlerFunc(admins.GetDashboardStats)).Methods(http.MethodGet)

	// Admin profile
	adminRouter.Handle("/profile", http.HandlerFunc(admins.GetAdminProfile)).Methods(http.MethodGet)
	adminRouter.Handle("/profile", http.HandlerFunc(admins.UpdateAdminProfile)).Methods(http.MethodPut)
	adminRouter.Handle("/password", http.HandlerFunc(admins.UpdateAdminPassword)).Methods(http.MethodPut)

	// User management
	adminRouter.Handle("/users", http.HandlerFunc(admins.GetUsers)).Methods(http.MethodGet)
	adminRouter.Handle("/users/{id:[0-9]+}", http.HandlerFunc(admins.GetUserDetail)).Methods(http.MethodGet)
	adminRouter.Handle("/users/{id:[0-9]+}/status", http.HandlerFunc(admins.UpdateUserStatus)).Methods(http.MethodPut)
	adminRouter.Handle("/users/{id:[0-9]+}/investments", http.HandlerFunc(admins.UserInvestmentsHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/user-history", http.HandlerFunc(admins.UserHistoryHandler)).Methods(http.MethodGet)

	// Investment ledger management
	adminRouter.Handle("/investments", http.HandlerFunc(admins.ListInvestmentsHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/investments/cancel-requests", http.HandlerFunc(admins.CancelRequestsHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/investments/{id:[0-9]+}/review-cancel", http.HandlerFunc(admins.ReviewCancelHandler)).Methods(http.MethodPost)

	// Property funding targets & images
	adminRouter.Handle("/properties", http.HandlerFunc(admins.ListPropertyMetasHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/properties/{id}/target", http.HandlerFunc(admins.SetPropertyTargetHandler)).Methods(http.MethodPut)
	adminRouter.Handle("/properties/{id}/image", http.HandlerFunc(admins.UploadPropertyImageHandler)).Methods(http.MethodPost)
}

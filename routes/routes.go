package routes

import (
	"epraja-api/handlers"
	"epraja-api/middleware"
	"epraja-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/register-restaurant", handlers.RegisterRestaurant)
		public.POST("/auth/login", handlers.Login)

		// Restaurants & menus (no auth needed)
		public.GET("/restaurants", handlers.ListRestaurants)
		public.GET("/restaurants/:id", handlers.GetRestaurant)
		public.GET("/restaurants/:id/menu", handlers.GetMenu)

		// Guest checkout; a valid token attaches the customer id
		public.POST("/public/restaurants/:id/orders", middleware.OptionalAuth(), handlers.PlaceOrder)

		// Order tracking deep link (intentionally unauthenticated)
		public.GET("/public/track", handlers.TrackOrder)
		public.GET("/public/track/ws", handlers.SubscribeTracking)

		// State machine info
		public.GET("/state-machine", handlers.GetStateMachineInfo)

		// Role-specific realtime feed, token via query param
		public.GET("/ws", handlers.SubscribeFeed)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/customer")
	customer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCustomer))
	{
		customer.GET("/orders", handlers.GetMyOrders)
		customer.GET("/orders/:id", handlers.GetOrderDetail)
	}

	// ── Restaurant owner routes ────────────────────────────────────
	restaurant := r.Group("/api/restaurant")
	restaurant.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleRestaurant))
	{
		// Restaurant management
		restaurant.GET("/", handlers.GetMyRestaurant)
		restaurant.PUT("/", handlers.UpdateRestaurant)
		restaurant.POST("/unlock-request", handlers.RequestUnlock)
		restaurant.GET("/messages", handlers.GetMyMessages)
		restaurant.POST("/images", handlers.HandleImage)

		// Menu management
		restaurant.POST("/menu", handlers.AddMenuItem)
		restaurant.PUT("/menu/:itemId", handlers.UpdateMenuItem)
		restaurant.DELETE("/menu/:itemId", handlers.DeleteMenuItem)

		// Order management
		restaurant.GET("/orders", handlers.GetRestaurantOrders)
		restaurant.GET("/reports", handlers.GetSalesReport)
		restaurant.PUT("/orders/:id/status", handlers.UpdateOrderStatus)
		restaurant.PUT("/orders/:id/assign", handlers.AssignCourier)
	}

	// ── Courier routes ─────────────────────────────────────────────
	courier := r.Group("/api/courier")
	courier.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCourier))
	{
		courier.GET("/orders", handlers.GetMyDeliveries)
		courier.PUT("/orders/:id/deliver", handlers.DeliverOrder)
		courier.GET("/earnings", handlers.GetEarnings)
	}

	// ── Manager routes ─────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleManager))
	{
		admin.GET("/orders", handlers.AdminGetAllOrders)
		admin.PUT("/orders/:id/status", handlers.AdminForceOrderStatus)
		admin.GET("/users", handlers.AdminGetAllUsers)
		admin.PUT("/users/:id/status", handlers.AdminSetUserStatus)
		admin.DELETE("/users/:id", handlers.AdminDeleteUser)
		admin.GET("/restaurants", handlers.AdminGetAllRestaurants)
		admin.PUT("/restaurants/:id/status", handlers.AdminSetRestaurantStatus)
		admin.PUT("/restaurants/:id/grant-access", handlers.AdminGrantAccess)
		admin.PUT("/restaurants/:id/approve-unlock", handlers.AdminApproveUnlock)
		admin.DELETE("/restaurants/:id", handlers.AdminDeleteRestaurant)
		admin.POST("/messages", handlers.PublishMessage)
		admin.GET("/messages", handlers.AdminListMessages)
	}
}

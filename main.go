package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/roles"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureAccountIndexes(db); err != nil {
		log.Printf("account index warning: %v", err)
	}
	if err := database.EnsureProfileIndexes(db); err != nil {
		log.Printf("profile index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}

	r := gin.Default()
	r.LoadHTMLGlob("templates/*.html")
	r.Static("/uploads", config.AppEnv.UploadDir)

	r.GET("/signup", handlers.Signup(db))
	r.POST("/signup", handlers.Signup(db))
	r.GET("/login", handlers.Login(db, config.AppEnv.SessionSecret, config.AppEnv.SessionTTL))
	r.POST("/login", handlers.Login(db, config.AppEnv.SessionSecret, config.AppEnv.SessionTTL))
	r.GET("/logout", handlers.Logout())
	r.POST("/logout", handlers.Logout())

	authed := r.Group("", middleware.Session(config.AppEnv.SessionSecret))
	{
		authed.GET("/", handlers.Index(db))
		authed.POST("/", handlers.Index(db))

		authed.GET("/orders", handlers.OrderList(db))
		authed.GET("/orders/:id", handlers.UpdateOrder(db))
		authed.POST("/orders/:id", handlers.UpdateOrder(db))

		authed.GET("/profile", handlers.Profile(db))
		authed.GET("/profile/edit", handlers.ProfileEdit(db, config.AppEnv.UploadDir))
		authed.POST("/profile/edit", handlers.ProfileEdit(db, config.AppEnv.UploadDir))

		admin := authed.Group("/dashboard/admin", middleware.RequireRole(roles.Admin))
		{
			admin.GET("", handlers.AdminDashboard(db))
			admin.POST("", handlers.AdminDashboard(db))
		}

		staff := authed.Group("/dashboard/staff", middleware.RequireRole(roles.Staff))
		{
			staff.GET("", handlers.StaffDashboard(db))
			staff.POST("", handlers.StaffDashboard(db))
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}

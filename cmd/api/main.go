package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/Bobybuu/real-estate-Gabby/internal/controller"
	"github.com/Bobybuu/real-estate-Gabby/internal/middleware"
	"github.com/Bobybuu/real-estate-Gabby/internal/model"
	"github.com/Bobybuu/real-estate-Gabby/internal/newsletter"
	"github.com/Bobybuu/real-estate-Gabby/pkg/config"
	"github.com/Bobybuu/real-estate-Gabby/pkg/cron"
	"github.com/Bobybuu/real-estate-Gabby/pkg/database"
	"github.com/Bobybuu/real-estate-Gabby/pkg/email"
	"github.com/Bobybuu/real-estate-Gabby/pkg/seed"
	"github.com/Bobybuu/real-estate-Gabby/pkg/storage"
	"github.com/Bobybuu/real-estate-Gabby/pkg/utils/jwt"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)

	// Public Property Routes
	api.Get("/properties", controller.ListProperties)
	api.Get("/properties/featured", controller.GetFeaturedProperties)
	api.Get("/properties/land", controller.ListLandProperties)
	api.Get("/properties/map", controller.MapProperties)
	api.Get("/properties/search", controller.SearchProperties)
	api.Get("/properties/categories", controller.GetCategories)
	api.Get("/properties/stats", controller.GetSearchStats)
	api.Get("/properties/:slug", controller.GetPropertyBySlug)
	api.Get("/properties/:id/similar", controller.GetSimilarProperties)
	api.Get("/amenities", controller.ListAmenities)

	// Public inquiries, anonymous or authenticated
	api.Post("/inquiries", middleware.OptionalAuth(), controller.CreateInquiry)

	// Public Newsletter Routes
	publicNewsletter := api.Group("/newsletter")
	publicNewsletter.Post("/subscribe", controller.Subscribe)
	publicNewsletter.Post("/unsubscribe", controller.Unsubscribe)
	publicNewsletter.Get("/unsubscribe/:token", controller.UnsubscribeByToken)
	publicNewsletter.Post("/popup/dismiss", middleware.OptionalAuth(), controller.DismissPopup)
	publicNewsletter.Get("/popup/status", middleware.OptionalAuth(), controller.ShouldShowPopup)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)
	protected.Put("/me", controller.UpdateProfile)
	protected.Put("/me/password", controller.ChangePassword)

	// Seller/agent property management
	properties := protected.Group("/my/properties",
		middleware.RequireRole(model.RoleSeller, model.RoleAgent))
	properties.Get("/", controller.ListMyProperties)
	properties.Post("/", controller.CreateProperty)
	properties.Put("/:id", middleware.CheckPropertyOwnership(), controller.UpdateProperty)
	properties.Delete("/:id", middleware.CheckPropertyOwnership(), controller.DeleteProperty)
	properties.Post("/:id/submit", middleware.CheckPropertyOwnership(), controller.SubmitProperty)
	properties.Put("/:id/status", middleware.CheckPropertyOwnership(), controller.UpdatePropertyStatus)
	properties.Put("/:id/amenities", middleware.CheckPropertyOwnership(), controller.SetPropertyAmenities)
	properties.Post("/:property_id/media", controller.UploadPropertyMedia)
	properties.Post("/:property_id/documents", controller.UploadLegalDocument)
	properties.Put("/media/:media_id/primary", controller.SetPrimaryMedia)
	properties.Delete("/media/:media_id", controller.DeletePropertyMedia)

	// Buyer features
	protected.Get("/favorites", controller.ListFavorites)
	protected.Post("/favorites/:property_id", controller.ToggleFavorite)
	protected.Get("/saved-searches", controller.ListSavedSearches)
	protected.Post("/saved-searches", controller.CreateSavedSearch)
	protected.Delete("/saved-searches/:id", controller.DeleteSavedSearch)

	// Inquiry workflow
	inquiries := protected.Group("/inquiries",
		middleware.RequireRole(model.RoleAgent))
	inquiries.Get("/", controller.ListInquiries)
	inquiries.Put("/:id/status", controller.UpdateInquiryStatus)
	inquiries.Put("/:id/assign", middleware.RequireRole(), controller.AssignInquiry)

	// Admin routes
	admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.RequireRole())
	admin.Get("/properties/pending", controller.ListPendingProperties)
	admin.Post("/properties/:id/approve", controller.ApproveProperty)
	admin.Post("/properties/:id/reject", controller.RejectProperty)

	adminNewsletter := admin.Group("/newsletter")
	adminNewsletter.Get("/subscribers", controller.GetSubscribers)
	adminNewsletter.Get("/stats", controller.GetNewsletterStats)
	adminNewsletter.Get("/templates", controller.ListTemplates)
	adminNewsletter.Post("/templates", controller.CreateTemplate)
	adminNewsletter.Put("/templates/:id", controller.UpdateTemplate)
	adminNewsletter.Get("/campaigns", controller.ListCampaigns)
	adminNewsletter.Post("/campaigns", controller.CreateCampaign)
	adminNewsletter.Post("/campaigns/:id/send", controller.SendCampaign)
	adminNewsletter.Post("/campaigns/:id/test", controller.SendTestCampaign)
	adminNewsletter.Get("/logs", controller.GetEmailLogs)
}

func main() {
	cfg := config.Load()

	jwt.Init(cfg.JWT.Secret)
	storage.Init(storage.Settings{
		AccountID:  cfg.Storage.AccountID,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Bucket:     cfg.Storage.Bucket,
		PublicBase: cfg.Storage.PublicBase,
	})

	if err := email.InitClient(cfg.Email.ResendAPIKey, cfg.Email.From, cfg.Email.ReplyTo); err != nil {
		log.Fatal("Could not initialize email client:", err)
	}

	database.InitDB(cfg.Database.DSN())
	err := database.MigrateDatabase(
		&model.User{},
		&model.UserProfile{},
		&model.SavedSearch{},
		&model.Property{},
		&model.PropertyMedia{},
		&model.PropertyImage{},
		&model.Amenity{},
		&model.PropertyAmenity{},
		&model.LegalDocument{},
		&model.PropertyContact{},
		&model.Inquiry{},
		&model.Favorite{},
		&model.EmailTemplate{},
		&model.Subscriber{},
		&model.Campaign{},
		&model.EmailLog{},
		&model.PopupDismissal{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedEmailTemplates(database.GetDB())
	seed.SeedAmenities(database.GetDB())

	stores := newsletter.NewGormStores(database.GetDB())
	newsletterService := newsletter.NewService(stores, email.GlobalClient, cfg.SiteURL)
	controller.InitNewsletterController(newsletterService)

	cron.InitCampaignScheduler(newsletterService, stores.Campaigns)
	cron.InitPropertyAlertsCron(newsletterService)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}

package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/itsmeter/piggy-point-plan/internal/advisor"
	"github.com/itsmeter/piggy-point-plan/internal/config"
	"github.com/itsmeter/piggy-point-plan/internal/database"
	"github.com/itsmeter/piggy-point-plan/internal/handlers"
	"github.com/itsmeter/piggy-point-plan/internal/middleware"
	"github.com/itsmeter/piggy-point-plan/internal/repository"
	"github.com/itsmeter/piggy-point-plan/internal/services"
	"github.com/spf13/cobra"

	_ "github.com/itsmeter/piggy-point-plan/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServer(); err != nil {
			log.Fatal(err)
		}
	},
}

// @title           Piggy Point Plan API
// @version         1.0
// @description     Personal budgeting with savings projects, PiggyPoints and an AI financial advisor
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token
func main() {
	Execute()
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	pointsRepo := repository.NewPointsRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	shopRepo := repository.NewShopRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	advisorRepo := repository.NewAdvisorRepository(db)

	authService := services.NewAuthService(userRepo, pointsRepo, settingsRepo, db, cfg.JWT.Secret, time.Duration(cfg.JWT.TTLHours)*time.Hour)
	pointsService := services.NewPointsService(pointsRepo, db)
	achievementService := services.NewAchievementService(achievementRepo, transactionRepo, projectRepo, settingsRepo, pointsService, db)
	transactionService := services.NewTransactionService(transactionRepo, budgetRepo, projectRepo, achievementService, db)
	budgetService := services.NewBudgetService(budgetRepo)
	projectService := services.NewProjectService(projectRepo, transactionRepo, achievementService, db)
	shopService := services.NewShopService(shopRepo, settingsRepo, pointsService, db)
	settingsService := services.NewSettingsService(settingsRepo, achievementService)

	completer := advisor.NewClient(cfg.Advisor.GatewayURL, cfg.Advisor.APIKey, cfg.Advisor.Model)
	advisorService := services.NewAdvisorService(advisorRepo, transactionRepo, budgetRepo, completer, cfg.Advisor.PlansPerDay, cfg.Advisor.ChatsPerHour)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	adminMiddleware := middleware.NewAdminMiddleware(cfg.AdminUsers)

	authHandler := handlers.NewAuthHandler(authService)
	pointsHandler := handlers.NewPointsHandler(pointsService, achievementService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	projectHandler := handlers.NewProjectHandler(projectService)
	achievementHandler := handlers.NewAchievementHandler(achievementService)
	shopHandler := handlers.NewShopHandler(shopService, pointsService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	advisorHandler := handlers.NewAdvisorHandler(advisorService)
	adminHandler := handlers.NewAdminHandler(achievementRepo, shopRepo)

	router := gin.Default()

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/docs", handlers.SwaggerUIWithBearerFix())

	api := router.Group("/api/v1")
	{
		api.POST("/auth/signup", authHandler.SignUp)
		api.POST("/auth/signin", authHandler.SignIn)

		authenticated := api.Group("")
		authenticated.Use(authMiddleware.RequireAuth())
		{
			authenticated.GET("/points", pointsHandler.GetAccount)
			authenticated.GET("/points/daily-reward", pointsHandler.CanClaimDailyReward)
			authenticated.POST("/points/daily-reward", pointsHandler.ClaimDailyReward)

			authenticated.POST("/transactions", transactionHandler.Create)
			authenticated.GET("/transactions", transactionHandler.List)
			authenticated.GET("/transactions/summary", transactionHandler.Summary)
			authenticated.DELETE("/transactions/:id", transactionHandler.Delete)

			authenticated.POST("/budgets", budgetHandler.Create)
			authenticated.GET("/budgets", budgetHandler.List)
			authenticated.PUT("/budgets/:id", budgetHandler.Update)
			authenticated.PUT("/budgets/:id/status", budgetHandler.SetStatus)
			authenticated.DELETE("/budgets/:id", budgetHandler.Delete)

			authenticated.POST("/projects", projectHandler.Create)
			authenticated.GET("/projects", projectHandler.List)
			authenticated.PUT("/projects/:id", projectHandler.Update)
			authenticated.DELETE("/projects/:id", projectHandler.Delete)
			authenticated.POST("/projects/:id/contributions", projectHandler.AddContribution)
			authenticated.POST("/projects/:id/complete", projectHandler.Complete)

			authenticated.GET("/achievements", achievementHandler.List)
			authenticated.GET("/achievements/earned", achievementHandler.Earned)
			authenticated.GET("/achievements/progress", achievementHandler.Progress)
			authenticated.POST("/achievements/:id/claim", achievementHandler.Claim)

			authenticated.GET("/shop/items", shopHandler.List)
			authenticated.POST("/shop/purchase", shopHandler.Purchase)
			authenticated.POST("/shop/equip", shopHandler.Equip)
			authenticated.GET("/shop/equipped", shopHandler.Equipped)

			authenticated.GET("/settings", settingsHandler.Get)
			authenticated.PUT("/settings", settingsHandler.Update)
			authenticated.POST("/settings/first-setup", settingsHandler.CompleteFirstSetup)

			authenticated.POST("/advisor", advisorHandler.Invoke)
			authenticated.POST("/advisor/character", advisorHandler.SelectCharacter)
			authenticated.GET("/advisor/settings", advisorHandler.Settings)
			authenticated.GET("/advisor/chats", advisorHandler.ChatHistory)
		}

		admin := api.Group("/admin")
		admin.Use(authMiddleware.RequireAuth())
		admin.Use(adminMiddleware.RequireAdmin())
		{
			admin.POST("/achievements", adminHandler.CreateAchievement)
			admin.GET("/shop/items", adminHandler.ListShopItems)
			admin.POST("/shop/items", adminHandler.CreateShopItem)
			admin.PUT("/shop/items/:id", adminHandler.UpdateShopItem)
		}
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Piggy Point Plan server on %s", addr)
	return router.Run(addr)
}

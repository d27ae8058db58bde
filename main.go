// @title           Fasercon API
// @version         1.0
// @description     Backend for the Fasercon metal roofing sites: public quote submission and the operations dashboard.

// @contact.name   API Support
// @contact.url    https://fasercon.cl

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      api.fasercon.cl

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @schemes http https
package main

import (
	"backend/handlers"
	"backend/services"
	"backend/storage"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"https://fasercon.cl",
		"https://www.fasercon.cl",
		"https://panel.fasercon.cl",
		"https://rymtechos.cl",
		"https://vimaltechos.cl",
		"http://localhost:3000",
		"http://localhost:5173",
		"http://localhost:8080",
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding", "X-XSRF-TOKEN",
		"Accept", "Origin", "X-Requested-With", "Authorization", "User-Agent",
		"Cache-Control", "Referer",
		"Access-Control-Request-Method", "Access-Control-Request-Headers",
		"Accept-Language", "DNT", "Connection",
	}
	corsConfig.AllowMethods = []string{
		"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length", "Authorization", "Content-Type", "Content-Disposition",
		"X-Correlative",
	}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}

func main() {
	db := storage.InitDB()
	gormDB := storage.InitGormDB()
	elevatedDB := storage.InitElevatedGormDB()

	mailer := services.NewEmailService()

	// Hourly maintenance: expired sessions and consumed reset tokens.
	c := cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))),
	)
	_, err := c.AddFunc("0 * * * *", func() {
		if err := storage.CleanupExpiredSessions(db); err != nil {
			log.Printf("cron: cleanup sessions: %v", err)
		}
		if err := storage.CleanupExpiredResetTokens(db); err != nil {
			log.Printf("cron: cleanup reset tokens: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule maintenance cron job: %v", err)
	}
	c.Start()

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(CORSConfig()))

	// ==================== 1. AUTH & SESSIONS ====================
	r.POST("/api/login", handlers.Login(db))
	r.POST("/api/logout", handlers.Logout(db))
	r.POST("/api/refresh", handlers.RefreshToken(db))
	r.GET("/api/validate-session", handlers.ValidateSession(db))
	r.POST("/api/forget-password", handlers.RequestPasswordReset(gormDB, mailer))
	r.POST("/api/reset-password", handlers.ConfirmPasswordReset(gormDB))

	// ==================== 2. PUBLIC QUOTE FLOW ====================
	// Submission writes through the elevated connection; the dashboard reads
	// below stay on the restricted one.
	r.POST("/api/quotes", handlers.SubmitQuote(elevatedDB, mailer))
	r.GET("/api/correlative/next", handlers.NextCorrelativeHandler(gormDB))
	// Legacy alias kept for older frontend builds.
	r.GET("/api/quotes/next-correlative", handlers.NextCorrelativeHandler(gormDB))

	// ==================== 3. QUOTES (DASHBOARD) ====================
	r.GET("/api/quotes", handlers.GetAllQuotes(gormDB))
	r.GET("/api/quotes/export", handlers.ExportQuotesXLSX(gormDB))
	r.GET("/api/quotes/:id", handlers.GetQuoteByID(gormDB))
	r.PATCH("/api/quotes/:id", handlers.UpdateQuote(gormDB))
	r.GET("/api/quotes/:id/pdf", handlers.DownloadQuotePDF(gormDB))
	r.GET("/api/quotes/:id/qr", handlers.GenerateQuoteQRCodeJPEG(gormDB))

	// ==================== 4. QUOTE ITEMS ====================
	r.POST("/api/quotes/items", handlers.CreateQuoteItem(gormDB))
	r.PATCH("/api/quotes/items/:id", handlers.UpdateQuoteItem(gormDB))
	r.DELETE("/api/quotes/items/:id", handlers.DeleteQuoteItem(gormDB))

	// ==================== 5. QUOTE VERSIONS ====================
	r.POST("/api/quotes/:id/versions", handlers.CreateQuoteVersion(gormDB))
	r.GET("/api/quotes/:id/versions", handlers.ListQuoteVersions(gormDB))
	r.GET("/api/quotes/:id/versions/:version", handlers.GetQuoteVersion(gormDB))

	// ==================== 6. PRODUCT CATALOG ====================
	r.GET("/api/products", handlers.GetProducts(gormDB))
	r.GET("/api/products/:id", handlers.GetProductByID(gormDB))
	r.POST("/api/products", handlers.CreateProduct(gormDB))
	r.PUT("/api/products/:id", handlers.UpdateProduct(gormDB))
	r.DELETE("/api/products/:id", handlers.DeleteProduct(gormDB))

	// ==================== 7. CLIENTS ====================
	r.GET("/api/clients", handlers.GetClients(gormDB))
	r.POST("/api/clients", handlers.CreateClient(gormDB))
	r.PUT("/api/clients/:id", handlers.UpdateClient(gormDB))
	r.DELETE("/api/clients/:id", handlers.DeleteClient(gormDB))

	// ==================== 8. SUPPLIERS ====================
	r.GET("/api/suppliers", handlers.GetSuppliers(gormDB))
	r.POST("/api/suppliers", handlers.CreateSupplier(gormDB))
	r.PUT("/api/suppliers/:id", handlers.UpdateSupplier(gormDB))
	r.DELETE("/api/suppliers/:id", handlers.DeleteSupplier(gormDB))

	// ==================== 9. SERVICES (MARKETING SITE) ====================
	r.GET("/api/services", handlers.GetServices(gormDB))
	r.POST("/api/services", handlers.CreateService(gormDB))
	r.PUT("/api/services/:id", handlers.UpdateService(gormDB))
	r.DELETE("/api/services/:id", handlers.DeleteService(gormDB))

	// ==================== 10. USERS ====================
	r.GET("/api/users", handlers.GetUsers(gormDB))
	r.POST("/api/users", handlers.CreateUser(gormDB))
	r.PUT("/api/users/:id", handlers.UpdateUser(gormDB))
	r.DELETE("/api/users/:id", handlers.DeleteUser(gormDB))

	// ==================== 11. CONTACT FORMS ====================
	r.POST("/api/contact", handlers.SubmitContactForm(elevatedDB))
	r.GET("/api/contact", handlers.GetContactForms(gormDB))
	r.PATCH("/api/contact/:id/status", handlers.UpdateContactFormStatus(gormDB))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}
	portInt, err := strconv.Atoi(port)
	if err != nil {
		log.Fatalf("Invalid PORT environment variable: %s. Must be a number.", port)
	}
	if portInt < 0 || portInt > 65535 {
		log.Fatalf("Invalid PORT: %d. Must be between 0 and 65535.", portInt)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}

package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/mxvel/topupmart/internal/config"
	"github.com/mxvel/topupmart/internal/metrics"
	"github.com/mxvel/topupmart/internal/server/http/handlers"
	"github.com/mxvel/topupmart/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StoreFacade, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(m.Middleware())
	engine.Use(middleware.DecompressRequest())
	// Websocket upgrades must not pass through the gzip writer.
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{`.*/stream$`})))

	authHandler := handlers.NewAuthHandler(facade)
	catalogHandler := handlers.NewCatalogHandler(facade)
	lookupHandler := handlers.NewLookupHandler(facade)
	checkoutHandler := handlers.NewCheckoutHandler(facade, m)
	orderHandler := handlers.NewOrderHandler(facade, cfg.StatusPushEvery, logger)
	balanceHandler := handlers.NewBalanceHandler(facade)
	callbackHandler := handlers.NewCallbackHandler(facade, []byte(cfg.GatewaySecret), logger)

	engine.GET("/metrics", gin.WrapH(m.Handler()))

	api := engine.Group("/api")
	api.GET("/products", catalogHandler.List)
	api.GET("/products/:sku", catalogHandler.Get)
	api.POST("/payments/callback", callbackHandler.Callback)

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	userAuth := user.Group("")
	userAuth.Use(middleware.AuthRequired(facade))
	userAuth.POST("/lookup", lookupHandler.Lookup)
	userAuth.POST("/checkout", checkoutHandler.Checkout)
	userAuth.POST("/topup", checkoutHandler.Topup)
	userAuth.GET("/orders", orderHandler.List)
	userAuth.GET("/orders/:id", orderHandler.Get)
	userAuth.GET("/orders/:id/stream", orderHandler.Stream)
	userAuth.GET("/balance", balanceHandler.Summary)
	userAuth.GET("/ledger", balanceHandler.Ledger)

	return engine
}

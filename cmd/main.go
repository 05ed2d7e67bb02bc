package main

import (
	"artcase-backend/config"
	"artcase-backend/internal/api/admin"
	"artcase-backend/internal/api/catalog"
	"artcase-backend/internal/api/community"
	"artcase-backend/internal/api/design"
	"artcase-backend/internal/api/editor"
	"artcase-backend/internal/api/moderation"
	"artcase-backend/internal/api/order"
	"artcase-backend/internal/api/user"
	"artcase-backend/internal/assets"
	"artcase-backend/internal/cache"
	"artcase-backend/internal/classifier"
	"artcase-backend/internal/errors"
	"artcase-backend/internal/fulfillment"
	"artcase-backend/internal/middleware"
	"artcase-backend/internal/repository/mysql"
	"artcase-backend/internal/service"
	"artcase-backend/internal/storage"
	"artcase-backend/internal/util"
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	db := openDB()
	defer db.Close()

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := util.RegisterValidators(v); err != nil {
			util.Logger.Fatal("注册验证器失败", zap.Error(err))
		}
	}

	if config.AppConfig.StorageDriver == "local" {
		ensureUploadsFolder()
	}
	fileStorage, err := storage.New(config.AppConfig)
	if err != nil {
		util.Logger.Fatal("初始化文件存储失败", zap.Error(err))
	}

	// Redis 可选，未配置时使用进程内缓存
	var (
		rdb       *redis.Client
		store     cache.Store
		blacklist cache.TokenBlacklist
	)
	if config.AppConfig.RedisAddr != "" {
		rdb, err = cache.ConnectRedis(config.AppConfig.RedisAddr, config.AppConfig.RedisPassword, config.AppConfig.RedisDB)
		if err != nil {
			util.Logger.Fatal("连接 Redis 失败", zap.Error(err))
		}
		store = cache.NewRedisStore(rdb, "artcase:")
		blacklist = cache.NewRedisBlacklist(rdb)
	} else {
		util.Logger.Warn("未配置 REDIS_ADDR，使用内存缓存")
		store = cache.NewMemoryStore()
		blacklist = cache.NewMemoryBlacklist()
	}
	defer cache.DisconnectRedis(rdb)

	// 初始化存储库
	userRepo := mysql.NewUserRepository(db)
	discountRepo := mysql.NewDiscountRepository(db)
	designRepo := mysql.NewDesignRepository(db)
	communityRepo := mysql.NewCommunityRepository(db)
	notificationRepo := mysql.NewNotificationRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	productRepo := mysql.NewPhoneProductRepository(db)
	reportRepo := mysql.NewReportRepository(db)
	announcementRepo := mysql.NewAnnouncementRepository(db)
	analyticsRepo := mysql.NewAnalyticsRepository(db)

	// 外部服务
	emailService := service.NewEmailService(config.AppConfig)
	var designClassifier service.Classifier
	if config.AppConfig.ClassifierURL != "" {
		designClassifier = classifier.NewGradioClient(config.AppConfig.ClassifierURL,
			time.Duration(config.AppConfig.ClassifierTimeout)*time.Second)
	} else {
		util.Logger.Warn("未配置 CLASSIFIER_URL，新设计分类为 unknown")
	}
	printer := fulfillment.NewGootenClient(config.AppConfig.GootenBaseURL, config.AppConfig.GootenAPIKey,
		config.AppConfig.GootenRecipeID, config.AppConfig.GootenBillingKey, 60*time.Second)
	editorAssets := assets.NewClient(config.AppConfig.FreepikBaseURL, config.AppConfig.FreepikAPIKey,
		config.AppConfig.EmojiBaseURL, config.AppConfig.EmojiAPIKey, 30*time.Second)
	errorAnalytics := errors.NewErrorAnalytics()

	// 初始化服务
	discountService := service.NewDiscountService(discountRepo)
	userService := service.NewUserService(userRepo, discountService, blacklist, fileStorage, config.AppConfig.DefaultProfilePic)
	notificationService := service.NewNotificationService(notificationRepo)
	designService := service.NewDesignService(designRepo, designClassifier, fileStorage)
	communityService := service.NewCommunityService(communityRepo, designRepo, userRepo, notificationService)
	cartService := service.NewCartService(cartRepo, designRepo, discountService)
	orderService := service.NewOrderService(orderRepo, emailService)
	productService := service.NewPhoneProductService(productRepo)
	reportService := service.NewReportService(reportRepo, communityRepo)
	announcementService := service.NewAnnouncementService(announcementRepo, fileStorage)
	analyticsService := service.NewAnalyticsService(analyticsRepo, store,
		time.Duration(config.AppConfig.AnalyticsCacheTTL)*time.Second)
	statsService := service.NewStatsService(userRepo, communityRepo)
	adminService := service.NewAdminService(userRepo, discountService, emailService, errorAnalytics)
	fulfillmentService := service.NewFulfillmentService(designRepo, fileStorage, printer, printer.HTTPClient())
	editorService := service.NewEditorService(printer, editorAssets, store,
		time.Duration(config.AppConfig.EditorCacheTTL)*time.Second)

	// 初始化处理器
	authHandler := user.NewAuthHandler(userService)
	profileHandler := user.NewProfileHandler(userService, discountService)
	notificationHandler := user.NewNotificationHandler(notificationService)
	designHandler := design.NewDesignHandler(designService)
	communityHandler := community.NewCommunityHandler(communityService)
	cartHandler := order.NewCartHandler(cartService)
	orderHandler := order.NewOrderHandler(orderService)
	catalogHandler := catalog.NewCatalogHandler(productService)
	editorHandler := editor.NewEditorHandler(editorService)
	moderationHandler := moderation.NewModerationHandler(reportService, announcementService)
	adminHandler := admin.NewAdminHandler(adminService, analyticsService, statsService, fulfillmentService)

	rateLimiter := middleware.NewRateLimiter(config.AppConfig.RateLimitRPS, config.AppConfig.RateLimitBurst)
	defer rateLimiter.Stop()

	// 设置 Gin 路由
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorAnalytics))
	r.Use(middleware.RecoveryMiddleware())

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
		"X-Request-ID",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length",
		"Content-Type",
		"X-Request-ID",
	}
	r.Use(cors.New(corsConfig))

	// 静态文件的 CORS
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			c.Header("Access-Control-Allow-Origin", config.AppConfig.FrontendURL)
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type")

			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(200)
				return
			}
		}
		c.Next()
	})

	if config.AppConfig.StorageDriver == "local" {
		r.Static("/uploads", config.AppConfig.LocalStoragePath)
	}

	auth := middleware.AuthMiddleware(userService)
	optionalAuth := middleware.OptionalAuthMiddleware(userService)

	// 定义 API 路由
	api := r.Group("/api")
	api.Use(rateLimiter.Limit())
	{
		// 用户相关路由
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.GET("/users/top", profileHandler.TopUsers)
		api.GET("/users/:id", profileHandler.GetUserDetails)
		api.GET("/users/:id/posts", optionalAuth, communityHandler.UserPosts)
		api.GET("/users/:id/posts/most-liked", optionalAuth, communityHandler.UserMostLikedPosts)
		api.GET("/users/:id/posts/most-commented", optionalAuth, communityHandler.UserMostCommentedPosts)

		// 设计
		api.POST("/designs/anonymous", designHandler.CreateAnonymousDesign)
		api.POST("/designs/upload", designHandler.UploadImage)
		api.GET("/designs/most-added", cartHandler.MostAddedDesigns)
		api.GET("/designs/most-liked", optionalAuth, communityHandler.MostLikedDesigns)
		api.GET("/designs/:id", designHandler.GetDesign)

		// 帖子
		api.GET("/posts", optionalAuth, communityHandler.RecentPosts)
		api.GET("/posts/:id", optionalAuth, communityHandler.GetPost)
		api.GET("/posts/:id/comments", communityHandler.ListComments)

		// 下单支持游客
		api.POST("/checkout", optionalAuth, orderHandler.Checkout)

		api.GET("/phone-products", catalogHandler.List)
		api.GET("/phone-products/:id", catalogHandler.Get)
		api.GET("/announcements", moderationHandler.ListAnnouncements)
		api.GET("/print/phone-cases", editorHandler.PhoneCases)
		api.GET("/print/templates", editorHandler.Templates)
		api.GET("/editor/stickers", editorHandler.Stickers)
		api.GET("/editor/emoji", editorHandler.Emoji)

		// 需要认证的路由
		authorized := api.Group("/")
		authorized.Use(auth)
		{
			authorized.POST("/logout", authHandler.Logout)
			authorized.POST("/refresh-token", authHandler.RefreshToken)
			authorized.GET("/profile", profileHandler.GetProfile)
			authorized.PUT("/profile", profileHandler.UpdateProfile)
			authorized.POST("/profile/avatar", profileHandler.UploadAvatar)
			authorized.GET("/discount", profileHandler.DiscountInfo)

			authorized.POST("/designs", designHandler.CreateDesign)
			authorized.POST("/designs/associate", designHandler.AssociateDesign)
			authorized.DELETE("/designs/:id", designHandler.DeleteDesign)
			authorized.DELETE("/designs/:id/likes", communityHandler.RemoveLikesByDesign)
			authorized.DELETE("/designs/:id/favorites", communityHandler.RemoveFavoritesByDesign)

			authorized.POST("/posts", communityHandler.CreatePost)
			authorized.DELETE("/posts/:id", communityHandler.DeletePost)
			authorized.POST("/posts/:id/like", communityHandler.ToggleLike)
			authorized.POST("/posts/:id/favorite", communityHandler.ToggleFavorite)
			authorized.POST("/posts/:id/comments", communityHandler.AddComment)
			authorized.DELETE("/comments/:id", communityHandler.DeleteComment)

			me := authorized.Group("/me")
			{
				me.GET("/posts", communityHandler.MyPosts)
				me.GET("/liked-posts", communityHandler.LikedPosts)
				me.GET("/favorited-posts", communityHandler.FavoritedPosts)
				me.GET("/designs", designHandler.MyDesigns)
				me.GET("/orders", orderHandler.MyOrders)
			}

			authorized.GET("/notifications", notificationHandler.List)
			authorized.POST("/notifications/read-all", notificationHandler.MarkAllRead)
			authorized.DELETE("/notifications/:id", notificationHandler.Delete)

			authorized.GET("/cart", cartHandler.ViewCart)
			authorized.POST("/cart", cartHandler.AddToCart)
			authorized.DELETE("/cart/:id", cartHandler.RemoveFromCart)

			authorized.GET("/orders/:id", orderHandler.GetOrder)
			authorized.POST("/orders/:id/cancel", orderHandler.CancelOrder)
			authorized.POST("/orders/associate", orderHandler.AssociateOrder)
			authorized.POST("/orders/associate-many", orderHandler.AssociateOrders)

			authorized.POST("/reports", moderationHandler.CreateReport)
		}

		// 运营人员路由组
		staffRoutes := api.Group("/staff")
		staffRoutes.Use(auth, middleware.StaffMiddleware(userService))
		{
			staffRoutes.POST("/announcements", moderationHandler.CreateAnnouncement)
			staffRoutes.DELETE("/announcements/:id", moderationHandler.DeleteAnnouncement)
			staffRoutes.PUT("/announcements/:id/position", moderationHandler.RepositionAnnouncement)
		}

		// 管理员路由组
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(auth, middleware.AdminMiddleware(userService))
		{
			// 用户管理
			userAdmin := adminRoutes.Group("/users")
			{
				userAdmin.GET("", adminHandler.GetUsers)
				userAdmin.PUT("/:id/status", adminHandler.UpdateUserStatus)
				userAdmin.PUT("/:id/discount", adminHandler.SetUserDiscount)
			}

			// 订单管理
			orderAdmin := adminRoutes.Group("/orders")
			{
				orderAdmin.GET("", orderHandler.ListOrders)
				orderAdmin.GET("/:id", orderHandler.GetOrder)
				orderAdmin.PUT("/:id/status", orderHandler.UpdateOrderStatus)
				orderAdmin.POST("/:id/cancel", orderHandler.CancelOrder)
				orderAdmin.POST("/fulfill", adminHandler.Fulfill)
			}

			// 内容管理
			adminRoutes.GET("/posts", communityHandler.AllPosts)
			adminRoutes.DELETE("/posts/:id", communityHandler.DeletePost)
			adminRoutes.DELETE("/comments/:id", communityHandler.DeleteComment)
			adminRoutes.GET("/reports", moderationHandler.ListReports)
			adminRoutes.POST("/reports/:id/action", moderationHandler.HandleReport)

			// 目录管理
			productAdmin := adminRoutes.Group("/phone-products")
			{
				productAdmin.POST("", catalogHandler.Create)
				productAdmin.PUT("/:id", catalogHandler.Update)
				productAdmin.DELETE("/:id", catalogHandler.Delete)
			}

			// 系统管理
			adminRoutes.GET("/analytics", adminHandler.GetAnalytics)
			adminRoutes.GET("/stats", adminHandler.GetSystemStats)
			adminRoutes.GET("/error-stats", adminHandler.GetErrorStats)
		}
	}

	if config.AppConfig.Debug {
		for _, route := range r.Routes() {
			util.Logger.Debug("路由",
				zap.String("method", route.Method),
				zap.String("path", route.Path),
				zap.String("handler", route.Handler))
		}
	}

	srv := &http.Server{
		Addr:              ":" + config.AppConfig.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		util.Logger.Info("服务器正在启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Error("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}

// openDB 连接 MySQL 并配置连接池
func openDB() *sql.DB {
	dsn := config.AppConfig.MySQLDSN("")

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db
}

// 确保上传文件夹存在
func ensureUploadsFolder() {
	uploadsPath := config.AppConfig.LocalStoragePath
	if err := os.MkdirAll(uploadsPath, 0755); err != nil {
		util.Logger.Fatal("创建上传文件夹失败", zap.Error(err), zap.String("path", uploadsPath))
	}
	util.Logger.Info("上传文件夹已创建或已存在", zap.String("path", uploadsPath))
}

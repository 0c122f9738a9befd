package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/auth"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/awards"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/blogs"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/cache"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/captcha"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/categories"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/config"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/contacts"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/db"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/handlers"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/impact"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/middleware"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/notifications"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/photos"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/rescues"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/storage"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/testimonials"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/validation"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/videos"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/visitors"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/volunteers"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		log.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	client, cols, err := db.Connect(connectCtx, cfg.MongoURI, cfg.MongoDB)
	cancel()
	if err != nil {
		log.Error("mongo connect failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()
	log.Info("mongo connected", slog.String("db", cfg.MongoDB))

	if err := db.EnsureIndexes(context.Background(), cols); err != nil {
		log.Error("index setup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var store cache.Cache = cache.NewNoop()
	switch {
	case cfg.RedisURL != "":
		rc, err := cache.NewRedisFromURL(cfg.RedisURL)
		if err != nil {
			log.Warn("redis url invalid, caching disabled", slog.String("error", err.Error()))
		} else if err := rc.Ping(context.Background()); err != nil {
			log.Warn("redis unreachable, caching disabled", slog.String("error", err.Error()))
		} else {
			store = rc
			log.Info("redis cache enabled")
		}
	case cfg.RedisAddr != "":
		rc := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rc.Ping(context.Background()); err != nil {
			log.Warn("redis unreachable, caching disabled", slog.String("error", err.Error()))
		} else {
			store = rc
			log.Info("redis cache enabled")
		}
	}
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second

	blobs, err := storage.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		log.Error("cloudinary setup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	tokens := &auth.Manager{
		Secret: []byte(cfg.JWTSecret),
		TTL:    time.Duration(cfg.TokenTTLHours) * time.Hour,
		Issuer: "prapti-backend",
	}

	var guard *captcha.Guard
	if cfg.RecaptchaSecret != "" {
		guard = &captcha.Guard{
			Verifier:       captcha.NewVerifier(cfg.RecaptchaSecret),
			AllowDevBypass: cfg.AllowDevBypass,
			Env:            cfg.Env,
		}
	} else {
		log.Warn("RECAPTCHA_SECRET not set, captcha checks disabled")
	}

	var mailer *notifications.BrevoClient
	if cfg.BrevoAPIKey != "" {
		mailer = notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.BrevoSandbox)
	} else {
		log.Warn("BREVO_API_KEY not set, admin alert mails disabled")
	}

	val := validation.New()

	categoryService := categories.NewService(categories.NewRepository(cols.Categories), cfg.Timezone)
	photoService := photos.NewService(photos.NewRepository(cols.Photos), categoryService, blobs, cfg.Timezone, log)
	videoService := videos.NewService(videos.NewRepository(cols.Videos), categoryService, blobs, cfg.Timezone, log)
	blogService := blogs.NewService(blogs.NewRepository(cols.Blogs), categoryService, blobs, cfg.Timezone, log)
	awardService := awards.NewService(awards.NewRepository(cols.Awards), categoryService, blobs, cfg.Timezone, log)
	rescueService := rescues.NewService(rescues.NewRepository(cols.Rescues), blobs, cfg.Timezone, log)
	testimonialService := testimonials.NewService(testimonials.NewRepository(cols.Testimonials), cfg.Timezone)
	contactService := contacts.NewService(contacts.NewRepository(cols.Contacts), guard, mailer, cfg.AdminAlertEmail, cfg.Timezone, log)
	volunteerService := volunteers.NewService(volunteers.NewRepository(cols.Volunteers), guard, mailer, cfg.AdminAlertEmail, cfg.Timezone, log)
	visitorService := visitors.NewService(visitors.NewRepository(cols.Visitors), cfg.Timezone)
	impactService := impact.NewService(impact.NewRepository(cols.Impact))

	// Category deletion consults every entity type that embeds one.
	categoryService.RegisterUsageCheck(photoService.UsesCategory)
	categoryService.RegisterUsageCheck(videoService.UsesCategory)
	categoryService.RegisterUsageCheck(blogService.UsesCategory)
	categoryService.RegisterUsageCheck(awardService.UsesCategory)

	categoryHandler := categories.NewHandler(categoryService, val, log)
	photoHandler := photos.NewHandler(photoService, val, store, cacheTTL, log)
	videoHandler := videos.NewHandler(videoService, val, log)
	blogHandler := blogs.NewHandler(blogService, val, log)
	awardHandler := awards.NewHandler(awardService, val, log)
	rescueHandler := rescues.NewHandler(rescueService, val, log)
	testimonialHandler := testimonials.NewHandler(testimonialService, val, log)
	contactHandler := contacts.NewHandler(contactService, val, log)
	volunteerHandler := volunteers.NewHandler(volunteerService, val, log)
	visitorHandler := visitors.NewHandler(visitorService, store, cacheTTL, log)
	impactHandler := impact.NewHandler(impactService, val, log)

	server := &handlers.Server{
		Cols:   cols,
		Val:    val,
		Log:    log,
		Tokens: tokens,
		Store:  blobs,
	}
	adminAuth := middleware.AdminAuth(tokens, server.FindAdmin)

	window := time.Duration(cfg.RateLimitWindowSec) * time.Second
	apiLimiter := middleware.NewRateLimiter(cfg.RateLimitAPI, window)
	authLimiter := middleware.NewRateLimiter(cfg.RateLimitAuth, window)
	formLimiter := middleware.NewRateLimiter(cfg.RateLimitForm, window)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.FrontendOrigins))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/", server.Health)

	r.Route("/api", func(api chi.Router) {
		api.Use(apiLimiter.Middleware)

		api.With(authLimiter.Middleware).Post("/admin/login", server.AdminLogin)
		api.With(adminAuth).Post("/admin/logout", server.AdminLogout)

		api.With(adminAuth).Get("/categories", categoryHandler.AdminList)
		api.With(adminAuth).Post("/categories", categoryHandler.AdminCreate)
		api.With(adminAuth).Put("/categories/{id}", categoryHandler.AdminUpdate)
		api.With(adminAuth).Delete("/categories/{id}", categoryHandler.AdminDelete)
		api.Get("/categories/{type}", categoryHandler.ListByType)

		api.Get("/photos", photoHandler.List)
		api.Get("/photos/search", photoHandler.Search)
		api.Get("/photos/category/{category}", photoHandler.ListByCategory)
		api.Get("/photos/{id}", photoHandler.Get)
		api.With(adminAuth).Post("/photos", photoHandler.AdminCreate)
		api.With(adminAuth).Post("/photos/upload", photoHandler.AdminUpload)
		api.With(adminAuth).Post("/photos/upload-multiple", photoHandler.AdminUploadMultiple)
		api.With(adminAuth).Patch("/photos/{id}", photoHandler.AdminUpdate)
		api.With(adminAuth).Patch("/photos/{id}/upload", photoHandler.AdminUploadUpdate)
		api.With(adminAuth).Delete("/photos/{id}", photoHandler.AdminDelete)

		api.Get("/awards", awardHandler.List)
		api.Get("/awards/{id}", awardHandler.Get)
		api.With(adminAuth).Post("/awards", awardHandler.AdminCreate)
		api.With(adminAuth).Post("/awards/upload", awardHandler.AdminUpload)
		api.With(adminAuth).Patch("/awards/{id}", awardHandler.AdminUpdate)
		api.With(adminAuth).Patch("/awards/{id}/upload", awardHandler.AdminUploadUpdate)
		api.With(adminAuth).Delete("/awards/{id}", awardHandler.AdminDelete)

		api.Get("/videos", videoHandler.List)
		api.Get("/videos/{id}", videoHandler.Get)
		api.With(adminAuth).Post("/videos/upload", videoHandler.AdminUpload)
		api.With(adminAuth).Patch("/videos/{id}", videoHandler.AdminUpdate)
		api.With(adminAuth).Delete("/videos/{id}", videoHandler.AdminDelete)

		api.Get("/blogs", blogHandler.List)
		api.Get("/blogs/{id}", blogHandler.Get)
		api.With(adminAuth).Post("/blogs", blogHandler.AdminCreate)
		api.With(adminAuth).Put("/blogs/{id}", blogHandler.AdminUpdate)
		api.With(adminAuth).Delete("/blogs/{id}", blogHandler.AdminDelete)

		api.Get("/rescue", rescueHandler.List)
		api.Get("/rescue/{id}", rescueHandler.Get)
		api.With(adminAuth).Post("/rescue", rescueHandler.AdminCreate)
		api.With(adminAuth).Patch("/rescue/{id}", rescueHandler.AdminUpdate)
		api.With(adminAuth).Delete("/rescue/{id}", rescueHandler.AdminDelete)

		api.Get("/testimonials", testimonialHandler.List)
		api.Get("/testimonials/active", testimonialHandler.ListActive)
		api.Get("/testimonials/featured", testimonialHandler.Featured)
		api.With(adminAuth).Get("/testimonials/stats", testimonialHandler.AdminStats)
		api.Get("/testimonials/{id}", testimonialHandler.Get)
		api.With(adminAuth).Post("/testimonials", testimonialHandler.AdminCreate)
		api.With(adminAuth).Put("/testimonials/{id}", testimonialHandler.AdminUpdate)
		api.With(adminAuth).Delete("/testimonials/{id}", testimonialHandler.AdminDelete)

		api.With(formLimiter.Middleware).Post("/contact/send", contactHandler.Send)
		api.With(adminAuth).Get("/contact/messages", contactHandler.AdminList)
		api.With(adminAuth).Get("/contact/messages/{id}", contactHandler.AdminGet)
		api.With(adminAuth).Patch("/contact/messages/{id}/read", contactHandler.AdminMarkRead)
		api.With(adminAuth).Delete("/contact/messages/{id}", contactHandler.AdminDelete)

		api.With(formLimiter.Middleware).Post("/volunteers", volunteerHandler.Apply)
		api.With(adminAuth).Get("/volunteers", volunteerHandler.AdminList)
		api.With(adminAuth).Get("/volunteers/{id}", volunteerHandler.AdminGet)
		api.With(adminAuth).Delete("/volunteers/{id}", volunteerHandler.AdminDelete)

		api.Post("/visitor/increment-counter", visitorHandler.Increment)
		api.Get("/visitor/visitor-count", visitorHandler.Count)
		api.With(adminAuth).Get("/visitor/stats", visitorHandler.AdminStats)
		api.With(adminAuth).Post("/visitor/reset", visitorHandler.AdminReset)

		api.Get("/impact", impactHandler.List)
		api.Get("/impact/{id}", impactHandler.Get)
		api.With(adminAuth).Post("/impact", impactHandler.AdminCreate)
		api.With(adminAuth).Put("/impact/{id}", impactHandler.AdminUpdate)
		api.With(adminAuth).Delete("/impact/{id}", impactHandler.AdminDelete)

		api.With(adminAuth).Post("/cloudinary/signature", server.CloudinarySignature)
		api.With(adminAuth).Delete("/cloudinary/*", server.CloudinaryDestroy)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server listening", slog.String("addr", cfg.ServerAddr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-shutdownCtx.Done()
	log.Info("shutting down")

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}
}

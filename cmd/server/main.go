package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"plottwisters/internal/config"
	"plottwisters/internal/db"
	"plottwisters/internal/middleware"
	"plottwisters/internal/render"
	"plottwisters/internal/router"
	"plottwisters/internal/services"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// Initialize Database
	db.Init(cfg)

	tmdb := services.NewTMDBClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.CacheTTL)
	contests := services.NewContestService(db.DB, tmdb)
	svc := router.Services{
		TMDB:     tmdb,
		Votes:    services.NewVoteService(db.DB),
		Endings:  services.NewEndingService(db.DB),
		Likes:    services.NewLikeService(db.DB),
		Contests: contests,
		LLM:      services.NewLLMService(cfg.LLM.BaseURL, cfg.LLM.Token, cfg.LLM.Model),
	}

	// Contest status worker
	scheduler := services.NewContestScheduler(contests, time.Minute)
	scheduler.Start()

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 30 * 24 * 3600, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions("plottwisters_session", store))

	r.HTMLRender = render.LoadTemplates("./web/templates")
	r.Static("/static", "./web/static")

	// Middleware
	r.Use(middleware.LoadUser())

	router.RegisterRoutes(r, cfg, svc)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("PlotTwisters server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
	scheduler.Stop()
	log.Println("Server exited")
}

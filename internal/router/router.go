package router

import (
	"plottwisters/internal/config"
	"plottwisters/internal/handlers"
	"plottwisters/internal/middleware"
	"plottwisters/internal/services"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services are the long-lived dependencies handlers are built from.
type Services struct {
	TMDB     *services.TMDBClient
	Votes    *services.VoteService
	Endings  *services.EndingService
	Likes    *services.LikeService
	Contests *services.ContestService
	LLM      *services.LLMService
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, svc Services) {
	// Handlers
	authHandler := handlers.NewAuthHandler(cfg)
	movieHandler := handlers.NewMovieHandler(svc.TMDB, svc.Endings, svc.Votes, svc.Likes)
	endingHandler := handlers.NewEndingHandler(svc.TMDB, svc.Endings, svc.Votes)
	voteHandler := handlers.NewVoteHandler(svc.Votes)
	contestHandler := handlers.NewContestHandler(svc.Contests, svc.Votes, svc.TMDB)
	adminHandler := handlers.NewAdminHandler(svc.Contests, svc.TMDB)
	completionHandler := handlers.NewCompletionHandler(svc.LLM)

	// Public Routes
	r.GET("/", movieHandler.List)
	r.GET("/movies", movieHandler.List)
	r.GET("/movies/:movieId", movieHandler.Detail)
	r.GET("/movies/:movieId/endings/:endingId", endingHandler.Show)
	r.GET("/contests", contestHandler.List)

	r.GET("/signup", authHandler.ShowRegister)
	r.POST("/signup", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/movies/:movieId/endings/new", endingHandler.ShowCreate)
		authorized.POST("/movies/:movieId/endings", endingHandler.Create)
		authorized.GET("/movies/:movieId/endings/:endingId/edit", endingHandler.ShowEdit)
		authorized.POST("/movies/:movieId/endings/:endingId/edit", endingHandler.Update)

		authorized.GET("/contests/:contestId", contestHandler.Detail)
		authorized.GET("/contests/:contestId/submit/:movieId", contestHandler.ShowSubmit)
		authorized.POST("/contests/:contestId/submit/:movieId", contestHandler.Submit)

		authorized.GET("/resources/completions", completionHandler.Stream)
	}

	// Admin Routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("/contests", adminHandler.ListContests)
		admin.GET("/contests/new", adminHandler.ShowCreate)
		admin.POST("/contests/new", adminHandler.CreateContest)
		admin.POST("/contests/status", adminHandler.UpdateStatus)
		admin.GET("/contests/:contestId", adminHandler.ShowContest)
	}

	// JSON API
	api := r.Group("/api")
	api.Use(corsMiddleware(cfg.CORSOrigins), middleware.APIAuthRequired())
	{
		api.POST("/alternate-endings/:id/vote", voteHandler.Vote)
		api.POST("/movies/:movieId/like", movieHandler.ToggleLike)
		api.POST("/contest-movies/:contestId", middleware.AdminRequired(), adminHandler.ContestMovies)
	}
}

// corsMiddleware allows credentialed calls from the configured origins, or any
// origin without credentials when none are configured.
func corsMiddleware(origins []string) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}
	return cors.New(c)
}

package main

import (
	"time"

	"collabnote/internal/activity"
	"collabnote/internal/middleware"
	"collabnote/internal/note"
	"collabnote/internal/svc"
	"collabnote/internal/user"
	"collabnote/internal/utils"

	"github.com/gin-gonic/gin"
)

func newRouter(sc *svc.ServiceContext) *gin.Engine {
	if sc.Config.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.TracingMiddleware(), middleware.LoggerMiddleware())

	var (
		blacklist utils.Blacklist
		limiter   middleware.Limiter
	)
	if sc.Cache != nil {
		blacklist = sc.Cache
		limiter = sc.Cache
	}

	userHandler := user.NewUserHandlerFromContext(sc)
	noteHandler := note.NewNoteHandler(sc)
	activityHandler := activity.NewActivityHandler(sc)

	api := r.Group("/api")
	api.POST("/register", userHandler.Register)
	api.POST("/login", userHandler.Login)

	// The activity feed answers anonymous callers itself with a bare 401.
	api.GET("/friends/activities/:friendId",
		middleware.OptionalJWTMiddleware(sc.Config, blacklist),
		activityHandler.FriendActivities)

	auth := api.Group("")
	auth.Use(middleware.JWTAuthMiddleware(sc.Config, blacklist))
	{
		users := auth.Group("/users")
		{
			users.POST("/logout", userHandler.Logout)
			users.POST("/change-password", userHandler.ChangePassword)
			users.GET("/me", userHandler.Me)
			users.PUT("/me", userHandler.UpdateMyProfile)
		}

		friends := auth.Group("/friends")
		{
			friends.GET("", userHandler.ListFriends)
			friends.POST("/:id/request", userHandler.SendFriendRequest)
			friends.POST("/:id/accept", userHandler.AcceptFriendRequest)
		}

		readable := middleware.NoteReadMiddleware(noteHandler.Notes())
		notes := auth.Group("/notes")
		{
			notes.GET("", noteHandler.GetNotes)
			notes.POST("", middleware.RateLimitMiddleware(limiter, "create_note", 30, time.Minute), noteHandler.CreateNote)
			notes.GET("/search", noteHandler.SearchNotes)
			notes.GET("/semantic", middleware.RateLimitMiddleware(limiter, "semantic_search", 20, time.Minute), noteHandler.SemanticSearchNotes)
			notes.POST("/suggest-title", middleware.RateLimitMiddleware(limiter, "suggest_title", 10, time.Minute), noteHandler.SuggestTitle)

			notes.GET("/:id", noteHandler.GetNote)
			notes.PUT("/:id", noteHandler.UpdateNote)
			notes.DELETE("/:id", noteHandler.DeleteNote)
			notes.PATCH("/:id/pin", noteHandler.TogglePin)
			notes.GET("/:id/history", readable, noteHandler.GetNoteHistory)
			notes.POST("/:id/images", middleware.RateLimitMiddleware(limiter, "upload_image", 20, time.Minute), noteHandler.UploadImage)
			notes.POST("/:id/collaborators", noteHandler.AddCollaborator)
			notes.DELETE("/:id/collaborators/:userId", noteHandler.RemoveCollaborator)
		}

		auth.GET("/time-entries", activityHandler.ListTimeEntries)
		auth.POST("/time-entries", activityHandler.CreateTimeEntry)
		auth.GET("/categories", activityHandler.ListCategories)
		auth.POST("/categories", activityHandler.CreateCategory)
	}

	return r
}

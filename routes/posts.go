package routes

import (
	"github.com/RasParker/modular-maestro-sub000/handlers/posts"
	"github.com/RasParker/modular-maestro-sub000/handlers/posts/comment"
	"github.com/RasParker/modular-maestro-sub000/handlers/posts/likes"
	"github.com/RasParker/modular-maestro-sub000/middleware"

	"github.com/gin-gonic/gin"
)

func PostsRoutes(r *gin.Engine) {
	// Public reads carry an optional token so tier gating can
	// recognize subscribers without locking out anonymous visitors.
	r.GET("/posts", middleware.OptionalJWTAuth(), posts.GetAllPosts)
	r.GET("/posts/:id", middleware.OptionalJWTAuth(), posts.GetPostByID)
	r.GET("/posts/:id/comments", comment.GetCommentsByPostID)
	r.GET("/posts/:id/comments/stream", comment.HandleSSE)

	postsRoutes := r.Group("/posts")
	postsRoutes.Use(middleware.JWTAuth())
	{
		postsRoutes.POST("", middleware.CreatorAuth(), posts.CreatePost)
		postsRoutes.PUT("/:id", middleware.CreatorAuth(), posts.UpdatePost)
		postsRoutes.DELETE("/:id", posts.DeletePost)

		postsRoutes.POST("/:id/like", likes.ToggleLike)

		postsRoutes.POST("/:id/comments", comment.CreateComment)
		postsRoutes.DELETE("/:id/comments/:commentId", comment.DeleteComment)
		postsRoutes.POST("/:id/comments/:commentId/like", comment.ToggleCommentLike)
	}
}

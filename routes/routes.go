package routes

import (
	"time"

	"library-management-system/app"
	"library-management-system/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	uc := controllers.NewUserController(s)
	bookCtl := controllers.NewBookController(s)
	borrowCtl := controllers.NewBorrowController(s)
	reviewCtl := controllers.NewReviewController(s)

	authMW := app.AuthRequired(a.Tokens, s.Repo)
	adminMW := app.AdminOnly()
	librarianMW := app.AdminOrLibrarian()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	v1 := r.Group("/api/v1")

	// ------------------------------
	// Users & tokens
	// ------------------------------
	users := v1.Group("/users")
	{
		users.POST("/register", uc.Register)
		users.POST("/login", uc.Login)
		users.POST("/token/refresh", uc.RefreshToken)
	}

	usersAdmin := v1.Group("/users", authMW, seenMW, adminMW)
	{
		usersAdmin.GET("/all", uc.ListUsers)
		usersAdmin.GET("/:id", uc.GetUser)
		usersAdmin.PATCH("/:id", uc.UpdateUser)
	}

	// ------------------------------
	// Catalog: reads for anyone authenticated, writes for librarian/admin
	// ------------------------------
	books := v1.Group("/books", authMW, seenMW)
	{
		books.GET("", bookCtl.ListBooks)
		books.GET("/:id", bookCtl.GetBook)
	}

	booksWrite := v1.Group("/books", authMW, seenMW, librarianMW)
	{
		booksWrite.POST("", bookCtl.CreateBook)
		booksWrite.PATCH("/:id", bookCtl.UpdateBook)
		booksWrite.DELETE("/:id", bookCtl.DeleteBook)
		booksWrite.GET("/:id/borrow", bookCtl.ListBookBorrows)
	}

	// ------------------------------
	// Borrow lifecycle
	// ------------------------------
	borrow := v1.Group("/borrow", authMW, seenMW)
	{
		borrow.POST("", borrowCtl.CreateBorrow)
		borrow.GET("", borrowCtl.ListBorrows)
		borrow.PATCH("/:id", borrowCtl.UpdateBorrow)
	}

	// ------------------------------
	// Reviews
	// ------------------------------
	review := v1.Group("/review", authMW, seenMW)
	{
		review.POST("", reviewCtl.CreateReview)
		review.GET("", reviewCtl.ListReviews)
		review.GET("/book/:id", reviewCtl.GetReview)
	}
}

package server

import (
	"math"
	"net/http"

	"todobooks/internal/domain/errors"
	"todobooks/internal/domain/models"
	"todobooks/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type BookRepository interface {
	GetBooks() ([]models.Book, error)
	GetBookByID(id int) (*models.Book, error)
	GetBooksByRating(rating int) ([]models.Book, error)
	GetBooksByPublishedDate(year int) ([]models.Book, error)
	CreateBook(book *models.Book) error
	UpdateBook(book *models.Book) error
	DeleteBook(id int) error
	Len() int
}

// BookAPI serves the in-memory book collection.
type BookAPI struct {
	api
	repo BookRepository
}

func NewBookAPI(repo BookRepository, cfg *Config, log zerolog.Logger) *BookAPI {
	if repo == nil {
		return nil
	}
	b := &BookAPI{
		api:  newAPI(cfg, "books", log),
		repo: repo,
	}
	b.metrics.GaugeFunc("books_in_collection", "Books currently held in memory.", func() float64 {
		return float64(repo.Len())
	})
	b.configRoutes()
	return b
}

func (b *BookAPI) configRoutes() {
	router := b.newRouter()

	router.GET("/books", b.getBooks)
	router.GET("/books/", b.getBooksByRating)
	router.GET("/books/:book_id", b.getBookByID)
	router.GET("/books/by/published_date/", b.getBooksByPublishedDate)
	router.POST("/create-book", b.createBook)
	router.PUT("/books/update_book", b.updateBook)
	router.DELETE("/book/:book_id", b.deleteBook)

	b.httpSrv.Handler = router
}

func (b *BookAPI) getBooks(ctx *gin.Context) {
	books, err := b.repo.GetBooks()
	if err != nil {
		b.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, books)
}

func (b *BookAPI) getBookByID(ctx *gin.Context) {
	id, err := validation.IntParam("book_id", ctx.Param("book_id"), 1, math.MaxInt)
	if err != nil {
		b.respondError(ctx, err)
		return
	}
	book, err := b.repo.GetBookByID(id)
	if err != nil {
		b.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, book)
}

func (b *BookAPI) getBooksByRating(ctx *gin.Context) {
	rating, err := validation.IntParam("book_rating", ctx.Query("book_rating"), 1, 5)
	if err != nil {
		b.respondError(ctx, err)
		return
	}
	books, err := b.repo.GetBooksByRating(rating)
	if err != nil {
		b.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, books)
}

func (b *BookAPI) getBooksByPublishedDate(ctx *gin.Context) {
	year, err := validation.IntParam("published_date", ctx.Query("published_date"), 2001, 2024)
	if err != nil {
		b.respondError(ctx, err)
		return
	}
	books, err := b.repo.GetBooksByPublishedDate(year)
	if err != nil {
		b.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, books)
}

func (b *BookAPI) createBook(ctx *gin.Context) {
	var req models.BookRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		b.respondError(ctx, err)
		return
	}
	book := req.Book()
	if err := b.repo.CreateBook(&book); err != nil {
		b.respondError(ctx, err)
		return
	}
	b.log.Info().Int("id", book.ID).Msg("book created")
	ctx.JSON(http.StatusOK, book)
}

// updateBook overwrites the stored book carrying the body's id with the body.
func (b *BookAPI) updateBook(ctx *gin.Context) {
	var req models.BookRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		b.respondError(ctx, err)
		return
	}
	if req.ID == nil {
		b.respondError(ctx, errors.ErrBookNotFound)
		return
	}
	book := req.Book()
	if err := b.repo.UpdateBook(&book); err != nil {
		b.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, book)
}

func (b *BookAPI) deleteBook(ctx *gin.Context) {
	id, err := validation.IntParam("book_id", ctx.Param("book_id"), 1, math.MaxInt)
	if err != nil {
		b.respondError(ctx, err)
		return
	}
	if err := b.repo.DeleteBook(id); err != nil {
		b.respondError(ctx, err)
		return
	}
	b.log.Info().Int("id", id).Msg("book deleted")
	ctx.JSON(http.StatusOK, gin.H{"message": "book deleted"})
}

package inmemory

import (
	"sync"

	"todobooks/internal/domain/errors"
	"todobooks/internal/domain/models"
)

// BookStore is the process-lifetime ordered book collection.
type BookStore struct {
	mu    sync.RWMutex
	books []models.Book
}

func NewBookStore(seed []models.Book) *BookStore {
	books := make([]models.Book, len(seed))
	copy(books, seed)
	return &BookStore{books: books}
}

func (s *BookStore) GetBooks() ([]models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Book, len(s.books))
	copy(out, s.books)
	return out, nil
}

func (s *BookStore) GetBookByID(id int) (*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.books {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, errors.ErrBookNotFound
}

func (s *BookStore) GetBooksByRating(rating int) ([]models.Book, error) {
	return s.filter(func(b models.Book) bool { return b.Rating == rating }), nil
}

func (s *BookStore) GetBooksByPublishedDate(year int) ([]models.Book, error) {
	return s.filter(func(b models.Book) bool { return b.PublishedDate == year }), nil
}

func (s *BookStore) filter(match func(models.Book) bool) []models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Book{}
	for _, b := range s.books {
		if match(b) {
			out = append(out, b)
		}
	}
	return out
}

// CreateBook assigns the next id (last element's id + 1, or 1 when empty)
// and appends the book.
func (s *BookStore) CreateBook(book *models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	book.ID = 1
	if n := len(s.books); n > 0 {
		book.ID = s.books[n-1].ID + 1
	}
	s.books = append(s.books, *book)
	return nil
}

// UpdateBook replaces every element carrying book.ID in place.
func (s *BookStore) UpdateBook(book *models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for i := range s.books {
		if s.books[i].ID == book.ID {
			s.books[i] = *book
			changed = true
		}
	}
	if !changed {
		return errors.ErrBookNotFound
	}
	return nil
}

// DeleteBook removes the first element carrying id.
func (s *BookStore) DeleteBook(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.books {
		if s.books[i].ID == id {
			s.books = append(s.books[:i], s.books[i+1:]...)
			return nil
		}
	}
	return errors.ErrBookNotFound
}

func (s *BookStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

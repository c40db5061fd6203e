package inmemory

import (
	"sync"
	"testing"

	"todobooks/internal/domain/errors"
	"todobooks/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBook(title string, rating, year int) models.Book {
	return models.Book{Title: title, Author: "author", Description: "description", Rating: rating, PublishedDate: year}
}

func ids(books []models.Book) []int {
	out := make([]int, 0, len(books))
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func TestNewBookStore(t *testing.T) {
	seed := models.SeedBooks()
	store := NewBookStore(seed)

	seed[0].Title = "mutated"
	books, err := store.GetBooks()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, ids(books))
	assert.Equal(t, "Computer Science Pro", books[0].Title)
	assert.Equal(t, 6, store.Len())
}

func TestBookStoreGetBooksReturnsCopy(t *testing.T) {
	store := NewBookStore(models.SeedBooks())

	books, err := store.GetBooks()
	require.NoError(t, err)
	books[0].Title = "mutated"

	book, err := store.GetBookByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Computer Science Pro", book.Title)
}

func TestBookStoreGetBookByID(t *testing.T) {
	tests := []struct {
		name string
		id   int
		want struct {
			title string
			err   error
		}
	}{
		{name: "existing book", id: 3, want: struct {
			title string
			err   error
		}{title: "Master Endpoints"}},
		{name: "missing book", id: 99, want: struct {
			title string
			err   error
		}{err: errors.ErrBookNotFound}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewBookStore(models.SeedBooks())
			book, err := store.GetBookByID(tt.id)
			if tt.want.err != nil {
				assert.ErrorIs(t, err, tt.want.err)
				assert.Nil(t, book)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.title, book.Title)
		})
	}
}

func TestBookStoreFilters(t *testing.T) {
	store := NewBookStore(models.SeedBooks())

	byRating, err := store.GetBooksByRating(5)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids(byRating))

	byRating, err = store.GetBooksByRating(4)
	require.NoError(t, err)
	assert.NotNil(t, byRating)
	assert.Empty(t, byRating)

	byYear, err := store.GetBooksByPublishedDate(2023)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 6}, ids(byYear))

	byYear, err = store.GetBooksByPublishedDate(2001)
	require.NoError(t, err)
	assert.Empty(t, byYear)
}

func TestBookStoreCreateBook(t *testing.T) {
	tests := []struct {
		name  string
		seed  []models.Book
		setup func(*BookStore)
		want  struct {
			id  int
			len int
		}
	}{
		{
			name: "empty collection starts at 1",
			seed: nil,
			want: struct {
				id  int
				len int
			}{id: 1, len: 1},
		},
		{
			name: "seeded collection continues after last",
			seed: models.SeedBooks(),
			want: struct {
				id  int
				len int
			}{id: 7, len: 7},
		},
		{
			name: "id follows the last element, not the maximum",
			seed: models.SeedBooks(),
			setup: func(s *BookStore) {
				require.NoError(t, s.DeleteBook(6))
			},
			want: struct {
				id  int
				len int
			}{id: 6, len: 6},
		},
		{
			name: "client supplied id is replaced",
			seed: models.SeedBooks(),
			setup: func(s *BookStore) {
				require.NoError(t, s.DeleteBook(1))
			},
			want: struct {
				id  int
				len int
			}{id: 7, len: 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewBookStore(tt.seed)
			if tt.setup != nil {
				tt.setup(store)
			}
			book := newBook("New book", 4, 2020)
			book.ID = 1

			require.NoError(t, store.CreateBook(&book))
			assert.Equal(t, tt.want.id, book.ID)

			books, _ := store.GetBooks()
			assert.Len(t, books, tt.want.len)
			assert.Equal(t, book, books[len(books)-1])
		})
	}
}

func TestBookStoreUpdateBook(t *testing.T) {
	tests := []struct {
		name string
		book models.Book
		want struct {
			err error
		}
	}{
		{name: "existing book replaced in place", book: models.Book{ID: 3, Title: "Replaced", Author: "someone", Description: "new", Rating: 0, PublishedDate: 2001}},
		{name: "missing book", book: models.Book{ID: 42, Title: "Ghost"}, want: struct {
			err error
		}{err: errors.ErrBookNotFound}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewBookStore(models.SeedBooks())
			before, _ := store.GetBooks()

			err := store.UpdateBook(&tt.book)
			after, _ := store.GetBooks()

			if tt.want.err != nil {
				assert.ErrorIs(t, err, tt.want.err)
				assert.Equal(t, before, after)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ids(before), ids(after))
			assert.Equal(t, tt.book, after[2])
		})
	}
}

func TestBookStoreDeleteBook(t *testing.T) {
	tests := []struct {
		name string
		seed []models.Book
		id   int
		want struct {
			err error
			ids []int
		}
	}{
		{
			name: "existing book",
			seed: models.SeedBooks(),
			id:   1,
			want: struct {
				err error
				ids []int
			}{ids: []int{2, 3, 4, 5, 6}},
		},
		{
			name: "missing book leaves collection unchanged",
			seed: models.SeedBooks(),
			id:   9,
			want: struct {
				err error
				ids []int
			}{err: errors.ErrBookNotFound, ids: []int{1, 2, 3, 4, 5, 6}},
		},
		{
			name: "only the first duplicate is removed",
			seed: []models.Book{{ID: 1, Title: "first"}, {ID: 2}, {ID: 1, Title: "second"}},
			id:   1,
			want: struct {
				err error
				ids []int
			}{ids: []int{2, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewBookStore(tt.seed)
			err := store.DeleteBook(tt.id)
			if tt.want.err != nil {
				assert.ErrorIs(t, err, tt.want.err)
			} else {
				assert.NoError(t, err)
			}
			books, _ := store.GetBooks()
			assert.Equal(t, tt.want.ids, ids(books))
		})
	}
}

func TestBookStoreConcurrentCreate(t *testing.T) {
	store := NewBookStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := newBook("Concurrent", 3, 2010)
			_ = store.CreateBook(&b)
		}()
	}
	wg.Wait()

	books, _ := store.GetBooks()
	seen := map[int]bool{}
	for _, b := range books {
		assert.False(t, seen[b.ID], "duplicate id %d", b.ID)
		seen[b.ID] = true
	}
	assert.Len(t, books, 50)
}

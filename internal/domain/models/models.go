package models

import "todobooks/internal/validation"

type Todo struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Complete    bool   `json:"complete"`
}

// TodoRequest is the body of POST /todo. Complete is a pointer so that an
// absent field is rejected while an explicit false is accepted.
type TodoRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description" validate:"required,min=3,max=100"`
	Priority    int    `json:"priority" validate:"required,min=1,max=5"`
	Complete    *bool  `json:"complete" validate:"required"`
}

func (r TodoRequest) Validate() error {
	return validation.Struct(r)
}

func (r TodoRequest) Todo() Todo {
	t := Todo{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
	}
	if r.Complete != nil {
		t.Complete = *r.Complete
	}
	return t
}

type Book struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Description   string `json:"description"`
	Rating        int    `json:"rating"`
	PublishedDate int    `json:"published_date"`
}

// BookRequest is the body of POST /create-book and PUT /books/update_book.
// ID is ignored on create. Rating is a pointer because 0 is a valid rating.
type BookRequest struct {
	ID            *int   `json:"id"`
	Title         string `json:"title" validate:"required,min=3"`
	Author        string `json:"author" validate:"required,min=1"`
	Description   string `json:"description" validate:"required,min=1,max=100"`
	Rating        *int   `json:"rating" validate:"required,min=0,max=5"`
	PublishedDate int    `json:"published_date" validate:"required,min=2001,max=2024"`
}

func (r BookRequest) Validate() error {
	return validation.Struct(r)
}

func (r BookRequest) Book() Book {
	b := Book{
		Title:         r.Title,
		Author:        r.Author,
		Description:   r.Description,
		PublishedDate: r.PublishedDate,
	}
	if r.ID != nil {
		b.ID = *r.ID
	}
	if r.Rating != nil {
		b.Rating = *r.Rating
	}
	return b
}

// SeedBooks returns the collection the books service starts with.
func SeedBooks() []Book {
	return []Book{
		{ID: 1, Title: "Computer Science Pro", Author: "codingwithroby", Description: "A very nice book!", Rating: 5, PublishedDate: 2024},
		{ID: 2, Title: "Be Fast with FastAPI", Author: "codingwithroby", Description: "A great book!", Rating: 5, PublishedDate: 2024},
		{ID: 3, Title: "Master Endpoints", Author: "codingwithroby", Description: "A very nice book!", Rating: 5, PublishedDate: 2023},
		{ID: 4, Title: "HP1", Author: "codingwithroby", Description: "A very nice book!", Rating: 2, PublishedDate: 2022},
		{ID: 5, Title: "HP2", Author: "codingwithroby", Description: "A very nice book!", Rating: 3, PublishedDate: 2024},
		{ID: 6, Title: "HP3", Author: "codingwithroby", Description: "A very nice book!", Rating: 1, PublishedDate: 2023},
	}
}

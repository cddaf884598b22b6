package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book is a document of the books collection
type Book struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	Author        string             `json:"author" bson:"author"`
	Genre         string             `json:"genre" bson:"genre"`
	PublishedYear int                `json:"published_year" bson:"published_year"`
	Price         float64            `json:"price" bson:"price"`
	InStock       bool               `json:"in_stock" bson:"in_stock"`
	Pages         int                `json:"pages,omitempty" bson:"pages,omitempty"`
	Publisher     string             `json:"publisher,omitempty" bson:"publisher,omitempty"`
}

// BookSummary is the projected shape returned when only title, author and price are selected
type BookSummary struct {
	Title  string  `json:"title" bson:"title"`
	Author string  `json:"author" bson:"author"`
	Price  float64 `json:"price" bson:"price"`
}

// GenrePrice is one row of the average-price-by-genre aggregation
type GenrePrice struct {
	Genre        string  `json:"genre" bson:"_id"`
	AveragePrice float64 `json:"averagePrice" bson:"averagePrice"`
}

// AuthorCount is one row of the books-per-author aggregation
type AuthorCount struct {
	Author    string `json:"author" bson:"_id"`
	BookCount int    `json:"bookCount" bson:"bookCount"`
}

// DecadeCount is one row of the books-per-decade aggregation, e.g. {"1940s", 2}
type DecadeCount struct {
	Decade string `json:"decade" bson:"_id"`
	Count  int    `json:"count" bson:"count"`
}

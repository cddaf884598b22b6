// Package queries holds the filters, projections, sorts, pipelines and index
// keys the bookstore runner issues against the books collection.
package queries

import (
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
)

// Sample values used by the fixed query sequence
const (
	SampleGenre        = "Fiction"
	SampleAuthor       = "George Orwell"
	SampleAfterYear    = 2000
	SampleInStockAfter = 2010
	SampleUpdateTitle  = "1984"
	SampleUpdatePrice  = 15.99
	SampleDeleteTitle  = "Moby Dick"
	SampleExplainYear  = 1949
	DefaultPageSize    = 5
)

const (
	ascending  = 1
	descending = -1

	decadeWidth       = 10
	decadeLabelSuffix = "s"
)

// GenreFilter matches books of a genre
func GenreFilter(genre string) bson.D {
	return bson.D{{Key: "genre", Value: genre}}
}

// PublishedAfterFilter matches books published strictly after year
func PublishedAfterFilter(year int) bson.D {
	return bson.D{{Key: "published_year", Value: bson.D{{Key: "$gt", Value: year}}}}
}

// AuthorFilter matches books by an author
func AuthorFilter(author string) bson.D {
	return bson.D{{Key: "author", Value: author}}
}

// TitleFilter matches books by title
func TitleFilter(title string) bson.D {
	return bson.D{{Key: "title", Value: title}}
}

// InStockPublishedAfterFilter matches in-stock books published strictly after year
func InStockPublishedAfterFilter(year int) bson.D {
	return bson.D{
		{Key: "in_stock", Value: true},
		{Key: "published_year", Value: bson.D{{Key: "$gt", Value: year}}},
	}
}

// AuthorYearFilter matches books by an author published in a given year
func AuthorYearFilter(author string, year int) bson.D {
	return bson.D{
		{Key: "author", Value: author},
		{Key: "published_year", Value: year},
	}
}

// SetPriceUpdate sets the price field
func SetPriceUpdate(price float64) bson.D {
	return bson.D{{Key: "$set", Value: bson.D{{Key: "price", Value: price}}}}
}

// SummaryProjection returns only title, author and price, without _id
func SummaryProjection() bson.D {
	return bson.D{
		{Key: "_id", Value: 0},
		{Key: "title", Value: 1},
		{Key: "author", Value: 1},
		{Key: "price", Value: 1},
	}
}

// PriceSort orders by price
func PriceSort(asc bool) bson.D {
	return bson.D{{Key: "price", Value: direction(asc)}}
}

// TitleSort orders by title ascending
func TitleSort() bson.D {
	return bson.D{{Key: "title", Value: ascending}}
}

// PageWindow returns skip and limit for a 1-based page number
func PageWindow(page, pageSize int) (skip int64, limit int64) {
	return int64((page - 1) * pageSize), int64(pageSize)
}

// AveragePriceByGenrePipeline groups by genre, averages price and sorts by genre
func AveragePriceByGenrePipeline() bson.A {
	return bson.A{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$genre"},
			{Key: "averagePrice", Value: bson.D{{Key: "$avg", Value: "$price"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: ascending}}}},
	}
}

// MostProlificAuthorPipeline counts books per author and keeps the top one
func MostProlificAuthorPipeline() bson.A {
	return bson.A{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$author"},
			{Key: "bookCount", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "bookCount", Value: descending}}}},
		bson.D{{Key: "$limit", Value: 1}},
	}
}

// BooksByDecadePipeline labels each book with its decade ("1940s"), counts per label and sorts by label
func BooksByDecadePipeline() bson.A {
	decade := bson.D{{Key: "$multiply", Value: bson.A{
		bson.D{{Key: "$floor", Value: bson.D{{Key: "$divide", Value: bson.A{"$published_year", decadeWidth}}}}},
		decadeWidth,
	}}}

	return bson.A{
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "decade", Value: bson.D{{Key: "$concat", Value: bson.A{
				bson.D{{Key: "$toString", Value: decade}},
				decadeLabelSuffix,
			}}}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$decade"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: ascending}}}},
	}
}

// DecadeLabel is the label BooksByDecadePipeline assigns to a year
func DecadeLabel(year int) string {
	d := year / decadeWidth
	if year < 0 && year%decadeWidth != 0 {
		d--
	}
	return strconv.Itoa(d*decadeWidth) + decadeLabelSuffix
}

// TitleIndexKeys is the single-field ascending index on title
func TitleIndexKeys() bson.D {
	return bson.D{{Key: "title", Value: ascending}}
}

// AuthorYearIndexKeys is the compound ascending index on author then published_year
func AuthorYearIndexKeys() bson.D {
	return bson.D{
		{Key: "author", Value: ascending},
		{Key: "published_year", Value: ascending},
	}
}

func direction(asc bool) int {
	if asc {
		return ascending
	}
	return descending
}

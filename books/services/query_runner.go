package services

import (
	"context"
	"fmt"

	bookErrors "github.com/qolzam/bookstore/books/errors"
	"github.com/qolzam/bookstore/books/models"
	"github.com/qolzam/bookstore/books/queries"
	"github.com/qolzam/bookstore/internal/database/interfaces"
	"github.com/qolzam/bookstore/internal/pkg/log"
	"go.mongodb.org/mongo-driver/bson"
)

// Step is one named operation of the fixed query sequence
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// QueryRunner issues the bookstore queries against one collection
type QueryRunner struct {
	repo       interfaces.Repository
	collection string
}

// NewQueryRunner creates a runner over the given repository and collection
func NewQueryRunner(repo interfaces.Repository, collection string) *QueryRunner {
	return &QueryRunner{
		repo:       repo,
		collection: collection,
	}
}

// FindByGenre returns books of the given genre
func (q *QueryRunner) FindByGenre(ctx context.Context, genre string) ([]models.Book, error) {
	return q.findBooks(ctx, queries.GenreFilter(genre), nil)
}

// FindPublishedAfter returns books published strictly after year
func (q *QueryRunner) FindPublishedAfter(ctx context.Context, year int) ([]models.Book, error) {
	return q.findBooks(ctx, queries.PublishedAfterFilter(year), nil)
}

// FindByAuthor returns books by the given author
func (q *QueryRunner) FindByAuthor(ctx context.Context, author string) ([]models.Book, error) {
	return q.findBooks(ctx, queries.AuthorFilter(author), nil)
}

// UpdatePrice sets the price of the first book with the given title and
// returns how many documents were modified. No match is not an error.
func (q *QueryRunner) UpdatePrice(ctx context.Context, title string, price float64) (int64, error) {
	res := <-q.repo.Update(ctx, q.collection, queries.TitleFilter(title), queries.SetPriceUpdate(price))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.ModifiedCount, nil
}

// DeleteByTitle deletes the first book with the given title and returns how
// many documents were deleted. No match is not an error.
func (q *QueryRunner) DeleteByTitle(ctx context.Context, title string) (int64, error) {
	res := <-q.repo.Delete(ctx, q.collection, queries.TitleFilter(title))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.DeletedCount, nil
}

// FindInStockPublishedAfter returns in-stock books published strictly after year
func (q *QueryRunner) FindInStockPublishedAfter(ctx context.Context, year int) ([]models.Book, error) {
	return q.findBooks(ctx, queries.InStockPublishedAfterFilter(year), nil)
}

// FindSummaries returns title, author and price of every book
func (q *QueryRunner) FindSummaries(ctx context.Context) ([]models.BookSummary, error) {
	res := <-q.repo.Find(ctx, q.collection, bson.D{}, &interfaces.FindOptions{
		Select: queries.SummaryProjection(),
	})
	summaries := []models.BookSummary{}
	if err := res.All(&summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// FindSortedByPrice returns every book ordered by price
func (q *QueryRunner) FindSortedByPrice(ctx context.Context, ascending bool) ([]models.Book, error) {
	return q.findBooks(ctx, bson.D{}, &interfaces.FindOptions{
		Sort: queries.PriceSort(ascending),
	})
}

// FindPage returns the 1-based page of books ordered by title
func (q *QueryRunner) FindPage(ctx context.Context, page, pageSize int) ([]models.Book, error) {
	if page < 1 {
		return nil, bookErrors.WrapValidationError(fmt.Errorf("page must be at least 1"), fmt.Sprintf("page=%d", page))
	}
	if pageSize < 1 {
		return nil, bookErrors.WrapValidationError(fmt.Errorf("page size must be at least 1"), fmt.Sprintf("pageSize=%d", pageSize))
	}

	skip, limit := queries.PageWindow(page, pageSize)
	return q.findBooks(ctx, bson.D{}, &interfaces.FindOptions{
		Sort:  queries.TitleSort(),
		Skip:  &skip,
		Limit: &limit,
	})
}

// AveragePriceByGenre returns the mean price per genre ordered by genre
func (q *QueryRunner) AveragePriceByGenre(ctx context.Context) ([]models.GenrePrice, error) {
	rows := []models.GenrePrice{}
	if err := q.aggregate(ctx, queries.AveragePriceByGenrePipeline(), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// MostProlificAuthor returns the author with the most books, at most one row
func (q *QueryRunner) MostProlificAuthor(ctx context.Context) ([]models.AuthorCount, error) {
	rows := []models.AuthorCount{}
	if err := q.aggregate(ctx, queries.MostProlificAuthorPipeline(), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByDecade returns the number of books per publication decade ordered by decade label
func (q *QueryRunner) CountByDecade(ctx context.Context) ([]models.DecadeCount, error) {
	rows := []models.DecadeCount{}
	if err := q.aggregate(ctx, queries.BooksByDecadePipeline(), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateTitleIndex creates the ascending index on title and returns its name
func (q *QueryRunner) CreateTitleIndex(ctx context.Context) (string, error) {
	return q.createIndex(ctx, queries.TitleIndexKeys())
}

// CreateAuthorYearIndex creates the compound index on author and published_year and returns its name
func (q *QueryRunner) CreateAuthorYearIndex(ctx context.Context) (string, error) {
	return q.createIndex(ctx, queries.AuthorYearIndexKeys())
}

// ExplainFind returns the execution statistics of a find with the given filter
func (q *QueryRunner) ExplainFind(ctx context.Context, filter interface{}) (interfaces.ExplainResult, error) {
	res := <-q.repo.Explain(ctx, q.collection, filter, interfaces.VerbosityExecutionStats)
	if res.Error != nil {
		return interfaces.ExplainResult{}, res.Error
	}
	return res, nil
}

// Steps returns the fixed operation sequence in execution order.
// The update and delete steps run before the later reads observe the collection.
func (q *QueryRunner) Steps() []Step {
	return []Step{
		{Name: "find by genre", Run: func(ctx context.Context) error {
			books, err := q.FindByGenre(ctx, queries.SampleGenre)
			return report(ctx, "Books in Fiction genre:", books, err)
		}},
		{Name: "find published after", Run: func(ctx context.Context) error {
			books, err := q.FindPublishedAfter(ctx, queries.SampleAfterYear)
			return report(ctx, "Books published after 2000:", books, err)
		}},
		{Name: "find by author", Run: func(ctx context.Context) error {
			books, err := q.FindByAuthor(ctx, queries.SampleAuthor)
			return report(ctx, "Books by George Orwell:", books, err)
		}},
		{Name: "update price", Run: func(ctx context.Context) error {
			modified, err := q.UpdatePrice(ctx, queries.SampleUpdateTitle, queries.SampleUpdatePrice)
			if err != nil {
				return err
			}
			log.InfoWithContext(ctx, "Update result for 1984: %d", modified)
			return nil
		}},
		{Name: "delete by title", Run: func(ctx context.Context) error {
			deleted, err := q.DeleteByTitle(ctx, queries.SampleDeleteTitle)
			if err != nil {
				return err
			}
			log.InfoWithContext(ctx, "Delete result for Moby Dick: %d", deleted)
			return nil
		}},
		{Name: "find in stock published after", Run: func(ctx context.Context) error {
			books, err := q.FindInStockPublishedAfter(ctx, queries.SampleInStockAfter)
			return report(ctx, "Books in stock and published after 2010:", books, err)
		}},
		{Name: "find with projection", Run: func(ctx context.Context) error {
			summaries, err := q.FindSummaries(ctx)
			return report(ctx, "Books with only title, author, and price:", summaries, err)
		}},
		{Name: "sort by price ascending", Run: func(ctx context.Context) error {
			books, err := q.FindSortedByPrice(ctx, true)
			return report(ctx, "Books sorted by price (ascending):", books, err)
		}},
		{Name: "sort by price descending", Run: func(ctx context.Context) error {
			books, err := q.FindSortedByPrice(ctx, false)
			return report(ctx, "Books sorted by price (descending):", books, err)
		}},
		{Name: "paginate page 1", Run: func(ctx context.Context) error {
			books, err := q.FindPage(ctx, 1, queries.DefaultPageSize)
			return report(ctx, "Page 1 (first 5 books by title):", books, err)
		}},
		{Name: "paginate page 2", Run: func(ctx context.Context) error {
			books, err := q.FindPage(ctx, 2, queries.DefaultPageSize)
			return report(ctx, "Page 2 (next 5 books by title):", books, err)
		}},
		{Name: "average price by genre", Run: func(ctx context.Context) error {
			rows, err := q.AveragePriceByGenre(ctx)
			return report(ctx, "Average price of books by genre:", rows, err)
		}},
		{Name: "most prolific author", Run: func(ctx context.Context) error {
			rows, err := q.MostProlificAuthor(ctx)
			return report(ctx, "Author with the most books:", rows, err)
		}},
		{Name: "count by decade", Run: func(ctx context.Context) error {
			rows, err := q.CountByDecade(ctx)
			return report(ctx, "Books grouped by publication decade:", rows, err)
		}},
		{Name: "create title index", Run: func(ctx context.Context) error {
			name, err := q.CreateTitleIndex(ctx)
			if err != nil {
				return err
			}
			log.InfoWithContext(ctx, "Created index on 'title': %s", name)
			return nil
		}},
		{Name: "create author year index", Run: func(ctx context.Context) error {
			name, err := q.CreateAuthorYearIndex(ctx)
			if err != nil {
				return err
			}
			log.InfoWithContext(ctx, "Created compound index on 'author' and 'published_year': %s", name)
			return nil
		}},
		{Name: "explain find by title", Run: func(ctx context.Context) error {
			res, err := q.ExplainFind(ctx, queries.TitleFilter(queries.SampleUpdateTitle))
			if err != nil {
				return err
			}
			log.DumpText(ctx, "Explain output for find by title:", res.Document)
			return nil
		}},
		{Name: "explain find by author and year", Run: func(ctx context.Context) error {
			res, err := q.ExplainFind(ctx, queries.AuthorYearFilter(queries.SampleAuthor, queries.SampleExplainYear))
			if err != nil {
				return err
			}
			log.DumpText(ctx, "Explain output for find by author and published_year:", res.Document)
			return nil
		}},
	}
}

// Run executes every step in order and stops at the first failure
func (q *QueryRunner) Run(ctx context.Context) error {
	for _, step := range q.Steps() {
		if err := step.Run(ctx); err != nil {
			return bookErrors.WrapQueryError(step.Name, err)
		}
	}
	return nil
}

func (q *QueryRunner) findBooks(ctx context.Context, filter interface{}, opts *interfaces.FindOptions) ([]models.Book, error) {
	res := <-q.repo.Find(ctx, q.collection, filter, opts)
	books := []models.Book{}
	if err := res.All(&books); err != nil {
		return nil, err
	}
	return books, nil
}

func (q *QueryRunner) aggregate(ctx context.Context, pipeline interface{}, rows interface{}) error {
	res := <-q.repo.Aggregate(ctx, q.collection, pipeline)
	return res.All(rows)
}

func (q *QueryRunner) createIndex(ctx context.Context, keys interface{}) (string, error) {
	res := <-q.repo.CreateIndex(ctx, q.collection, keys)
	if res.Error != nil {
		return "", res.Error
	}
	return res.Name, nil
}

// report logs a step result under its heading
func report(ctx context.Context, heading string, v interface{}, err error) error {
	if err != nil {
		return err
	}
	log.Dump(ctx, heading, v)
	return nil
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortPopularity, ParseSortKey("popularity"))
	assert.Equal(t, SortRating, ParseSortKey("rating"))
	assert.Equal(t, SortTitle, ParseSortKey("title"))
	assert.Equal(t, SortDate, ParseSortKey("date"))
	assert.Equal(t, SortDate, ParseSortKey(""))
	assert.Equal(t, SortDate, ParseSortKey("votes"))
}

func TestMovieListQueryOffset(t *testing.T) {
	assert.Equal(t, 0, MovieListQuery{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, MovieListQuery{Page: 3, PageSize: 20}.Offset())
}

func TestGenreByID(t *testing.T) {
	g, ok := GenreByID(878)
	assert.True(t, ok)
	assert.Equal(t, "Science Fiction", g.Name)

	_, ok = GenreByID(1)
	assert.False(t, ok)
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategoryTopRated.Valid())
	assert.True(t, CategorySearch.Valid())
	assert.False(t, Category("trending").Valid())
}

func TestHasGenre(t *testing.T) {
	m := Movie{GenreIDs: []int64{28, 12}}
	assert.True(t, m.HasGenre(12))
	assert.False(t, m.HasGenre(35))
}

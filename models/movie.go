package models

import "time"

type Category string

const (
	CategoryUpcoming   Category = "upcoming"
	CategoryNowPlaying Category = "now_playing"
	CategoryPopular    Category = "popular"
	CategoryTopRated   Category = "top_rated"
	CategorySearch     Category = "search"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryUpcoming, CategoryNowPlaying, CategoryPopular, CategoryTopRated, CategorySearch:
		return true
	}
	return false
}

type Movie struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	PosterPath  *string   `json:"poster_path" db:"poster_path"`
	Overview    string    `json:"overview" db:"overview"`
	ReleaseDate string    `json:"release_date" db:"release_date"`
	VoteAverage float64   `json:"vote_average" db:"vote_average"`
	Popularity  float64   `json:"popularity" db:"popularity"`
	VoteCount   int64     `json:"vote_count" db:"vote_count"`
	GenreIDs    []int64   `json:"genre_ids" db:"genre_ids"`
	Category    Category  `json:"category" db:"category"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}

// HasGenre reports whether the movie is tagged with the given genre id.
func (m Movie) HasGenre(id int64) bool {
	for _, g := range m.GenreIDs {
		if g == id {
			return true
		}
	}
	return false
}

type SortKey string

const (
	SortPopularity SortKey = "popularity"
	SortRating     SortKey = "rating"
	SortDate       SortKey = "date"
	SortTitle      SortKey = "title"
)

// ParseSortKey maps a request value onto a known sort key, falling back to
// release date.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPopularity, SortRating, SortDate, SortTitle:
		return SortKey(s)
	}
	return SortDate
}

type MovieListQuery struct {
	Page     int
	PageSize int
	GenreID  *int64
	Sort     SortKey
}

func (q MovieListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

type MovieListResult struct {
	Movies      []Movie `json:"movies"`
	Total       int64   `json:"total"`
	HasMore     bool    `json:"hasMore"`
	CurrentPage int     `json:"currentPage"`
	TotalPages  int     `json:"totalPages"`
}

// UpsertResult counts per-item outcomes of a batch upsert.
type UpsertResult struct {
	Upserted int `json:"upserted"`
	Failed   int `json:"failed"`
}

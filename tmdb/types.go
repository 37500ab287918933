package tmdb

import (
	"time"

	"Marquee/models"
)

type Page struct {
	Page         int           `json:"page"`
	Results      []MovieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// MovieResult is a movie as TMDB lists it. Popularity and vote count are
// pointers because the provider omits them on some records.
type MovieResult struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	PosterPath  *string  `json:"poster_path"`
	Overview    string   `json:"overview"`
	ReleaseDate string   `json:"release_date"`
	VoteAverage float64  `json:"vote_average"`
	Popularity  *float64 `json:"popularity"`
	VoteCount   *int64   `json:"vote_count"`
	GenreIDs    []int64  `json:"genre_ids"`
}

// ToMovie converts the result into a catalog record tagged with its source
// category and refresh time.
func (r MovieResult) ToMovie(category models.Category, refreshedAt time.Time) models.Movie {
	m := models.Movie{
		ID:          r.ID,
		Title:       r.Title,
		PosterPath:  r.PosterPath,
		Overview:    r.Overview,
		ReleaseDate: r.ReleaseDate,
		VoteAverage: r.VoteAverage,
		GenreIDs:    r.GenreIDs,
		Category:    category,
		LastUpdated: refreshedAt,
	}
	if r.Popularity != nil {
		m.Popularity = *r.Popularity
	}
	if r.VoteCount != nil {
		m.VoteCount = *r.VoteCount
	}
	if m.GenreIDs == nil {
		m.GenreIDs = []int64{}
	}
	return m
}

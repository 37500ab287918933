package handlers

import (
	"net/http"
	"strconv"

	"Marquee/models"
	"Marquee/services"
)

func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	q := models.MovieListQuery{
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "limit", services.DefaultPageSize),
		Sort:     models.ParseSortKey(r.URL.Query().Get("sort")),
	}
	if c := r.URL.Query().Get("category"); c != "" {
		genreID, err := strconv.ParseInt(c, 10, 64)
		if err != nil {
			writeError(w, r, &services.ValidationError{Field: "category", Message: "category must be a genre id"})
			return
		}
		if _, ok := models.GenreByID(genreID); !ok {
			writeError(w, r, &services.ValidationError{Field: "category", Message: "unknown genre id"})
			return
		}
		q.GenreID = &genreID
	}

	result, err := h.catalog.List(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type searchRequest struct {
	Query string `json:"query"`
}

func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	movies, err := h.catalog.Search(r.Context(), req.Query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"movies": movies})
}

func (h *Handler) RankedSearch(w http.ResponseWriter, r *http.Request) {
	movies, err := h.catalog.RankedSearch(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"movies": movies})
}

func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := movieIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	movie, err := h.catalog.GetMovie(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (h *Handler) SimilarMovies(w http.ResponseWriter, r *http.Request) {
	id, err := movieIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	movie, err := h.catalog.GetMovie(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	similar, err := h.catalog.Similar(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"movie": movie, "similar": similar})
}

func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"genres": h.catalog.Genres()})
}

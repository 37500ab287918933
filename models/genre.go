package models

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Genres is TMDB's movie genre list. Movie records reference these ids.
var Genres = []Genre{
	{ID: 28, Name: "Action"},
	{ID: 12, Name: "Adventure"},
	{ID: 16, Name: "Animation"},
	{ID: 35, Name: "Comedy"},
	{ID: 80, Name: "Crime"},
	{ID: 99, Name: "Documentary"},
	{ID: 18, Name: "Drama"},
	{ID: 10751, Name: "Family"},
	{ID: 14, Name: "Fantasy"},
	{ID: 36, Name: "History"},
	{ID: 27, Name: "Horror"},
	{ID: 10402, Name: "Music"},
	{ID: 9648, Name: "Mystery"},
	{ID: 10749, Name: "Romance"},
	{ID: 878, Name: "Science Fiction"},
	{ID: 10770, Name: "TV Movie"},
	{ID: 53, Name: "Thriller"},
	{ID: 10752, Name: "War"},
	{ID: 37, Name: "Western"},
}

var genresByID = func() map[int64]Genre {
	m := make(map[int64]Genre, len(Genres))
	for _, g := range Genres {
		m[g.ID] = g
	}
	return m
}()

func GenreByID(id int64) (Genre, bool) {
	g, ok := genresByID[id]
	return g, ok
}

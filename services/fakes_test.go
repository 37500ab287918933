package services

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"Marquee/models"
	"Marquee/recommend"
	"Marquee/tmdb"
)

type memMovieStore struct {
	mu         sync.Mutex
	movies     map[int64]models.Movie
	lastSynced time.Time
	synced     bool
	markCalls  int

	upsertErr error
}

func newMemMovieStore(movies ...models.Movie) *memMovieStore {
	s := &memMovieStore{movies: make(map[int64]models.Movie)}
	for _, m := range movies {
		s.movies[m.ID] = m
	}
	return s
}

func (s *memMovieStore) CountMovies(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.movies)), nil
}

func (s *memMovieStore) UpsertMovies(ctx context.Context, movies []models.Movie) (models.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return models.UpsertResult{Failed: len(movies)}, s.upsertErr
	}
	for _, m := range movies {
		if existing, ok := s.movies[m.ID]; ok && m.Category == models.CategorySearch {
			m.Category = existing.Category
		}
		s.movies[m.ID] = m
	}
	return models.UpsertResult{Upserted: len(movies)}, nil
}

func (s *memMovieStore) all() []models.Movie {
	out := make([]models.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memMovieStore) ListMovies(ctx context.Context, q models.MovieListQuery) ([]models.Movie, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []models.Movie
	for _, m := range s.all() {
		if q.GenreID != nil && !m.HasGenre(*q.GenreID) {
			continue
		}
		matched = append(matched, m)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Popularity > matched[j].Popularity
	})
	total := int64(len(matched))
	start := min(q.Offset(), len(matched))
	end := min(start+q.PageSize, len(matched))
	return matched[start:end], total, nil
}

func (s *memMovieStore) SearchMovies(ctx context.Context, variants []string, limit int) ([]models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Movie{}
	for _, m := range s.all() {
		for _, v := range variants {
			v = strings.ToLower(v)
			if strings.Contains(strings.ToLower(m.Title), v) || strings.Contains(strings.ToLower(m.Overview), v) {
				out = append(out, m)
				break
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memMovieStore) RankedCandidates(ctx context.Context, query string) ([]models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.all(), nil
}

func (s *memMovieStore) GetMovie(ctx context.Context, id int64) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.movies[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &m, nil
}

func (s *memMovieStore) GetMoviesByIDs(ctx context.Context, ids []int64) ([]models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Movie{}
	for _, id := range ids {
		if m, ok := s.movies[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memMovieStore) SimilarMovies(ctx context.Context, movie models.Movie, limit int) ([]models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Movie{}
	for _, m := range s.all() {
		if m.ID == movie.ID {
			continue
		}
		for _, g := range movie.GenreIDs {
			if m.HasGenre(g) {
				out = append(out, m)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *memMovieStore) LastSyncedAt(ctx context.Context) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSynced, s.synced, nil
}

func (s *memMovieStore) MarkSynced(ctx context.Context, at time.Time, upserted int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSynced = at
	s.synced = true
	s.markCalls++
	return nil
}

type fakeUpstream struct {
	list   func(ctx context.Context, category models.Category, page int) (*tmdb.Page, error)
	search func(ctx context.Context, query string) (*tmdb.Page, error)

	listCalls   atomic.Int32
	searchCalls atomic.Int32
}

func (u *fakeUpstream) ListCategory(ctx context.Context, category models.Category, page int) (*tmdb.Page, error) {
	u.listCalls.Add(1)
	if u.list == nil {
		return &tmdb.Page{Page: page}, nil
	}
	return u.list(ctx, category, page)
}

func (u *fakeUpstream) SearchMovies(ctx context.Context, query string) (*tmdb.Page, error) {
	u.searchCalls.Add(1)
	if u.search == nil {
		return &tmdb.Page{}, nil
	}
	return u.search(ctx, query)
}

func pageOf(ids ...int64) *tmdb.Page {
	p := &tmdb.Page{Page: 1, TotalPages: 1}
	for _, id := range ids {
		pop := float64(id)
		p.Results = append(p.Results, tmdb.MovieResult{
			ID:         id,
			Title:      "Movie " + string(rune('A'+id%26)),
			Popularity: &pop,
			GenreIDs:   []int64{28},
		})
	}
	return p
}

type memUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User

	creates int
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]*models.User)}
}

func (s *memUserStore) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return nil, models.ErrDuplicate
		}
	}
	s.nextID++
	s.creates++
	u := &models.User{
		ID:           s.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Watchlist:    []int64{},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *memUserStore) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *memUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *memUserStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	c := *u
	c.Watchlist = slices.Clone(u.Watchlist)
	return &c, nil
}

func (s *memUserStore) AddToWatchlist(ctx context.Context, userID, movieID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	if !slices.Contains(u.Watchlist, movieID) {
		u.Watchlist = append(u.Watchlist, movieID)
	}
	return nil
}

func (s *memUserStore) RemoveFromWatchlist(ctx context.Context, userID, movieID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.Watchlist = slices.DeleteFunc(u.Watchlist, func(id int64) bool { return id == movieID })
	return nil
}

func (s *memUserStore) ToggleWatchlist(ctx context.Context, userID, movieID int64) (bool, error) {
	s.mu.Lock()
	u, ok := s.users[userID]
	if !ok {
		s.mu.Unlock()
		return false, models.ErrNotFound
	}
	present := slices.Contains(u.Watchlist, movieID)
	s.mu.Unlock()

	if present {
		return false, s.RemoveFromWatchlist(ctx, userID, movieID)
	}
	return true, s.AddToWatchlist(ctx, userID, movieID)
}

func (s *memUserStore) GetWatchlist(ctx context.Context, userID int64) ([]int64, error) {
	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.Watchlist, nil
}

type fakeRecommender struct {
	ids  []int64
	err  error
	got  []int64
	mode recommend.Mode
}

func (r *fakeRecommender) Recommend(ctx context.Context, mode recommend.Mode, movieIDs []int64) ([]int64, error) {
	r.mode = mode
	r.got = movieIDs
	return r.ids, r.err
}

type fakeFreshness struct {
	stale       bool
	staleErr    error
	ensureErr   error
	ensureCalls int
}

func (f *fakeFreshness) IsStale(ctx context.Context) (bool, error) {
	return f.stale, f.staleErr
}

func (f *fakeFreshness) EnsureFresh(ctx context.Context) error {
	f.ensureCalls++
	return f.ensureErr
}

var errUpstream = errors.New("upstream unavailable")

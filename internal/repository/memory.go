package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/atinyakov/siteadmin/internal/models"
)

// MemoryAuthRepository keeps admins and tokens in process memory.
type MemoryAuthRepository struct {
	mu     sync.RWMutex
	admins map[string]models.Admin // by email
	tokens map[string]models.Token
}

// NewMemoryAuthRepository returns an empty MemoryAuthRepository.
func NewMemoryAuthRepository() *MemoryAuthRepository {
	return &MemoryAuthRepository{
		admins: make(map[string]models.Admin),
		tokens: make(map[string]models.Token),
	}
}

func (r *MemoryAuthRepository) CreateAdmin(_ context.Context, a models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.admins[a.Email]; ok {
		return ErrConflict
	}
	r.admins[a.Email] = a
	return nil
}

func (r *MemoryAuthRepository) GetAdminByEmail(_ context.Context, email string) (models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.admins[email]
	if !ok {
		return models.Admin{}, ErrNotFound
	}
	return a, nil
}

func (r *MemoryAuthRepository) CountAdmins(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.admins), nil
}

func (r *MemoryAuthRepository) SaveToken(_ context.Context, t models.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[t.Value] = t
	return nil
}

func (r *MemoryAuthRepository) GetToken(_ context.Context, value string) (models.Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tokens[value]
	if !ok {
		return models.Token{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryAuthRepository) PurgeTokens(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for v, t := range r.tokens {
		if t.CreatedAt.Before(cutoff) {
			delete(r.tokens, v)
			n++
		}
	}
	return n, nil
}

type docKey struct {
	kind, id string
}

// MemoryContentRepository keeps content documents in process memory.
type MemoryContentRepository struct {
	mu   sync.RWMutex
	docs map[docKey]models.Document
}

// NewMemoryContentRepository returns an empty MemoryContentRepository.
func NewMemoryContentRepository() *MemoryContentRepository {
	return &MemoryContentRepository{docs: make(map[docKey]models.Document)}
}

func (r *MemoryContentRepository) List(_ context.Context, kind string) ([]models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := []models.Document{}
	for k, d := range r.docs {
		if k.kind == kind {
			docs = append(docs, d)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.Before(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

func (r *MemoryContentRepository) Get(_ context.Context, kind, id string) (models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.docs[docKey{kind, id}]
	if !ok {
		return models.Document{}, ErrNotFound
	}
	return d, nil
}

func (r *MemoryContentRepository) Create(_ context.Context, d models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := docKey{d.Kind, d.ID}
	if _, ok := r.docs[k]; ok {
		return ErrConflict
	}
	r.docs[k] = d
	return nil
}

func (r *MemoryContentRepository) Update(_ context.Context, d models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := docKey{d.Kind, d.ID}
	old, ok := r.docs[k]
	if !ok {
		return ErrNotFound
	}
	old.Body = d.Body
	r.docs[k] = old
	return nil
}

func (r *MemoryContentRepository) Upsert(_ context.Context, d models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := docKey{d.Kind, d.ID}
	if old, ok := r.docs[k]; ok {
		old.Body = d.Body
		r.docs[k] = old
		return nil
	}
	r.docs[k] = d
	return nil
}

func (r *MemoryContentRepository) Delete(_ context.Context, kind, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := docKey{kind, id}
	if _, ok := r.docs[k]; !ok {
		return ErrNotFound
	}
	delete(r.docs, k)
	return nil
}

func (r *MemoryContentRepository) Count(_ context.Context, kinds []string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int, len(kinds))
	for _, k := range kinds {
		counts[k] = 0
	}
	for k := range r.docs {
		if _, ok := counts[k.kind]; ok {
			counts[k.kind]++
		}
	}
	return counts, nil
}

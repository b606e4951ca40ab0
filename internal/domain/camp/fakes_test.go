package camp

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
)

type fakeRepo struct {
	mu     sync.Mutex
	camps  map[uuid.UUID]*Camp
	accs   map[uuid.UUID]*Accommodation
	addons map[uuid.UUID]*Addon
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		camps:  map[uuid.UUID]*Camp{},
		accs:   map[uuid.UUID]*Accommodation{},
		addons: map[uuid.UUID]*Addon{},
	}
}

func (f *fakeRepo) Create(ctx context.Context, c *Camp) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.camps[c.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Camp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.camps[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) Update(ctx context.Context, c *Camp) error {
	return f.Create(ctx, c)
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.camps[id].Status = status
	return nil
}

func (f *fakeRepo) AddImage(ctx context.Context, id uuid.UUID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.camps[id].Images = append(f.camps[id].Images, url)
	return nil
}

func (f *fakeRepo) UpdateRating(ctx context.Context, id uuid.UUID, rating float64, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.camps[id].Rating = rating
	f.camps[id].ReviewCount = count
	return nil
}

func (f *fakeRepo) Search(ctx context.Context, filter SearchFilter, limit, offset int) ([]*Summary, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Summary
	for _, c := range f.camps {
		if c.Status == StatusPublished && (filter.Province == "" || filter.Province == c.Province) {
			out = append(out, &Summary{Camp: *c})
		}
	}
	total := len(out)
	if offset >= len(out) {
		return []*Summary{}, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeRepo) ListByHost(ctx context.Context, hostID uuid.UUID) ([]*Camp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Camp
	for _, c := range f.camps {
		if c.HostID == hostID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateAccommodation(ctx context.Context, acc *Accommodation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *acc
	f.accs[acc.ID] = &cp
	return nil
}

func (f *fakeRepo) GetAccommodation(ctx context.Context, id uuid.UUID) (*Accommodation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accs[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) UpdateAccommodation(ctx context.Context, acc *Accommodation) error {
	return f.CreateAccommodation(ctx, acc)
}

func (f *fakeRepo) ListAccommodations(ctx context.Context, campID uuid.UUID) ([]*Accommodation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*Accommodation{}
	for _, a := range f.accs {
		if a.CampID == campID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateAddon(ctx context.Context, addon *Addon) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *addon
	f.addons[addon.ID] = &cp
	return nil
}

func (f *fakeRepo) ListAddons(ctx context.Context, campID uuid.UUID) ([]*Addon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*Addon{}
	for _, a := range f.addons {
		if a.CampID == campID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memoryCache struct {
	mu          sync.Mutex
	items       map[uuid.UUID]*Detail
	invalidated int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[uuid.UUID]*Detail{}}
}

func (c *memoryCache) Get(ctx context.Context, id uuid.UUID) (*Detail, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.items[id]
	return d, ok
}

func (c *memoryCache) Set(ctx context.Context, d *Detail) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[d.Camp.ID] = d
}

func (c *memoryCache) Invalidate(ctx context.Context, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	c.invalidated++
}

type memoryStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: map[string][]byte{}}
}

func (s *memoryStorage) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = buf.Bytes()
	return nil
}

func (s *memoryStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, key)
	return nil
}

func (s *memoryStorage) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[key]
	return ok, nil
}

func (s *memoryStorage) GetURL(key string) string {
	return "https://cdn.campy.test/" + key
}

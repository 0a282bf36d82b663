package service

import (
	"context"
	"sync"
	"time"

	"github.com/ERIC-757875/TutorHub/internal/model"
	"github.com/ERIC-757875/TutorHub/internal/repository"
)

// ── Mock TutorRepository ──

type mockTutorRepo struct {
	mu          sync.Mutex
	collection  *model.Collection
	err         error
	loads       int
	invalidated int
}

func newMockTutorRepo(v *model.SchemaVariant, records []model.TutorRecord) *mockTutorRepo {
	return &mockTutorRepo{collection: &model.Collection{
		Variant:  v,
		Records:  records,
		Source:   "tutors.xlsx",
		LoadedAt: time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC),
	}}
}

func (m *mockTutorRepo) Load(_ context.Context) (*model.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.err != nil {
		return nil, m.err
	}
	return m.collection, nil
}

func (m *mockTutorRepo) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated++
}

func newTestRepository(tutor repository.TutorRepository) *repository.Repository {
	return &repository.Repository{Tutor: tutor}
}

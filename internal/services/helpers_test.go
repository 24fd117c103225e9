package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"academy-admin/internal/entities"
	apperrors "academy-admin/pkg/errors"
	"academy-admin/pkg/utils"
)

// In-memory doubles for the repository interfaces.

type fakeManagerRepo struct {
	mu       sync.Mutex
	managers map[string]*entities.BranchManager
}

func newFakeManagerRepo() *fakeManagerRepo {
	return &fakeManagerRepo{managers: make(map[string]*entities.BranchManager)}
}

func (f *fakeManagerRepo) clone(m *entities.BranchManager) *entities.BranchManager {
	cp := *m
	return &cp
}

func (f *fakeManagerRepo) GetBranchManagers(_ context.Context, params utils.ListParams) ([]entities.BranchManager, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []entities.BranchManager
	for _, m := range f.managers {
		if params.ActiveOnly && !m.IsActive {
			continue
		}
		matched = append(matched, *m)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := uint64(len(matched))
	if params.Skip >= total {
		return []entities.BranchManager{}, total, nil
	}
	end := params.Skip + params.Limit
	if params.Limit == 0 || end > total {
		end = total
	}
	return matched[params.Skip:end], total, nil
}

func (f *fakeManagerRepo) FindByID(_ context.Context, id string) (*entities.BranchManager, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if m, ok := f.managers[id]; ok {
		return f.clone(m), nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeManagerRepo) FindByEmail(_ context.Context, email string) (*entities.BranchManager, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Active records win over deactivated ones with the same address.
	var inactive *entities.BranchManager
	for _, m := range f.managers {
		if m.Email != email {
			continue
		}
		if m.IsActive {
			return f.clone(m), nil
		}
		inactive = m
	}
	if inactive != nil {
		return f.clone(inactive), nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeManagerRepo) FindByResetToken(_ context.Context, token string) (*entities.BranchManager, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, m := range f.managers {
		if m.ResetToken != nil && *m.ResetToken == token {
			return f.clone(m), nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeManagerRepo) ExistsWithEmailOrPhone(_ context.Context, email, phone, excludeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, m := range f.managers {
		if !m.IsActive || m.ID == excludeID {
			continue
		}
		if m.Email == email || m.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeManagerRepo) EmailTakenByOther(_ context.Context, email, excludeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, m := range f.managers {
		if m.IsActive && m.ID != excludeID && m.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeManagerRepo) Create(_ context.Context, m *entities.BranchManager) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	m.CreatedAt, m.UpdatedAt = now, now
	f.managers[m.ID] = f.clone(m)
	return nil
}

func (f *fakeManagerRepo) Update(_ context.Context, m *entities.BranchManager) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.managers[m.ID]; !ok {
		return apperrors.ErrNotFound
	}
	m.UpdatedAt = time.Now()
	f.managers[m.ID] = f.clone(m)
	return nil
}

func (f *fakeManagerRepo) SoftDelete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, ok := f.managers[id]
	if !ok || !m.IsActive {
		return apperrors.ErrNotFound
	}
	m.IsActive = false
	return nil
}

func (f *fakeManagerRepo) SetResetToken(_ context.Context, id, token string, expiry time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, ok := f.managers[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	m.ResetToken = &token
	m.ResetTokenExpiry = &expiry
	return nil
}

func (f *fakeManagerRepo) ResetPassword(_ context.Context, id, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, ok := f.managers[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	m.PasswordHash = passwordHash
	m.ResetToken = nil
	m.ResetTokenExpiry = nil
	return nil
}

type fakeBranchRepo struct {
	mu       sync.Mutex
	branches map[string]*entities.Branch
}

func newFakeBranchRepo() *fakeBranchRepo {
	return &fakeBranchRepo{branches: make(map[string]*entities.Branch)}
}

func (f *fakeBranchRepo) GetBranches(_ context.Context, params utils.ListParams) ([]entities.Branch, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []entities.Branch
	for _, b := range f.branches {
		if params.ActiveOnly && !b.IsActive {
			continue
		}
		out = append(out, *b)
	}
	return out, uint64(len(out)), nil
}

func (f *fakeBranchRepo) FindBranch(_ context.Context, id string) (*entities.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if b, ok := f.branches[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeBranchRepo) FindByManager(_ context.Context, managerID string) ([]entities.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []entities.Branch
	for _, b := range f.branches {
		if b.IsActive && b.ManagerID != nil && *b.ManagerID == managerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBranchRepo) CreateBranch(_ context.Context, b *entities.Branch) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := *b
	f.branches[b.ID] = &cp
	return nil
}

func (f *fakeBranchRepo) UpdateBranch(_ context.Context, b *entities.Branch) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.branches[b.ID]; !ok {
		return apperrors.ErrNotFound
	}
	cp := *b
	f.branches[b.ID] = &cp
	return nil
}

func (f *fakeBranchRepo) DeleteBranch(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.branches[id]
	if !ok || !b.IsActive {
		return apperrors.ErrNotFound
	}
	b.IsActive = false
	return nil
}

type fakeAdminRepo struct {
	mu     sync.Mutex
	admins map[string]*entities.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[string]*entities.Admin)}
}

func (f *fakeAdminRepo) FindByEmail(_ context.Context, email string) (*entities.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeAdminRepo) FindByID(_ context.Context, id string) (*entities.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if a, ok := f.admins[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeAdminRepo) Create(_ context.Context, admin *entities.Admin) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := *admin
	f.admins[admin.ID] = &cp
	return nil
}

type fakeCacheRepo struct {
	mu       sync.Mutex
	values   map[string]string
	counters map[string]int64
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{
		values:   make(map[string]string),
		counters: make(map[string]int64),
	}
}

func (f *fakeCacheRepo) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", apperrors.ErrNotFound
}

func (f *fakeCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if s, ok := value.(string); ok {
		f.values[key] = s
	} else {
		f.values[key] = "1"
	}
	return nil
}

func (f *fakeCacheRepo) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, k := range keys {
		delete(f.values, k)
		delete(f.counters, k)
	}
	return nil
}

func (f *fakeCacheRepo) Incr(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.counters[key]++
	return f.counters[key], nil
}

func (f *fakeCacheRepo) Expire(_ context.Context, _ string, _ time.Duration) (bool, error) {
	return true, nil
}

type sentMail struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (f *fakeMailer) Send(_ context.Context, to, subject, htmlBody, textBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, sentMail{To: to, Subject: subject, HTML: htmlBody, Text: textBody})
	return nil
}

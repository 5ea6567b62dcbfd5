package impl

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskhub/internal/domain"
	"taskhub/internal/store"

	"github.com/google/uuid"
)

// In-memory implementations of the narrow store interfaces, shared by the
// tests in this package.

type memoryUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (m *memoryUserStore) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	return fn(memoryTxAdapter{users: m})
}

type memoryTxAdapter struct {
	users *memoryUserStore
}

func (m memoryTxAdapter) Users() userStore { return m.users }

func (m *memoryUserStore) Create(_ context.Context, usr *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == usr.Email {
			return domain.ErrDuplicateEmail
		}
		if u.Username == usr.Username {
			return domain.ErrDuplicateUsername
		}
		if u.MobileNumber == usr.MobileNumber {
			return domain.ErrDuplicateMobile
		}
	}
	cp := *usr
	m.users[usr.ID] = &cp
	return nil
}

func (m *memoryUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, store.ErrRecordNotFound
}

func (m *memoryUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrRecordNotFound
}

func (m *memoryUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryUserStore) UsernameExists(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryUserStore) MobileExists(_ context.Context, mobile string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.MobileNumber == mobile {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryUserStore) SetPhoneVerified(_ context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || u.PhoneVerified {
		return 0, nil
	}
	u.PhoneVerified = true
	return 1, nil
}

type memoryOtpStore struct {
	mu   sync.Mutex
	otps []*domain.OneTimePasscode
}

func newMemoryOtpStore() *memoryOtpStore { return &memoryOtpStore{} }

func (m *memoryOtpStore) Create(_ context.Context, otp *domain.OneTimePasscode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *otp
	m.otps = append(m.otps, &cp)
	return nil
}

func (m *memoryOtpStore) LatestValid(_ context.Context, userID uuid.UUID, code string, purpose domain.OtpPurpose, now time.Time) (*domain.OneTimePasscode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matches []*domain.OneTimePasscode
	for _, o := range m.otps {
		if o.UserID == userID && o.Code == code && o.Purpose == purpose && !o.IsUsed && o.ExpiresAt.After(now) {
			matches = append(matches, o)
		}
	}
	if len(matches) == 0 {
		return nil, store.ErrRecordNotFound
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })
	cp := *matches[0]
	return &cp, nil
}

func (m *memoryOtpStore) Consume(_ context.Context, id uuid.UUID, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.otps {
		if o.ID == id && !o.IsUsed && o.ExpiresAt.After(now) {
			o.IsUsed = true
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memoryOtpStore) CountRecent(_ context.Context, userID uuid.UUID, purpose domain.OtpPurpose, since time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, o := range m.otps {
		if o.UserID == userID && o.Purpose == purpose && !o.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *memoryOtpStore) LatestLive(_ context.Context, userID uuid.UUID, purpose domain.OtpPurpose, now time.Time) (*domain.OneTimePasscode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *domain.OneTimePasscode
	for _, o := range m.otps {
		if o.UserID == userID && o.Purpose == purpose && !o.IsUsed && o.ExpiresAt.After(now) {
			if latest == nil || o.CreatedAt.After(latest.CreatedAt) {
				latest = o
			}
		}
	}
	if latest == nil {
		return nil, store.ErrRecordNotFound
	}
	cp := *latest
	return &cp, nil
}

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.SessionToken
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[uuid.UUID]*domain.SessionToken)}
}

func (m *memorySessionStore) Upsert(_ context.Context, t *domain.SessionToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.UserID == t.UserID && ptrEq(s.DeviceUUID, t.DeviceUUID) {
			t.ID = s.ID
			cp := *t
			m.sessions[id] = &cp
			return nil
		}
	}
	cp := *t
	m.sessions[t.ID] = &cp
	return nil
}

func (m *memorySessionStore) GetByRefreshToken(_ context.Context, refreshToken string, userID uuid.UUID) (*domain.SessionToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.RefreshToken == refreshToken && s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, store.ErrRecordNotFound
}

func (m *memorySessionStore) ReplaceAccess(_ context.Context, id uuid.UUID, refreshToken, accessToken string, accessExpiry time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.RefreshToken != refreshToken {
		return 0, nil
	}
	s.AccessToken = accessToken
	s.AccessExpiresAt = accessExpiry
	s.UpdatedAt = time.Now().UTC()
	return 1, nil
}

func (m *memorySessionStore) DeleteByRefreshToken(_ context.Context, refreshToken string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if s.RefreshToken == refreshToken {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func (m *memorySessionStore) DeleteAllForUser(_ context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

type memoryTodoStore struct {
	mu    sync.Mutex
	todos map[uuid.UUID]*domain.Todo
}

func newMemoryTodoStore() *memoryTodoStore {
	return &memoryTodoStore{todos: make(map[uuid.UUID]*domain.Todo)}
}

func (m *memoryTodoStore) Create(_ context.Context, todo *domain.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *todo
	m.todos[todo.ID] = &cp
	return nil
}

func (m *memoryTodoStore) ListByUser(_ context.Context, userID uuid.UUID, day *time.Time) ([]*domain.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Todo
	for _, t := range m.todos {
		if t.UserID != userID {
			continue
		}
		if day != nil {
			start := day.UTC().Truncate(24 * time.Hour)
			if t.CreatedAt.Before(start) || !t.CreatedAt.Before(start.Add(24*time.Hour)) {
				continue
			}
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryTodoStore) GetByID(_ context.Context, id, userID uuid.UUID) (*domain.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.todos[id]; ok && t.UserID == userID {
		cp := *t
		return &cp, nil
	}
	return nil, store.ErrRecordNotFound
}

func (m *memoryTodoStore) Update(_ context.Context, id, userID uuid.UUID, fields map[string]any) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.todos[id]
	if !ok || t.UserID != userID {
		return 0, nil
	}
	for k, v := range fields {
		switch k {
		case "task":
			t.Task = v.(string)
		case "description":
			t.Description = v.(string)
		case "status":
			t.Status = domain.TodoStatus(v.(string))
		case "modified_at":
			t.UpdatedAt = v.(time.Time)
		}
	}
	return 1, nil
}

func (m *memoryTodoStore) Delete(_ context.Context, id, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.todos[id]; ok && t.UserID == userID {
		delete(m.todos, id)
		return 1, nil
	}
	return 0, nil
}

func ptrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

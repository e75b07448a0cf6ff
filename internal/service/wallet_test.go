package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"wallet_registry/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store keeping insertion order
type memStore struct {
	nextID  uint
	order   []uint
	wallets map[uint]domain.Wallet
	failAll error
}

func newMemStore() *memStore {
	return &memStore{wallets: make(map[uint]domain.Wallet)}
}

func (m *memStore) Create(_ context.Context, w *domain.Wallet) error {
	if m.failAll != nil {
		return m.failAll
	}
	m.nextID++
	w.ID = m.nextID
	m.wallets[w.ID] = *w
	m.order = append(m.order, w.ID)
	return nil
}

func (m *memStore) Get(_ context.Context, id uint) (*domain.Wallet, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	w, ok := m.wallets[id]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	return &w, nil
}

func (m *memStore) List(_ context.Context, filter domain.WalletFilter) ([]domain.Wallet, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	var out []domain.Wallet
	for _, id := range m.order {
		w, ok := m.wallets[id]
		if !ok {
			continue
		}
		if filter.UserID != nil && w.UserID != *filter.UserID {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (m *memStore) Update(_ context.Context, id uint, in domain.WalletInput) (*domain.Wallet, error) {
	w, ok := m.wallets[id]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	in.Apply(&w)
	m.wallets[id] = w
	return &w, nil
}

func (m *memStore) Delete(_ context.Context, id uint) error {
	if _, ok := m.wallets[id]; !ok {
		return domain.ErrWalletNotFound
	}
	delete(m.wallets, id)
	return nil
}

// memCache is an in-memory Cache that counts its calls
type memCache struct {
	items   map[string]domain.Wallet
	hits    int
	deletes int
	getErr  error
}

func newMemCache() *memCache {
	return &memCache{items: make(map[string]domain.Wallet)}
}

func (c *memCache) Get(_ context.Context, key string, dest any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	w, ok := c.items[key]
	if !ok {
		return false, nil
	}
	c.hits++
	*dest.(*domain.Wallet) = w
	return true, nil
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.items[key] = *value.(*domain.Wallet)
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.deletes++
	delete(c.items, key)
	return nil
}

func ptr[T any](v T) *T { return &v }

func validInput(address string) domain.WalletInput {
	return domain.WalletInput{
		UserID:     ptr(int64(1)),
		Address:    ptr(address),
		PrivateKey: ptr("I-am-the-private-test-key!"),
		PublicKey:  ptr("I-am-the-public-test-key!"),
	}
}

func seedWallets(t *testing.T, svc *WalletService, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := svc.Create(context.Background(), validInput(fmt.Sprintf("TestAddress%d", i)))
		require.NoError(t, err)
	}
}

func TestWalletService_Create(t *testing.T) {
	store := newMemStore()
	svc := NewWalletService(store)

	envelope, err := svc.Create(context.Background(), validInput("TestAddress"))
	require.NoError(t, err)
	assert.Equal(t, domain.Envelope{Status: "success", Message: "Wallet saved successfully."}, envelope)
	assert.Len(t, store.wallets, 1)
	assert.Equal(t, "TestAddress", store.wallets[1].Address)
}

func TestWalletService_CreateDefaultsUserID(t *testing.T) {
	store := newMemStore()
	svc := NewWalletService(store)
	in := validInput("addr")
	in.UserID = nil

	_, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(0), store.wallets[1].UserID)
}

func TestWalletService_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.WalletInput)
		fields map[string][]string
	}{
		{
			name:   "missing address",
			mutate: func(in *domain.WalletInput) { in.Address = nil },
			fields: map[string][]string{"address": {MsgRequired}},
		},
		{
			name: "missing keys",
			mutate: func(in *domain.WalletInput) {
				in.PrivateKey = nil
				in.PublicKey = nil
			},
			fields: map[string][]string{"private_key": {MsgRequired}, "public_key": {MsgRequired}},
		},
		{
			name:   "blank address",
			mutate: func(in *domain.WalletInput) { in.Address = ptr("") },
			fields: map[string][]string{"address": {MsgBlank}},
		},
		{
			name:   "address too long",
			mutate: func(in *domain.WalletInput) { in.Address = ptr(strings.Repeat("a", 43)) },
			fields: map[string][]string{"address": {"Ensure this field has no more than 42 characters."}},
		},
		{
			name:   "public key too long",
			mutate: func(in *domain.WalletInput) { in.PublicKey = ptr(strings.Repeat("k", 65)) },
			fields: map[string][]string{"public_key": {"Ensure this field has no more than 64 characters."}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			svc := NewWalletService(store)
			in := validInput("addr")
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), in)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.fields, verr.Fields)
			assert.Empty(t, store.wallets)
		})
	}
}

func TestWalletService_CreateAcceptsMaxLengths(t *testing.T) {
	svc := NewWalletService(newMemStore())
	in := domain.WalletInput{
		Address:    ptr(strings.Repeat("a", 42)),
		PrivateKey: ptr(strings.Repeat("p", 64)),
		PublicKey:  ptr(strings.Repeat("q", 64)),
	}

	_, err := svc.Create(context.Background(), in)
	assert.NoError(t, err)
}

func TestWalletService_CreateAllowsDuplicates(t *testing.T) {
	store := newMemStore()
	svc := NewWalletService(store)

	_, err := svc.Create(context.Background(), validInput("same"))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), validInput("same"))
	require.NoError(t, err)
	assert.Len(t, store.wallets, 2)
}

func TestWalletService_CreateStoreError(t *testing.T) {
	store := newMemStore()
	store.failAll = errors.New("db down")
	svc := NewWalletService(store)

	_, err := svc.Create(context.Background(), validInput("addr"))
	assert.EqualError(t, err, "db down")
}

func TestWalletService_List(t *testing.T) {
	store := newMemStore()
	svc := NewWalletService(store)
	seedWallets(t, svc, 3)
	other := validInput("other")
	other.UserID = ptr(int64(2))
	_, err := svc.Create(context.Background(), other)
	require.NoError(t, err)

	all, err := svc.List(context.Background(), domain.WalletFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	mine, err := svc.List(context.Background(), domain.WalletFilter{UserID: ptr(int64(1))})
	require.NoError(t, err)
	require.Len(t, mine, 3)
	for i, w := range mine {
		assert.Equal(t, fmt.Sprintf("TestAddress%d", i), w.Address)
	}

	none, err := svc.List(context.Background(), domain.WalletFilter{UserID: ptr(int64(3))})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestWalletService_Get(t *testing.T) {
	svc := NewWalletService(newMemStore())
	seedWallets(t, svc, 2)

	w, err := svc.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "TestAddress1", w.Address)

	_, err = svc.Get(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestWalletService_Replace(t *testing.T) {
	svc := NewWalletService(newMemStore())
	seedWallets(t, svc, 3)

	in := domain.WalletInput{
		UserID:     ptr(int64(1)),
		Address:    ptr("ChangedAdress"),
		PrivateKey: ptr("I-am-the-private-test-key-modifying!"),
		PublicKey:  ptr("I-am-the-public-test-key-modifying!"),
	}
	w, err := svc.Replace(context.Background(), 3, in)
	require.NoError(t, err)
	assert.Equal(t, domain.Wallet{
		ID:         3,
		UserID:     1,
		Address:    "ChangedAdress",
		PrivateKey: "I-am-the-private-test-key-modifying!",
		PublicKey:  "I-am-the-public-test-key-modifying!",
	}, *w)
}

func TestWalletService_ReplaceRequiresEveryField(t *testing.T) {
	svc := NewWalletService(newMemStore())
	seedWallets(t, svc, 1)

	_, err := svc.Replace(context.Background(), 1, domain.WalletInput{Address: ptr("only")})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string][]string{
		"user_id":     {MsgRequired},
		"private_key": {MsgRequired},
		"public_key":  {MsgRequired},
	}, verr.Fields)

	w, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "TestAddress0", w.Address)
}

func TestWalletService_ReplaceNotFound(t *testing.T) {
	svc := NewWalletService(newMemStore())

	_, err := svc.Replace(context.Background(), 1, validInput("x"))
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestWalletService_Patch(t *testing.T) {
	svc := NewWalletService(newMemStore())
	seedWallets(t, svc, 5)

	w, err := svc.Patch(context.Background(), 5, domain.WalletInput{Address: ptr("Patched")})
	require.NoError(t, err)
	assert.Equal(t, uint(5), w.ID)
	assert.Equal(t, "Patched", w.Address)
	assert.Equal(t, int64(1), w.UserID)
	assert.Equal(t, "I-am-the-private-test-key!", w.PrivateKey)
	assert.Equal(t, "I-am-the-public-test-key!", w.PublicKey)
}

func TestWalletService_PatchValidatesSuppliedFieldsOnly(t *testing.T) {
	svc := NewWalletService(newMemStore())
	seedWallets(t, svc, 1)

	_, err := svc.Patch(context.Background(), 1, domain.WalletInput{PrivateKey: ptr(strings.Repeat("x", 65))})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string][]string{"private_key": {"Ensure this field has no more than 64 characters."}}, verr.Fields)

	_, err = svc.Patch(context.Background(), 1, domain.WalletInput{Address: ptr("")})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string][]string{"address": {MsgBlank}}, verr.Fields)

	// An empty patch changes nothing
	w, err := svc.Patch(context.Background(), 1, domain.WalletInput{})
	require.NoError(t, err)
	assert.Equal(t, "TestAddress0", w.Address)
}

func TestWalletService_Delete(t *testing.T) {
	store := newMemStore()
	svc := NewWalletService(store)
	seedWallets(t, svc, 10)

	require.NoError(t, svc.Delete(context.Background(), 2))
	assert.Len(t, store.wallets, 9)

	_, err := svc.Get(context.Background(), 2)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, svc.Delete(context.Background(), 2), domain.ErrWalletNotFound)
	}
	assert.Len(t, store.wallets, 9)
}

func TestWalletService_GetReadsThroughCache(t *testing.T) {
	store := newMemStore()
	cache := newMemCache()
	svc := NewWalletService(store, WithCache(cache, time.Minute))
	seedWallets(t, svc, 1)

	first, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.hits)
	assert.Contains(t, cache.items, "wallet:id:1")

	second, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first, second)
}

func TestWalletService_WritesInvalidateCache(t *testing.T) {
	store := newMemStore()
	cache := newMemCache()
	svc := NewWalletService(store, WithCache(cache, time.Minute))
	seedWallets(t, svc, 1)

	_, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)

	_, err = svc.Patch(context.Background(), 1, domain.WalletInput{Address: ptr("Patched")})
	require.NoError(t, err)
	assert.NotContains(t, cache.items, "wallet:id:1")

	w, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Patched", w.Address)

	require.NoError(t, svc.Delete(context.Background(), 1))
	_, err = svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
	assert.Equal(t, 2, cache.deletes)
}

func TestWalletService_CacheFailureFallsBackToStore(t *testing.T) {
	store := newMemStore()
	cache := newMemCache()
	cache.getErr = errors.New("redis down")
	svc := NewWalletService(store, WithCache(cache, time.Minute))
	seedWallets(t, svc, 1)

	w, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "TestAddress0", w.Address)
}

package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"file-sharing-server/internal/model"
	"file-sharing-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) Create(ctx context.Context, object *model.Object) error {
	return m.Called(ctx, object).Error(0)
}

func (m *MockCatalog) GetByUUID(ctx context.Context, objectUUID string) (*model.Object, error) {
	args := m.Called(ctx, objectUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Object), args.Error(1)
}

func (m *MockCatalog) ListByOwner(ctx context.Context, ownerUUID string) ([]model.Object, error) {
	args := m.Called(ctx, ownerUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Object), args.Error(1)
}

func (m *MockCatalog) Delete(ctx context.Context, objectUUID string) error {
	return m.Called(ctx, objectUUID).Error(0)
}

type MockLedger struct{ mock.Mock }

func (m *MockLedger) UpsertGrant(ctx context.Context, objectUUID, granteeUUID, ownerUUID string, expiresAt *time.Time) (*model.Grant, error) {
	args := m.Called(ctx, objectUUID, granteeUUID, ownerUUID, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Grant), args.Error(1)
}

func (m *MockLedger) FindGrant(ctx context.Context, objectUUID, granteeUUID string) (*model.Grant, error) {
	args := m.Called(ctx, objectUUID, granteeUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Grant), args.Error(1)
}

func (m *MockLedger) ListGrantsForObject(ctx context.Context, objectUUID string) ([]model.Grant, error) {
	args := m.Called(ctx, objectUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Grant), args.Error(1)
}

func (m *MockLedger) ListGrantsForGrantee(ctx context.Context, granteeUUID string) ([]model.Grant, error) {
	args := m.Called(ctx, granteeUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Grant), args.Error(1)
}

func (m *MockLedger) RevokeGrant(ctx context.Context, objectUUID, granteeUUID string) error {
	return m.Called(ctx, objectUUID, granteeUUID).Error(0)
}

func (m *MockLedger) CreateLink(ctx context.Context, objectUUID, ownerUUID string, expiresAt *time.Time) (*model.ShareLink, error) {
	args := m.Called(ctx, objectUUID, ownerUUID, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareLink), args.Error(1)
}

func (m *MockLedger) FindLink(ctx context.Context, token string) (*model.ShareLink, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareLink), args.Error(1)
}

func (m *MockLedger) ListLinksForObject(ctx context.Context, objectUUID string) ([]model.ShareLink, error) {
	args := m.Called(ctx, objectUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ShareLink), args.Error(1)
}

func (m *MockLedger) RevokeLink(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockLedger) IncrementLinkAccess(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockLedger) DeleteAllForObject(ctx context.Context, objectUUID string) error {
	return m.Called(ctx, objectUUID).Error(0)
}

func (m *MockLedger) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockBlobStorage struct{ mock.Mock }

func (m *MockBlobStorage) Put(ctx context.Context, blobID string, body io.Reader, size int64, contentType string) error {
	return m.Called(ctx, blobID, body, size, contentType).Error(0)
}

func (m *MockBlobStorage) Get(ctx context.Context, blobID string) (io.ReadCloser, error) {
	args := m.Called(ctx, blobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockBlobStorage) Delete(ctx context.Context, blobID string) error {
	return m.Called(ctx, blobID).Error(0)
}

type MockUserDirectory struct{ mock.Mock }

func (m *MockUserDirectory) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserDirectory) FindByUUID(ctx context.Context, uuid string) (*model.User, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserDirectory) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserDirectory) Exists(ctx context.Context, uuid string) (bool, error) {
	args := m.Called(ctx, uuid)
	return args.Bool(0), args.Error(1)
}

type MockObjectCache struct{ mock.Mock }

func (m *MockObjectCache) SetObject(ctx context.Context, object *model.Object) error {
	return m.Called(ctx, object).Error(0)
}

func (m *MockObjectCache) GetObject(ctx context.Context, uuid string) (*model.Object, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Object), args.Error(1)
}

func (m *MockObjectCache) DeleteObject(ctx context.Context, uuid string) error {
	return m.Called(ctx, uuid).Error(0)
}

type testEnv struct {
	catalog *MockCatalog
	ledger  *MockLedger
	blobs   *MockBlobStorage
	users   *MockUserDirectory
	cache   *MockObjectCache
	svc     *service.AccessService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		catalog: &MockCatalog{},
		ledger:  &MockLedger{},
		blobs:   &MockBlobStorage{},
		users:   &MockUserDirectory{},
		cache:   &MockObjectCache{},
	}
	env.svc = service.NewAccessService(env.catalog, env.ledger, env.blobs, env.users, env.cache)

	// кэш в тестах прозрачен: промах на чтении, запись не мешает
	env.cache.On("GetObject", mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	env.cache.On("SetObject", mock.Anything, mock.Anything).Return(nil).Maybe()
	env.cache.On("DeleteObject", mock.Anything, mock.Anything).Return(nil).Maybe()

	return env
}

func testObject(owner string) *model.Object {
	return &model.Object{
		UUID:        "object-1",
		OwnerUUID:   owner,
		Name:        "report.pdf",
		ContentType: "application/pdf",
		SizeBytes:   42,
		BlobID:      "blob-1",
		CreatedAt:   time.Now(),
	}
}

func TestCanAccess_OwnerAlwaysAllowed(t *testing.T) {
	env := newTestEnv()
	object := testObject("owner-1")

	allowed, err := env.svc.CanAccess(context.Background(), "owner-1", object)

	require.NoError(t, err)
	assert.True(t, allowed)
	env.ledger.AssertNotCalled(t, "FindGrant", mock.Anything, mock.Anything, mock.Anything)
}

func TestCanAccess_ActiveGrantAllowed(t *testing.T) {
	env := newTestEnv()
	object := testObject("owner-1")
	env.ledger.On("FindGrant", mock.Anything, "object-1", "user-2").
		Return(&model.Grant{ObjectUUID: "object-1", GranteeUUID: "user-2"}, nil)

	allowed, err := env.svc.CanAccess(context.Background(), "user-2", object)

	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCanAccess_NoGrantDenied(t *testing.T) {
	env := newTestEnv()
	object := testObject("owner-1")
	env.ledger.On("FindGrant", mock.Anything, "object-1", "user-2").Return(nil, nil)

	allowed, err := env.svc.CanAccess(context.Background(), "user-2", object)

	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestDownload_ObjectAbsentReturnsNotFound(t *testing.T) {
	env := newTestEnv()
	env.catalog.On("GetByUUID", mock.Anything, "missing").Return(nil, nil)

	_, err := env.svc.Download(context.Background(), "user-1", "missing")

	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDownload_NoAccessReturnsForbidden(t *testing.T) {
	env := newTestEnv()
	env.catalog.On("GetByUUID", mock.Anything, "object-1").Return(testObject("owner-1"), nil)
	env.ledger.On("FindGrant", mock.Anything, "object-1", "stranger").Return(nil, nil)

	_, err := env.svc.Download(context.Background(), "stranger", "object-1")

	assert.ErrorIs(t, err, model.ErrForbidden)
	env.blobs.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestDownload_OwnerGetsContent(t *testing.T) {
	env := newTestEnv()
	env.catalog.On("GetByUUID", mock.Anything, "object-1").Return(testObject("owner-1"), nil)
	env.blobs.On("Get", mock.Anything, "blob-1").
		Return(io.NopCloser(strings.NewReader("содержимое")), nil)

	result, err := env.svc.Download(context.Background(), "owner-1", "object-1")

	require.NoError(t, err)
	defer result.Body.Close()
	data, err := io.ReadAll(result.Body)
	require.NoError(t, err)
	assert.Equal(t, "содержимое", string(data))
	assert.Equal(t, "report.pdf", result.Object.Name)
}

func TestUpload_WritesBlobThenCatalog(t *testing.T) {
	env := newTestEnv()
	env.blobs.On("Put", mock.Anything, mock.Anything, mock.Anything, int64(4), "text/plain").Return(nil)
	env.catalog.On("Create", mock.Anything, mock.MatchedBy(func(o *model.Object) bool {
		return o.OwnerUUID == "owner-1" && o.Name == "a.txt" && o.BlobID != ""
	})).Return(nil)

	object, err := env.svc.Upload(context.Background(), "owner-1", "a.txt", "text/plain", strings.NewReader("data"), 4)

	require.NoError(t, err)
	assert.Equal(t, "owner-1", object.OwnerUUID)
	assert.NotEmpty(t, object.UUID)
	env.blobs.AssertExpectations(t)
	env.catalog.AssertExpectations(t)
}

func TestUpload_CatalogFailureCleansOrphanedBlob(t *testing.T) {
	env := newTestEnv()
	env.blobs.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	env.catalog.On("Create", mock.Anything, mock.Anything).Return(errors.New("БД недоступна"))
	env.blobs.On("Delete", mock.Anything, mock.Anything).Return(nil)

	_, err := env.svc.Upload(context.Background(), "owner-1", "a.txt", "text/plain", strings.NewReader("data"), 4)

	assert.ErrorIs(t, err, model.ErrStorageFailure)
	env.blobs.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUpload_EmptyNameInvalid(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Upload(context.Background(), "owner-1", "", "text/plain", strings.NewReader(""), 0)

	assert.ErrorIs(t, err, model.ErrInvalidInput)
	env.blobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListAccessible_OwnedAndShared(t *testing.T) {
	env := newTestEnv()
	owned := []model.Object{*testObject("user-1")}
	env.catalog.On("ListByOwner", mock.Anything, "user-1").Return(owned, nil)
	env.ledger.On("ListGrantsForGrantee", mock.Anything, "user-1").
		Return([]model.Grant{{ObjectUUID: "object-b", GranteeUUID: "user-1"}}, nil)
	objectB := testObject("owner-2")
	objectB.UUID = "object-b"
	env.catalog.On("GetByUUID", mock.Anything, "object-b").Return(objectB, nil)

	accessible, err := env.svc.ListAccessible(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Len(t, accessible.Owned, 1)
	require.Len(t, accessible.Shared, 1)
	assert.Equal(t, "object-b", accessible.Shared[0].UUID)
}

func TestListAccessible_SkipsDanglingGrant(t *testing.T) {
	env := newTestEnv()
	env.catalog.On("ListByOwner", mock.Anything, "user-1").Return([]model.Object{}, nil)
	env.ledger.On("ListGrantsForGrantee", mock.Anything, "user-1").
		Return([]model.Grant{{ObjectUUID: "deleted-object", GranteeUUID: "user-1"}}, nil)
	// устаревший grant на уже удалённый объект
	env.catalog.On("GetByUUID", mock.Anything, "deleted-object").Return(nil, nil)

	accessible, err := env.svc.ListAccessible(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Empty(t, accessible.Shared)
}

func TestGrantToUsers_EmptyListInvalid(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.GrantToUsers(context.Background(), "owner-1", "object-1", nil, 0)

	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestGrantToUsers_NotOwnerForbidden(t *testing.T) {
	env := newTestEnv()
	env.catalog.On("GetByUUID", mock.Anything, "object-1").Return(testObject("owner-1"), nil)

	_, err := env.svc.GrantToUsers(context.Background(), "stranger", "object-1", []string{"user-2"}, 0)

	assert.ErrorIs(t, err, model.ErrForbidden)
	env.ledger.AssertNotCalled(t, "UpsertGrant", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGrantToUsers_SkipsUnknownUsers(t *testing.T) {
	env := newTestEnv()
	env.catalog.On("GetByUUID", mock.Anything, "object-1").Return(testObject("owner-1"), nil)
	env.users.On("Exists", mock.Anything, "known").Return(true, nil)
	env.users.On("Exists", mock.Anything, "unknown").Return(false, nil)
	env.ledger.On("UpsertGrant", mock.Anything, "object-1", "known", "owner-1", (*time.Time)(nil)).
		Return(&model.Grant{ObjectUUID: "object-1", GranteeUUID: "known", OwnerUUID: "owner-1"}, nil)

	created, err := env.svc.GrantToUsers(context.Background(), "owner-1", "object-1", []string{"known", "unknown"}, 0)

	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "known", created[0].GranteeUUID)
	env.ledger.AssertNumberOfCalls(t, "UpsertGrant", 1)
}

func TestGrantToUsers_TTLSetsExpiry(t *testing.T) {
	env := newTestEnv()
	env.catalog.On("GetByUUID", mock.Anything, "object-1").Return(testObject("owner-1"), nil)
	env.users.On("Exists", mock.Anything, "user-2").Return(true, nil)
	env.ledger.On("UpsertGrant", mock.Anything, "object-1", "user-2", "owner-1", mock.MatchedBy(func(expiresAt *time.Time) bool {
		return expiresAt != nil && expiresAt.After(time.Now())
	})).Return(&model.Grant{ObjectUUID: "object-1", GranteeUUID: "user-2"}, nil)

	_, err := env.svc.GrantToUsers(context.Background(), "owner-1", "object-1", []string{"user-2"}, 3600)

	require.NoError(t, err)
	env.ledger.AssertExpectations(t)
}

func TestGrantToUsers_ConcurrentDisjointListsBothLand(t *testing.T) {
	env := newTestEnv()
	env.catalog.On("GetByUUID", mock.Anything, "object-1").Return(testObject("owner-1"), nil)
	env.users.On("Exists", mock.Anything, mock.Anything).Return(true, nil)
	env.ledger.On("UpsertGrant", mock.Anything, "object-1", mock.Anything, "owner-1", (*time.Time)(nil)).
		Return(&model.Grant{ObjectUUID: "object-1", OwnerUUID: "owner-1"}, nil)

	// параллельная раздача непересекающимся получателям: оба grant должны
	// дойти до реестра, потерь нет
	var wg sync.WaitGroup
	for _, grantees := range [][]string{{"user-2"}, {"user-3"}} {
		wg.Add(1)
		go func(grantees []string) {
			defer wg.Done()
			created, err := env.svc.GrantToUsers(context.Background(), "owner-1", "object-1", grantees, 0)
			assert.NoError(t, err)
			assert.Len(t, created, 1)
		}(grantees)
	}
	wg.Wait()

	env.ledger.AssertNumberOfCalls(t, "UpsertGrant", 2)
	env.ledger.AssertCalled(t, "UpsertGrant", mock.Anything, "object-1", "user-2", "owner-1", (*time.Time)(nil))
	env.ledger.AssertCalled(t, "UpsertGrant", mock.Anything, "object-1", "user-3", "owner-1", (*time.Time)(nil))
}

func TestRevokeUserAccess_OnlyOwner(t *testing.T) {
	env := newTestEnv()
	env.catalog.On("GetByUUID", mock.Anything, "object-1").Return(testObject("owner-1"), nil)

	err := env.svc.RevokeUserAccess(context.Background(), "stranger", "object-1", "user-2")

	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestRevokeUserAccess_Idempotent(t *testing.T) {
	env := newTestEnv()
	env.catalog.On("GetByUUID", mock.Anything, "object-1").Return(testObject("owner-1"), nil)
	env.ledger.On("RevokeGrant", mock.Anything, "object-1", "user-2").Return(nil)

	require.NoError(t, env.svc.RevokeUserAccess(context.Background(), "owner-1", "object-1", "user-2"))
	require.NoError(t, env.svc.RevokeUserAccess(context.Background(), "owner-1", "object-1", "user-2"))
}

func TestCreateShareLink_OnlyOwner(t *testing.T) {
	env := newTestEnv()
	env.catalog.On("GetByUUID", mock.Anything, "object-1").Return(testObject("owner-1"), nil)

	_, err := env.svc.CreateShareLink(context.Background(), "stranger", "object-1", 0)

	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestCreateShareLink_TTLSetsExpiry(t *testing.T) {
	env := newTestEnv()
	env.catalog.On("GetByUUID", mock.Anything, "object-1").Return(testObject("owner-1"), nil)
	env.ledger.On("CreateLink", mock.Anything, "object-1", "owner-1", mock.MatchedBy(func(expiresAt *time.Time) bool {
		return expiresAt != nil && expiresAt.After(time.Now())
	})).Return(&model.ShareLink{Token: "tok", ObjectUUID: "object-1", OwnerUUID: "owner-1"}, nil)

	link, err := env.svc.CreateShareLink(context.Background(), "owner-1", "object-1", 60)

	require.NoError(t, err)
	assert.Equal(t, "tok", link.Token)
}

func TestCreateShareLink_NoTTLMeansNoExpiry(t *testing.T) {
	env := newTestEnv()
	env.catalog.On("GetByUUID", mock.Anything, "object-1").Return(testObject("owner-1"), nil)
	env.ledger.On("CreateLink", mock.Anything, "object-1", "owner-1", (*time.Time)(nil)).
		Return(&model.ShareLink{Token: "tok"}, nil)

	_, err := env.svc.CreateShareLink(context.Background(), "owner-1", "object-1", -5)

	require.NoError(t, err)
	env.ledger.AssertExpectations(t)
}

func TestAccessViaLink_UnknownTokenNotFound(t *testing.T) {
	env := newTestEnv()
	// истёкшая ссылка неотличима от отсутствующей
	env.ledger.On("FindLink", mock.Anything, "expired").Return(nil, nil)

	_, err := env.svc.AccessViaLink(context.Background(), "user-1", "expired")

	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAccessViaLink_ObjectGoneNotFound(t *testing.T) {
	env := newTestEnv()
	env.ledger.On("FindLink", mock.Anything, "tok").
		Return(&model.ShareLink{Token: "tok", ObjectUUID: "gone"}, nil)
	env.catalog.On("GetByUUID", mock.Anything, "gone").Return(nil, nil)

	_, err := env.svc.AccessViaLink(context.Background(), "user-1", "tok")

	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAccessViaLink_RequiresIdentity(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.AccessViaLink(context.Background(), "", "tok")

	assert.ErrorIs(t, err, model.ErrForbidden)
	env.ledger.AssertNotCalled(t, "FindLink", mock.Anything, mock.Anything)
}

func TestAccessViaLink_StreamsAndCountsAccess(t *testing.T) {
	env := newTestEnv()
	env.ledger.On("FindLink", mock.Anything, "tok").
		Return(&model.ShareLink{Token: "tok", ObjectUUID: "object-1", OwnerUUID: "owner-1"}, nil)
	env.catalog.On("GetByUUID", mock.Anything, "object-1").Return(testObject("owner-1"), nil)
	env.ledger.On("IncrementLinkAccess", mock.Anything, "tok").Return(nil)
	env.blobs.On("Get", mock.Anything, "blob-1").
		Return(io.NopCloser(strings.NewReader("данные")), nil)

	// ссылка работает и для пользователя без grant
	result, err := env.svc.AccessViaLink(context.Background(), "stranger", "tok")

	require.NoError(t, err)
	defer result.Body.Close()
	data, _ := io.ReadAll(result.Body)
	assert.Equal(t, "данные", string(data))
	env.ledger.AssertCalled(t, "IncrementLinkAccess", mock.Anything, "tok")
}

func TestAccessViaLink_CounterFailureDoesNotBlock(t *testing.T) {
	env := newTestEnv()
	env.ledger.On("FindLink", mock.Anything, "tok").
		Return(&model.ShareLink{Token: "tok", ObjectUUID: "object-1"}, nil)
	env.catalog.On("GetByUUID", mock.Anything, "object-1").Return(testObject("owner-1"), nil)
	env.ledger.On("IncrementLinkAccess", mock.Anything, "tok").Return(errors.New("Redis моргнул"))
	env.blobs.On("Get", mock.Anything, "blob-1").
		Return(io.NopCloser(strings.NewReader("x")), nil)

	result, err := env.svc.AccessViaLink(context.Background(), "user-1", "tok")

	require.NoError(t, err)
	result.Body.Close()
}

func TestAccessViaLink_FailedStreamNotCounted(t *testing.T) {
	env := newTestEnv()
	env.ledger.On("FindLink", mock.Anything, "tok").
		Return(&model.ShareLink{Token: "tok", ObjectUUID: "object-1"}, nil)
	env.catalog.On("GetByUUID", mock.Anything, "object-1").Return(testObject("owner-1"), nil)
	env.blobs.On("Get", mock.Anything, "blob-1").Return(nil, errors.New("S3 недоступен"))

	// несостоявшееся скачивание не попадает в счётчик обращений
	_, err := env.svc.AccessViaLink(context.Background(), "user-1", "tok")

	assert.ErrorIs(t, err, model.ErrStorageFailure)
	env.ledger.AssertNotCalled(t, "IncrementLinkAccess", mock.Anything, mock.Anything)
}

func TestRevokeLink_OnlyLinkOwner(t *testing.T) {
	env := newTestEnv()
	env.ledger.On("FindLink", mock.Anything, "tok").
		Return(&model.ShareLink{Token: "tok", OwnerUUID: "owner-1"}, nil)

	err := env.svc.RevokeLink(context.Background(), "stranger", "tok")

	assert.ErrorIs(t, err, model.ErrForbidden)
	env.ledger.AssertNotCalled(t, "RevokeLink", mock.Anything, mock.Anything)
}

func TestRevokeLink_UnknownTokenNotFound(t *testing.T) {
	env := newTestEnv()
	env.ledger.On("FindLink", mock.Anything, "tok").Return(nil, nil)

	err := env.svc.RevokeLink(context.Background(), "owner-1", "tok")

	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteObject_CascadesBlobLedgerCatalog(t *testing.T) {
	env := newTestEnv()
	env.catalog.On("GetByUUID", mock.Anything, "object-1").Return(testObject("owner-1"), nil)
	env.blobs.On("Delete", mock.Anything, "blob-1").Return(nil)
	env.ledger.On("DeleteAllForObject", mock.Anything, "object-1").Return(nil)
	env.catalog.On("Delete", mock.Anything, "object-1").Return(nil)

	err := env.svc.DeleteObject(context.Background(), "owner-1", "object-1")

	require.NoError(t, err)
	env.blobs.AssertExpectations(t)
	env.ledger.AssertExpectations(t)
	env.catalog.AssertExpectations(t)
}

func TestDeleteObject_BlobFailureTolerated(t *testing.T) {
	env := newTestEnv()
	env.catalog.On("GetByUUID", mock.Anything, "object-1").Return(testObject("owner-1"), nil)
	env.blobs.On("Delete", mock.Anything, "blob-1").Return(errors.New("S3 недоступен"))
	env.ledger.On("DeleteAllForObject", mock.Anything, "object-1").Return(nil)
	env.catalog.On("Delete", mock.Anything, "object-1").Return(nil)

	// висящий блоб терпим, метаданные должны уйти
	err := env.svc.DeleteObject(context.Background(), "owner-1", "object-1")

	require.NoError(t, err)
	env.catalog.AssertCalled(t, "Delete", mock.Anything, "object-1")
}

func TestDeleteObject_OnlyOwner(t *testing.T) {
	env := newTestEnv()
	env.catalog.On("GetByUUID", mock.Anything, "object-1").Return(testObject("owner-1"), nil)

	err := env.svc.DeleteObject(context.Background(), "stranger", "object-1")

	assert.ErrorIs(t, err, model.ErrForbidden)
	env.blobs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestListShares_OnlyOwner(t *testing.T) {
	env := newTestEnv()
	env.catalog.On("GetByUUID", mock.Anything, "object-1").Return(testObject("owner-1"), nil)

	_, err := env.svc.ListShares(context.Background(), "stranger", "object-1")

	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestListShares_ReturnsGrantsAndLinks(t *testing.T) {
	env := newTestEnv()
	env.catalog.On("GetByUUID", mock.Anything, "object-1").Return(testObject("owner-1"), nil)
	env.ledger.On("ListGrantsForObject", mock.Anything, "object-1").
		Return([]model.Grant{{ObjectUUID: "object-1", GranteeUUID: "user-2"}}, nil)
	env.ledger.On("ListLinksForObject", mock.Anything, "object-1").
		Return([]model.ShareLink{{Token: "tok", ObjectUUID: "object-1"}}, nil)

	shares, err := env.svc.ListShares(context.Background(), "owner-1", "object-1")

	require.NoError(t, err)
	assert.Len(t, shares.Users, 1)
	assert.Len(t, shares.Links, 1)
}

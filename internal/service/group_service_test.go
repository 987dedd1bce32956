package service

import (
	"alcyxob/fitness-tracker/internal/repository/memory"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGroupService_InviteScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a, b, c := trainer(), trainee(), trainee()

	group, first, err := f.groups.CreateGroup(ctx, a, "Morning Crew", "6am sessions")
	require.NoError(t, err)
	assert.Equal(t, a.UserID, group.OwnerID)
	assert.Len(t, first.Code, 32)

	invite, err := f.groups.GenerateInvite(ctx, a, group.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.Code, invite.Code)

	joined, already, err := f.groups.RedeemInvite(ctx, b, invite.Code)
	require.NoError(t, err)
	assert.False(t, already)
	assert.Equal(t, group.ID, joined.ID)
	assert.Equal(t, int64(1), joined.MembersCount)

	members, err := f.groups.ListMembers(ctx, a, group.ID)
	require.NoError(t, err)
	assert.Contains(t, members, b.UserID)
	assert.NotContains(t, members, c.UserID)

	// Earlier codes stay live after new ones are generated.
	_, _, err = f.groups.RedeemInvite(ctx, c, first.Code)
	require.NoError(t, err)
	members, err = f.groups.ListMembers(ctx, a, group.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []primitive.ObjectID{b.UserID, c.UserID}, members)

	invites, err := f.groups.ListInvites(ctx, a, group.ID)
	require.NoError(t, err)
	assert.Len(t, invites, 2)
}

func TestGroupService_RedeemIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	owner, member := trainer(), trainee()
	group, invite, err := f.groups.CreateGroup(ctx, owner, "G", "")
	require.NoError(t, err)

	_, already, err := f.groups.RedeemInvite(ctx, member, invite.Code)
	require.NoError(t, err)
	assert.False(t, already)

	_, already, err = f.groups.RedeemInvite(ctx, member, invite.Code)
	require.NoError(t, err)
	assert.True(t, already)

	members, err := f.groups.ListMembers(ctx, owner, group.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{member.UserID}, members)
}

func TestGroupService_ConcurrentRedeemCreatesOneMembership(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	owner, member := trainer(), trainee()
	group, invite, err := f.groups.CreateGroup(ctx, owner, "G", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	newMemberships := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, already, err := f.groups.RedeemInvite(ctx, member, invite.Code)
			assert.NoError(t, err)
			if !already {
				mu.Lock()
				newMemberships++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, newMemberships)
	members, err := f.groups.ListMembers(ctx, owner, group.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestGroupService_RedeemUnknownCode(t *testing.T) {
	f := newFixture()
	_, _, err := f.groups.RedeemInvite(context.Background(), trainee(), "deadbeef")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGroupService_RoleAndOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	owner, other, member := trainer(), trainer(), trainee()
	group, invite, err := f.groups.CreateGroup(ctx, owner, "G", "")
	require.NoError(t, err)

	_, _, err = f.groups.CreateGroup(ctx, member, "Mine", "")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.groups.GenerateInvite(ctx, member, group.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.groups.GenerateInvite(ctx, other, group.ID)
	assert.ErrorIs(t, err, ErrNotGroupOwner)

	_, err = f.groups.ListMembers(ctx, other, group.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.groups.ListMembers(ctx, owner, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = f.groups.RedeemInvite(ctx, owner, invite.Code)
	assert.ErrorIs(t, err, ErrForbidden, "trainers cannot join groups")
}

func TestGroupService_CreateGroupValidation(t *testing.T) {
	f := newFixture()
	_, _, err := f.groups.CreateGroup(context.Background(), trainer(), "   ", "desc")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGroupService_ListGroups(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	owner, member := trainer(), trainee()
	g1, invite, err := f.groups.CreateGroup(ctx, owner, "One", "")
	require.NoError(t, err)
	_, _, err = f.groups.CreateGroup(ctx, owner, "Two", "")
	require.NoError(t, err)
	_, _, err = f.groups.CreateGroup(ctx, trainer(), "Elsewhere", "")
	require.NoError(t, err)
	_, _, err = f.groups.RedeemInvite(ctx, member, invite.Code)
	require.NoError(t, err)

	owned, err := f.groups.ListGroups(ctx, owner)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	counts := map[primitive.ObjectID]int64{}
	for _, g := range owned {
		counts[g.ID] = g.MembersCount
	}
	assert.Equal(t, int64(1), counts[g1.ID])

	joined, err := f.groups.ListGroups(ctx, member)
	require.NoError(t, err)
	require.Len(t, joined, 1)
	assert.Equal(t, g1.ID, joined[0].ID)
	assert.Equal(t, int64(1), joined[0].MembersCount)
}

func TestGroupService_InviteCodeCollisionRetries(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	guard := NewGuard(store)
	svc := NewGroupService(store, guard, nil, InviteOptions{}).(*groupService)

	codes := []string{"same", "same", "fresh"}
	svc.newCode = func() string {
		code := codes[0]
		codes = codes[1:]
		return code
	}

	owner := trainer()
	group, first, err := svc.CreateGroup(ctx, owner, "G", "")
	require.NoError(t, err)
	assert.Equal(t, "same", first.Code)

	second, err := svc.GenerateInvite(ctx, owner, group.ID)
	require.NoError(t, err)
	assert.Equal(t, "fresh", second.Code)

	svc.newCode = func() string { return "same" }
	_, err = svc.GenerateInvite(ctx, owner, group.ID)
	assert.Error(t, err)
}

type mockFileStorage struct {
	mock.Mock
}

func (m *mockFileStorage) PutObject(ctx context.Context, key, contentType string, body []byte) error {
	return m.Called(ctx, key, contentType, body).Error(0)
}

func (m *mockFileStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	args := m.Called(ctx, key, expires)
	return args.String(0), args.Error(1)
}

func TestGroupService_InviteQR(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	guard := NewGuard(store)
	owner := trainer()

	var encoded string
	fakeEncode := func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error) {
		encoded = content
		assert.Equal(t, 128, size)
		return []byte("png-bytes"), nil
	}

	t.Run("inline without storage", func(t *testing.T) {
		svc := NewGroupService(store, guard, nil, InviteOptions{BaseURL: "https://fit.example/", QRSize: 128}).(*groupService)
		svc.encodeQR = fakeEncode
		group, invite, err := svc.CreateGroup(ctx, owner, "G", "")
		require.NoError(t, err)

		qr, err := svc.InviteQR(ctx, owner, group.ID, invite.Code)
		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), qr.PNG)
		assert.Empty(t, qr.URL)
		assert.Equal(t, "https://fit.example/api/groups/join?invite_code="+invite.Code, encoded)
	})

	t.Run("uploaded and presigned with storage", func(t *testing.T) {
		files := new(mockFileStorage)
		svc := NewGroupService(store, guard, files, InviteOptions{QRSize: 128, QRURLExpiry: time.Minute}).(*groupService)
		svc.encodeQR = fakeEncode
		group, invite, err := svc.CreateGroup(ctx, owner, "G", "")
		require.NoError(t, err)

		key := "invites/" + group.ID.Hex() + "/" + invite.Code + ".png"
		files.On("PutObject", mock.Anything, key, "image/png", []byte("png-bytes")).Return(nil).Once()
		files.On("GeneratePresignedDownloadURL", mock.Anything, key, time.Minute).Return("https://s3/signed", nil).Once()

		qr, err := svc.InviteQR(ctx, owner, group.ID, invite.Code)
		require.NoError(t, err)
		assert.Equal(t, "https://s3/signed", qr.URL)
		files.AssertExpectations(t)
	})

	t.Run("upload failure surfaces", func(t *testing.T) {
		files := new(mockFileStorage)
		svc := NewGroupService(store, guard, files, InviteOptions{QRSize: 128}).(*groupService)
		svc.encodeQR = fakeEncode
		group, invite, err := svc.CreateGroup(ctx, owner, "G", "")
		require.NoError(t, err)
		files.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("boom"))

		_, err = svc.InviteQR(ctx, owner, group.ID, invite.Code)
		assert.Error(t, err)
		files.AssertNotCalled(t, "GeneratePresignedDownloadURL", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("code from another group is not found", func(t *testing.T) {
		svc := NewGroupService(store, guard, nil, InviteOptions{QRSize: 128}).(*groupService)
		svc.encodeQR = fakeEncode
		g1, _, err := svc.CreateGroup(ctx, owner, "G1", "")
		require.NoError(t, err)
		_, other, err := svc.CreateGroup(ctx, owner, "G2", "")
		require.NoError(t, err)

		_, err = svc.InviteQR(ctx, owner, g1.ID, other.Code)
		assert.ErrorIs(t, err, ErrInviteNotFound)
	})

	t.Run("real encoder produces a png", func(t *testing.T) {
		svc := NewGroupService(store, guard, nil, InviteOptions{QRSize: 64})
		group, invite, err := svc.CreateGroup(ctx, owner, "G", "")
		require.NoError(t, err)
		qr, err := svc.InviteQR(ctx, owner, group.ID, invite.Code)
		require.NoError(t, err)
		assert.Equal(t, []byte("\x89PNG"), qr.PNG[:4])
	})
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/database"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/models"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/subscription"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGetInfo(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewSubscriptionService(db, testConfig(t))
	ctx := context.Background()

	_, err := svc.GetInfo(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)

	fresh := testutil.CreateUser(t, db, testutil.UserOpts{})
	info, err := svc.GetInfo(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, subscription.TypeNone, info.Type)
	assert.False(t, info.IsActive)
	assert.Nil(t, info.DaysRemaining)

	pro := testutil.CreateUser(t, db, testutil.UserOpts{Type: subscription.TypePro, End: testutil.TimeIn(48 * time.Hour)})
	info, err = svc.GetInfo(ctx, pro.ID)
	require.NoError(t, err)
	assert.True(t, info.IsActive)
	require.NotNil(t, info.DaysRemaining)
	assert.Equal(t, 2, *info.DaysRemaining)
	assert.Equal(t, subscription.PlanFor(subscription.TypePro).Features, info.Features)
}

func TestSubmit(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewSubscriptionService(db, testConfig(t))
	ctx := context.Background()
	user := testutil.CreateUser(t, db, testutil.UserOpts{Name: "Ada", Email: "ada@example.com"})

	t.Run("invalid type", func(t *testing.T) {
		_, err := svc.Submit(ctx, user.ID, "GOLD", nil)
		assert.ErrorIs(t, err, ErrInvalidSubscriptionType)
	})

	t.Run("creates pending with owner", func(t *testing.T) {
		req, err := svc.Submit(ctx, user.ID, "PRO", strPtr("need reports"))
		require.NoError(t, err)
		assert.Equal(t, models.RequestPending, req.Status)
		assert.Equal(t, subscription.TypePro, req.RequestedType)
		require.NotNil(t, req.Reason)
		assert.Equal(t, "need reports", *req.Reason)
		assert.Nil(t, req.AdminNotes)
		assert.Equal(t, "Ada", req.User.Name)
		assert.Equal(t, "ada@example.com", req.User.Email)
	})

	t.Run("duplicate pending for same type", func(t *testing.T) {
		_, err := svc.Submit(ctx, user.ID, "PRO", nil)
		assert.ErrorIs(t, err, ErrDuplicatePendingRequest)
	})

	t.Run("other type is independent", func(t *testing.T) {
		req, err := svc.Submit(ctx, user.ID, "ULTIMATE", strPtr("   "))
		require.NoError(t, err)
		assert.Nil(t, req.Reason, "blank reason stored as null")
	})

	var count int64
	require.NoError(t, db.Model(&models.SubscriptionRequest{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestSubmit_AllowedAgainAfterResolution(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewSubscriptionService(db, testConfig(t))
	ctx := context.Background()
	user := testutil.CreateUser(t, db, testutil.UserOpts{})

	first, err := svc.Submit(ctx, user.ID, "FREE_TRIAL", nil)
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, first.ID.String(), "REJECTED", nil)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, user.ID, "FREE_TRIAL", nil)
	assert.NoError(t, err)
}

func TestPendingUniqueIndex(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, testutil.UserOpts{})

	require.NoError(t, db.Create(&models.SubscriptionRequest{UserID: user.ID, RequestedType: subscription.TypePro}).Error)
	err := db.Create(&models.SubscriptionRequest{UserID: user.ID, RequestedType: subscription.TypePro}).Error
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))

	// resolved rows do not count against the index
	require.NoError(t, db.Create(&models.SubscriptionRequest{
		UserID: user.ID, RequestedType: subscription.TypePro, Status: models.RequestApproved,
	}).Error)
}

func TestResolve_ApproveGrantsPlan(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewSubscriptionService(db, testConfig(t))
	ctx := context.Background()
	user := testutil.CreateUser(t, db, testutil.UserOpts{})

	req, err := svc.Submit(ctx, user.ID, "PRO", nil)
	require.NoError(t, err)

	before := time.Now().UTC()
	resolved, err := svc.Resolve(ctx, req.ID.String(), "APPROVED", strPtr("welcome"))
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, resolved.Status)
	require.NotNil(t, resolved.AdminNotes)
	assert.Equal(t, "welcome", *resolved.AdminNotes)
	assert.Equal(t, subscription.TypePro, resolved.User.SubscriptionType)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, subscription.TypePro, stored.SubscriptionType)
	require.NotNil(t, stored.SubscriptionEnd)
	assert.WithinDuration(t, before.AddDate(0, 0, 30), *stored.SubscriptionEnd, 5*time.Second)
	assert.WithinDuration(t, before, stored.SubscriptionStart, 5*time.Second)

	info, err := svc.GetInfo(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, info.IsActive)
	require.NotNil(t, info.DaysRemaining)
	assert.Equal(t, 30, *info.DaysRemaining)
	assert.True(t, subscription.CanAccess(stored.SubscriptionType, stored.SubscriptionEnd, subscription.TierAdvanced))
}

func TestResolve_ApprovalRollsBackWhenGrantFails(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewSubscriptionService(db, testConfig(t))
	ctx := context.Background()
	user := testutil.CreateUser(t, db, testutil.UserOpts{})

	req, err := svc.Submit(ctx, user.ID, "PRO", nil)
	require.NoError(t, err)

	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_user_update", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "users" {
			tx.AddError(errors.New("boom"))
		}
	}))

	_, err = svc.Resolve(ctx, req.ID.String(), "APPROVED", strPtr("welcome"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grant subscription")
	assert.Contains(t, err.Error(), "boom")

	var stored models.SubscriptionRequest
	require.NoError(t, db.First(&stored, "id = ?", req.ID).Error)
	assert.Equal(t, models.RequestPending, stored.Status)
	assert.Nil(t, stored.AdminNotes)

	var owner models.User
	require.NoError(t, db.First(&owner, "id = ?", user.ID).Error)
	assert.Equal(t, subscription.TypeNone, owner.SubscriptionType)
	assert.Nil(t, owner.SubscriptionEnd)
}

func TestResolve_RejectLeavesUser(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewSubscriptionService(db, testConfig(t))
	ctx := context.Background()
	user := testutil.CreateUser(t, db, testutil.UserOpts{})

	req, err := svc.Submit(ctx, user.ID, "ULTIMATE", nil)
	require.NoError(t, err)

	resolved, err := svc.Resolve(ctx, req.ID.String(), "REJECTED", strPtr(""))
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, resolved.Status)
	assert.Nil(t, resolved.AdminNotes)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, subscription.TypeNone, stored.SubscriptionType)
	assert.Nil(t, stored.SubscriptionEnd)
}

func TestResolve_Errors(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewSubscriptionService(db, testConfig(t))
	ctx := context.Background()
	user := testutil.CreateUser(t, db, testutil.UserOpts{})
	req, err := svc.Submit(ctx, user.ID, "PRO", nil)
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, "", "APPROVED", nil)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = svc.Resolve(ctx, req.ID.String(), "MAYBE", nil)
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = svc.Resolve(ctx, req.ID.String(), "", nil)
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = svc.Resolve(ctx, uuid.NewString(), "APPROVED", nil)
	assert.ErrorIs(t, err, ErrRequestNotFound)

	_, err = svc.Resolve(ctx, "not-a-uuid", "APPROVED", nil)
	assert.ErrorIs(t, err, ErrRequestNotFound)

	_, err = svc.Resolve(ctx, req.ID.String(), "REJECTED", nil)
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, req.ID.String(), "APPROVED", nil)
	assert.ErrorIs(t, err, ErrRequestAlreadyResolved)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, subscription.TypeNone, stored.SubscriptionType, "re-resolution must not grant")
}

func TestListRequests_NewestFirstWithOwner(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewSubscriptionService(db, testConfig(t))
	user := testutil.CreateUser(t, db, testutil.UserOpts{Name: "Grace"})

	base := time.Now().UTC().Add(-time.Hour)
	for i, typ := range []subscription.Type{subscription.TypeFreeTrial, subscription.TypePro, subscription.TypeUltimate} {
		require.NoError(t, db.Create(&models.SubscriptionRequest{
			UserID:        user.ID,
			RequestedType: typ,
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	requests, err := svc.ListRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, requests, 3)
	assert.Equal(t, subscription.TypeUltimate, requests[0].RequestedType)
	assert.Equal(t, subscription.TypeFreeTrial, requests[2].RequestedType)
	for _, r := range requests {
		assert.Equal(t, "Grace", r.User.Name)
	}
}

func TestListUsers_PendingCounts(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewSubscriptionService(db, testConfig(t))
	ctx := context.Background()

	busy := testutil.CreateUser(t, db, testutil.UserOpts{})
	idle := testutil.CreateUser(t, db, testutil.UserOpts{Type: subscription.TypePro, End: testutil.TimeIn(time.Hour)})

	_, err := svc.Submit(ctx, busy.ID, "PRO", nil)
	require.NoError(t, err)
	r, err := svc.Submit(ctx, busy.ID, "ULTIMATE", nil)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, idle.ID, "ULTIMATE", nil)
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, r.ID.String(), "REJECTED", nil)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, idle.ID, "FREE_TRIAL", nil)
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	byID := map[uuid.UUID]int64{}
	for _, u := range users {
		byID[u.ID] = u.PendingRequests
		if u.ID == idle.ID {
			assert.True(t, u.IsActive)
		}
	}
	assert.Equal(t, int64(1), byID[busy.ID])
	assert.Equal(t, int64(2), byID[idle.ID])
}

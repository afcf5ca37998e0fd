// internal/service/registry_service_test.go
package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bithero/internal/domain"
	"bithero/internal/util"
)

func TestClaimUsername(t *testing.T) {
	accountID := "acct-1"

	t.Run("SuccessfulFirstClaim", func(t *testing.T) {
		ctx := context.Background()
		f := newRegistryFixture(t)

		f.claimRepo.On("GetClaimForUpdate", ctx, mock.Anything, "bob").Return(nil, util.ErrNotFound).Once()
		f.claimRepo.On("UpsertClaim", ctx, mock.Anything, mock.MatchedBy(func(c *domain.UsernameClaim) bool {
			return c.UsernameKey == "bob" && c.Username == "Bob" && c.AccountID == accountID
		})).Return(nil).Once()
		f.accountRepo.On("UpsertUsername", ctx, mock.Anything, accountID, "Bob", "bob").Return(nil).Once()
		f.txController.On("Commit").Return(nil).Once()
		f.txController.On("Rollback").Return(nil).Maybe()

		err := f.service.ClaimUsername(ctx, accountID, "@Bob")

		assert.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("TakenByAnotherAccountWritesNothing", func(t *testing.T) {
		ctx := context.Background()
		f := newRegistryFixture(t)

		f.claimRepo.On("GetClaimForUpdate", ctx, mock.Anything, "bob").
			Return(&domain.UsernameClaim{UsernameKey: "bob", AccountID: "acct-2", Username: "Bob"}, nil).Once()
		f.txController.On("Rollback").Return(nil).Once()

		err := f.service.ClaimUsername(ctx, accountID, "bob")

		assert.ErrorIs(t, err, util.ErrUsernameTaken)
		f.claimRepo.AssertNotCalled(t, "UpsertClaim", mock.Anything, mock.Anything, mock.Anything)
		f.accountRepo.AssertNotCalled(t, "UpsertUsername", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.txController.AssertNotCalled(t, "Commit")
		f.assertExpectations(t)
	})

	t.Run("ReclaimByOwnerSucceeds", func(t *testing.T) {
		ctx := context.Background()
		f := newRegistryFixture(t)

		f.claimRepo.On("GetClaimForUpdate", ctx, mock.Anything, "bob").
			Return(&domain.UsernameClaim{UsernameKey: "bob", AccountID: accountID, Username: "bob"}, nil).Once()
		f.claimRepo.On("UpsertClaim", ctx, mock.Anything, mock.MatchedBy(func(c *domain.UsernameClaim) bool {
			// Re-claiming with a different spelling refreshes the display form.
			return c.UsernameKey == "bob" && c.Username == "BOB"
		})).Return(nil).Once()
		f.accountRepo.On("UpsertUsername", ctx, mock.Anything, accountID, "BOB", "bob").Return(nil).Once()
		f.txController.On("Commit").Return(nil).Once()
		f.txController.On("Rollback").Return(nil).Maybe()

		err := f.service.ClaimUsername(ctx, accountID, "BOB")

		assert.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("InvalidUsernameFailsBeforeTransaction", func(t *testing.T) {
		ctx := context.Background()
		f := newRegistryFixture(t)

		err := f.service.ClaimUsername(ctx, accountID, "a")

		assert.ErrorIs(t, err, util.ErrInvalidUsername)
		f.txController.AssertNotCalled(t, "Commit")
		f.txController.AssertNotCalled(t, "Rollback")
		f.assertExpectations(t)
	})

	t.Run("ReservedUsernameRejected", func(t *testing.T) {
		ctx := context.Background()
		f := newRegistryFixture(t)

		err := f.service.ClaimUsername(ctx, accountID, "admin")

		assert.ErrorIs(t, err, util.ErrInvalidUsername)
		f.assertExpectations(t)
	})

	t.Run("InsertRaceLoserGetsTaken", func(t *testing.T) {
		ctx := context.Background()
		f := newRegistryFixture(t)

		// Both racers saw no row; the conditional upsert decides the loser.
		f.claimRepo.On("GetClaimForUpdate", ctx, mock.Anything, "bob").Return(nil, util.ErrNotFound).Once()
		f.claimRepo.On("UpsertClaim", ctx, mock.Anything, mock.Anything).Return(util.ErrUsernameTaken).Once()
		f.txController.On("Rollback").Return(nil).Once()

		err := f.service.ClaimUsername(ctx, accountID, "bob")

		assert.ErrorIs(t, err, util.ErrUsernameTaken)
		f.txController.AssertNotCalled(t, "Commit")
		f.assertExpectations(t)
	})
}

func TestIsUsernameAvailable(t *testing.T) {
	t.Run("UnclaimedIsAvailable", func(t *testing.T) {
		ctx := context.Background()
		f := newRegistryFixture(t)

		f.claimRepo.On("GetClaim", ctx, mock.Anything, "bob").Return(nil, util.ErrNotFound).Once()

		available, err := f.service.IsUsernameAvailable(ctx, "acct-1", "@Bob")

		assert.NoError(t, err)
		assert.True(t, available)
		f.assertExpectations(t)
	})

	t.Run("ClaimedByOtherIsUnavailable", func(t *testing.T) {
		ctx := context.Background()
		f := newRegistryFixture(t)

		f.claimRepo.On("GetClaim", ctx, mock.Anything, "bob").
			Return(&domain.UsernameClaim{UsernameKey: "bob", AccountID: "acct-2"}, nil).Once()

		available, err := f.service.IsUsernameAvailable(ctx, "acct-1", "bob")

		assert.NoError(t, err)
		assert.False(t, available)
		f.assertExpectations(t)
	})

	t.Run("OwnClaimCountsAsAvailable", func(t *testing.T) {
		ctx := context.Background()
		f := newRegistryFixture(t)

		f.claimRepo.On("GetClaim", ctx, mock.Anything, "bob").
			Return(&domain.UsernameClaim{UsernameKey: "bob", AccountID: "acct-1"}, nil).Once()

		available, err := f.service.IsUsernameAvailable(ctx, "acct-1", "bob")

		assert.NoError(t, err)
		assert.True(t, available)
		f.assertExpectations(t)
	})
}

func TestResolveByUsername(t *testing.T) {
	t.Run("ResolvesThroughClaim", func(t *testing.T) {
		ctx := context.Background()
		f := newRegistryFixture(t)

		account := &domain.Account{ID: "acct-1", Username: "Bob", UsernameKey: "bob"}
		f.claimRepo.On("GetClaim", ctx, mock.Anything, "bob").
			Return(&domain.UsernameClaim{UsernameKey: "bob", AccountID: "acct-1"}, nil).Once()
		f.accountRepo.On("GetAccount", ctx, mock.Anything, "acct-1").Return(account, nil).Once()

		got, err := f.service.ResolveByUsername(ctx, " @BOB ")

		assert.NoError(t, err)
		assert.Equal(t, account, got)
		f.assertExpectations(t)
	})

	t.Run("UnknownUsername", func(t *testing.T) {
		ctx := context.Background()
		f := newRegistryFixture(t)

		f.claimRepo.On("GetClaim", ctx, mock.Anything, "ghost").Return(nil, util.ErrNotFound).Once()

		got, err := f.service.ResolveByUsername(ctx, "ghost")

		assert.ErrorIs(t, err, util.ErrNotFound)
		assert.Nil(t, got)
		f.assertExpectations(t)
	})

	t.Run("DanglingClaimResolvesToNotFound", func(t *testing.T) {
		ctx := context.Background()
		f := newRegistryFixture(t)

		f.claimRepo.On("GetClaim", ctx, mock.Anything, "bob").
			Return(&domain.UsernameClaim{UsernameKey: "bob", AccountID: "gone"}, nil).Once()
		f.accountRepo.On("GetAccount", ctx, mock.Anything, "gone").Return(nil, util.ErrNotFound).Once()

		got, err := f.service.ResolveByUsername(ctx, "bob")

		assert.ErrorIs(t, err, util.ErrNotFound)
		assert.Nil(t, got)
		f.assertExpectations(t)
	})
}

func TestUpsertProfile(t *testing.T) {
	accountID := "acct-1"

	t.Run("EmptyUpdateRejected", func(t *testing.T) {
		ctx := context.Background()
		f := newRegistryFixture(t)

		got, err := f.service.UpsertProfile(ctx, accountID, domain.ProfileUpdate{})

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.Nil(t, got)
		f.txController.AssertNotCalled(t, "Commit")
		f.txController.AssertNotCalled(t, "Rollback")
		f.assertExpectations(t)
	})

	t.Run("UsernameChangeRunsClaim", func(t *testing.T) {
		ctx := context.Background()
		f := newRegistryFixture(t)

		username := "NewName"
		updated := &domain.Account{ID: accountID, Username: "NewName", UsernameKey: "newname"}

		f.claimRepo.On("GetClaimForUpdate", ctx, mock.Anything, "newname").Return(nil, util.ErrNotFound).Once()
		f.claimRepo.On("UpsertClaim", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		f.accountRepo.On("UpsertUsername", ctx, mock.Anything, accountID, "NewName", "newname").Return(nil).Once()
		f.accountRepo.On("GetAccount", ctx, mock.Anything, accountID).Return(updated, nil).Once()
		f.txController.On("Commit").Return(nil).Once()
		f.txController.On("Rollback").Return(nil).Maybe()

		got, err := f.service.UpsertProfile(ctx, accountID, domain.ProfileUpdate{Username: &username})

		assert.NoError(t, err)
		assert.Equal(t, updated, got)
		// A username-only update never touches the profile columns.
		f.accountRepo.AssertNotCalled(t, "UpsertProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("UsernameConflictAbortsWholeUpdate", func(t *testing.T) {
		ctx := context.Background()
		f := newRegistryFixture(t)

		username := "bob"
		displayName := "Bobby"

		f.claimRepo.On("GetClaimForUpdate", ctx, mock.Anything, "bob").
			Return(&domain.UsernameClaim{UsernameKey: "bob", AccountID: "acct-2"}, nil).Once()
		f.txController.On("Rollback").Return(nil).Once()

		got, err := f.service.UpsertProfile(ctx, accountID, domain.ProfileUpdate{
			Username:    &username,
			DisplayName: &displayName,
		})

		assert.ErrorIs(t, err, util.ErrUsernameTaken)
		assert.Nil(t, got)
		f.accountRepo.AssertNotCalled(t, "UpsertProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.txController.AssertNotCalled(t, "Commit")
		f.assertExpectations(t)
	})

	t.Run("ProfileFieldsOnly", func(t *testing.T) {
		ctx := context.Background()
		f := newRegistryFixture(t)

		displayName := "Bobby"
		update := domain.ProfileUpdate{DisplayName: &displayName}
		updated := &domain.Account{ID: accountID, DisplayName: &displayName}

		f.accountRepo.On("UpsertProfile", ctx, mock.Anything, accountID, update).Return(nil).Once()
		f.accountRepo.On("GetAccount", ctx, mock.Anything, accountID).Return(updated, nil).Once()
		f.txController.On("Commit").Return(nil).Once()
		f.txController.On("Rollback").Return(nil).Maybe()

		got, err := f.service.UpsertProfile(ctx, accountID, update)

		assert.NoError(t, err)
		assert.Equal(t, updated, got)
		f.claimRepo.AssertNotCalled(t, "GetClaimForUpdate", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("InvalidUsernameRejectedUpfront", func(t *testing.T) {
		ctx := context.Background()
		f := newRegistryFixture(t)

		username := "no spaces"
		got, err := f.service.UpsertProfile(ctx, accountID, domain.ProfileUpdate{Username: &username})

		assert.ErrorIs(t, err, util.ErrInvalidUsername)
		assert.Nil(t, got)
		f.txController.AssertNotCalled(t, "Commit")
		f.assertExpectations(t)
	})
}

func TestReleaseUsername(t *testing.T) {
	ctx := context.Background()
	f := newRegistryFixture(t)

	f.claimRepo.On("DeleteClaimIfOwnedBy", ctx, mock.Anything, "bob", "acct-1").Return(nil).Once()

	err := f.service.ReleaseUsername(ctx, "acct-1", "@Bob")

	assert.NoError(t, err)
	f.assertExpectations(t)
}

func TestDeleteAccount(t *testing.T) {
	accountID := "acct-1"

	t.Run("ReleasesClaimAndPinsKeepsTransfers", func(t *testing.T) {
		ctx := context.Background()
		f := newRegistryFixture(t)

		account := &domain.Account{ID: accountID, Username: "Bob", UsernameKey: "bob"}
		f.accountRepo.On("GetAccount", ctx, mock.Anything, accountID).Return(account, nil).Once()
		f.claimRepo.On("DeleteClaimIfOwnedBy", ctx, mock.Anything, "bob", accountID).Return(nil).Once()
		f.pinnedRepo.On("DeletePinsByOwner", ctx, mock.Anything, accountID).Return(nil).Once()
		f.accountRepo.On("DeleteAccount", ctx, mock.Anything, accountID).Return(nil).Once()
		f.txController.On("Commit").Return(nil).Once()
		f.txController.On("Rollback").Return(nil).Maybe()

		err := f.service.DeleteAccount(ctx, accountID)

		assert.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("NoClaimToRelease", func(t *testing.T) {
		ctx := context.Background()
		f := newRegistryFixture(t)

		account := &domain.Account{ID: accountID, UsernameKey: ""}
		f.accountRepo.On("GetAccount", ctx, mock.Anything, accountID).Return(account, nil).Once()
		f.pinnedRepo.On("DeletePinsByOwner", ctx, mock.Anything, accountID).Return(nil).Once()
		f.accountRepo.On("DeleteAccount", ctx, mock.Anything, accountID).Return(nil).Once()
		f.txController.On("Commit").Return(nil).Once()
		f.txController.On("Rollback").Return(nil).Maybe()

		err := f.service.DeleteAccount(ctx, accountID)

		assert.NoError(t, err)
		f.claimRepo.AssertNotCalled(t, "DeleteClaimIfOwnedBy", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		ctx := context.Background()
		f := newRegistryFixture(t)

		f.accountRepo.On("GetAccount", ctx, mock.Anything, accountID).Return(nil, util.ErrNotFound).Once()
		f.txController.On("Rollback").Return(nil).Once()

		err := f.service.DeleteAccount(ctx, accountID)

		assert.ErrorIs(t, err, util.ErrNotFound)
		f.txController.AssertNotCalled(t, "Commit")
		f.assertExpectations(t)
	})
}

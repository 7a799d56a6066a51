//go:build e2e

package order_test

import (
	"context"
	"time"

	"storefront/internal/domain/user"
	"storefront/internal/infra"
	"storefront/internal/infra/repository"
	"storefront/tests/common/dbtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func (s *OrderSuite) TestRedemptionLedger() {
	s.Run("the last slot goes to exactly one of two concurrent redeemers", func() {
		t := s.T()
		ctx := context.Background()

		couponID := dbtest.CreateTestCoupon(t, s.DB, "LASTONE", 10, 0, 1)
		userA := dbtest.CreateTestUser(t, s.DB, "first@example.com", string(user.RoleCustomer))
		userB := dbtest.CreateTestUser(t, s.DB, "second@example.com", string(user.RoleCustomer))
		repo := repository.NewCouponRepository()

		txA, err := s.DB.Begin(ctx)
		require.NoError(t, err)
		defer func() { _ = txA.Rollback(ctx) }()
		txB, err := s.DB.Begin(ctx)
		require.NoError(t, err)
		defer func() { _ = txB.Rollback(ctx) }()

		require.NoError(t, repo.Redeem(ctx, txA, couponID, userA, uuid.New(), 1))

		// txB queues on the coupon row lock held by txA; once txA commits it
		// must see the committed ledger row and refuse the redemption.
		errCh := make(chan error, 1)
		go func() {
			errCh <- repo.Redeem(ctx, txB, couponID, userB, uuid.New(), 1)
		}()

		time.Sleep(100 * time.Millisecond)
		require.NoError(t, txA.Commit(ctx))

		redeemErr := <-errCh
		require.Error(t, redeemErr)
		require.True(t, infra.IsKind(redeemErr, infra.KindConflict))
		require.NoError(t, txB.Commit(ctx))

		var count int
		require.NoError(t, s.DB.QueryRow(ctx,
			"SELECT count(*) FROM coupon_redemptions WHERE coupon_id = $1", couponID).Scan(&count))
		require.Equal(t, 1, count)
	})
}

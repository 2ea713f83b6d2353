package repo_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/company/internal/models"
	"github.com/Skotchmaster/company/internal/repo"
)

func TestDeletePlansRemoveLinksFirst(t *testing.T) {
	require.Equal(t,
		[]string{"order_products.by_customer", "orders.by_customer", "customers.by_id"},
		repo.CustomerDeletePlan(1).StepNames())
	require.Equal(t,
		[]string{"order_products.by_order", "orders.by_id"},
		repo.OrderDeletePlan(1).StepNames())
	require.Equal(t,
		[]string{"order_products.by_product", "products.by_id"},
		repo.ProductDeletePlan(1).StepNames())
}

func TestExecuteDeleteRollsBackWhenRootIsMissing(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()

	cone := seedProduct(t, r, "Cone", "2.50")
	order := seedOrder(t, r, nil, "1", cone.ID)

	plan := repo.OrderDeletePlan(order.ID)
	plan.Steps[len(plan.Steps)-1] = repo.DeleteStep{
		Name: "orders.by_other_id",
		Exec: func(tx *gorm.DB) *gorm.DB {
			return tx.Where("id = ?", order.ID+100).Delete(&models.Order{})
		},
	}

	err := r.ExecuteDelete(ctx, plan)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.EqualValues(t, 1, count(t, db, &models.OrderProduct{}, "order_id = ?", order.ID))
}

func TestExecuteDeleteRejectsEmptyPlan(t *testing.T) {
	r, _ := newRepo(t)
	require.Error(t, r.ExecuteDelete(context.Background(), repo.DeletePlan{Entity: "order", ID: 1}))
}

func newMockRepo(t *testing.T) (*repo.GormRepo, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return &repo.GormRepo{DB: db}, mock
}

func TestDeleteCustomerStatementOrder(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "order_products" WHERE order_id IN \(SELECT .+ FROM "orders" WHERE customer_id = \$1\)`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "orders" WHERE customer_id = $1`)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "customers" WHERE id = $1`)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, r.DeleteCustomer(context.Background(), 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOrderRollsBackOnZeroRows(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "order_products" WHERE order_id = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "orders" WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := r.DeleteOrder(context.Background(), 3)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProductStopsAtFailingStep(t *testing.T) {
	r, mock := newMockRepo(t)
	boom := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "order_products" WHERE product_id = $1`)).
		WithArgs(int64(5)).
		WillReturnError(boom)
	mock.ExpectRollback()

	err := r.DeleteProduct(context.Background(), 5)
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "order_products.by_product")
	require.NoError(t, mock.ExpectationsWereMet())
}

// The in-memory database has a single connection, so readers and the
// cascade are serialized here: this only checks that each snapshot lands
// before or after the whole delete. Interleaving on a real engine is
// covered by TestCockroachCascade.
func TestConcurrentReadersNeverSeePartialCascade(t *testing.T) {
	r, db := newRepo(t)
	const orders, productsPerOrder = 4, 3

	joe := seedCustomer(t, r, "joe")
	var productIDs []uint
	for i := 0; i < productsPerOrder; i++ {
		productIDs = append(productIDs, seedProduct(t, r, "p", "1").ID)
	}
	for i := 0; i < orders; i++ {
		seedOrder(t, r, uintPtr(joe.ID), "10", productIDs...)
	}

	snapshot := func() (int64, int64, error) {
		var nOrders, nLinks int64
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Order{}).Where("customer_id = ?", joe.ID).Count(&nOrders).Error; err != nil {
				return err
			}
			return tx.Model(&models.OrderProduct{}).Count(&nLinks).Error
		})
		return nOrders, nLinks, err
	}

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < 5; j++ {
				nOrders, nLinks, err := snapshot()
				if !assert.NoError(t, err) {
					return
				}
				full := nOrders == orders && nLinks == orders*productsPerOrder
				empty := nOrders == 0 && nLinks == 0
				assert.True(t, full || empty, "partial state: %d orders, %d links", nOrders, nLinks)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		assert.NoError(t, r.DeleteCustomer(context.Background(), joe.ID))
	}()

	close(start)
	wg.Wait()

	nOrders, nLinks, err := snapshot()
	require.NoError(t, err)
	require.Zero(t, nOrders)
	require.Zero(t, nLinks)
}

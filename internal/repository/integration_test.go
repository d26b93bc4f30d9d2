//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/checkout-service/internal/gateway"
	"github.com/fairyhunter13/checkout-service/internal/model"
	"github.com/fairyhunter13/checkout-service/internal/repository"
	"github.com/fairyhunter13/checkout-service/internal/service"
	"github.com/fairyhunter13/checkout-service/pkg/database"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err = pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=testpass",
			"POSTGRES_USER=testuser",
			"POSTGRES_DB=testdb",
			"listen_addresses='*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start resource: %s", err)
	}

	databaseURL := fmt.Sprintf("postgres://testuser:testpass@%s/testdb?sslmode=disable", resource.GetHostPort("5432/tcp"))
	_ = resource.Expire(120)

	pool.MaxWait = 120 * time.Second
	if err = pool.Retry(func() error {
		var err error
		testPool, err = pgxpool.New(context.Background(), databaseURL)
		if err != nil {
			return err
		}
		return testPool.Ping(context.Background())
	}); err != nil {
		log.Fatalf("Could not connect to database: %s", err)
	}

	if _, err := database.RunMigrations(context.Background(), testPool); err != nil {
		log.Fatalf("Could not run migrations: %s", err)
	}

	code := m.Run()

	testPool.Close()
	if err := pool.Purge(resource); err != nil {
		log.Fatalf("Could not purge resource: %s", err)
	}
	os.Exit(code)
}

func cleanupTables(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), "TRUNCATE TABLE coupon_redemptions, transactions, leads")
	require.NoError(t, err)
}

func seedTransaction(t *testing.T, orderID string) {
	t.Helper()
	err := repository.NewTransactionRepository(testPool).Insert(context.Background(), &model.Transaction{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		PlanID:    "pkg-3",
		Amount:    decimal.RequireFromString("5399.1"),
		Currency:  "INR",
		Status:    model.StatusCreated,
		CreatedAt: time.Now().Unix(),
	})
	require.NoError(t, err)
}

func TestIntegration_MigrationsAreIdempotent(t *testing.T) {
	applied, err := database.RunMigrations(context.Background(), testPool)

	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestIntegration_TransactionRoundTrip(t *testing.T) {
	cleanupTables(t)
	repo := repository.NewTransactionRepository(testPool)
	seedTransaction(t, "order_rt")

	txn, err := repo.GetByOrderID(context.Background(), "order_rt")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCreated, txn.Status)
	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("5399.1")))
	assert.Nil(t, txn.PaidAt)

	err = repo.Insert(context.Background(), &model.Transaction{
		ID: uuid.NewString(), OrderID: "order_rt", PlanID: "pkg-3", Amount: decimal.NewFromInt(1),
		Currency: "INR", Status: model.StatusCreated, CreatedAt: 1,
	})
	assert.ErrorIs(t, err, service.ErrDuplicateOrder)

	_, err = repo.GetByOrderID(context.Background(), "order_missing")
	assert.ErrorIs(t, err, service.ErrTransactionNotFound)
}

func TestIntegration_ConcurrentWebhookDeliveries(t *testing.T) {
	cleanupTables(t)
	seedTransaction(t, "order_dd")

	secret := "whsec_integration"
	settlement := service.NewSettlementService(
		testPool,
		repository.NewTransactionRepository(testPool),
		repository.NewRedemptionRepository(testPool),
		nil,
		secret,
	)
	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_dd","order_id":"order_dd","notes":{"coupon_code":"SAVE10","plan_id":"pkg-3"}}}}}`)
	sig := gateway.Sign(body, secret)

	const deliveries = 25
	var wg sync.WaitGroup
	errs := make(chan error, deliveries)
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := settlement.HandleWebhook(context.Background(), body, sig)
			if err == nil && outcome != service.OutcomeSettled {
				err = fmt.Errorf("unexpected outcome %s", outcome)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	txn, err := repository.NewTransactionRepository(testPool).GetByOrderID(context.Background(), "order_dd")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, txn.Status)
	assert.Equal(t, "pay_dd", txn.PaymentID)
	require.NotNil(t, txn.PaidAt)

	count, err := repository.NewRedemptionRepository(testPool).CountByCode(context.Background(), "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIntegration_TamperedWebhookChangesNothing(t *testing.T) {
	cleanupTables(t)
	seedTransaction(t, "order_tamper")

	secret := "whsec_integration"
	settlement := service.NewSettlementService(
		testPool,
		repository.NewTransactionRepository(testPool),
		repository.NewRedemptionRepository(testPool),
		nil,
		secret,
	)
	signed := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_other"}}}}`)
	tampered := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_tamper"}}}}`)

	_, err := settlement.HandleWebhook(context.Background(), tampered, gateway.Sign(signed, secret))
	assert.ErrorIs(t, err, service.ErrInvalidSignature)

	txn, err := repository.NewTransactionRepository(testPool).GetByOrderID(context.Background(), "order_tamper")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCreated, txn.Status)
}

func TestIntegration_LeadInsert(t *testing.T) {
	cleanupTables(t)
	leads := service.NewLeadService(repository.NewLeadRepository(testPool), nil)

	lead, err := leads.Submit(context.Background(), &model.SubmitLeadRequest{Name: "Asha", Email: "asha@example.com"})
	require.NoError(t, err)

	var source string
	var phone *string
	err = testPool.QueryRow(context.Background(), `SELECT source, phone FROM leads WHERE id = $1`, lead.ID).Scan(&source, &phone)
	require.NoError(t, err)
	assert.Equal(t, "contact", source)
	assert.Nil(t, phone)
}

//go:build integration
// +build integration

package payment_repo_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"coursepay/internal/domain/payment"
	payment_repo "coursepay/internal/repo/payment"
	"coursepay/internal/testinfra"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pg *testinfra.PostgresContainer

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	pg, err = testinfra.NewPostgres(ctx)
	if err != nil {
		panic(err)
	}

	code := m.Run()
	pg.Cleanup(ctx)
	os.Exit(code)
}

func seedUserAndCourse(t *testing.T) (uuid.UUID, uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	userID, courseID := uuid.New(), uuid.New()

	_, err := pg.Pool.Pool.Exec(ctx,
		`INSERT INTO users (id, email, name, role) VALUES ($1, $2, 'Learner', 'user')`,
		userID, userID.String()+"@example.com")
	require.NoError(t, err)

	_, err = pg.Pool.Pool.Exec(ctx,
		`INSERT INTO courses (id, title, price_minor, currency) VALUES ($1, 'Go Course', 4999, 'usd')`,
		courseID)
	require.NoError(t, err)

	return userID, courseID
}

func pendingPayment(userID, courseID uuid.UUID, intentID string) payment.Payment {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return payment.Payment{
		IntentID:    intentID,
		UserID:      userID,
		CourseID:    courseID,
		AmountMinor: 4999,
		Currency:    "usd",
		Status:      payment.StatusPending,
		Metadata:    map[string]string{"course_title": "Go Course"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestTransitionFromPendingRace(t *testing.T) {
	ctx := context.Background()
	repo := payment_repo.NewPgPaymentRepo(pg.Pool)
	userID, courseID := seedUserAndCourse(t)

	require.NoError(t, repo.Create(ctx, pendingPayment(userID, courseID, "pi_race")))

	// Several concurrent reconcilers race the same pending row; exactly one
	// conditional update may win.
	const racers = 10
	var wg sync.WaitGroup
	wins := make([]bool, racers)
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			wins[i], errs[i] = repo.TransitionFromPending(ctx, "pi_race",
				payment.StatusSucceeded, nil, time.Now().UTC())
		}(i)
	}
	wg.Wait()

	var winners int
	for i := 0; i < racers; i++ {
		require.NoError(t, errs[i], "racer %d", i)
		if wins[i] {
			winners++
		}
	}
	assert.Equal(t, 1, winners)

	p, err := repo.ByIntentID(ctx, "pi_race")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusSucceeded, p.Status)
	assert.NotNil(t, p.SettledAt)
}

func TestSucceededUniquePerUserAndCourse(t *testing.T) {
	ctx := context.Background()
	repo := payment_repo.NewPgPaymentRepo(pg.Pool)
	userID, courseID := seedUserAndCourse(t)

	require.NoError(t, repo.Create(ctx, pendingPayment(userID, courseID, "pi_first")))
	require.NoError(t, repo.Create(ctx, pendingPayment(userID, courseID, "pi_second")))

	won, err := repo.TransitionFromPending(ctx, "pi_first", payment.StatusSucceeded, nil, time.Now().UTC())
	require.NoError(t, err)
	require.True(t, won)

	// The partial unique index blocks a second succeeded payment for the
	// same (user, course) pair.
	_, err = repo.TransitionFromPending(ctx, "pi_second", payment.StatusSucceeded, nil, time.Now().UTC())
	assert.ErrorIs(t, err, payment.ErrAlreadyPurchased)

	// Failing the leftover duplicate is still allowed.
	won, err = repo.TransitionFromPending(ctx, "pi_second", payment.StatusCanceled, nil, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, won)

	ok, err := repo.HasSucceeded(ctx, userID, courseID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPendingIntentsOlderThanOrdersOldestFirst(t *testing.T) {
	ctx := context.Background()
	repo := payment_repo.NewPgPaymentRepo(pg.Pool)
	userID, courseID := seedUserAndCourse(t)

	// second course so the rows do not collide on (user, course)
	secondCourse := uuid.New()
	_, err := pg.Pool.Pool.Exec(ctx,
		`INSERT INTO courses (id, title, price_minor, currency) VALUES ($1, 'Another', 999, 'usd')`,
		secondCourse)
	require.NoError(t, err)

	old := pendingPayment(userID, courseID, "pi_sweep_old")
	old.CreatedAt = time.Now().UTC().Add(-2 * time.Hour)
	older := pendingPayment(userID, secondCourse, "pi_sweep_older")
	older.CreatedAt = time.Now().UTC().Add(-3 * time.Hour)

	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, older))

	ids, err := repo.PendingIntentsOlderThan(ctx, time.Now().UTC().Add(-30*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, "pi_sweep_older", ids[0])
	assert.Equal(t, "pi_sweep_old", ids[1])
}

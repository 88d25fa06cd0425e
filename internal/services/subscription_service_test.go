package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"gymstack/internal/models"
	"gymstack/internal/repositories"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type SubscriptionServiceTestSuite struct {
	suite.Suite
	mock          pgxmock.PgxPoolIface
	svc           SubscriptionService
	memberID      uuid.UUID
	planID        uuid.UUID
	paymentTypeID uuid.UUID
	context       context.Context
}

func (suite *SubscriptionServiceTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.svc = NewSubscriptionService(
		mock,
		repositories.NewPlanRepo(mock),
		repositories.NewSubscriptionRepo(mock),
		repositories.NewPaymentRepo(mock),
		repositories.NewPaymentTypeRepo(mock),
	)
	suite.memberID = uuid.New()
	suite.planID = uuid.New()
	suite.paymentTypeID = uuid.New()
	suite.context = context.Background()
}

func (suite *SubscriptionServiceTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestSubscriptionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceTestSuite))
}

func (suite *SubscriptionServiceTestSuite) expectPlanLookup(price float64, durationDays int) {
	now := time.Now()
	suite.mock.ExpectQuery(`SELECT id, name, description, price, duration_days, image_key, admin_id, created_at, updated_at FROM plans WHERE id = \$1`).
		WithArgs(suite.planID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "price", "duration_days", "image_key", "admin_id", "created_at", "updated_at"}).
			AddRow(suite.planID, "Gold", (*string)(nil), price, durationDays, (*string)(nil), (*uuid.UUID)(nil), now, now))
}

func (suite *SubscriptionServiceTestSuite) expectConflictCount(count int) {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs(suite.memberID, suite.planID, models.SubscriptionActive, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(count))
}

func (suite *SubscriptionServiceTestSuite) expectPaymentTypeByName(name string) {
	suite.mock.ExpectQuery(`SELECT id, name, description, created_at FROM payment_type WHERE name = \$1`).
		WithArgs(name).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "created_at"}).
			AddRow(suite.paymentTypeID, name, (*string)(nil), time.Now()))
}

func (suite *SubscriptionServiceTestSuite) TestSubscribe_CashSuccess() {
	suite.expectPlanLookup(499.99, 30)
	suite.expectConflictCount(0)
	suite.expectPaymentTypeByName("Cash")

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO subscribe`).
		WithArgs(pgxmock.AnyArg(), suite.memberID, suite.planID, pgxmock.AnyArg(), pgxmock.AnyArg(), models.SubscriptionActive, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO payment`).
		WithArgs(pgxmock.AnyArg(), suite.memberID, pgxmock.AnyArg(), 499.99, suite.paymentTypeID, (*string)(nil), (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	result, err := suite.svc.Subscribe(suite.context, suite.memberID, SubscribeRequest{PlanID: suite.planID})
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), result)

	// Amount is a snapshot of the plan price
	assert.Equal(suite.T(), 499.99, result.Payment.Amount)
	// End date is start + duration days
	assert.True(suite.T(), result.Subscription.EndDate.Equal(result.Subscription.StartDate.AddDate(0, 0, 30)))
	assert.Equal(suite.T(), result.Subscription.EndDate, result.Subscription.RenewalDate)
	assert.Equal(suite.T(), models.SubscriptionActive, result.Subscription.Status)
	// Payment row is linked to the subscription row
	assert.Equal(suite.T(), result.Subscription.ID, *result.Payment.SubscriptionID)
	// No card given, no fingerprint
	assert.Nil(suite.T(), result.Payment.CardHash)
	assert.Nil(suite.T(), result.Payment.CardLast4)

	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *SubscriptionServiceTestSuite) TestSubscribe_CardFingerprint() {
	suite.expectPlanLookup(299.99, 90)
	suite.expectConflictCount(0)
	suite.expectPaymentTypeByName("Credit Card")

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO subscribe`).
		WithArgs(pgxmock.AnyArg(), suite.memberID, suite.planID, pgxmock.AnyArg(), pgxmock.AnyArg(), models.SubscriptionActive, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO payment`).
		WithArgs(pgxmock.AnyArg(), suite.memberID, pgxmock.AnyArg(), 299.99, suite.paymentTypeID, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	cardNumber := "4111 1111 1111 1234"
	result, err := suite.svc.Subscribe(suite.context, suite.memberID, SubscribeRequest{
		PlanID:     suite.planID,
		CardNumber: &cardNumber,
	})
	assert.NoError(suite.T(), err)

	// The stored hash is the SHA-256 of the digits, never the raw number
	sum := sha256.Sum256([]byte("4111111111111234"))
	assert.Equal(suite.T(), hex.EncodeToString(sum[:]), *result.Payment.CardHash)
	assert.Equal(suite.T(), "1234", *result.Payment.CardLast4)
	assert.NotContains(suite.T(), *result.Payment.CardHash, "4111")
}

func (suite *SubscriptionServiceTestSuite) TestSubscribe_Conflict() {
	suite.expectPlanLookup(499.99, 30)
	suite.expectConflictCount(1)

	result, err := suite.svc.Subscribe(suite.context, suite.memberID, SubscribeRequest{PlanID: suite.planID})
	assert.ErrorIs(suite.T(), err, ErrAlreadySubscribed)
	assert.Nil(suite.T(), result)

	// No transaction and no writes after the conflict
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *SubscriptionServiceTestSuite) TestSubscribe_PlanNotFound() {
	suite.mock.ExpectQuery(`SELECT id, name, description, price, duration_days, image_key, admin_id, created_at, updated_at FROM plans WHERE id = \$1`).
		WithArgs(suite.planID).
		WillReturnError(pgx.ErrNoRows)

	result, err := suite.svc.Subscribe(suite.context, suite.memberID, SubscribeRequest{PlanID: suite.planID})
	assert.ErrorIs(suite.T(), err, ErrPlanNotFound)
	assert.Nil(suite.T(), result)
}

func (suite *SubscriptionServiceTestSuite) TestSubscribe_ExplicitUnknownPaymentType() {
	suite.expectPlanLookup(499.99, 30)
	suite.expectConflictCount(0)

	unknown := uuid.New()
	suite.mock.ExpectQuery(`SELECT id, name, description, created_at FROM payment_type WHERE id = \$1`).
		WithArgs(unknown).
		WillReturnError(pgx.ErrNoRows)

	result, err := suite.svc.Subscribe(suite.context, suite.memberID, SubscribeRequest{
		PlanID:        suite.planID,
		PaymentTypeID: &unknown,
	})
	assert.ErrorIs(suite.T(), err, ErrPaymentTypeNotFound)
	assert.Nil(suite.T(), result)
}

func (suite *SubscriptionServiceTestSuite) TestSubscribe_EmptyPaymentTypeTable() {
	suite.expectPlanLookup(499.99, 30)
	suite.expectConflictCount(0)

	suite.mock.ExpectQuery(`SELECT id, name, description, created_at FROM payment_type WHERE name = \$1`).
		WithArgs("Cash").
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectQuery(`SELECT id, name, description, created_at FROM payment_type ORDER BY created_at ASC LIMIT 1`).
		WillReturnError(pgx.ErrNoRows)

	result, err := suite.svc.Subscribe(suite.context, suite.memberID, SubscribeRequest{PlanID: suite.planID})
	assert.ErrorIs(suite.T(), err, ErrNoPaymentMethod)
	assert.Nil(suite.T(), result)
}

func (suite *SubscriptionServiceTestSuite) TestSubscribe_FallbackToFirstRow() {
	suite.expectPlanLookup(499.99, 30)
	suite.expectConflictCount(0)

	suite.mock.ExpectQuery(`SELECT id, name, description, created_at FROM payment_type WHERE name = \$1`).
		WithArgs("Cash").
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectQuery(`SELECT id, name, description, created_at FROM payment_type ORDER BY created_at ASC LIMIT 1`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "created_at"}).
			AddRow(suite.paymentTypeID, "Bank Transfer", (*string)(nil), time.Now()))

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO subscribe`).
		WithArgs(pgxmock.AnyArg(), suite.memberID, suite.planID, pgxmock.AnyArg(), pgxmock.AnyArg(), models.SubscriptionActive, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO payment`).
		WithArgs(pgxmock.AnyArg(), suite.memberID, pgxmock.AnyArg(), 499.99, suite.paymentTypeID, (*string)(nil), (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	result, err := suite.svc.Subscribe(suite.context, suite.memberID, SubscribeRequest{PlanID: suite.planID})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.paymentTypeID, result.Payment.PaymentTypeID)
}

func (suite *SubscriptionServiceTestSuite) TestSubscribe_RollbackOnPaymentFailure() {
	suite.expectPlanLookup(499.99, 30)
	suite.expectConflictCount(0)
	suite.expectPaymentTypeByName("Cash")

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO subscribe`).
		WithArgs(pgxmock.AnyArg(), suite.memberID, suite.planID, pgxmock.AnyArg(), pgxmock.AnyArg(), models.SubscriptionActive, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO payment`).
		WithArgs(pgxmock.AnyArg(), suite.memberID, pgxmock.AnyArg(), 499.99, suite.paymentTypeID, (*string)(nil), (*string)(nil)).
		WillReturnError(errors.New("insert failed"))
	suite.mock.ExpectRollback()

	result, err := suite.svc.Subscribe(suite.context, suite.memberID, SubscribeRequest{PlanID: suite.planID})
	assert.ErrorIs(suite.T(), err, ErrTransactionFailed)
	assert.Nil(suite.T(), result)

	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func TestCardFingerprint(t *testing.T) {
	hash, last4 := cardFingerprint(nil)
	assert.Nil(t, hash)
	assert.Nil(t, last4)

	empty := "no digits here"
	hash, last4 = cardFingerprint(&empty)
	assert.Nil(t, hash)
	assert.Nil(t, last4)

	card := "4111-1111-1111-9876"
	hash, last4 = cardFingerprint(&card)
	sum := sha256.Sum256([]byte("4111111111119876"))
	assert.Equal(t, hex.EncodeToString(sum[:]), *hash)
	assert.Equal(t, "9876", *last4)

	short := "42"
	hash, last4 = cardFingerprint(&short)
	assert.Equal(t, "42", *last4)
	assert.NotNil(t, hash)
}

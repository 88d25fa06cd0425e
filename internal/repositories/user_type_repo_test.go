package repositories

import (
	"context"
	"testing"
	"time"

	"gymstack/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type UserTypeRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    UserTypeRepository
	typeID  uuid.UUID
	context context.Context
}

func (suite *UserTypeRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewUserTypeRepo(mock)
	suite.typeID = uuid.New()
	suite.context = context.Background()
}

func (suite *UserTypeRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestUserTypeRepoTestSuite(t *testing.T) {
	suite.Run(t, new(UserTypeRepoTestSuite))
}

func (suite *UserTypeRepoTestSuite) TestCreate_Success() {
	userType := &models.UserType{
		ID:                   suite.typeID,
		Name:                 "front-desk",
		CanViewSubscriptions: true,
		CanViewMembers:       true,
		CanViewPayments:      false,
	}

	suite.mock.ExpectExec(`
		INSERT INTO user_type \(id, name, can_view_subscriptions, can_view_members, can_view_payments, created_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, NOW\(\)\)
	`).WithArgs(userType.ID, userType.Name, true, true, false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, userType)
	assert.NoError(suite.T(), err)
}

func (suite *UserTypeRepoTestSuite) TestGetByName_Success() {
	now := time.Now()
	suite.mock.ExpectQuery(`SELECT id, name, can_view_subscriptions, can_view_members, can_view_payments, created_at FROM user_type WHERE name = \$1`).
		WithArgs(models.RoleAdmin).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "can_view_subscriptions", "can_view_members", "can_view_payments", "created_at"}).
			AddRow(suite.typeID, models.RoleAdmin, true, true, true, now))

	userType, err := suite.repo.GetByName(suite.context, models.RoleAdmin)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RoleAdmin, userType.Name)
	assert.True(suite.T(), userType.CanViewPayments)
}

func (suite *UserTypeRepoTestSuite) TestGetByName_NotFound() {
	suite.mock.ExpectQuery(`SELECT id, name, can_view_subscriptions, can_view_members, can_view_payments, created_at FROM user_type WHERE name = \$1`).
		WithArgs("trainer").
		WillReturnError(pgx.ErrNoRows)

	userType, err := suite.repo.GetByName(suite.context, "trainer")
	assert.ErrorIs(suite.T(), err, ErrNotFound)
	assert.Nil(suite.T(), userType)
}

func (suite *UserTypeRepoTestSuite) TestDelete_Success() {
	suite.mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE user_type_id = \$1\)`).
		WithArgs(suite.typeID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	suite.mock.ExpectExec(`DELETE FROM user_type WHERE id = \$1`).
		WithArgs(suite.typeID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, suite.typeID)
	assert.NoError(suite.T(), err)
}

func (suite *UserTypeRepoTestSuite) TestDelete_BlockedWhileReferenced() {
	suite.mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE user_type_id = \$1\)`).
		WithArgs(suite.typeID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	err := suite.repo.Delete(suite.context, suite.typeID)
	assert.ErrorIs(suite.T(), err, ErrUserTypeInUse)

	// The DELETE statement must never have been issued
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *UserTypeRepoTestSuite) TestDelete_NotFound() {
	suite.mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE user_type_id = \$1\)`).
		WithArgs(suite.typeID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	suite.mock.ExpectExec(`DELETE FROM user_type WHERE id = \$1`).
		WithArgs(suite.typeID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := suite.repo.Delete(suite.context, suite.typeID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *UserTypeRepoTestSuite) TestUpdate_PatchesFlagsOnly() {
	now := time.Now()
	canViewPayments := true

	suite.mock.ExpectQuery(`
		UPDATE user_type
		SET name = COALESCE\(\$1, name\),
		    can_view_subscriptions = COALESCE\(\$2, can_view_subscriptions\),
		    can_view_members = COALESCE\(\$3, can_view_members\),
		    can_view_payments = COALESCE\(\$4, can_view_payments\)
		WHERE id = \$5
		RETURNING id, name, can_view_subscriptions, can_view_members, can_view_payments, created_at`).
		WithArgs((*string)(nil), (*bool)(nil), (*bool)(nil), &canViewPayments, suite.typeID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "can_view_subscriptions", "can_view_members", "can_view_payments", "created_at"}).
			AddRow(suite.typeID, "front-desk", true, true, true, now))

	userType, err := suite.repo.Update(suite.context, suite.typeID, nil, nil, nil, &canViewPayments)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "front-desk", userType.Name)
	assert.True(suite.T(), userType.CanViewPayments)
}

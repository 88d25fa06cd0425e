package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"gymstack/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type PlanRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    PlanRepository
	planID  uuid.UUID
	adminID uuid.UUID
	context context.Context
}

func (suite *PlanRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewPlanRepo(mock)
	suite.planID = uuid.New()
	suite.adminID = uuid.New()
	suite.context = context.Background()
}

func (suite *PlanRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestPlanRepoTestSuite(t *testing.T) {
	suite.Run(t, new(PlanRepoTestSuite))
}

func (suite *PlanRepoTestSuite) TestCreate_Success() {
	plan := &models.Plan{
		ID:           suite.planID,
		Name:         "Gold",
		Description:  strPtr("Annual gold membership"),
		Price:        499.99,
		DurationDays: 365,
		AdminID:      &suite.adminID,
	}

	suite.mock.ExpectExec(`
		INSERT INTO plans \(id, name, description, price, duration_days, image_key, admin_id, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, NOW\(\), NOW\(\)\)
	`).WithArgs(plan.ID, plan.Name, plan.Description, plan.Price, plan.DurationDays, plan.ImageKey, plan.AdminID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, plan)
	assert.NoError(suite.T(), err)
}

func (suite *PlanRepoTestSuite) TestGetByID_Success() {
	now := time.Now()
	suite.mock.ExpectQuery(`SELECT id, name, description, price, duration_days, image_key, admin_id, created_at, updated_at FROM plans WHERE id = \$1`).
		WithArgs(suite.planID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "price", "duration_days", "image_key", "admin_id", "created_at", "updated_at"}).
			AddRow(suite.planID, "Gold", strPtr("Annual gold membership"), 499.99, 365, (*string)(nil), &suite.adminID, now, now))

	plan, err := suite.repo.GetByID(suite.context, suite.planID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Gold", plan.Name)
	assert.Equal(suite.T(), 499.99, plan.Price)
	assert.Equal(suite.T(), 365, plan.DurationDays)
	assert.Nil(suite.T(), plan.ImageKey)
}

func (suite *PlanRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT id, name, description, price, duration_days, image_key, admin_id, created_at, updated_at FROM plans WHERE id = \$1`).
		WithArgs(suite.planID).
		WillReturnError(pgx.ErrNoRows)

	plan, err := suite.repo.GetByID(suite.context, suite.planID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
	assert.Nil(suite.T(), plan)
}

func (suite *PlanRepoTestSuite) TestList_Success() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "name", "description", "price", "duration_days", "image_key", "admin_id", "created_at", "updated_at"}).
		AddRow(uuid.New(), "Gold", strPtr("Gold"), 499.99, 365, (*string)(nil), &suite.adminID, now, now).
		AddRow(uuid.New(), "Silver", strPtr("Silver"), 299.99, 180, (*string)(nil), &suite.adminID, now, now)

	suite.mock.ExpectQuery(`SELECT id, name, description, price, duration_days, image_key, admin_id, created_at, updated_at FROM plans ORDER BY created_at DESC`).
		WillReturnRows(rows)

	plans, err := suite.repo.List(suite.context)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), plans, 2)
	assert.Equal(suite.T(), "Gold", plans[0].Name)
	assert.Equal(suite.T(), "Silver", plans[1].Name)
}

func (suite *PlanRepoTestSuite) TestUpdate_PartialFields() {
	now := time.Now()
	newName := "Platinum"

	suite.mock.ExpectQuery(`
		UPDATE plans
		SET name = COALESCE\(\$1, name\),
		    description = COALESCE\(\$2, description\),
		    price = COALESCE\(\$3, price\),
		    duration_days = COALESCE\(\$4, duration_days\),
		    updated_at = NOW\(\)
		WHERE id = \$5
		RETURNING id, name, description, price, duration_days, image_key, admin_id, created_at, updated_at`).
		WithArgs(&newName, (*string)(nil), (*float64)(nil), (*int)(nil), suite.planID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "price", "duration_days", "image_key", "admin_id", "created_at", "updated_at"}).
			AddRow(suite.planID, newName, strPtr("Annual gold membership"), 499.99, 365, (*string)(nil), &suite.adminID, now, now))

	plan, err := suite.repo.Update(suite.context, suite.planID, &newName, nil, nil, nil)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), newName, plan.Name)
	assert.Equal(suite.T(), 499.99, plan.Price)
}

func (suite *PlanRepoTestSuite) TestSetImageKey_NotFound() {
	key := "plans/abc"
	suite.mock.ExpectExec(`UPDATE plans SET image_key = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(&key, suite.planID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.SetImageKey(suite.context, suite.planID, &key)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *PlanRepoTestSuite) TestDelete_Success() {
	suite.mock.ExpectExec(`DELETE FROM plans WHERE id = \$1`).
		WithArgs(suite.planID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, suite.planID)
	assert.NoError(suite.T(), err)
}

func (suite *PlanRepoTestSuite) TestDelete_NotFound() {
	suite.mock.ExpectExec(`DELETE FROM plans WHERE id = \$1`).
		WithArgs(suite.planID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := suite.repo.Delete(suite.context, suite.planID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *PlanRepoTestSuite) TestNameExists_ExcludesSelf() {
	suite.mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM plans WHERE name = \$1 AND \(\$2::uuid IS NULL OR id <> \$2\)\)`).
		WithArgs("Gold", &suite.planID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := suite.repo.NameExists(suite.context, "Gold", &suite.planID)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), exists)
}

func (suite *PlanRepoTestSuite) TestNameExists_DatabaseError() {
	suite.mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM plans WHERE name = \$1 AND \(\$2::uuid IS NULL OR id <> \$2\)\)`).
		WithArgs("Gold", (*uuid.UUID)(nil)).
		WillReturnError(errors.New("database connection failed"))

	exists, err := suite.repo.NameExists(suite.context, "Gold", nil)
	assert.Error(suite.T(), err)
	assert.False(suite.T(), exists)
}

// Helper to create string pointer
func strPtr(s string) *string {
	return &s
}

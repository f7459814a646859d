package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/blogem/asset-registry/models"
	"github.com/blogem/asset-registry/repositories"
)

// StatsServiceTestSuite drives the statistics through the full workflow
// services; the duration math itself is covered at the repository level.
type StatsServiceTestSuite struct {
	suite.Suite
	repos    *repositories.Repositories
	services *Services

	owner *models.User
	admin *models.User
}

// SetupTest sets up the test suite before each test
func (suite *StatsServiceTestSuite) SetupTest() {
	db := setupTestDB(suite.T())
	suite.repos = repositories.NewRepositories(db)
	suite.services = NewServices(db, suite.repos, zerolog.Nop())

	suite.owner = seedUser(suite.T(), suite.repos, "owner@example.com", models.RoleUser)
	suite.admin = seedUser(suite.T(), suite.repos, "admin@example.com", models.RoleAdmin)
}

func (suite *StatsServiceTestSuite) TestGetStats_EmptyHistory() {
	stats, err := suite.services.Stats.GetStats(context.Background())

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, stats.PendingCount)
	assert.Equal(suite.T(), 0, stats.ApprovedLast30Days)
	assert.Equal(suite.T(), 0, stats.RejectedLast30Days)
	assert.Equal(suite.T(), float64(0), stats.AverageReviewTimeHours)
	assert.Equal(suite.T(), float64(0), stats.OldestPendingDays)
}

func (suite *StatsServiceTestSuite) TestGetStats_TracksWorkflowOutcomes() {
	ctx := context.Background()

	approvedAsset := seedAsset(suite.T(), suite.repos, suite.owner, "Old laptop", 800)
	rejectedAsset := seedAsset(suite.T(), suite.repos, suite.owner, "Monitor", 300)
	pendingAsset := seedAsset(suite.T(), suite.repos, suite.owner, "Desk", 450)

	approvedReq, err := suite.services.DeletionRequest.Submit(ctx, approvedAsset.ID, "Broken beyond repair", suite.owner.ID)
	assert.NoError(suite.T(), err)
	rejectedReq, err := suite.services.DeletionRequest.Submit(ctx, rejectedAsset.ID, "Flickers constantly", suite.owner.ID)
	assert.NoError(suite.T(), err)
	_, err = suite.services.DeletionRequest.Submit(ctx, pendingAsset.ID, "No longer needed", suite.owner.ID)
	assert.NoError(suite.T(), err)

	err = suite.services.Approval.Approve(ctx, approvedReq.ID, suite.admin.ID, "Approved")
	assert.NoError(suite.T(), err)
	err = suite.services.DeletionRequest.Reject(ctx, rejectedReq.ID, suite.admin.ID, "Covered by warranty")
	assert.NoError(suite.T(), err)

	stats, err := suite.services.Stats.GetStats(ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, stats.PendingCount)
	assert.Equal(suite.T(), 1, stats.ApprovedLast30Days)
	assert.Equal(suite.T(), 1, stats.RejectedLast30Days)
	// Both reviews happened moments after submission
	assert.GreaterOrEqual(suite.T(), stats.AverageReviewTimeHours, float64(0))
	assert.Less(suite.T(), stats.AverageReviewTimeHours, float64(1))
	assert.GreaterOrEqual(suite.T(), stats.OldestPendingDays, float64(0))
	assert.Less(suite.T(), stats.OldestPendingDays, float64(1))
}

func TestStatsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StatsServiceTestSuite))
}

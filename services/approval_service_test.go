package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/blogem/asset-registry/apperrors"
	"github.com/blogem/asset-registry/models"
	"github.com/blogem/asset-registry/repositories"
)

// ApprovalServiceTestSuite exercises the transactional paths of the
// workflow against a real database with the database-backed gate, so
// commit and rollback behavior is what production sees.
type ApprovalServiceTestSuite struct {
	suite.Suite
	repos    *repositories.Repositories
	services *Services

	owner *models.User
	admin *models.User
	asset *models.Asset
}

// SetupTest sets up the test suite before each test
func (suite *ApprovalServiceTestSuite) SetupTest() {
	db := setupTestDB(suite.T())
	suite.repos = repositories.NewRepositories(db)
	suite.services = NewServices(db, suite.repos, zerolog.Nop())

	suite.owner = seedUser(suite.T(), suite.repos, "owner@example.com", models.RoleUser)
	suite.admin = seedUser(suite.T(), suite.repos, "admin@example.com", models.RoleAdmin)
	suite.asset = seedAsset(suite.T(), suite.repos, suite.owner, "Laptop", 1200)
}

// submitRequest creates a pending request for the suite's asset
func (suite *ApprovalServiceTestSuite) submitRequest() *models.DeletionRequest {
	request, err := suite.services.DeletionRequest.Submit(context.Background(), suite.asset.ID, "No longer needed", suite.owner.ID)
	if err != nil {
		suite.T().Fatalf("Failed to submit deletion request: %v", err)
	}
	return request
}

func (suite *ApprovalServiceTestSuite) TestApprove_DeletesAssetAndClosesRequest() {
	request := suite.submitRequest()

	before, err := suite.services.Stats.GetStats(context.Background())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, before.PendingCount)

	err = suite.services.Approval.Approve(context.Background(), request.ID, suite.admin.ID, "Approved for disposal")
	assert.NoError(suite.T(), err)

	// Asset is gone
	_, err = suite.repos.Asset.GetByID(context.Background(), suite.asset.ID)
	assert.Equal(suite.T(), apperrors.CodeNotFound, apperrors.CodeOf(err))

	// Request is approved, stamped, and its weak reference is cleared
	// while the snapshot columns survive
	approved, err := suite.repos.DeletionRequest.GetByID(context.Background(), request.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.StatusApproved, approved.Status)
	assert.Nil(suite.T(), approved.AssetID)
	assert.Equal(suite.T(), "Laptop", approved.AssetName)
	assert.Equal(suite.T(), float64(1200), approved.AssetCost)
	assert.Equal(suite.T(), suite.admin.ID, *approved.ReviewedBy)
	assert.Equal(suite.T(), "Approved for disposal", *approved.ReviewComment)
	assert.NotNil(suite.T(), approved.ReviewedAt)

	// One deletion entry against the asset, submission plus approval
	// against the request
	assetEntries, err := suite.repos.Audit.ListByEntity(context.Background(), models.EntityAsset, suite.asset.ID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), assetEntries, 1)
	assert.Equal(suite.T(), models.ActionAssetDeleted, assetEntries[0].Action)

	requestEntries, err := suite.repos.Audit.ListByEntity(context.Background(), models.EntityDeletionRequest, request.ID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), requestEntries, 2)
	assert.Equal(suite.T(), models.ActionRequestApproved, requestEntries[1].Action)

	after, err := suite.services.Stats.GetStats(context.Background())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, after.PendingCount)
	assert.Equal(suite.T(), 1, after.ApprovedLast30Days)
}

func (suite *ApprovalServiceTestSuite) TestApprove_NonAdminUnauthorized() {
	request := suite.submitRequest()

	err := suite.services.Approval.Approve(context.Background(), request.ID, suite.owner.ID, "trying anyway")
	assert.Equal(suite.T(), apperrors.CodeUnauthorized, apperrors.CodeOf(err))

	// Nothing happened
	_, err = suite.repos.Asset.GetByID(context.Background(), suite.asset.ID)
	assert.NoError(suite.T(), err)
}

func (suite *ApprovalServiceTestSuite) TestApprove_AlreadyReviewed() {
	request := suite.submitRequest()

	err := suite.services.Approval.Approve(context.Background(), request.ID, suite.admin.ID, "Approved")
	assert.NoError(suite.T(), err)

	err = suite.services.Approval.Approve(context.Background(), request.ID, suite.admin.ID, "Approved again")
	assert.Equal(suite.T(), apperrors.CodeValidation, apperrors.CodeOf(err))
}

func (suite *ApprovalServiceTestSuite) TestApprove_MissingRequest() {
	err := suite.services.Approval.Approve(context.Background(), "missing-request", suite.admin.ID, "Approved")
	assert.Equal(suite.T(), apperrors.CodeNotFound, apperrors.CodeOf(err))
}

// An asset that disappeared underneath a pending request makes the
// approval fail and roll back: the request stays pending and no audit
// entries are written.
func (suite *ApprovalServiceTestSuite) TestApprove_AssetGoneRollsBack() {
	request := suite.submitRequest()

	// Remove the asset behind the service's back; the weak reference on
	// the request goes nil
	err := suite.repos.Asset.Delete(context.Background(), suite.asset.ID)
	assert.NoError(suite.T(), err)

	err = suite.services.Approval.Approve(context.Background(), request.ID, suite.admin.ID, "Approved")
	assert.Equal(suite.T(), apperrors.CodeDatabase, apperrors.CodeOf(err))

	reloaded, err := suite.repos.DeletionRequest.GetByID(context.Background(), request.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.StatusPending, reloaded.Status)

	entries, err := suite.repos.Audit.ListByEntity(context.Background(), models.EntityDeletionRequest, request.ID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), entries, 1) // only the submission entry
}

// Two admins racing to approve the same request: one wins, the loser
// sees the request already reviewed.
func (suite *ApprovalServiceTestSuite) TestApprove_ConcurrentApprovals() {
	request := suite.submitRequest()
	second := seedUser(suite.T(), suite.repos, "admin2@example.com", models.RoleAdmin)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	reviewers := []string{suite.admin.ID, second.ID}
	for i := range reviewers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = suite.services.Approval.Approve(context.Background(), request.ID, reviewers[i], "Approved")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.Equal(suite.T(), apperrors.CodeValidation, apperrors.CodeOf(err))
		}
	}
	assert.Equal(suite.T(), 1, succeeded)

	// Exactly one approval and one asset deletion made it in
	assetEntries, err := suite.repos.Audit.ListByEntity(context.Background(), models.EntityAsset, suite.asset.ID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), assetEntries, 1)
}

func (suite *ApprovalServiceTestSuite) TestDeleteAssetDirect_ResolvesPendingRequest() {
	request := suite.submitRequest()

	err := suite.services.Approval.DeleteAssetDirect(context.Background(), suite.asset.ID, suite.admin.ID)
	assert.NoError(suite.T(), err)

	_, err = suite.repos.Asset.GetByID(context.Background(), suite.asset.ID)
	assert.Equal(suite.T(), apperrors.CodeNotFound, apperrors.CodeOf(err))

	// The pending request was auto-approved with the sentinel comment
	resolved, err := suite.repos.DeletionRequest.GetByID(context.Background(), request.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.StatusApproved, resolved.Status)
	assert.Nil(suite.T(), resolved.AssetID)
	assert.Equal(suite.T(), models.DirectDeletionComment, *resolved.ReviewComment)
	assert.Equal(suite.T(), suite.admin.ID, *resolved.ReviewedBy)

	assetEntries, err := suite.repos.Audit.ListByEntity(context.Background(), models.EntityAsset, suite.asset.ID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), assetEntries, 1)

	var data map[string]any
	err = json.Unmarshal([]byte(assetEntries[0].EntityData), &data)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), true, data["direct_deletion"])
	assert.Equal(suite.T(), true, data["had_pending_request"])

	requestEntries, err := suite.repos.Audit.ListByEntity(context.Background(), models.EntityDeletionRequest, request.ID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), requestEntries, 2)
	assert.Equal(suite.T(), models.ActionRequestApproved, requestEntries[1].Action)
}

func (suite *ApprovalServiceTestSuite) TestDeleteAssetDirect_NoPendingRequest() {
	err := suite.services.Approval.DeleteAssetDirect(context.Background(), suite.asset.ID, suite.admin.ID)
	assert.NoError(suite.T(), err)

	_, err = suite.repos.Asset.GetByID(context.Background(), suite.asset.ID)
	assert.Equal(suite.T(), apperrors.CodeNotFound, apperrors.CodeOf(err))

	assetEntries, err := suite.repos.Audit.ListByEntity(context.Background(), models.EntityAsset, suite.asset.ID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), assetEntries, 1)

	var data map[string]any
	err = json.Unmarshal([]byte(assetEntries[0].EntityData), &data)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), false, data["had_pending_request"])
}

func (suite *ApprovalServiceTestSuite) TestDeleteAssetDirect_NonAdminUnauthorized() {
	err := suite.services.Approval.DeleteAssetDirect(context.Background(), suite.asset.ID, suite.owner.ID)
	assert.Equal(suite.T(), apperrors.CodeUnauthorized, apperrors.CodeOf(err))

	_, err = suite.repos.Asset.GetByID(context.Background(), suite.asset.ID)
	assert.NoError(suite.T(), err)
}

func (suite *ApprovalServiceTestSuite) TestDeleteAssetDirect_MissingAsset() {
	err := suite.services.Approval.DeleteAssetDirect(context.Background(), "missing-asset", suite.admin.ID)
	assert.Equal(suite.T(), apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestApprovalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceTestSuite))
}

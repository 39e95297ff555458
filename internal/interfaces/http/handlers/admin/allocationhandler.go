// Package admin provides HTTP handlers for the admin provisioning API.
package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"rdfstore/internal/application/storage/usecases"
	"rdfstore/internal/shared/errors"
	"rdfstore/internal/shared/logger"
	"rdfstore/internal/shared/utils"
)

// AllocationHandler handles admin allocation operations
type AllocationHandler struct {
	provisionUseCase    *usecases.ProvisionAllocationUseCase
	listUseCase         *usecases.ListAllocationsUseCase
	addMemberUseCase    *usecases.AddMemberUseCase
	removeMemberUseCase *usecases.RemoveMemberUseCase
	logger              logger.Interface
}

// NewAllocationHandler creates a new admin allocation handler
func NewAllocationHandler(
	provisionUC *usecases.ProvisionAllocationUseCase,
	listUC *usecases.ListAllocationsUseCase,
	addMemberUC *usecases.AddMemberUseCase,
	removeMemberUC *usecases.RemoveMemberUseCase,
	logger logger.Interface,
) *AllocationHandler {
	return &AllocationHandler{
		provisionUseCase:    provisionUC,
		listUseCase:         listUC,
		addMemberUseCase:    addMemberUC,
		removeMemberUseCase: removeMemberUC,
		logger:              logger,
	}
}

// ProvisionAllocationRequest represents the request to provision an allocation
type ProvisionAllocationRequest struct {
	OwnerUsername string `json:"owner_username" binding:"required,posix_username,max=64"`
	Department    string `json:"department" binding:"max=200"`
	Faculty       string `json:"faculty" binding:"max=200"`
	QuotaBytes    int64  `json:"quota_bytes" binding:"required,gt=0"`
}

// AddMemberRequest represents the request to add a member to an allocation
type AddMemberRequest struct {
	Username  string `json:"username" binding:"required,posix_username,max=64"`
	ExpiresAt string `json:"expires_at" binding:"omitempty"`
}

// Provision provisions a new storage allocation
func (h *AllocationHandler) Provision(c *gin.Context) {
	var req ProvisionAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for provision allocation", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	cmd := usecases.ProvisionAllocationCommand{
		OwnerUsername: req.OwnerUsername,
		Department:    req.Department,
		Faculty:       req.Faculty,
		QuotaBytes:    req.QuotaBytes,
	}

	result, err := h.provisionUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to provision allocation", "error", err, "owner", req.OwnerUsername)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Allocation provisioned successfully")
}

// List lists allocations with pagination
func (h *AllocationHandler) List(c *gin.Context) {
	p := utils.ParsePagination(c)

	query := usecases.ListAllocationsQuery{
		Status:   c.Query("status"),
		Owner:    c.Query("owner"),
		Page:     p.Page,
		PageSize: p.PageSize,
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), query)
	if err != nil {
		if query.Status != "" && errors.GetAppError(err) == nil {
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Errorw("failed to list allocations", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Allocations, result.Total, p.Page, p.PageSize)
}

// AddMember adds a member to an allocation
func (h *AllocationHandler) AddMember(c *gin.Context) {
	allocationID, ok := h.parseAllocationID(c)
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for add member", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	var expiresAt time.Time
	if req.ExpiresAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "expires_at must be an RFC3339 timestamp")
			return
		}
		expiresAt = parsed
	}

	cmd := usecases.AddMemberCommand{
		AllocationID: allocationID,
		Username:     req.Username,
		ExpiresAt:    expiresAt,
	}

	result, err := h.addMemberUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to add member", "error", err, "allocation_id", allocationID, "username", req.Username)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Member added successfully")
}

// RemoveMember removes a member from an allocation
func (h *AllocationHandler) RemoveMember(c *gin.Context) {
	allocationID, ok := h.parseAllocationID(c)
	if !ok {
		return
	}

	username := c.Param("username")
	if username == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "username is required")
		return
	}

	cmd := usecases.RemoveMemberCommand{
		AllocationID: allocationID,
		Username:     username,
	}

	if err := h.removeMemberUseCase.Execute(c.Request.Context(), cmd); err != nil {
		h.logger.Errorw("failed to remove member", "error", err, "allocation_id", allocationID, "username", username)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *AllocationHandler) parseAllocationID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid allocation ID")
		return 0, false
	}
	return uint(id), true
}

package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rdfstore/internal/application/storage/usecases"
	"rdfstore/internal/shared/logger"
	"rdfstore/internal/shared/utils"
)

// JobHandler triggers maintenance jobs on demand. The same use cases run on a
// schedule in the worker; these endpoints exist for operators who do not want
// to wait for the next scheduled run.
type JobHandler struct {
	syncQuotasUseCase *usecases.SyncQuotasUseCase
	auditUseCase      *usecases.AuditMembershipsUseCase
	logger            logger.Interface
}

// NewJobHandler creates a new admin job handler
func NewJobHandler(
	syncQuotasUC *usecases.SyncQuotasUseCase,
	auditUC *usecases.AuditMembershipsUseCase,
	logger logger.Interface,
) *JobHandler {
	return &JobHandler{
		syncQuotasUseCase: syncQuotasUC,
		auditUseCase:      auditUC,
		logger:            logger,
	}
}

// TriggerJobRequest optionally restricts a job run to specific allocations
type TriggerJobRequest struct {
	AllocationIDs []uint `json:"allocation_ids"`
}

// TriggerQuotaSync runs a quota sync pass and returns its summary
func (h *JobHandler) TriggerQuotaSync(c *gin.Context) {
	var req TriggerJobRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	summary, err := h.syncQuotasUseCase.Execute(c.Request.Context(), usecases.SyncQuotasCommand{
		AllocationIDs: req.AllocationIDs,
	})
	if err != nil {
		h.logger.Errorw("quota sync trigger failed", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Quota sync completed", summary)
}

// TriggerAudit runs a membership audit pass and returns its report
func (h *JobHandler) TriggerAudit(c *gin.Context) {
	var req TriggerJobRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	report, err := h.auditUseCase.Execute(c.Request.Context(), usecases.AuditMembershipsCommand{
		AllocationIDs: req.AllocationIDs,
	})
	if err != nil {
		h.logger.Errorw("membership audit trigger failed", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Membership audit completed", report)
}

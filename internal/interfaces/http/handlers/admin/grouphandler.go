package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rdfstore/internal/application/storage/usecases"
	"rdfstore/internal/shared/logger"
	"rdfstore/internal/shared/utils"
)

// GroupHandler handles admin research group operations
type GroupHandler struct {
	createUseCase *usecases.CreateGroupUseCase
	logger        logger.Interface
}

// NewGroupHandler creates a new admin group handler
func NewGroupHandler(createUC *usecases.CreateGroupUseCase, logger logger.Interface) *GroupHandler {
	return &GroupHandler{
		createUseCase: createUC,
		logger:        logger,
	}
}

// CreateGroupRequest represents the request to create a research group
type CreateGroupRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=100"`
	Department    string `json:"department" binding:"max=200"`
	Faculty       string `json:"faculty" binding:"max=200"`
	OwnerUsername string `json:"owner_username" binding:"required,posix_username,max=64"`
}

// Create creates a new research group
func (h *GroupHandler) Create(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create group", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	cmd := usecases.CreateGroupCommand{
		Name:          req.Name,
		Department:    req.Department,
		Faculty:       req.Faculty,
		OwnerUsername: req.OwnerUsername,
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to create research group", "error", err, "name", req.Name)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Research group created successfully")
}

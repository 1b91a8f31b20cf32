package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/section3-pro/compliance-backend/errors"
	"github.com/section3-pro/compliance-backend/logger"
	"github.com/section3-pro/compliance-backend/types"
)

// DeploymentHandler serves the deployment prerequisite report.
type DeploymentHandler struct {
	deploymentService DeploymentServiceInterface
}

func NewDeploymentHandler(deploymentService DeploymentServiceInterface) *DeploymentHandler {
	return &DeploymentHandler{deploymentService: deploymentService}
}

// GetStatus runs the prerequisite checklist. A failing report is still a
// successful response; callers read canDeploy.
func (h *DeploymentHandler) GetStatus(c *gin.Context) {
	h.respond(c)
}

// RunAction accepts {"action": "check-prerequisites"}.
func (h *DeploymentHandler) RunAction(c *gin.Context) {
	var req types.DeploymentActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	if req.Action != types.ActionCheckPrerequisites {
		logger.GetLogger().Warnw("Unsupported deployment action", "action", req.Action)
		_ = c.Error(apperrors.ValidationFailed(
			"unsupported action",
			"action must be "+types.ActionCheckPrerequisites,
		))
		return
	}

	h.respond(c)
}

func (h *DeploymentHandler) respond(c *gin.Context) {
	report := h.deploymentService.CheckPrerequisites()
	c.JSON(http.StatusOK, types.DeploymentStatusResponse{
		PrerequisiteReport: report,
		CanDeploy:          report.Passed,
	})
}

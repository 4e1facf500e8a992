package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/lshigami/Bastion/internal/controller"
	"github.com/lshigami/Bastion/internal/dto"
	"github.com/lshigami/Bastion/internal/service"
	"github.com/rs/zerolog/log"
)

type SubmissionController struct {
	submissionService service.SubmissionService
	moduleService     service.ModuleService
}

func NewSubmissionController(submissionService service.SubmissionService, moduleService service.ModuleService) *SubmissionController {
	return &SubmissionController{
		submissionService: submissionService,
		moduleService:     moduleService,
	}
}

// SubmitFlag godoc
// @Summary Submit a flag for a module
// @Description Records the attempt. A wrong flag is stored and returned with is_valid=false. A module can be solved once per user.
// @Tags Submissions
// @Accept json
// @Produce json
// @Param module_name path string true "Module name"
// @Param submission body dto.SubmitFlagRequest true "User ID (temporary) and flag"
// @Success 201 {object} dto.SubmissionResponse "Attempt recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Module not found or has no flag"
// @Failure 409 {object} dto.ErrorResponse "Module already solved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /modules/{module_name}/submissions [post]
func (c *SubmissionController) SubmitFlag(ctx *gin.Context) {
	moduleName := ctx.Param("module_name")

	var req dto.SubmitFlagRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("User SubmitFlag: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	submission, err := c.submissionService.Submit(req.UserID, moduleName, req.Flag)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to submit flag")
		return
	}

	var resp dto.SubmissionResponse
	copier.Copy(&resp, submission)
	ctx.JSON(http.StatusCreated, resp)
}

// GetModules godoc
// @Summary List modules
// @Description Lists every registered module. With user_id, each entry says whether that user solved it.
// @Tags Modules
// @Produce json
// @Param user_id query int false "User ID (temporary)"
// @Success 200 {array} dto.ModuleResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid user id"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /modules [get]
func (c *SubmissionController) GetModules(ctx *gin.Context) {
	solved := make(map[string]bool)
	if raw := ctx.Query("user_id"); raw != "" {
		userID, err := controller.ParseUserID(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid User ID format in query"})
			return
		}
		names, err := c.submissionService.FindAllValidModuleNamesByUserID(userID)
		if err != nil {
			controller.RespondError(ctx, err, "Failed to retrieve solved modules")
			return
		}
		for _, name := range names {
			solved[name] = true
		}
	}

	modules, err := c.moduleService.FindAll()
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve modules")
		return
	}

	resp := make([]dto.ModuleResponse, 0, len(modules))
	copier.Copy(&resp, &modules)
	for i := range resp {
		resp[i].Solved = solved[resp[i].Name]
	}
	ctx.JSON(http.StatusOK, resp)
}

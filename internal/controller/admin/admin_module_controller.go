package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/lshigami/Bastion/internal/controller"
	"github.com/lshigami/Bastion/internal/dto"
	"github.com/lshigami/Bastion/internal/model"
	"github.com/lshigami/Bastion/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminModuleController struct {
	moduleService service.ModuleService
	keyService    service.KeyService
}

func NewAdminModuleController(moduleService service.ModuleService, keyService service.KeyService) *AdminModuleController {
	return &AdminModuleController{moduleService: moduleService, keyService: keyService}
}

// CreateModule godoc
// @Summary (Admin) Register a module
// @Tags Admin - Modules
// @Accept json
// @Produce json
// @Param module body dto.CreateModuleRequest true "Module"
// @Success 201 {object} dto.ModuleResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 409 {object} dto.ErrorResponse "Module name taken"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/modules [post]
func (c *AdminModuleController) CreateModule(ctx *gin.Context) {
	var req dto.CreateModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateModule: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	module, err := c.moduleService.Register(req.Name, model.FlagMode(req.FlagMode), req.StaticFlag)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to register module")
		return
	}
	var resp dto.ModuleResponse
	copier.Copy(&resp, module)
	ctx.JSON(http.StatusCreated, resp)
}

// SetFlagMode godoc
// @Summary (Admin) Set the flag mode of a module
// @Description Allowed once, and only for a module registered without a flag mode.
// @Tags Admin - Modules
// @Accept json
// @Produce json
// @Param module_id path int true "Module ID"
// @Param mode body dto.SetFlagModeRequest true "Flag mode"
// @Success 200 {object} dto.ModuleResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Failure 409 {object} dto.ErrorResponse "Flag mode already set"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/modules/{module_id}/flag-mode [put]
func (c *AdminModuleController) SetFlagMode(ctx *gin.Context) {
	moduleID, err := strconv.ParseUint(ctx.Param("module_id"), 10, 32)
	if err != nil || moduleID == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Module ID format"})
		return
	}

	var req dto.SetFlagModeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin SetFlagMode: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	current, err := c.moduleService.FindByID(uint(moduleID))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to load module")
		return
	}
	module, err := c.moduleService.SetFlagMode(current.Name, model.FlagMode(req.FlagMode), req.StaticFlag)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to set flag mode")
		return
	}
	var resp dto.ModuleResponse
	copier.Copy(&resp, module)
	ctx.JSON(http.StatusOK, resp)
}

// RefreshServerKey godoc
// @Summary (Admin) Rotate the server key
// @Description Every dynamic flag issued so far stops verifying.
// @Tags Admin - Modules
// @Produce json
// @Success 200 {object} dto.ServerKeyRefreshResponse
// @Failure 409 {object} dto.ErrorResponse "Server key is pinned by configuration"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/server-key/refresh [post]
func (c *AdminModuleController) RefreshServerKey(ctx *gin.Context) {
	if _, err := c.keyService.RefreshServerKey(); err != nil {
		if errors.Is(err, service.ErrServerKeyPinned) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Server key is set by configuration", Details: []string{err.Error()}})
			return
		}
		controller.RespondError(ctx, err, "Failed to refresh server key")
		return
	}
	ctx.JSON(http.StatusOK, dto.ServerKeyRefreshResponse{Message: "Server key refreshed"})
}

package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/lshigami/Bastion/internal/controller"
	"github.com/lshigami/Bastion/internal/dto"
	"github.com/lshigami/Bastion/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminController struct {
	scoreService      service.ScoreService
	correctionService service.CorrectionService
}

func NewAdminController(scoreService service.ScoreService, correctionService service.CorrectionService) *AdminController {
	return &AdminController{scoreService: scoreService, correctionService: correctionService}
}

// SetModulePoints godoc
// @Summary (Admin) Set points for a solve rank
// @Description Creates or replaces the points awarded to the solve at the given rank. Rank 0 is the first solve.
// @Tags Admin - Scoring
// @Accept json
// @Produce json
// @Param module_id path int true "Module ID"
// @Param points body dto.SetModulePointsRequest true "Rank and points"
// @Success 200 {object} dto.ModulePointResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/modules/{module_id}/points [post]
func (c *AdminController) SetModulePoints(ctx *gin.Context) {
	moduleID, err := strconv.ParseUint(ctx.Param("module_id"), 10, 32)
	if err != nil || moduleID == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Module ID format"})
		return
	}

	var req dto.SetModulePointsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin SetModulePoints: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	point, err := c.scoreService.SetModulePoints(uint(moduleID), *req.Rank, req.Points)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to set module points")
		return
	}
	var resp dto.ModulePointResponse
	copier.Copy(&resp, point)
	ctx.JSON(http.StatusOK, resp)
}

// CreateCorrection godoc
// @Summary (Admin) Adjust a user's score
// @Description Appends a signed correction that is added to the user's total score.
// @Tags Admin - Scoring
// @Accept json
// @Produce json
// @Param correction body dto.CreateCorrectionRequest true "Correction"
// @Success 201 {object} dto.CorrectionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/corrections [post]
func (c *AdminController) CreateCorrection(ctx *gin.Context) {
	var req dto.CreateCorrectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateCorrection: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	correction, err := c.correctionService.Submit(req.UserID, req.Amount, req.Description)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to create correction")
		return
	}
	var resp dto.CorrectionResponse
	copier.Copy(&resp, correction)
	ctx.JSON(http.StatusCreated, resp)
}

// GetCorrections godoc
// @Summary (Admin) List a user's corrections
// @Tags Admin - Scoring
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {array} dto.CorrectionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid user id"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/corrections/{user_id} [get]
func (c *AdminController) GetCorrections(ctx *gin.Context) {
	userID, err := controller.ParseUserID(ctx.Param("user_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid User ID format"})
		return
	}
	corrections, err := c.correctionService.FindAllByUserID(userID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve corrections")
		return
	}
	resp := make([]dto.CorrectionResponse, 0, len(corrections))
	copier.Copy(&resp, &corrections)
	ctx.JSON(http.StatusOK, resp)
}

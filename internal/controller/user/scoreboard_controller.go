package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/lshigami/Bastion/internal/controller"
	"github.com/lshigami/Bastion/internal/dto"
	"github.com/lshigami/Bastion/internal/service"
)

type ScoreboardController struct {
	scoreService service.ScoreService
}

func NewScoreboardController(scoreService service.ScoreService) *ScoreboardController {
	return &ScoreboardController{scoreService: scoreService}
}

// GetScoreboard godoc
// @Summary Public scoreboard
// @Description Every user with a submission or correction, ordered by score descending and then user id. Equal scores share a rank.
// @Tags Scoreboard
// @Produce json
// @Success 200 {array} dto.ScoreboardEntryResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /scoreboard [get]
func (c *ScoreboardController) GetScoreboard(ctx *gin.Context) {
	board, err := c.scoreService.Scoreboard()
	if err != nil {
		controller.RespondError(ctx, err, "Failed to compute scoreboard")
		return
	}
	resp := make([]dto.ScoreboardEntryResponse, 0, len(board))
	copier.Copy(&resp, &board)
	ctx.JSON(http.StatusOK, resp)
}

// GetUserScore godoc
// @Summary Score details of one user
// @Tags Scoreboard
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} dto.UserScoreResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid user id"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /scoreboard/{user_id} [get]
func (c *ScoreboardController) GetUserScore(ctx *gin.Context) {
	userID, err := controller.ParseUserID(ctx.Param("user_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid User ID format"})
		return
	}

	total, err := c.scoreService.TotalScore(userID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to compute total score")
		return
	}
	medals, err := c.scoreService.MedalCounts(userID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to count medals")
		return
	}
	ranked, err := c.scoreService.RankedSubmissionsByUserID(userID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve solves")
		return
	}

	resp := dto.UserScoreResponse{UserID: userID, TotalScore: total}
	copier.Copy(&resp, &medals)
	resp.Submissions = make([]dto.RankedSubmissionResponse, 0, len(ranked))
	copier.Copy(&resp.Submissions, &ranked)
	ctx.JSON(http.StatusOK, resp)
}

package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/lshigami/Bastion/internal/controller"
	"github.com/lshigami/Bastion/internal/dto"
	"github.com/lshigami/Bastion/internal/exercise"
)

type FlagIssuer interface {
	Name() string
	Flag(userID int64) (string, error)
}

type CsrfExercise interface {
	Tutorial(userID int64) (*exercise.CsrfTutorialResult, error)
	Attack(userID int64, target string) (*exercise.CsrfTutorialResult, error)
}

type ExerciseController struct {
	flagTutorial FlagIssuer
	csrfTutorial CsrfExercise
}

func NewExerciseController(flagTutorial FlagIssuer, csrfTutorial CsrfExercise) *ExerciseController {
	return &ExerciseController{flagTutorial: flagTutorial, csrfTutorial: csrfTutorial}
}

// FlagTutorial godoc
// @Summary Flag tutorial
// @Description Returns the caller's personal flag for the flag tutorial.
// @Tags Exercises
// @Produce json
// @Param user_id query int true "User ID (temporary)"
// @Success 200 {object} dto.FlagResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid user id"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /module/flag-tutorial [get]
func (c *ExerciseController) FlagTutorial(ctx *gin.Context) {
	userID, ok := controller.UserIDFromQuery(ctx)
	if !ok {
		return
	}
	flag, err := c.flagTutorial.Flag(userID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to issue flag")
		return
	}
	ctx.JSON(http.StatusOK, dto.FlagResponse{Module: c.flagTutorial.Name(), Flag: flag})
}

// CsrfTutorial godoc
// @Summary CSRF tutorial
// @Description Returns the caller's pseudonym. The flag is included once another user has activated it.
// @Tags Exercises
// @Produce json
// @Param user_id query int true "User ID (temporary)"
// @Success 200 {object} dto.CsrfTutorialResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid user id"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /module/csrf-tutorial [get]
func (c *ExerciseController) CsrfTutorial(ctx *gin.Context) {
	userID, ok := controller.UserIDFromQuery(ctx)
	if !ok {
		return
	}
	result, err := c.csrfTutorial.Tutorial(userID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to load csrf tutorial")
		return
	}
	var resp dto.CsrfTutorialResponse
	copier.Copy(&resp, result)
	ctx.JSON(http.StatusOK, resp)
}

// CsrfActivate godoc
// @Summary Activate a CSRF tutorial target
// @Description The request the forged link makes. Activating your own pseudonym or an unknown one is reported in the error field.
// @Tags Exercises
// @Produce json
// @Param pseudonym path string true "Target pseudonym"
// @Param user_id query int true "Acting user ID (temporary)"
// @Success 200 {object} dto.CsrfTutorialResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid user id"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /module/csrf-tutorial/activate/{pseudonym} [get]
func (c *ExerciseController) CsrfActivate(ctx *gin.Context) {
	userID, ok := controller.UserIDFromQuery(ctx)
	if !ok {
		return
	}
	result, err := c.csrfTutorial.Attack(userID, ctx.Param("pseudonym"))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to activate target")
		return
	}
	var resp dto.CsrfTutorialResponse
	copier.Copy(&resp, result)
	ctx.JSON(http.StatusOK, resp)
}

package controller

import (
	"errors"

	"learnify_backend/internal/service"
	"learnify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// LearningController 模块进度与连续学习
type LearningController struct {
	ProgressService *service.ProgressService
	StreakService   *service.StreakService
}

func NewLearningController(progressService *service.ProgressService, streakService *service.StreakService) *LearningController {
	return &LearningController{
		ProgressService: progressService,
		StreakService:   streakService,
	}
}

// ModuleProgressRequest 进度提交请求
type ModuleProgressRequest struct {
	Completion float64 `json:"completion" binding:"min=0"`
	QuizScore  *int    `json:"quizScore"`
}

// SubmitProgress godoc
// @Summary 提交模块进度
// @Description 更新单个模块的学习进度，课程完成度随之重算，可能触发徽章与证书
// @Tags 学习
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   moduleId path int true "模块ID"
// @Param   body body ModuleProgressRequest true "进度"
// @Success 200 {object} util.Response{data=service.ProgressResult}
// @Failure 403 {object} util.Response "未报名该课程"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/courses/{id}/modules/{moduleId}/progress [post]
func (c *LearningController) SubmitProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}
	moduleID, err := parseUintParam(ctx, "moduleId")
	if err != nil {
		util.BadRequest(ctx, "无效的模块ID")
		return
	}

	var req ModuleProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.SubmitModuleProgress(claims.UserID, courseID, moduleID, req.Completion, req.QuizScore)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNotEnrolled):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrModuleNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// CourseProgress godoc
// @Summary 课程进度视图
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseProgress}
// @Router /api/courses/{id}/progress [get]
func (c *LearningController) CourseProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	progress, err := c.ProgressService.GetCourseProgress(claims.UserID, courseID)
	if err != nil {
		if errors.Is(err, util.ErrNotEnrolled) {
			util.Forbidden(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, progress)
}

// Streak godoc
// @Summary 连续学习天数
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.Streak}
// @Router /api/streak [get]
func (c *LearningController) Streak(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	streak, err := c.StreakService.GetStreak(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, streak)
}

package controller

import (
	"learnify_backend/internal/service"
	"learnify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	ChatbotService *service.ChatbotService
}

func NewChatController(chatbotService *service.ChatbotService) *ChatController {
	return &ChatController{ChatbotService: chatbotService}
}

// ChatRequest 学员消息
type ChatRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
}

// Send godoc
// @Summary 向学习助手提问
// @Tags 助手
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ChatRequest true "消息"
// @Success 200 {object} util.Response{data=model.ChatMessage}
// @Router /api/chat [post]
func (c *ChatController) Send(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reply, err := c.ChatbotService.Send(ctx.Request.Context(), claims.UserID, req.Message)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, reply)
}

// History godoc
// @Summary 会话历史
// @Tags 助手
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.ChatMessage}
// @Router /api/chat/history [get]
func (c *ChatController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	history, err := c.ChatbotService.History(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, history)
}

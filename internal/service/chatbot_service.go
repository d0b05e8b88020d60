package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"learnify_backend/internal/config"
	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Responder 生成对学员消息的回复
type Responder interface {
	Reply(ctx context.Context, message string, history []model.ChatMessage) (string, error)
}

// AIChatMessage 对话 API 的消息格式
type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// AIResponder 调用 OpenAI 兼容的 chat/completions 接口
type AIResponder struct {
	cfg    config.AIConfig
	client *http.Client
}

func NewAIResponder(cfg config.AIConfig) *AIResponder {
	return &AIResponder{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *AIResponder) Reply(ctx context.Context, message string, history []model.ChatMessage) (string, error) {
	messages := []AIChatMessage{{
		Role:    "system",
		Content: "你是在线学习平台的学习助手，回答学员关于课程、学习进度、徽章和证书的问题。回答保持简短友好。",
	}}
	for _, h := range history {
		role := "assistant"
		if h.IsFromUser {
			role = "user"
		}
		messages = append(messages, AIChatMessage{Role: role, Content: h.Message})
	}
	messages = append(messages, AIChatMessage{Role: "user", Content: message})

	reqBody := map[string]interface{}{
		"model":    r.cfg.Model,
		"messages": messages,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.cfg.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI接口返回 %d: %s", resp.StatusCode, string(body))
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", err
	}
	if completion.Error != nil {
		return "", fmt.Errorf("AI接口错误: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("AI接口没有返回任何回复")
	}
	return completion.Choices[0].Message.Content, nil
}

// FAQEntry 兜底问答库的一条
type FAQEntry struct {
	Keywords []string
	Answer   string
}

// FAQResponder 基于关键词匹配的本地问答，AI 不可用时兜底
type FAQResponder struct {
	entries   []FAQEntry
	fallbacks []string
}

// NewFAQResponder 从 CSV 加载问答库，每行为 keywords（分号分隔）,answer
func NewFAQResponder(faqPath string) (*FAQResponder, error) {
	responder := &FAQResponder{
		fallbacks: []string{
			"抱歉，这个问题我还回答不了。你可以问我课程、学习进度、徽章或证书相关的问题。",
			"我没有理解你的问题，换个说法试试？比如“怎么获得证书”。",
		},
	}

	f, err := os.Open(faqPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		keywords := strings.Split(record[0], ";")
		for i := range keywords {
			keywords[i] = strings.ToLower(strings.TrimSpace(keywords[i]))
		}
		responder.entries = append(responder.entries, FAQEntry{
			Keywords: keywords,
			Answer:   record[1],
		})
	}
	return responder, nil
}

// Reply 选择关键词命中数最多的条目，没有命中时轮换兜底话术
func (r *FAQResponder) Reply(ctx context.Context, message string, history []model.ChatMessage) (string, error) {
	lowered := strings.ToLower(message)

	bestScore := 0
	bestAnswer := ""
	for _, entry := range r.entries {
		score := 0
		for _, kw := range entry.Keywords {
			if kw != "" && strings.Contains(lowered, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestAnswer = entry.Answer
		}
	}

	if bestScore > 0 {
		return bestAnswer, nil
	}
	return r.fallbacks[len(message)%len(r.fallbacks)], nil
}

// ChatbotService 学习助手会话。优先 AI 回复，失败时退回 FAQ。
type ChatbotService struct {
	ChatRepo *repository.ChatRepository
	Primary  Responder
	Fallback Responder
	DB       *gorm.DB
}

func NewChatbotService(chatRepo *repository.ChatRepository, primary, fallback Responder, db *gorm.DB) *ChatbotService {
	return &ChatbotService{
		ChatRepo: chatRepo,
		Primary:  primary,
		Fallback: fallback,
		DB:       db,
	}
}

// Send 处理一条学员消息：生成回复并把问答双方都落库
func (s *ChatbotService) Send(ctx context.Context, userID uint, message string) (*model.ChatMessage, error) {
	history, err := s.ChatRepo.HistoryByUser(userID)
	if err != nil {
		return nil, err
	}
	// 只带最近的上下文
	if len(history) > 20 {
		history = history[len(history)-20:]
	}

	reply := ""
	if s.Primary != nil {
		reply, err = s.Primary.Reply(ctx, message, history)
		if err != nil {
			logger.Log.Warn("AI回复失败，使用FAQ兜底", zap.Uint("userId", userID), zap.Error(err))
			reply = ""
		}
	}
	if reply == "" && s.Fallback != nil {
		reply, err = s.Fallback.Reply(ctx, message, history)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	userMsg := model.ChatMessage{UserID: userID, Message: message, IsFromUser: true, Timestamp: now}
	botMsg := model.ChatMessage{UserID: userID, Message: reply, IsFromUser: false, Timestamp: now.Add(time.Millisecond)}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&userMsg).Error; err != nil {
			return err
		}
		return tx.Create(&botMsg).Error
	})
	if err != nil {
		return nil, err
	}
	return &botMsg, nil
}

func (s *ChatbotService) History(userID uint) ([]model.ChatMessage, error) {
	return s.ChatRepo.HistoryByUser(userID)
}

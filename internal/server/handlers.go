package server

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/walletwise/walletwise/internal/advisor"
	"github.com/walletwise/walletwise/internal/intent"
)

// Responder handles one conversation turn. Satisfied by *advisor.Pipeline.
type Responder interface {
	Respond(ctx context.Context, req advisor.Request) (*advisor.Result, error)
}

// Classifier maps user text to a category of a closed set. Satisfied by
// *intent.Classifier.
type Classifier interface {
	Classify(ctx context.Context, userText string, set intent.Set) intent.Category
}

type transcribeRequest struct {
	Audio string `json:"audio"`
}

func (s *Server) handleHealth(c *gin.Context) {
	now := time.Now().UTC().Format(time.RFC3339)

	if err := s.store.Ping(c.Request.Context()); err != nil {
		s.log.ErrorContext(c.Request.Context(), "Database health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "degraded",
			"database": "error",
			"time":     now,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": "ok",
		"time":     now,
	})
}

func (s *Server) handleAdvisorChat(c *gin.Context) {
	var req advisor.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.pipelines.Advisor.Respond(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, advisorChatBody(result))
}

func advisorChatBody(result *advisor.Result) gin.H {
	resp := gin.H{
		"response":       result.Reply,
		"tipo_intencion": nil,
		"task":           nil,
	}
	if result.Category != "" {
		resp["tipo_intencion"] = string(result.Category)
	}
	if result.Payload != nil {
		resp["task"] = result.Payload
	}
	return resp
}

func (s *Server) handleTransactionChat(c *gin.Context) {
	var req advisor.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.pipelines.Transaction.Respond(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactionChatBody(result))
}

func transactionChatBody(result *advisor.Result) gin.H {
	resp := gin.H{
		"response":  result.Reply,
		"intencion": nil,
		"action":    nil,
	}
	if result.Category != "" {
		resp["intencion"] = string(result.Category)
	}
	if result.Payload != nil {
		resp["action"] = result.Payload
	}
	return resp
}

func educationChatBody(result *advisor.Result) gin.H {
	resp := gin.H{
		"response":  result.Reply,
		"intencion": nil,
	}
	if result.Category != "" {
		resp["intencion"] = string(result.Category)
	}
	return resp
}

func (s *Server) handleEducationChat(c *gin.Context) {
	var req advisor.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.pipelines.Education.Respond(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, educationChatBody(result))
}

const homeGreeting = "¡Hola! Soy Bloky, tu asistente financiero inteligente. Puedo ayudarte con:\n\n" +
	"💼 Análisis de inversiones y portafolio\n" +
	"💸 Transacciones y pagos\n" +
	"📚 Educación financiera\n\n" +
	"¿En qué puedo ayudarte hoy?"

// handleHomeChat classifies the request into one of the three assistants
// and delegates the turn to it. The delegated response body is returned
// with botType and delegatedTo fields added.
func (s *Server) handleHomeChat(c *gin.Context) {
	var req advisor.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.IsFirstMessage || len(req.Messages) == 0 {
		c.JSON(http.StatusOK, gin.H{"response": homeGreeting, "botType": "home"})
		return
	}

	userText, ok := advisor.LastUserMessage(req.Messages)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no user message in conversation"})
		return
	}

	category := s.classifier.Classify(c.Request.Context(), userText, intent.HomeSet)

	var (
		pipeline  Responder
		delegated string
		bodyFn    func(*advisor.Result) gin.H
	)
	switch category {
	case intent.CategoryInvestments:
		pipeline, delegated, bodyFn = s.pipelines.Advisor, "chat", advisorChatBody
	case intent.CategoryTransactions:
		pipeline, delegated, bodyFn = s.pipelines.Transaction, "transaction-chat", transactionChatBody
	default:
		pipeline, delegated, bodyFn = s.pipelines.Education, "education-chat", educationChatBody
	}

	result, err := pipeline.Respond(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}

	resp := bodyFn(result)
	resp["botType"] = strings.ToLower(string(category))
	resp["delegatedTo"] = delegated
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleTranscribe(c *gin.Context) {
	var req transcribeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Audio == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no audio provided"})
		return
	}

	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		s.log.WarnContext(c.Request.Context(), "Failed to decode audio payload", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid audio encoding"})
		return
	}

	text, err := s.transcriber.Transcribe(c.Request.Context(), audio)
	if err != nil {
		s.log.ErrorContext(c.Request.Context(), "Transcription failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transcription failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

// handleConvert converts an amount between two quotable assets or currencies
// using current market prices.
func (s *Server) handleConvert(c *gin.Context) {
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil || amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required"})
		return
	}

	result, ok := s.gateway.Convert(c.Request.Context(), amount, from, to)
	if !ok {
		c.JSON(http.StatusBadGateway, gin.H{"error": "conversion unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"amount": amount,
		"from":   from,
		"to":     to,
		"result": result,
	})
}

func (s *Server) respondError(c *gin.Context, err error) {
	if errors.Is(err, advisor.ErrNoUserMessage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no user message in conversation"})
		return
	}
	s.log.ErrorContext(c.Request.Context(), "Request failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

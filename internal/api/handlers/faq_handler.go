package handlers

import (
	"mueen-assist/internal/dto"
	"mueen-assist/internal/models"
	"mueen-assist/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type FAQHandler struct {
	faqService *service.FAQService
	logger     *zap.Logger
}

func NewFAQHandler(faqService *service.FAQService, logger *zap.Logger) *FAQHandler {
	return &FAQHandler{
		faqService: faqService,
		logger:     logger,
	}
}

// GetCorpus godoc
// @Summary Download the current FAQ corpus
// @Tags faq
// @Produce json
// @Success 200 {array} dto.FAQTopic
// @Security BearerAuth
// @Router /upload_faq [get]
func (h *FAQHandler) GetCorpus(c *fiber.Ctx) error {
	topics, err := h.faqService.Topics()
	if err != nil {
		h.logger.Error("Failed to load corpus", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load corpus",
		})
	}

	resp := make([]dto.FAQTopic, 0, len(topics))
	for _, t := range topics {
		topic := dto.FAQTopic{Topic: t.Topic}
		for _, q := range t.Questions {
			topic.Questions = append(topic.Questions, dto.FAQQuestion{
				Question: q.Question,
				Answers:  q.Answers,
			})
		}
		resp = append(resp, topic)
	}
	return c.JSON(resp)
}

// UploadCorpus godoc
// @Summary Replace the FAQ corpus wholesale
// @Description Overwrites the corpus document and rebuilds the similarity index
// @Tags faq
// @Accept json
// @Produce json
// @Param request body []dto.FAQTopic true "Full corpus"
// @Success 200 {object} dto.UploadFAQResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /upload_faq [post]
func (h *FAQHandler) UploadCorpus(c *fiber.Ctx) error {
	var payload []dto.FAQTopic
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if len(payload) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "corpus must not be empty",
		})
	}

	topics := make([]models.Topic, 0, len(payload))
	questions := 0
	for _, t := range payload {
		topic := models.Topic{Topic: t.Topic}
		for _, q := range t.Questions {
			if q.Question == "" || len(q.Answers) == 0 {
				continue
			}
			topic.Questions = append(topic.Questions, models.KnownQuestion{
				Question: q.Question,
				Answers:  q.Answers,
			})
			questions++
		}
		topics = append(topics, topic)
	}

	if err := h.faqService.ReplaceCorpus(c.Context(), topics); err != nil {
		h.logger.Error("Failed to replace corpus", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to replace corpus",
		})
	}
	return c.JSON(dto.UploadFAQResponse{Topics: len(topics), Questions: questions})
}

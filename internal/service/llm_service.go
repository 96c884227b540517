package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"mueen-assist/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

// TextService is the external generative text collaborator: greeting and
// language detection, translation to and from Arabic, and content-safety
// screening. Every call degrades gracefully; a failing upstream never blocks
// the turn.
type TextService interface {
	DetectGreeting(ctx context.Context, text string) (reply string, isGreeting bool, language string)
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
	IsSafe(ctx context.Context, text string) bool
}

type LLMService struct {
	client *gigago.Client
	model  *gigago.GenerativeModel
	logger *zap.Logger
}

// translationNoise strips the conversational boilerplate generative models
// prepend to translations.
var translationNoise = regexp.MustCompile(`(?i)(here is the translation|of course|translation|sure|the answer is|:)`)

// greetingMarkers indicate the model answered with its own greeting instead
// of a language name.
var greetingMarkers = []string{"help", "مساعدتك", "aider", "ayudar", "aiutare"}

func NewLLMService(cfg *config.GigaChatConfig, logger *zap.Logger) (*LLMService, error) {
	ctx := context.Background()

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel("GigaChat")
	model.Temperature = 0.3

	return &LLMService{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (s *LLMService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}

// DetectGreeting asks the model to detect the input language and, when the
// text is a standalone greeting, to produce the greeting reply itself. On any
// failure the turn continues as Arabic non-greeting input.
func (s *LLMService) DetectGreeting(ctx context.Context, text string) (string, bool, string) {
	prompt := fmt.Sprintf(`If the sender asks you for help, reply that you are here to help him.
You are a multilingual assistant.
Step 1: Detect the language of this text.
Step 2: If the text is only a greeting (like hello, hi, مرحبا, hola, bonjour, etc.),
then reply in the same detected language with a warm greeting message followed by "How can I help you today?" in that language.
Step 3: Otherwise, just reply with the language name only (Arabic, English, French, etc.).

User text:
%s`, text)

	content, err := s.generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("Greeting/language detection failed", zap.Error(err))
		return "", false, "Arabic"
	}

	lowered := strings.ToLower(content)
	for _, marker := range greetingMarkers {
		if strings.Contains(lowered, marker) {
			return content, true, ""
		}
	}

	fields := strings.Fields(content)
	language := "Arabic"
	if len(fields) > 0 {
		runes := []rune(strings.ToLower(fields[0]))
		runes[0] = unicode.ToUpper(runes[0])
		language = string(runes)
	}
	return "", false, language
}

// Translate renders the text in the target language, returning only the
// translated text.
func (s *LLMService) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	prompt := fmt.Sprintf("Translate the following text to %s. "+
		"Reply ONLY with the translated text, no explanations, no notes, no markdown:\n\n%s",
		targetLanguage, text)

	content, err := s.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("translation to %s failed: %w", targetLanguage, err)
	}
	return strings.TrimSpace(translationNoise.ReplaceAllString(content, "")), nil
}

// IsSafe screens the text for offensive content. Errors default to safe so a
// flaky upstream never blocks normal replies.
func (s *LLMService) IsSafe(ctx context.Context, text string) bool {
	prompt := fmt.Sprintf(`Analyze if this text contains any offensive content like:
- Insults
- Hate speech
- Profanity
- Threats
- Inappropriate language

Reply ONLY with "SAFE" or "UNSAFE". Nothing else.

Text to analyze:
%s`, text)

	content, err := s.generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("Safety screening failed", zap.Error(err))
		return true
	}
	return strings.ToUpper(strings.TrimSpace(content)) == "SAFE"
}

func (s *LLMService) generate(ctx context.Context, prompt string) (string, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

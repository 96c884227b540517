package service

import (
	"context"
	"fmt"
	"strings"

	"mueen-assist/internal/index"
	"mueen-assist/internal/models"
	"mueen-assist/internal/nlp"
	"mueen-assist/internal/store"
	"mueen-assist/pkg/config"

	"go.uber.org/zap"
)

const (
	// minFilterTokenLen is the minimum token length for the literal
	// substring filter.
	minFilterTokenLen = 4
	// mergeOverlapThreshold decides update-vs-append on write-back.
	mergeOverlapThreshold = 0.6
	// maxFilterAnswers caps the literal filter result.
	maxFilterAnswers = 2
)

// TopicExtractor derives a topic label for a brand-new question. Pluggable so
// the heuristic can change without touching the store.
type TopicExtractor func(question string) string

// DefaultTopicExtractor strips the interrogative particles and keeps the
// first three remaining words.
func DefaultTopicExtractor(question string) string {
	topic := strings.ReplaceAll(question, "ما هي", "")
	topic = strings.ReplaceAll(topic, "ما هو", "")
	topic = strings.ReplaceAll(topic, "؟", "")
	words := strings.Fields(topic)
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ")
}

// FAQService fuses embedding similarity, token overlap and literal keyword
// containment into one accept/reject retrieval decision, and owns the
// update-or-append write-back into the corpus document.
type FAQService struct {
	faqStore *store.FAQStore
	idx      *index.Index
	cfg      *config.RetrievalConfig
	topicFn  TopicExtractor
	logger   *zap.Logger
}

func NewFAQService(faqStore *store.FAQStore, idx *index.Index, cfg *config.RetrievalConfig, logger *zap.Logger) *FAQService {
	return &FAQService{
		faqStore: faqStore,
		idx:      idx,
		cfg:      cfg,
		topicFn:  DefaultTopicExtractor,
		logger:   logger,
	}
}

// SetTopicExtractor replaces the topic labeling heuristic.
func (s *FAQService) SetTopicExtractor(fn TopicExtractor) {
	if fn != nil {
		s.topicFn = fn
	}
}

// Reinitialize reloads the corpus document and rebuilds the similarity index
// from scratch.
func (s *FAQService) Reinitialize(ctx context.Context) error {
	topics, err := s.faqStore.Load()
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	var entries []index.Entry
	for _, topic := range topics {
		for _, qa := range topic.Questions {
			if qa.Question == "" || len(qa.Answers) == 0 {
				continue
			}
			entries = append(entries, index.Entry{
				Question: qa.Question,
				Answer:   strings.Join(qa.Answers, "\n"),
				Tokens:   nlp.Tokens(qa.Question),
			})
		}
	}

	if err := s.idx.Rebuild(ctx, entries); err != nil {
		return err
	}
	s.logger.Info("FAQ index rebuilt", zap.Int("questions", len(entries)))
	return nil
}

// Answer resolves a query against the corpus. The literal substring filter
// runs first and wins when it yields anything; the district lookup handles
// neighborhood questions; otherwise the configured fusion strategy decides.
// Returns the answer and whether any policy accepted.
func (s *FAQService) Answer(ctx context.Context, query string) (string, bool) {
	topics, err := s.faqStore.Load()
	if err != nil {
		s.logger.Warn("Failed to load corpus for literal filter", zap.Error(err))
		topics = nil
	}

	if answer, ok := s.literalFilter(query, topics); ok {
		return answer, true
	}

	if answer, ok := s.lookupDistrict(query, topics); ok {
		return answer, true
	}

	switch s.cfg.Strategy {
	case "weighted":
		return s.weightedMatch(ctx, query)
	default:
		return s.keywordGatedMatch(ctx, query)
	}
}

// literalFilter scans every stored answer and question for literal
// containment of any query token of length >= 4, deduplicates matches in
// first-seen order and caps the result at two answers.
func (s *FAQService) literalFilter(query string, topics []models.Topic) (string, bool) {
	var tokens []string
	for _, t := range nlp.Tokens(query) {
		if len([]rune(t)) >= minFilterTokenLen {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == 0 {
		return "", false
	}

	var matches []string
	for _, topic := range topics {
		for _, qa := range topic.Questions {
			matched := false
			for _, ans := range qa.Answers {
				normAns := nlp.Normalize(ans)
				for _, tok := range tokens {
					if strings.Contains(normAns, tok) {
						matches = append(matches, ans)
						matched = true
						break
					}
				}
			}
			if matched {
				continue
			}
			normQ := nlp.Normalize(qa.Question)
			for _, tok := range tokens {
				if strings.Contains(normQ, tok) {
					matches = append(matches, qa.Answers...)
					break
				}
			}
		}
	}
	if len(matches) == 0 {
		return "", false
	}

	seen := make(map[string]struct{}, len(matches))
	var unique []string
	for _, m := range matches {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		unique = append(unique, m)
		if len(unique) == maxFilterAnswers {
			break
		}
	}
	return strings.Join(unique, "\n"), true
}

// keywordGatedMatch walks the nearest neighbors in rank order and accepts the
// first candidate that clears the similarity threshold AND literally contains
// one of the query keywords in its stored question or answer text. The first
// sufficiently similar match with keyword support wins, not the most similar.
func (s *FAQService) keywordGatedMatch(ctx context.Context, query string) (string, bool) {
	keywords := nlp.Keywords(query)

	hits, err := s.idx.Query(ctx, query)
	if err != nil {
		s.logger.Warn("Similarity query failed", zap.Error(err))
		return "", false
	}

	for _, hit := range hits {
		entry := s.idx.Entry(hit.Index)
		similarity := 1 - hit.Distance
		if similarity < s.cfg.CombinedThreshold {
			continue
		}
		question := strings.ToLower(entry.Question)
		answer := strings.ToLower(entry.Answer)
		for _, kw := range keywords {
			kw = strings.ToLower(kw)
			if strings.Contains(question, kw) || strings.Contains(answer, kw) {
				return entry.Answer, true
			}
		}
	}
	return "", false
}

// weightedMatch is the legacy fusion policy: a weighted sum of embedding
// similarity and token overlap against a single threshold, best score wins.
func (s *FAQService) weightedMatch(ctx context.Context, query string) (string, bool) {
	queryTokens := nlp.Tokens(query)

	hits, err := s.idx.Query(ctx, query)
	if err != nil {
		s.logger.Warn("Similarity query failed", zap.Error(err))
		return "", false
	}

	bestScore := -1.0
	bestAnswer := ""
	for _, hit := range hits {
		entry := s.idx.Entry(hit.Index)
		similarity := 1 - hit.Distance
		overlap := index.TokenOverlap(queryTokens, entry.Tokens)
		score := s.cfg.EmbeddingWeight*similarity + s.cfg.TokenWeight*overlap
		if score >= s.cfg.CombinedThreshold && score > bestScore {
			bestScore = score
			bestAnswer = entry.Answer
		}
	}
	if bestAnswer == "" {
		return "", false
	}
	return bestAnswer, true
}

// lookupDistrict answers "is neighborhood X covered" questions from the
// address topics of the corpus.
func (s *FAQService) lookupDistrict(query string, topics []models.Topic) (string, bool) {
	normalized := nlp.Normalize(query)
	if !strings.Contains(normalized, "حي") &&
		!strings.Contains(normalized, "احياء") &&
		!strings.Contains(normalized, "العناوين") {
		return "", false
	}

	var root *models.Topic
	for i := range topics {
		if nlp.Normalize(topics[i].Topic) == "العناوين" {
			root = &topics[i]
			break
		}
	}
	if root == nil || len(root.Questions) == 0 {
		return "", false
	}

	cities := addressCities(root)
	for _, city := range cities {
		if !strings.Contains(normalized, nlp.Normalize(city)) {
			continue
		}
		areas := cityAreas(topics, city)
		for _, area := range areas {
			if strings.Contains(normalized, nlp.Normalize(area)) {
				return fmt.Sprintf("نعم، حي %s موجود ✅", area), true
			}
		}
		return fmt.Sprintf("الحي المطلوب غير موجود في %s ❌\nهل ترغب أن أظهر لك الأحياء المتوفرة في %s؟\n\nاكتب اسم المدينة الآن وسأعرضها لك 👇", city, city), true
	}

	for _, area := range allAreas(topics) {
		if strings.Contains(normalized, nlp.Normalize(area)) {
			return fmt.Sprintf("نعم، حي %s موجود ✅", area), true
		}
	}
	return fmt.Sprintf("الحي المطلوب غير موجود ❌\nمن فضلك اختر المدينة لمعرفة الأحياء المتوفرة فيها 👇\n\nالمدن المتاحة: %s", strings.Join(cities, "، ")), true
}

func addressCities(root *models.Topic) []string {
	cityText := strings.Join(root.Questions[0].Answers, " ")
	var cities []string
	for _, c := range strings.Fields(cityText) {
		c = strings.ReplaceAll(c, "،", "")
		c = strings.ReplaceAll(c, ".", "")
		c = strings.TrimSpace(c)
		if len([]rune(c)) > 1 {
			cities = append(cities, c)
		}
	}
	return cities
}

func cityAreas(topics []models.Topic, city string) []string {
	label := "العناوين " + nlp.Normalize(city)
	for _, topic := range topics {
		if nlp.Normalize(topic.Topic) != label {
			continue
		}
		var areas []string
		for _, qa := range topic.Questions {
			for _, ans := range qa.Answers {
				areas = append(areas, splitAreas(ans)...)
			}
		}
		return areas
	}
	return nil
}

func allAreas(topics []models.Topic) []string {
	var areas []string
	for _, topic := range topics {
		if !strings.HasPrefix(nlp.Normalize(topic.Topic), "العناوين") {
			continue
		}
		for _, qa := range topic.Questions {
			for _, ans := range qa.Answers {
				areas = append(areas, splitAreas(ans)...)
			}
		}
	}
	return areas
}

func splitAreas(answer string) []string {
	var areas []string
	for _, a := range strings.Split(strings.ReplaceAll(answer, "،", ","), ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			areas = append(areas, a)
		}
	}
	return areas
}

// Topics returns the current corpus document.
func (s *FAQService) Topics() ([]models.Topic, error) {
	return s.faqStore.Load()
}

// ReplaceCorpus overwrites the corpus document wholesale and rebuilds the
// index.
func (s *FAQService) ReplaceCorpus(ctx context.Context, topics []models.Topic) error {
	if err := s.faqStore.Save(topics); err != nil {
		return fmt.Errorf("failed to save corpus: %w", err)
	}
	return s.Reinitialize(ctx)
}

// SaveOrUpdate persists a question/answer pair: when an existing question
// overlaps the new one at >= 0.6 its answers are replaced (multi-line answers
// split on newline), otherwise a new topic is appended. Either way the index
// is rebuilt synchronously so the corpus never grows a near-duplicate.
func (s *FAQService) SaveOrUpdate(ctx context.Context, question, answer string) error {
	topics, err := s.faqStore.Load()
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	qTokens := nlp.Tokens(question)
	answerLines := strings.Split(answer, "\n")

	updated := false
	for ti := range topics {
		for qi := range topics[ti].Questions {
			existing := nlp.Tokens(topics[ti].Questions[qi].Question)
			if index.TokenOverlap(qTokens, existing) >= mergeOverlapThreshold {
				topics[ti].Questions[qi].Answers = answerLines
				updated = true
				break
			}
		}
		if updated {
			break
		}
	}

	if !updated {
		topics = append(topics, models.Topic{
			Topic: s.topicFn(question),
			Questions: []models.KnownQuestion{{
				Question: question,
				Answers:  answerLines,
			}},
		})
	}

	if err := s.faqStore.Save(topics); err != nil {
		return fmt.Errorf("failed to save corpus: %w", err)
	}
	return s.Reinitialize(ctx)
}

package service

import (
	"context"
	"testing"

	"mueen-assist/internal/index"
	"mueen-assist/internal/models"
	"mueen-assist/internal/store"
	"mueen-assist/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testRetrievalConfig() *config.RetrievalConfig {
	return &config.RetrievalConfig{
		Strategy:          "keyword",
		TopK:              5,
		CombinedThreshold: 0.60,
		EmbeddingWeight:   0.7,
		TokenWeight:       0.3,
	}
}

func newTestFAQService(t *testing.T, vectors map[string][]float32, topics []models.Topic) *FAQService {
	t.Helper()

	faqStore := store.NewFAQStore(t.TempDir())
	require.NoError(t, faqStore.Save(topics))

	idx := index.New(&stubEmbedder{vectors: vectors}, 0)
	svc := NewFAQService(faqStore, idx, testRetrievalConfig(), zap.NewNop())
	require.NoError(t, svc.Reinitialize(context.Background()))
	return svc
}

func hoursCorpus() []models.Topic {
	return []models.Topic{{
		Topic: "ساعات العمل",
		Questions: []models.KnownQuestion{{
			Question: "ما هي ساعات العمل؟",
			Answers:  []string{"نعمل يومياً من 8 صباحاً حتى 10 مساءً"},
		}},
	}}
}

func TestAnswerLiteralFilter(t *testing.T) {
	svc := newTestFAQService(t, nil, hoursCorpus())

	answer, found := svc.Answer(context.Background(), "ما هي ساعات العمل؟")
	require.True(t, found)
	assert.Equal(t, "نعمل يومياً من 8 صباحاً حتى 10 مساءً", answer)
}

func TestAnswerNoMatch(t *testing.T) {
	svc := newTestFAQService(t, nil, hoursCorpus())

	_, found := svc.Answer(context.Background(), "وش رايك بالطقس")
	assert.False(t, found)
}

func TestKeywordGatedMatch(t *testing.T) {
	question := "كم سعر الباقة الشهرية؟"
	vectors := map[string][]float32{
		question:                 {1, 0, 0},
		"وش تكلفة الباقة عندكم":  {1, 0, 0},
		"وش تكلفة التوصيل عندكم": {1, 0, 0},
	}
	svc := newTestFAQService(t, vectors, []models.Topic{{
		Topic: "الأسعار",
		Questions: []models.KnownQuestion{{
			Question: question,
			Answers:  []string{"500 ريال شهرياً"},
		}},
	}})

	// High similarity plus a literal keyword hit is accepted.
	answer, found := svc.keywordGatedMatch(context.Background(), "وش تكلفة الباقة عندكم")
	require.True(t, found)
	assert.Equal(t, "500 ريال شهرياً", answer)

	// High similarity alone is not enough without keyword support.
	_, found = svc.keywordGatedMatch(context.Background(), "وش تكلفة التوصيل عندكم")
	assert.False(t, found)
}

func TestWeightedMatch(t *testing.T) {
	question := "كم سعر الباقة الشهرية؟"
	vectors := map[string][]float32{
		question:     {1, 0, 0},
		"سؤال قريب":  {1, 0, 0},
		"سؤال بعيد":  {0, 1, 0},
	}
	svc := newTestFAQService(t, vectors, []models.Topic{{
		Topic: "الأسعار",
		Questions: []models.KnownQuestion{{
			Question: question,
			Answers:  []string{"500 ريال شهرياً"},
		}},
	}})

	// 0.7 * 1.0 embedding similarity clears the threshold on its own.
	answer, found := svc.weightedMatch(context.Background(), "سؤال قريب")
	require.True(t, found)
	assert.Equal(t, "500 ريال شهرياً", answer)

	// Orthogonal embedding and no token overlap scores zero.
	_, found = svc.weightedMatch(context.Background(), "سؤال بعيد")
	assert.False(t, found)
}

func TestSaveOrUpdateMergesOverlappingQuestion(t *testing.T) {
	svc := newTestFAQService(t, nil, hoursCorpus())

	err := svc.SaveOrUpdate(context.Background(), "ساعات العمل لديكم", "من 9 صباحاً\nحتى 11 مساءً")
	require.NoError(t, err)

	topics, err := svc.Topics()
	require.NoError(t, err)
	require.Len(t, topics, 1)
	require.Len(t, topics[0].Questions, 1)
	assert.Equal(t, []string{"من 9 صباحاً", "حتى 11 مساءً"}, topics[0].Questions[0].Answers)
	// The original question text survives the merge.
	assert.Equal(t, "ما هي ساعات العمل؟", topics[0].Questions[0].Question)
}

func TestSaveOrUpdateAppendsNewTopic(t *testing.T) {
	svc := newTestFAQService(t, nil, hoursCorpus())

	err := svc.SaveOrUpdate(context.Background(), "ما هي سياسة الاسترجاع للمبالغ؟", "يتم الاسترجاع خلال 3 أيام")
	require.NoError(t, err)

	topics, err := svc.Topics()
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "سياسة الاسترجاع للمبالغ", topics[1].Topic)
	assert.Equal(t, 2, svc.idx.Size())
}

func addressCorpus() []models.Topic {
	return []models.Topic{
		{
			Topic: "العناوين",
			Questions: []models.KnownQuestion{{
				Question: "ما هي المدن المتاحة؟",
				Answers:  []string{"الرياض، جدة"},
			}},
		},
		{
			Topic: "العناوين الرياض",
			Questions: []models.KnownQuestion{{
				Question: "ما هي الأحياء المتاحة في الرياض؟",
				Answers:  []string{"العليا، الملقا، النرجس"},
			}},
		},
	}
}

func TestLookupDistrictFound(t *testing.T) {
	svc := newTestFAQService(t, nil, addressCorpus())

	answer, found := svc.lookupDistrict("هل حي الملقا موجود في الرياض", addressCorpus())
	require.True(t, found)
	assert.Contains(t, answer, "الملقا")
	assert.Contains(t, answer, "موجود ✅")
}

func TestLookupDistrictMissingInCity(t *testing.T) {
	svc := newTestFAQService(t, nil, addressCorpus())

	answer, found := svc.lookupDistrict("هل حي الغروب موجود في الرياض", addressCorpus())
	require.True(t, found)
	assert.Contains(t, answer, "غير موجود في الرياض")
}

func TestLookupDistrictIgnoresUnrelatedQueries(t *testing.T) {
	svc := newTestFAQService(t, nil, addressCorpus())

	_, found := svc.lookupDistrict("كم سعر الباقة", addressCorpus())
	assert.False(t, found)
}

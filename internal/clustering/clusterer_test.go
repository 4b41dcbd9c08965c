package clustering

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"eldertech/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeSource struct {
	faqs []*models.FAQ
	err  error
}

func (f *fakeSource) ListAll(ctx context.Context) ([]*models.FAQ, error) {
	return f.faqs, f.err
}

// fakeAnalyzer fails both analysis calls for any FAQ text containing one of
// the failOn substrings.
type fakeAnalyzer struct {
	failOn map[string]bool
}

func (f *fakeAnalyzer) ExtractEntities(ctx context.Context, text string) ([]models.Entity, error) {
	if f.shouldFail(text) {
		return nil, errors.New("entity extraction unavailable")
	}
	return []models.Entity{{Entity: "Dr. Smith", Type: "person", Confidence: 0.9}}, nil
}

func (f *fakeAnalyzer) AnalyzeSentiment(ctx context.Context, text string) (models.Sentiment, error) {
	if f.shouldFail(text) {
		return models.Sentiment{}, errors.New("sentiment analysis unavailable")
	}
	return models.Sentiment{Sentiment: "neutral", Confidence: 0.8}, nil
}

func (f *fakeAnalyzer) shouldFail(text string) bool {
	for marker := range f.failOn {
		if marker != "" && strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func newFAQ(category string, priority int) *models.FAQ {
	return &models.FAQ{
		ID:       uuid.New(),
		Question: "How do I do this?",
		Answer:   "Like so.",
		Category: category,
		Priority: priority,
	}
}

func analyzedFAQ(category string, priority int) AnalyzedFAQ {
	return AnalyzedFAQ{
		ID:       uuid.New(),
		Category: category,
		Priority: priority,
	}
}

func TestBuildClusters(t *testing.T) {
	faqs := []AnalyzedFAQ{
		analyzedFAQ("A", 1),
		analyzedFAQ("A", 1),
		analyzedFAQ("B", 5),
	}

	clusters := BuildClusters(faqs)
	require.Len(t, clusters, 2)

	assert.Equal(t, "A", clusters[0].Name)
	assert.Equal(t, 2, clusters[0].Count)
	assert.Equal(t, 1.0, clusters[0].AvgPriority)

	assert.Equal(t, "B", clusters[1].Name)
	assert.Equal(t, 1, clusters[1].Count)
	assert.Equal(t, 5.0, clusters[1].AvgPriority)
}

func TestBuildClustersInsertionOrder(t *testing.T) {
	faqs := []AnalyzedFAQ{
		analyzedFAQ("zebra", 1),
		analyzedFAQ("apple", 1),
		analyzedFAQ("zebra", 1),
		analyzedFAQ("mango", 1),
	}

	clusters := BuildClusters(faqs)
	require.Len(t, clusters, 3)
	assert.Equal(t, "zebra", clusters[0].Name)
	assert.Equal(t, "apple", clusters[1].Name)
	assert.Equal(t, "mango", clusters[2].Name)
}

func TestBuildClustersCaseSensitiveCategories(t *testing.T) {
	faqs := []AnalyzedFAQ{
		analyzedFAQ("Health", 1),
		analyzedFAQ("health", 1),
	}

	clusters := BuildClusters(faqs)
	assert.Len(t, clusters, 2)
}

func TestDetectGapsLowCoverageOnly(t *testing.T) {
	clusters := BuildClusters([]AnalyzedFAQ{
		analyzedFAQ("A", 1),
		analyzedFAQ("A", 1),
		analyzedFAQ("B", 5),
	})

	gaps := DetectGaps(clusters)
	require.Len(t, gaps, 2)
	for _, gap := range gaps {
		assert.Equal(t, GapLowCoverage, gap.Type)
	}
	assert.Equal(t, "A", gaps[0].Category)
	assert.Equal(t, 2, gaps[0].CurrentCount)
	assert.Equal(t, 5, gaps[0].RecommendedMin)
	assert.Equal(t, "Category 'A' has only 2 FAQs", gaps[0].Description)
	assert.Equal(t, "B", gaps[1].Category)
	assert.Equal(t, "Category 'B' has only 1 FAQs", gaps[1].Description)
}

func TestDetectGapsLowPriorityOnly(t *testing.T) {
	// count 6, avg 1.5: populated enough to dodge low_coverage, low enough
	// on average to trip low_priority.
	faqs := make([]AnalyzedFAQ, 0, 6)
	for _, p := range []int{1, 1, 1, 2, 2, 2} {
		faqs = append(faqs, analyzedFAQ("C", p))
	}

	gaps := DetectGaps(BuildClusters(faqs))
	require.Len(t, gaps, 1)
	assert.Equal(t, GapLowPriority, gaps[0].Type)
	assert.Equal(t, "C", gaps[0].Category)
	assert.Equal(t, 1.5, gaps[0].AvgPriority)
	assert.Equal(t, "Category 'C' has low priority FAQs", gaps[0].Description)
}

func TestDetectGapsSmallLowPriorityClusterNotFlagged(t *testing.T) {
	// count 2, avg 1.0: low_coverage fires, low_priority does not because
	// the count > 5 requirement fails.
	gaps := DetectGaps(BuildClusters([]AnalyzedFAQ{
		analyzedFAQ("D", 1),
		analyzedFAQ("D", 1),
	}))

	require.Len(t, gaps, 1)
	assert.Equal(t, GapLowCoverage, gaps[0].Type)
}

func TestDetectGapsBothRulesIndependent(t *testing.T) {
	// A cluster cannot trigger both here (low_priority needs count > 5,
	// low_coverage needs count < 3), but two clusters may each trigger one
	// and the low_coverage gaps come first.
	faqs := []AnalyzedFAQ{analyzedFAQ("tiny", 5)}
	for i := 0; i < 6; i++ {
		faqs = append(faqs, analyzedFAQ("flat", 1))
	}

	gaps := DetectGaps(BuildClusters(faqs))
	require.Len(t, gaps, 2)
	assert.Equal(t, GapLowCoverage, gaps[0].Type)
	assert.Equal(t, "tiny", gaps[0].Category)
	assert.Equal(t, GapLowPriority, gaps[1].Type)
	assert.Equal(t, "flat", gaps[1].Category)
}

func TestRecommendations(t *testing.T) {
	gaps := []Gap{
		{Type: GapLowCoverage, Category: "health", CurrentCount: 2, RecommendedMin: 5},
		{Type: GapLowPriority, Category: "technology", AvgPriority: 1.5},
	}

	recs := Recommendations(gaps)
	require.Len(t, recs, 2)
	assert.Equal(t, "Add more FAQs to category 'health' (currently 2, recommend 5)", recs[0])
	assert.Equal(t, "Review and prioritize FAQs in category 'technology' (average priority: 1.5)", recs[1])
}

func TestRunDropsFAQOnAnalysisFailure(t *testing.T) {
	poisoned := newFAQ("A", 1)
	poisoned.Question = "POISON question"

	source := &fakeSource{faqs: []*models.FAQ{
		newFAQ("A", 1),
		poisoned,
		newFAQ("B", 5),
	}}
	analyzer := &fakeAnalyzer{failOn: map[string]bool{"POISON": true}}

	clusterer := New(source, analyzer, zaptest.NewLogger(t))
	report, err := clusterer.Run(context.Background())
	require.NoError(t, err)

	// The poisoned FAQ is absent from every cluster and the summary.
	assert.Equal(t, 2, report.Summary.TotalFAQs)
	for _, cluster := range report.Clusters {
		for _, faq := range cluster.FAQs {
			assert.NotEqual(t, poisoned.ID, faq.ID)
		}
	}

	sum := 0
	for _, cluster := range report.Clusters {
		sum += cluster.Count
	}
	assert.Equal(t, report.Summary.TotalFAQs, sum)
}

func TestRunAbortsOnLoadFailure(t *testing.T) {
	source := &fakeSource{err: errors.New("database unreachable")}
	clusterer := New(source, &fakeAnalyzer{}, zaptest.NewLogger(t))

	report, err := clusterer.Run(context.Background())
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestRunSummaryConsistency(t *testing.T) {
	source := &fakeSource{faqs: []*models.FAQ{
		newFAQ("A", 1),
		newFAQ("A", 3),
		newFAQ("B", 2),
		newFAQ("C", 4),
	}}

	clusterer := New(source, &fakeAnalyzer{}, zaptest.NewLogger(t))
	report, err := clusterer.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.Summary.TotalFAQs)
	assert.Equal(t, 3, report.Summary.TotalClusters)
	assert.Equal(t, len(report.Gaps), report.Summary.TotalGaps)

	sum := 0
	for _, cluster := range report.Clusters {
		sum += cluster.Count
	}
	assert.Equal(t, report.Summary.TotalFAQs, sum)
}

func TestReportSave(t *testing.T) {
	source := &fakeSource{faqs: []*models.FAQ{newFAQ("A", 1)}}
	clusterer := New(source, &fakeAnalyzer{}, zaptest.NewLogger(t))
	runTime := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	clusterer.now = func() time.Time { return runTime }

	report, err := clusterer.Run(context.Background())
	require.NoError(t, err)

	dir := t.TempDir()
	path, err := report.Save(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "clustering_results_20250314_150926.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"timestamp", "clusters", "gaps", "recommendations", "summary"} {
		assert.Contains(t, decoded, key, fmt.Sprintf("report missing %q", key))
	}
}

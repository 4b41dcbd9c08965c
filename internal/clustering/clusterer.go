// Package clustering implements the nightly FAQ organization job: it loads
// the FAQ corpus, annotates each entry through the AI gateway, groups entries
// by category, flags under-populated or low-priority categories and writes a
// timestamped report.
package clustering

import (
	"context"
	"fmt"
	"time"

	"eldertech/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	GapLowCoverage = "low_coverage"
	GapLowPriority = "low_priority"

	// A category with fewer FAQs than this is flagged; the recommendation
	// asks for recommendedMinFAQs.
	minClusterSize     = 3
	recommendedMinFAQs = 5

	// A well-populated category whose mean priority sits below this is
	// flagged for review.
	lowPriorityThreshold = 2.0
	lowPriorityMinCount  = 5
)

// Analyzer is the slice of the AI gateway the job needs.
type Analyzer interface {
	ExtractEntities(ctx context.Context, text string) ([]models.Entity, error)
	AnalyzeSentiment(ctx context.Context, text string) (models.Sentiment, error)
}

// FAQSource loads the corpus to organize.
type FAQSource interface {
	ListAll(ctx context.Context) ([]*models.FAQ, error)
}

// AnalyzedFAQ is a FAQ annotated with entity and sentiment analysis. It lives
// only for the duration of one run and is discarded afterwards.
type AnalyzedFAQ struct {
	ID        uuid.UUID        `json:"id"`
	Question  string           `json:"question"`
	Answer    string           `json:"answer"`
	Category  string           `json:"category"`
	Entities  []models.Entity  `json:"entities"`
	Sentiment models.Sentiment `json:"sentiment"`
	Priority  int              `json:"priority"`
}

// Cluster groups the analyzed FAQs sharing one category label.
type Cluster struct {
	Name        string        `json:"name"`
	FAQs        []AnalyzedFAQ `json:"faqs"`
	Count       int           `json:"count"`
	AvgPriority float64       `json:"avg_priority"`
}

// Gap is a flagged condition on a cluster. CurrentCount and RecommendedMin
// are set for low_coverage gaps, AvgPriority for low_priority gaps.
type Gap struct {
	Type           string  `json:"type"`
	Category       string  `json:"category"`
	CurrentCount   int     `json:"current_count,omitempty"`
	RecommendedMin int     `json:"recommended_min,omitempty"`
	AvgPriority    float64 `json:"avg_priority,omitempty"`
	Description    string  `json:"description"`
}

// Clusterer runs the organization pipeline end to end.
type Clusterer struct {
	faqs     FAQSource
	analyzer Analyzer
	logger   *zap.Logger
	now      func() time.Time
}

func New(faqs FAQSource, analyzer Analyzer, logger *zap.Logger) *Clusterer {
	return &Clusterer{
		faqs:     faqs,
		analyzer: analyzer,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes Load -> Analyze -> Cluster -> GapDetection -> Recommend and
// returns the assembled report. A load failure aborts the whole run;
// per-FAQ analysis failures only drop the affected FAQ.
func (c *Clusterer) Run(ctx context.Context) (*Report, error) {
	c.logger.Info("Starting FAQ clustering")

	faqs, err := c.faqs.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load FAQs: %w", err)
	}
	c.logger.Info("Loaded FAQs", zap.Int("count", len(faqs)))

	analyzed := c.analyze(ctx, faqs)

	clusters := BuildClusters(analyzed)
	c.logger.Info("Created clusters", zap.Int("count", len(clusters)))

	gaps := DetectGaps(clusters)
	c.logger.Info("Identified gaps", zap.Int("count", len(gaps)))

	recommendations := Recommendations(gaps)

	runTime := c.now()
	return &Report{
		runTime:         runTime,
		Timestamp:       runTime.Format(time.RFC3339),
		Clusters:        clusters,
		Gaps:            gaps,
		Recommendations: recommendations,
		Summary: Summary{
			TotalFAQs:     totalFAQs(clusters),
			TotalClusters: len(clusters),
			TotalGaps:     len(gaps),
		},
	}, nil
}

// analyze annotates each FAQ sequentially. A FAQ is kept only when both
// analysis calls succeed; on any failure the whole record is logged and
// dropped from the run.
func (c *Clusterer) analyze(ctx context.Context, faqs []*models.FAQ) []AnalyzedFAQ {
	analyzed := make([]AnalyzedFAQ, 0, len(faqs))
	for _, faq := range faqs {
		text := faq.Question + " " + faq.Answer

		entities, err := c.analyzer.ExtractEntities(ctx, text)
		if err != nil {
			c.logger.Warn("Dropping FAQ: entity extraction failed",
				zap.String("faq_id", faq.ID.String()),
				zap.Error(err),
			)
			continue
		}

		sentiment, err := c.analyzer.AnalyzeSentiment(ctx, text)
		if err != nil {
			c.logger.Warn("Dropping FAQ: sentiment analysis failed",
				zap.String("faq_id", faq.ID.String()),
				zap.Error(err),
			)
			continue
		}

		analyzed = append(analyzed, AnalyzedFAQ{
			ID:        faq.ID,
			Question:  faq.Question,
			Answer:    faq.Answer,
			Category:  faq.Category,
			Entities:  entities,
			Sentiment: sentiment,
			Priority:  faq.Priority,
		})
	}
	return analyzed
}

// BuildClusters groups analyzed FAQs by exact, case-sensitive category label.
// Clusters are emitted in first-occurrence order of their category.
func BuildClusters(faqs []AnalyzedFAQ) []Cluster {
	index := make(map[string]int)
	var clusters []Cluster

	for _, faq := range faqs {
		i, ok := index[faq.Category]
		if !ok {
			i = len(clusters)
			index[faq.Category] = i
			clusters = append(clusters, Cluster{Name: faq.Category})
		}
		clusters[i].FAQs = append(clusters[i].FAQs, faq)
	}

	for i := range clusters {
		clusters[i].Count = len(clusters[i].FAQs)
		var sum int
		for _, faq := range clusters[i].FAQs {
			sum += faq.Priority
		}
		clusters[i].AvgPriority = float64(sum) / float64(clusters[i].Count)
	}

	return clusters
}

// DetectGaps evaluates both gap rules independently over every cluster; a
// cluster can trigger zero, one or both. All low_coverage gaps come before
// all low_priority gaps.
func DetectGaps(clusters []Cluster) []Gap {
	var gaps []Gap

	for _, cluster := range clusters {
		if cluster.Count < minClusterSize {
			gaps = append(gaps, Gap{
				Type:           GapLowCoverage,
				Category:       cluster.Name,
				CurrentCount:   cluster.Count,
				RecommendedMin: recommendedMinFAQs,
				Description:    fmt.Sprintf("Category '%s' has only %d FAQs", cluster.Name, cluster.Count),
			})
		}
	}

	for _, cluster := range clusters {
		if cluster.AvgPriority < lowPriorityThreshold && cluster.Count > lowPriorityMinCount {
			gaps = append(gaps, Gap{
				Type:        GapLowPriority,
				Category:    cluster.Name,
				AvgPriority: cluster.AvgPriority,
				Description: fmt.Sprintf("Category '%s' has low priority FAQs", cluster.Name),
			})
		}
	}

	return gaps
}

// Recommendations maps each gap to its human-readable action sentence.
func Recommendations(gaps []Gap) []string {
	recommendations := make([]string, 0, len(gaps))
	for _, gap := range gaps {
		switch gap.Type {
		case GapLowCoverage:
			recommendations = append(recommendations, fmt.Sprintf(
				"Add more FAQs to category '%s' (currently %d, recommend %d)",
				gap.Category, gap.CurrentCount, gap.RecommendedMin,
			))
		case GapLowPriority:
			recommendations = append(recommendations, fmt.Sprintf(
				"Review and prioritize FAQs in category '%s' (average priority: %.1f)",
				gap.Category, gap.AvgPriority,
			))
		}
	}
	return recommendations
}

func totalFAQs(clusters []Cluster) int {
	var total int
	for _, cluster := range clusters {
		total += cluster.Count
	}
	return total
}

package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/google/uuid"

	"biaslens/internal"
	"biaslens/internal/analysis"
	"biaslens/internal/errors"
	"biaslens/ports"
)

// ReportService renders analysis results to standalone HTML reports.
type ReportService struct {
	log        *internal.Logger
	history    ports.HistoryRepository
	reportsDir string
}

// NewReportService creates a report service writing into reportsDir.
func NewReportService(log *internal.Logger, history ports.HistoryRepository, reportsDir string) *ReportService {
	return &ReportService{log: log, history: history, reportsDir: reportsDir}
}

// ReportInput collects everything a report can include. Sections with nil
// inputs are skipped.
type ReportInput struct {
	DatasetName  string
	TargetColumn string
	Distribution *analysis.DistributionResult
	Correction   *CorrectionMetadata
	Skewness     []SkewDetection
	SkewFixes    map[string]ColumnCorrection
}

// Generate writes an HTML report and returns its filename relative to the
// reports directory.
func (s *ReportService) Generate(ctx context.Context, in ReportInput) (string, error) {
	if in.DatasetName == "" {
		return "", errors.ValidationError("dataset name is required for report generation")
	}
	md := s.buildMarkdown(in)

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.CompletePage, Title: "Dataset Analysis Report"})
	body := markdown.ToHTML([]byte(md), p, renderer)

	if err := os.MkdirAll(s.reportsDir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create reports directory")
	}
	name := fmt.Sprintf("report_%s.html", time.Now().Format("20060102_150405"))
	path := filepath.Join(s.reportsDir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write report %s", name)
	}
	s.log.Info("Report written: %s", path)

	s.record(ctx, ports.RunRecord{
		Kind:     ports.RunReport,
		FilePath: in.DatasetName,
		Column:   in.TargetColumn,
		Detail:   marshalDetail(map[string]string{"report": name}),
	})
	return name, nil
}

func (s *ReportService) record(ctx context.Context, rec ports.RunRecord) {
	if s.history == nil {
		return
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now()
	if err := s.history.Record(ctx, rec); err != nil {
		s.log.Warn("failed to record %s run: %v", rec.Kind, err)
	}
}

func (s *ReportService) buildMarkdown(in ReportInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Dataset Analysis Report\n\n")
	fmt.Fprintf(&b, "**Dataset:** %s\n\n", in.DatasetName)
	fmt.Fprintf(&b, "**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	if in.Distribution != nil {
		fmt.Fprintf(&b, "## Class Distribution\n\n")
		fmt.Fprintf(&b, "Target column: `%s`\n\n", in.TargetColumn)
		if in.Distribution.Note != "" {
			fmt.Fprintf(&b, "%s\n\n", in.Distribution.Note)
		} else {
			fmt.Fprintf(&b, "| Class | Proportion |\n|---|---|\n")
			for _, class := range sortedKeys(in.Distribution.Proportions) {
				fmt.Fprintf(&b, "| %s | %.6f |\n", class, in.Distribution.Proportions[class])
			}
			fmt.Fprintf(&b, "\nImbalance ratio: %.4f (%s)\n\n", in.Distribution.Ratio, in.Distribution.Severity)
		}
	}

	if in.Correction != nil {
		fmt.Fprintf(&b, "## Imbalance Correction\n\n")
		fmt.Fprintf(&b, "Method: **%s**\n\n", in.Correction.Method)
		fmt.Fprintf(&b, "Sampling strategy: %s\n\n", in.Correction.SamplingStrategy)
		if len(in.Correction.ClassWeights) > 0 {
			fmt.Fprintf(&b, "| Class | Weight |\n|---|---|\n")
			for _, class := range sortedKeys(in.Correction.ClassWeights) {
				fmt.Fprintf(&b, "| %s | %.4f |\n", class, in.Correction.ClassWeights[class])
			}
			fmt.Fprintf(&b, "\n")
		}
	}

	if len(in.Skewness) > 0 {
		fmt.Fprintf(&b, "## Skewness\n\n")
		fmt.Fprintf(&b, "| Column | Skewness | Interpretation |\n|---|---|---|\n")
		for _, d := range in.Skewness {
			if d.Skewness == nil {
				fmt.Fprintf(&b, "| %s | n/a | %s |\n", d.Column, d.Message)
				continue
			}
			fmt.Fprintf(&b, "| %s | %.4f | %s |\n", d.Column, *d.Skewness, d.Interpretation.Label)
		}
		fmt.Fprintf(&b, "\n")
	}

	if len(in.SkewFixes) > 0 {
		fmt.Fprintf(&b, "## Skewness Correction\n\n")
		fmt.Fprintf(&b, "| Column | Before | After | Method |\n|---|---|---|---|\n")
		for _, column := range sortedKeys(in.SkewFixes) {
			c := in.SkewFixes[column]
			if c.Error != "" || c.OriginalSkewness == nil || c.NewSkewness == nil {
				fmt.Fprintf(&b, "| %s | n/a | n/a | %s |\n", column, c.Error)
				continue
			}
			fmt.Fprintf(&b, "| %s | %.4f | %.4f | %s |\n", column, *c.OriginalSkewness, *c.NewSkewness, c.Method)
		}
		fmt.Fprintf(&b, "\n")
	}
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

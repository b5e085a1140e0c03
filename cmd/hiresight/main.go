package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"hiresight/internal/analysis"
	"hiresight/internal/bootstrap"
	"hiresight/internal/extract"
	"hiresight/internal/lexicon"
	"hiresight/internal/shared/config"
	"hiresight/internal/shared/telemetry"
	"hiresight/internal/shared/util"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "hiresight",
		Short:        "Analyze résumés from the command line",
		SilenceUsage: true,
	}
	root.AddCommand(newAnalyzeCmd(), newLexiconCmd())
	return root
}

type analyzeOptions struct {
	format    string
	wordcloud string
	jsonOut   bool
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Classify a résumé and report skills and content metrics",
		Long: `Reads a PDF, DOCX or plain-text résumé and runs the full analysis.
Use "-" to read plain text from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "document format: pdf, docx or text (default: from extension)")
	cmd.Flags().StringVar(&opts.wordcloud, "wordcloud", "", "write the word cloud PNG to this path")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "output the result as JSON")
	return cmd
}

func readRequest(in io.Reader, path, format string) (analysis.Request, error) {
	if path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return analysis.Request{}, fmt.Errorf("read stdin: %w", err)
		}
		return analysis.Request{Text: string(data)}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return analysis.Request{}, fmt.Errorf("read %s: %w", path, err)
	}
	f := extract.FormatFromContentType("", path)
	if strings.TrimSpace(format) != "" {
		if f, err = extract.ParseFormat(format); err != nil {
			return analysis.Request{}, err
		}
	}
	name, err := util.SanitizeFileName(filepath.Base(path))
	if err != nil {
		name = ""
	}
	return analysis.Request{
		Document: &extract.Document{Data: data, Format: f},
		Source: analysis.Source{
			FileName:  name,
			SizeBytes: int64(len(data)),
			Format:    f,
			Digest:    util.Digest(data),
		},
	}, nil
}

func runAnalyze(cmd *cobra.Command, path string, opts analyzeOptions) error {
	req, err := readRequest(cmd.InOrStdin(), path, opts.format)
	if err != nil {
		return err
	}

	// Stdout carries only the result.
	prev := telemetry.SetOutput(cmd.ErrOrStderr())
	defer telemetry.SetOutput(prev)

	ctx := context.Background()
	app, err := bootstrap.Load(ctx, config.Load())
	if err != nil {
		return fmt.Errorf("load models: %w", err)
	}

	result, err := app.AnalysisService.Analyze(ctx, req)
	if err != nil {
		if stage := analysis.FailedStage(err); stage != "" {
			return fmt.Errorf("analysis failed at %s: %w", stage, err)
		}
		return err
	}

	if opts.wordcloud != "" {
		if result.VisualizationSkipped {
			fmt.Fprintln(cmd.ErrOrStderr(), "word cloud skipped: no words left after normalization")
		} else if err := os.WriteFile(opts.wordcloud, result.Visualization, 0o644); err != nil {
			return fmt.Errorf("write word cloud: %w", err)
		}
	}

	if opts.jsonOut {
		result.Visualization = nil
		return writeJSON(cmd.OutOrStdout(), result)
	}
	printResult(cmd.OutOrStdout(), result)
	return nil
}

func printResult(w io.Writer, r analysis.Result) {
	fmt.Fprintf(w, "Category:      %s (%d)\n", r.Category, r.CategoryID)
	fmt.Fprintf(w, "Domain:        %s\n", r.Domain)
	if len(r.RelatedRoles) > 0 {
		fmt.Fprintf(w, "Related roles: %s\n", strings.Join(r.RelatedRoles, ", "))
	}
	fmt.Fprintf(w, "Skills:        %s\n", strings.Join(r.Skills, ", "))
	fmt.Fprintf(w, "Words:         %d\n", r.Metrics.WordCount)
	fmt.Fprintf(w, "Sentences:     %d (%.1f words each)\n", r.Metrics.SentenceCount, r.Metrics.AvgWordsPerSentence)
	fmt.Fprintf(w, "Complexity:    %s\n", r.Metrics.Complexity)
	fmt.Fprintf(w, "Feedback:      %s\n", r.Feedback)
}

func newLexiconCmd() *cobra.Command {
	var (
		path    string
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Print the category, domain and skill tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lex, err := lexicon.LoadFile(path)
			if err != nil {
				return err
			}
			return printLexicon(cmd.OutOrStdout(), lex, jsonOut)
		},
	}
	cmd.Flags().StringVar(&path, "file", os.Getenv("LEXICON_PATH"), "lexicon YAML file (default: built in)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

func printLexicon(w io.Writer, lex *lexicon.Lexicon, jsonOut bool) error {
	if jsonOut {
		return writeJSON(w, map[string]any{
			"categories": lex.Categories,
			"domains":    lex.Domains,
			"skills":     lex.Skills,
		})
	}
	for _, d := range lex.Domains {
		fmt.Fprintf(w, "%s\n", d.Name)
		for _, c := range d.Categories {
			fmt.Fprintf(w, "  %s\n", c)
		}
	}
	fmt.Fprintf(w, "\nSkills: %s\n", strings.Join(lex.Skills, ", "))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

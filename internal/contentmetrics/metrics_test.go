package contentmetrics

import (
	"strings"
	"testing"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestAnalyzeExamples(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Metrics
	}{
		{
			name: "empty",
			text: "",
			want: Metrics{WordCount: 0, SentenceCount: 1, AvgWordsPerSentence: 0, Complexity: ComplexityLow},
		},
		{
			name: "three sentences",
			text: "A. B. C.",
			want: Metrics{WordCount: 3, SentenceCount: 3, AvgWordsPerSentence: 1, Complexity: ComplexityLow},
		},
		{
			name: "three words",
			text: "one two three",
			want: Metrics{WordCount: 3, SentenceCount: 1, AvgWordsPerSentence: 3, Complexity: ComplexityLow},
		},
		{
			name: "no periods",
			text: "Senior engineer building data platforms",
			want: Metrics{WordCount: 5, SentenceCount: 1, AvgWordsPerSentence: 5, Complexity: ComplexityLow},
		},
		{
			name: "rounding",
			text: "one two. three four five. six seven.",
			want: Metrics{WordCount: 7, SentenceCount: 3, AvgWordsPerSentence: 2.3, Complexity: ComplexityLow},
		},
		{
			name: "doubled period",
			text: "A.. B",
			want: Metrics{WordCount: 2, SentenceCount: 2, AvgWordsPerSentence: 1, Complexity: ComplexityLow},
		},
		{
			name: "blank segment between periods",
			text: "Go. . Rust",
			want: Metrics{WordCount: 3, SentenceCount: 2, AvgWordsPerSentence: 1.5, Complexity: ComplexityLow},
		},
		{
			name: "only periods",
			text: "...",
			want: Metrics{WordCount: 1, SentenceCount: 1, AvgWordsPerSentence: 1, Complexity: ComplexityLow},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Analyze(tt.text); got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestComplexityBoundaries(t *testing.T) {
	tests := []struct {
		words int
		want  Complexity
	}{
		{150, ComplexityLow},
		{199, ComplexityLow},
		{200, ComplexityMedium},
		{201, ComplexityMedium},
		{799, ComplexityMedium},
		{800, ComplexityMedium},
		{500, ComplexityMedium},
		{801, ComplexityHigh},
		{900, ComplexityHigh},
	}
	for _, tt := range tests {
		m := Analyze(words(tt.words))
		if m.WordCount != tt.words {
			t.Fatalf("expected %d words, got %d", tt.words, m.WordCount)
		}
		if m.Complexity != tt.want {
			t.Fatalf("%d words: expected %s, got %s", tt.words, tt.want, m.Complexity)
		}
		if m.SentenceCount != 1 || m.AvgWordsPerSentence != float64(tt.words) {
			t.Fatalf("%d words: unexpected sentence stats %+v", tt.words, m)
		}
	}
}

func TestFeedback(t *testing.T) {
	for _, c := range []Complexity{ComplexityLow, ComplexityMedium, ComplexityHigh} {
		fb := Metrics{Complexity: c}.Feedback()
		if !strings.HasPrefix(fb, "Your resume") {
			t.Fatalf("unexpected feedback for %s: %q", c, fb)
		}
	}
	if Analyze(words(10)).Feedback() == Analyze(words(900)).Feedback() {
		t.Fatal("expected different feedback for low and high complexity")
	}
}

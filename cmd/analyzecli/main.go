// Command analyzecli runs query normalization and intent analysis on a
// question without touching any external collaborator (no embedder, index,
// or LLM needed), for manual inspection of how a question will be
// normalized, classified, and split into sub-questions before it ever
// reaches retrieval.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/brunobiangulo/legalrag/domain"
	"github.com/brunobiangulo/legalrag/normalize"
)

func main() {
	question := flag.String("question", "", "Question to analyze (reads stdin if omitted)")
	asJSON := flag.Bool("json", false, "Print the diagnostics as JSON instead of a text report")
	flag.Parse()

	q := *question
	if q == "" {
		data, err := os.ReadFile("/dev/stdin")
		if err != nil {
			log.Fatalf("reading question from stdin: %v", err)
		}
		q = strings.TrimSpace(string(data))
	}
	if q == "" {
		log.Fatal("a question is required: pass --question or pipe one to stdin")
	}

	dict := domain.New()
	normalizer := normalize.New(dict)
	qctx := normalizer.Analyze(q)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(qctx); err != nil {
			log.Fatalf("encoding diagnostics: %v", err)
		}
		return
	}

	fmt.Printf("raw:          %s\n", qctx.Raw)
	fmt.Printf("normalized:   %s\n", qctx.Normalized)
	fmt.Printf("intent:       %s\n", qctx.Intent)
	fmt.Printf("complexity:   %s\n", qctx.Complexity)
	fmt.Printf("categories:   %s\n", strings.Join(qctx.MatchedCategories, ", "))
	fmt.Printf("keywords:     %s\n", strings.Join(qctx.Keywords, ", "))
	if len(qctx.SubQuestions) > 1 {
		fmt.Println("sub-questions:")
		for i, sq := range qctx.SubQuestions {
			fmt.Printf("  %d. %s\n", i+1, sq)
		}
	}
}

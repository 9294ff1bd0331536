package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/byronwade/filerisk/internal/history"
	"github.com/byronwade/filerisk/internal/pipeline"
)

// Demonstrates the two exported operations of §8: Analyze and SearchHistory.
// This is not a product CLI; it takes no flags beyond a target path and
// prints JSON, matching the teacher's cmd/ demonstration style.
//
// Usage:
//   go run ./cmd/filerisk-demo <absolute-path-to-file> [history-query]

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: filerisk-demo <absolute-path-to-file> [history-query]")
		os.Exit(1)
	}

	target := os.Args[1]
	ctx := context.Background()

	result, err := pipeline.Analyze(ctx, target)
	if err != nil {
		log.Fatalf("Analysis Error: %v", err)
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("failed to encode result: %v", err)
	}
	fmt.Println(string(encoded))

	if len(os.Args) < 3 {
		return
	}

	query := os.Args[2]
	histResult, err := pipeline.SearchHistory(ctx, filepath.Dir(target), history.Options{Query: query})
	if err != nil {
		log.Fatalf("Analysis Error: %v", err)
	}

	encoded, err = json.MarshalIndent(histResult, "", "  ")
	if err != nil {
		log.Fatalf("failed to encode history result: %v", err)
	}
	fmt.Println(string(encoded))
}

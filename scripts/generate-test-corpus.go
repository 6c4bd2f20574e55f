//go:build ignore

// Package main generates a synthetic content directory for benchmarking.
// Usage: go run scripts/generate-test-corpus.go -posts 1000 -output testdata/bench
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	numPosts  = flag.Int("posts", 1000, "Number of posts to generate")
	outputDir = flag.String("output", "testdata/bench", "Output directory")
	seed      = flag.Int64("seed", 42, "Random seed for reproducibility")
	malformed = flag.Float64("malformed", 0.02, "Fraction of posts without frontmatter")
)

var (
	tagPool = []string{
		"Go", "go", "React", "React.js", "ReactJS", "TypeScript", "Web",
		"CLI", "テスト", "日記", "Rust", "Docker", "Kubernetes", "SQL",
		"Remix", "Vite", "#career", "AWS",
	}
	authors = []string{"Alice", "Bob", "Carol", "Dave"}
	emojis  = []string{"📝", "🚀", "🐛", "🔧", "📚", ""}
	words   = strings.Fields(`index cache build route post tag page query
		worker loader watcher config render deploy release review`)
)

func main() {
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output dir: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))
	start := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)

	broken := 0
	for i := 0; i < *numPosts; i++ {
		name := fmt.Sprintf("post-%05d.md", i)
		var body string
		if rng.Float64() < *malformed {
			body = "# Draft\n\nNo frontmatter yet.\n"
			broken++
		} else {
			created := start.Add(time.Duration(rng.Intn(8*365*24)) * time.Hour)
			body = generatePost(rng, i, created)
		}

		path := filepath.Join(*outputDir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
			os.Exit(1)
		}

		if (i+1)%500 == 0 {
			fmt.Printf("Generated %d/%d posts\n", i+1, *numPosts)
		}
	}

	fmt.Printf("Generated %d posts (%d malformed) in %s\n", *numPosts, broken, *outputDir)
}

func generatePost(rng *rand.Rand, i int, created time.Time) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %q\n", title(rng, i))
	fmt.Fprintf(&b, "author: %s\n", authors[rng.Intn(len(authors))])
	// Mix the date layouts seen in real content.
	switch rng.Intn(3) {
	case 0:
		fmt.Fprintf(&b, "created_at: %s\n", created.Format("2006/1/2"))
	case 1:
		fmt.Fprintf(&b, "created_at: %s\n", created.Format("2006-01-02"))
	default:
		fmt.Fprintf(&b, "created_at: %s\n", created.Format(time.RFC3339))
	}
	if e := emojis[rng.Intn(len(emojis))]; e != "" {
		fmt.Fprintf(&b, "emoji: %q\n", e)
	}

	tags := pickTags(rng)
	// Half the posts use the comma string form.
	if rng.Intn(2) == 0 {
		fmt.Fprintf(&b, "hashtags: %q\n", strings.Join(tags, ", "))
	} else {
		b.WriteString("hashtags:\n")
		for _, t := range tags {
			fmt.Fprintf(&b, "  - %q\n", t)
		}
	}
	b.WriteString("---\n\n")

	for p := 0; p < 1+rng.Intn(4); p++ {
		b.WriteString(sentence(rng))
		b.WriteString("\n\n")
	}
	return b.String()
}

func pickTags(rng *rand.Rand) []string {
	n := rng.Intn(4)
	tags := make([]string, 0, n)
	for j := 0; j < n; j++ {
		tags = append(tags, tagPool[rng.Intn(len(tagPool))])
	}
	return tags
}

func title(rng *rand.Rand, i int) string {
	w := words[rng.Intn(len(words))]
	return fmt.Sprintf("%s%s notes #%d", strings.ToUpper(w[:1]), w[1:], i)
}

func sentence(rng *rand.Rand) string {
	n := 8 + rng.Intn(12)
	parts := make([]string, n)
	for j := range parts {
		parts[j] = words[rng.Intn(len(words))]
	}
	return strings.Join(parts, " ") + "."
}

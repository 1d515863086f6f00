package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"yashubustudio/ideagen/generator"
)

type cliOptions struct {
	configPath     string
	inputPath      string
	apiKey         string
	query          string
	productType    string
	abstractColumn string
	topN           int
	maxRetries     int
	backoff        int
	outputDir      string
	skipImage      bool
	stdout         bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		log.Fatalf("ideagen-cli: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("ideagen-cli: %v", err)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	flag.StringVar(&opts.inputPath, "input", "", "xlsx/CSV/TSV file containing patent abstracts")
	flag.StringVar(&opts.apiKey, "api-key", "", "Gemini API key (default: GEMINI_API_KEY env)")
	flag.StringVar(&opts.query, "query", "", "Need statement driving relevance scoring")
	flag.StringVar(&opts.productType, "product-type", "", "Product category for the solution")
	flag.StringVar(&opts.abstractColumn, "abstract-column", "", "Header of the abstract column (default: auto-detect, 要約 preferred)")
	flag.IntVar(&opts.topN, "top-n", 0, "How many top-scoring abstracts feed the synthesis (5-50)")
	flag.IntVar(&opts.maxRetries, "max-retries", 0, "Retry attempts per API call (1-10)")
	flag.IntVar(&opts.backoff, "backoff", 0, "Initial backoff seconds between retries (1-10)")
	flag.StringVar(&opts.outputDir, "output-dir", "out", "Directory where results are written")
	flag.BoolVar(&opts.skipImage, "skip-image", false, "Skip product image generation")
	flag.BoolVar(&opts.stdout, "stdout", false, "Print the solution narrative to STDOUT")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --input FILE --query TEXT [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.inputPath = strings.TrimSpace(opts.inputPath)
	opts.apiKey = strings.TrimSpace(opts.apiKey)
	if opts.apiKey == "" {
		opts.apiKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	}
	if opts.inputPath == "" {
		flag.Usage()
		return opts, errors.New("missing required --input file")
	}
	if opts.apiKey == "" {
		flag.Usage()
		return opts, generator.ErrMissingAPIKey
	}
	return opts, nil
}

func run(opts cliOptions) error {
	cfg, err := generator.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, opts)

	table, err := generator.LoadPatentTable(opts.inputPath, generator.LoadOptions{AbstractColumn: cfg.AbstractColumn})
	if err != nil {
		return err
	}
	logger := log.New(os.Stdout, "", log.LstdFlags)
	logger.Printf("データの読み込みに成功しました。行数: %d行", table.Len())

	ctx := context.Background()
	svc, err := generator.NewGeminiService(ctx, cfg, opts.apiKey, logger)
	if err != nil {
		return err
	}

	run := cfg.RunConfig(opts.apiKey)
	scored, err := svc.ScoreAll(ctx, table, run, func(done, total int) {
		logger.Printf("進捗: %d/%d 特許要約を評価中...", done, total)
	})
	if err != nil {
		return err
	}

	top := generator.TopN(scored, run.TopN)

	if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	stamp := time.Now().Format("20060102150405")

	scoresPath := filepath.Join(opts.outputDir, fmt.Sprintf("scores_%s.csv", stamp))
	if err := writeScoresCSV(scoresPath, top); err != nil {
		return err
	}
	logger.Printf("関連度上位%d件を %s に保存しました", len(top), scoresPath)

	solution, err := svc.Synthesize(ctx, top, run)
	if err != nil {
		return err
	}
	solutionPath := filepath.Join(opts.outputDir, fmt.Sprintf("solution_%s.txt", stamp))
	if err := os.WriteFile(solutionPath, []byte(solution.Narrative), 0o644); err != nil {
		return fmt.Errorf("write solution: %w", err)
	}
	logger.Printf("ソリューション案を %s に保存しました", solutionPath)
	if opts.stdout {
		fmt.Println()
		fmt.Println(solution.Narrative)
		fmt.Println()
	}

	if opts.skipImage {
		return nil
	}
	img, err := svc.GenerateImage(ctx, solution, run)
	if err != nil {
		if errors.Is(err, generator.ErrNoImage) {
			logger.Printf("%v", err)
			return nil
		}
		return err
	}
	data, err := img.PNGBytes()
	if err != nil {
		return err
	}
	imagePath := filepath.Join(opts.outputDir, fmt.Sprintf("product_image_%s.png", stamp))
	if err := os.WriteFile(imagePath, data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	logger.Printf("製品画像を %s に保存しました", imagePath)
	return nil
}

func applyOverrides(cfg *generator.Config, opts cliOptions) {
	if opts.query != "" {
		cfg.Query = opts.query
	}
	if opts.productType != "" {
		cfg.ProductType = opts.productType
	}
	if opts.abstractColumn != "" {
		cfg.AbstractColumn = opts.abstractColumn
	}
	if opts.topN > 0 {
		cfg.TopN = opts.topN
	}
	if opts.maxRetries > 0 {
		cfg.MaxRetries = opts.maxRetries
	}
	if opts.backoff > 0 {
		cfg.BackoffSeconds = opts.backoff
	}
	cfg.ApplyDefaults()
}

func writeScoresCSV(path string, rows []generator.PatentRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scores file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write([]string{"要約", "モデル回答", "関連度"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		record := []string{row.Abstract, row.RelevanceRaw, fmt.Sprintf("%.1f", row.Relevance)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush scores: %w", err)
	}
	return nil
}

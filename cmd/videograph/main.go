// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/videograph/ai"
	"github.com/poiesic/videograph/ai/openai"
	"github.com/poiesic/videograph/config"
	"github.com/poiesic/videograph/core"
	mediaexec "github.com/poiesic/videograph/media/exec"
	"github.com/poiesic/videograph/pipeline"
	"github.com/poiesic/videograph/steps"
	"github.com/poiesic/videograph/storage"
	"github.com/poiesic/videograph/storage/badger"
	"github.com/poiesic/videograph/storage/local"
	minioStore "github.com/poiesic/videograph/storage/minio"
)

func main() {
	app := &cli.App{
		Name:  "videograph",
		Usage: "Video to topic graph pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Run the pipeline for one video",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "url",
						Aliases:  []string{"u"},
						Usage:    "Source video URL",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "video-id",
						Usage: "Video identifier (a new ULID when empty)",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "Path to a pipeline config YAML file",
					},
					&cli.StringFlag{
						Name:  "store-dir",
						Usage: "Local artifact store directory",
						Value: "./data",
					},
					&cli.StringFlag{
						Name:  "s3-endpoint",
						Usage: "S3-compatible endpoint; overrides store-dir when set",
					},
					&cli.StringFlag{
						Name:  "s3-bucket",
						Usage: "S3 bucket name",
						Value: "videograph",
					},
					&cli.StringFlag{
						Name:    "s3-access-key",
						Usage:   "S3 access key",
						EnvVars: []string{"VIDEOGRAPH_S3_ACCESS_KEY"},
					},
					&cli.StringFlag{
						Name:    "s3-secret-key",
						Usage:   "S3 secret key",
						EnvVars: []string{"VIDEOGRAPH_S3_SECRET_KEY"},
					},
					&cli.BoolFlag{
						Name:  "s3-secure",
						Usage: "Use TLS for the S3 endpoint",
						Value: true,
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "BadgerDB directory for manifest and graph versions",
					},
					&cli.StringFlag{
						Name:  "steps",
						Usage: "Comma-separated step list (defaults to the full pipeline)",
					},
					&cli.BoolFlag{
						Name:  "skip-completed",
						Usage: "Skip steps already recorded in the manifest (resume)",
					},
					&cli.StringFlag{
						Name:  "transcript",
						Usage: "Existing transcript JSON; seeds the transcript artifact and skips transcription",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.StringFlag{
						Name:  "summary-host",
						Usage: "Summarization service host URL (defaults to embedding-host)",
					},
					&cli.StringFlag{
						Name:  "summary-model",
						Usage: "Summarization model name",
						Value: "qwen2.5:3b",
					},
				},
			},
			{
				Name:   "steps",
				Usage:  "List the registered pipeline steps",
				Action: stepsCommand,
			},
			{
				Name:   "graph",
				Usage:  "Show a stored graph version (latest when --version is empty)",
				Action: graphCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "BadgerDB directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "video-id",
						Usage:    "Video identifier",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "version",
						Usage: "Graph version to show",
					},
					&cli.BoolFlag{
						Name:  "list",
						Usage: "List stored versions instead of printing a graph",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	store, err := buildStore(c)
	if err != nil {
		return err
	}

	summaryHost := c.String("summary-host")
	if summaryHost == "" {
		summaryHost = c.String("embedding-host")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithSummaryHost(summaryHost),
		ai.WithSummaryModel(c.String("summary-model")),
	)

	var providerOpts []openai.ProviderOption
	if path := c.String("transcript"); path != "" {
		providerOpts = append(providerOpts, openai.WithTranscriber(&fileTranscriber{path: path}))
	}

	provider, err := openai.NewProvider(aiConfig, providerOpts...)
	if err != nil {
		return fmt.Errorf("creating AI provider: %w", err)
	}
	defer provider.Close()

	var orchOpts []pipeline.Option
	var graphRepo storage.GraphRepository

	if dbPath := c.String("db"); dbPath != "" {
		backend, err := badger.OpenBackend(dbPath, false)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer backend.Close()

		manifestRepo, err := badger.NewManifestRepository(backend)
		if err != nil {
			return err
		}
		defer manifestRepo.Close()

		graphRepo, err = badger.NewGraphRepository(backend)
		if err != nil {
			return err
		}
		defer graphRepo.Close()

		orchOpts = append(orchOpts, pipeline.WithManifestRepository(manifestRepo))
	}

	transcoder := mediaexec.NewTranscoder()
	registry := pipeline.NewRegistry(nil)
	steps.RegisterAll(registry, steps.Deps{
		Provider:   provider,
		Downloader: mediaexec.NewDownloader(),
		Transcoder: transcoder,
		Cutter:     transcoder,
		GraphRepo:  graphRepo,
	})

	if c.Bool("skip-completed") {
		orchOpts = append(orchOpts, pipeline.WithSkipCompleted(true))
	}
	orchOpts = append(orchOpts, pipeline.WithProgress(
		pipeline.ProgressLogger(slog.Default(), "run", 5*time.Second)))

	videoID := c.String("video-id")
	if videoID == "" {
		videoID = core.NewULID()
	}

	manifest := core.NewManifest(videoID, cfg)
	manifest.SourceURL = c.String("url")

	stepNames := steps.DefaultOrder()
	if list := c.String("steps"); list != "" {
		stepNames = strings.Split(list, ",")
		for i := range stepNames {
			stepNames[i] = strings.TrimSpace(stepNames[i])
		}
	}

	if path := c.String("transcript"); path != "" {
		// The file-backed transcriber replaces speech-to-text but still runs
		// the transcribe step, so captions and metrics are produced the same
		// way they are for real audio.
		slog.Info("using transcript file", "path", path)
	}

	orch := pipeline.NewOrchestrator(registry, store, cfg, orchOpts...)

	result, err := orch.Run(ctx, manifest, stepNames)
	if err != nil {
		return err
	}

	for _, outcome := range result.Ledger {
		switch {
		case outcome.Skipped:
			fmt.Fprintf(os.Stderr, "  skip %s\n", outcome.Step)
		case outcome.Err != nil:
			fmt.Fprintf(os.Stderr, "  FAIL %s: %v\n", outcome.Step, outcome.Err)
		default:
			fmt.Fprintf(os.Stderr, "  ok   %s (%s)\n", outcome.Step, outcome.Duration)
		}
	}

	if !result.Success {
		return fmt.Errorf("pipeline failed for video %s (job %s)", videoID, manifest.JobID)
	}

	fmt.Fprintf(os.Stderr, "video %s complete, job %s, graph version %s\n",
		videoID, manifest.JobID, result.Manifest.GraphVersion)
	return nil
}

func stepsCommand(c *cli.Context) error {
	registry := pipeline.NewRegistry(nil)
	steps.RegisterAll(registry, steps.Deps{})

	for _, name := range registry.Names() {
		meta, err := registry.Metadata(name)
		if err != nil {
			return err
		}
		fmt.Printf("%-12s %s\n", name, meta.Description)
		if len(meta.Requires) > 0 {
			fmt.Printf("             requires: %v\n", meta.Requires)
		}
		if len(meta.Produces) > 0 {
			fmt.Printf("             produces: %v\n", meta.Produces)
		}
	}
	return nil
}

func graphCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewGraphRepository(backend)
	if err != nil {
		return err
	}
	defer repo.Close()

	videoID := c.String("video-id")
	versions, err := repo.ListGraphVersions(ctx, videoID)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		return fmt.Errorf("no graph versions for video %s", videoID)
	}

	if c.Bool("list") {
		for _, v := range versions {
			fmt.Println(v)
		}
		return nil
	}

	version := c.String("version")
	if version == "" {
		version = versions[len(versions)-1]
	}

	g, err := repo.GetGraph(ctx, videoID, version)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(g)
}

func buildStore(c *cli.Context) (storage.ObjectStore, error) {
	if endpoint := c.String("s3-endpoint"); endpoint != "" {
		client, err := minio.New(endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(c.String("s3-access-key"), c.String("s3-secret-key"), ""),
			Secure: c.Bool("s3-secure"),
		})
		if err != nil {
			return nil, fmt.Errorf("creating S3 client: %w", err)
		}
		return minioStore.NewStore(client, c.String("s3-bucket"), ""), nil
	}
	return local.NewStore(c.String("store-dir"))
}

// fileTranscriber satisfies ai.Transcriber from a pre-existing transcript
// JSON file, for videos transcribed out of band.
type fileTranscriber struct {
	path string
}

func (f *fileTranscriber) Transcribe(ctx context.Context, audio []byte) ([]core.TranscriptSegment, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}

	var segments []core.TranscriptSegment
	if err := json.Unmarshal(data, &segments); err != nil {
		return nil, fmt.Errorf("parsing transcript %s: %w", f.path, err)
	}
	return segments, nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

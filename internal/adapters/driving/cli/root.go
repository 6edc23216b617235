// Package cli wires the floatd commands.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/float-ritual-stack/floatd/internal/adapters/driven/collections/chroma"
	collmem "github.com/float-ritual-stack/floatd/internal/adapters/driven/collections/memory"
	configfile "github.com/float-ritual-stack/floatd/internal/adapters/driven/config/file"
	statefile "github.com/float-ritual-stack/floatd/internal/adapters/driven/statestore/file"
	statesqlite "github.com/float-ritual-stack/floatd/internal/adapters/driven/statestore/sqlite"
	summollama "github.com/float-ritual-stack/floatd/internal/adapters/driven/summarizer/ollama"
	"github.com/float-ritual-stack/floatd/internal/connectors/dropzone"
	"github.com/float-ritual-stack/floatd/internal/core/domain"
	"github.com/float-ritual-stack/floatd/internal/core/ports/driven"
	"github.com/float-ritual-stack/floatd/internal/core/services"
	"github.com/float-ritual-stack/floatd/internal/disgen"
	"github.com/float-ritual-stack/floatd/internal/extractors"
	"github.com/float-ritual-stack/floatd/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verboseFlag bool
	configFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "floatd",
	Short: "Dropzone ingestion daemon for the FLOAT knowledge base",
	Long: `floatd watches a dropzone directory, classifies dropped files into
the tripartite knowledge domains, and routes chunked content into the
configured collections.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file (default ~/.floatd/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadSettings resolves the config path and loads settings.
func loadSettings() (domain.Settings, error) {
	path := configFlag
	if path == "" {
		var err error
		path, err = configfile.DefaultPath()
		if err != nil {
			return domain.Settings{}, err
		}
	}
	return configfile.Load(path)
}

// buildService assembles the ingest service from settings. The returned
// cleanup closes the stores.
func buildService(settings domain.Settings, withWatcher bool) (*services.IngestService, func(), error) {
	store, err := openStateStore(settings)
	if err != nil {
		return nil, nil, err
	}

	var sink driven.CollectionStore
	if settings.Chroma.Enabled {
		sink = chroma.New(settings.Chroma.BaseURL, settings.Chroma.RequestsPerSecond)
	} else {
		logger.Info("chroma sink disabled, keeping manifests in memory")
		sink = collmem.New()
	}

	var source driven.FileSource
	if withWatcher {
		watcher, err := dropzone.New(settings.Dropzone, time.Duration(settings.SettleDelayMS)*time.Millisecond)
		if err != nil {
			store.Close()
			sink.Close()
			return nil, nil, err
		}
		source = watcher
	}

	opts := []services.Option{services.WithNotes(disgen.New())}
	if settings.Ollama.Enabled {
		opts = append(opts, services.WithSummarizer(summollama.New(summollama.Config{
			BaseURL: settings.Ollama.BaseURL,
			Model:   settings.Ollama.Model,
		})))
	}

	svc := services.NewIngestService(
		settings,
		store,
		sink,
		source,
		extractors.NewRegistry(settings.MaxFileSize),
		opts...,
	)

	cleanup := func() {
		if source != nil {
			source.Close()
		}
		sink.Close()
		store.Close()
	}
	return svc, cleanup, nil
}

func openStateStore(settings domain.Settings) (driven.StateStore, error) {
	switch settings.StateBackend {
	case "sqlite":
		return statesqlite.New(settings.StatePath)
	case "file":
		return statefile.New(settings.StatePath)
	default:
		return nil, fmt.Errorf("%w: state backend %q", domain.ErrInvalidInput, settings.StateBackend)
	}
}

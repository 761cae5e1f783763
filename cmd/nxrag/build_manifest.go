package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/nxrag/internal/corpus"
	"github.com/jonathan/nxrag/internal/schemas"
)

var buildManifestCommand = &cobra.Command{
	Use:   "build-manifest",
	Short: "List corpus documents into manifest.json",
	Long:  "Lists every Markdown document under the corpus root, tagged with its first heading. With --chunks, each document is also split into line chunks with stable ids.",
	RunE:  runBuildManifest,
}

var (
	manifestCorpus     string
	manifestOutput     string
	manifestChunks     bool
	manifestChunkLines int
)

func init() {
	buildManifestCommand.Flags().StringVar(&manifestCorpus, "corpus", "", "Corpus root (overrides paths.corpus)")
	buildManifestCommand.Flags().StringVarP(&manifestOutput, "out", "o", "", "Path to output manifest.json")
	buildManifestCommand.Flags().BoolVar(&manifestChunks, "chunks", false, "Include document chunks")
	buildManifestCommand.Flags().IntVar(&manifestChunkLines, "chunk-lines", corpus.DefaultChunkLines, "Maximum lines per chunk")

	_ = buildManifestCommand.MarkFlagRequired("out")

	rootCmd.AddCommand(buildManifestCommand)
}

func runBuildManifest(cmd *cobra.Command, _ []string) error {
	root := appConfig.Paths.Corpus
	if cmd.Flags().Changed("corpus") {
		root = manifestCorpus
	}

	manifest, err := corpus.BuildManifest(root)
	if err != nil {
		return err
	}
	if manifestChunks {
		chunks, err := corpus.BuildChunks(manifest, manifestChunkLines)
		if err != nil {
			return err
		}
		manifest.Chunks = chunks
	}

	if err := writeJSONFile(manifestOutput, schemas.KindManifest, manifest); err != nil {
		return err
	}
	fmt.Printf("Listed %d documents", len(manifest.Entries))
	if manifestChunks {
		fmt.Printf(" in %d chunks", len(manifest.Chunks))
	}
	fmt.Printf("\nWrote %s\n", manifestOutput)
	return nil
}

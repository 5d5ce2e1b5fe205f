// flac2wav converts a FLAC file to a WAV file.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bitrotio/lossless/flac"
)

var force bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flac2wav [flac files]",
	Short: "Convert FLAC files to WAV",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			if err := convert(path); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing WAV file")
}

func convert(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	stream, err := flac.Decode(raw)
	if err != nil {
		return err
	}
	buf, err := stream.Audio()
	if err != nil {
		return err
	}

	wavPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".wav"
	if !force {
		if _, err := os.Stat(wavPath); err == nil {
			return fmt.Errorf("%s already exists, use -f to overwrite", wavPath)
		}
	}
	out, err := os.Create(wavPath)
	if err != nil {
		return err
	}
	defer out.Close()

	return flac.WriteWAV(out, buf, int(stream.Info.BitsPerSample))
}

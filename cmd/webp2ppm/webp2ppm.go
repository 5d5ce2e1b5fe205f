// webp2ppm converts a lossless (VP8L) WebP file to a PPM file.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bitrotio/lossless/webp"
)

var force bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "webp2ppm [webp files]",
	Short: "Convert lossless WebP files to PPM",
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
	rootCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing PPM file")
}

func convert(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	img, err := webp.Decode(raw)
	if err != nil {
		return err
	}

	ppmPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".ppm"
	if !force {
		if _, err := os.Stat(ppmPath); err == nil {
			return fmt.Errorf("%s already exists, use -f to overwrite", ppmPath)
		}
	}
	out, err := os.Create(ppmPath)
	if err != nil {
		return err
	}
	defer out.Close()

	return webp.WritePPM(out, img)
}

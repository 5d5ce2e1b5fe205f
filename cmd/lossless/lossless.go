// lossless is a combined CLI for the FLAC and lossless-WebP decoders: it can
// report metadata, convert FLAC to WAV, and convert lossless WebP to PPM.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bitrotio/lossless/flac"
	"bitrotio/lossless/flac/meta"
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
	Use:   "lossless",
	Short: "Inspect and convert FLAC and lossless WebP files",
}

var infoCmd = &cobra.Command{
	Use:   "info [flac files]",
	Short: "Print the metadata block inventory of one or more FLAC files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			if err := printInfo(path); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		return nil
	},
}

var flac2wavCmd = &cobra.Command{
	Use:   "flac2wav [flac files]",
	Short: "Convert FLAC files to WAV",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			if err := convertFLAC(path); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		return nil
	},
}

var webp2ppmCmd = &cobra.Command{
	Use:   "webp2ppm [webp files]",
	Short: "Convert lossless WebP files to PPM",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			if err := convertWebP(path); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		return nil
	},
}

func init() {
	flac2wavCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing output file")
	webp2ppmCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing output file")
	rootCmd.AddCommand(infoCmd, flac2wavCmd, webp2ppmCmd)
}

func printInfo(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	stream, err := flac.Decode(raw)
	if err != nil {
		return err
	}
	fmt.Printf("%s:\n", path)
	fmt.Printf("  sample rate:    %d Hz\n", stream.Info.SampleRate)
	fmt.Printf("  channels:       %d\n", stream.Info.ChannelCount)
	fmt.Printf("  bits/sample:    %d\n", stream.Info.BitsPerSample)
	fmt.Printf("  total samples:  %d\n", stream.Info.SampleCount)
	for _, blk := range stream.Blocks {
		fmt.Printf("  block: %-13s %d bytes\n", blk.Header.Type, blk.Header.Length)
		if pic, ok := blk.Body.(*meta.Picture); ok {
			fmt.Printf("    picture type: %s\n", pic.TypeName())
		}
	}
	return nil
}

func convertFLAC(path string) error {
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

	outPath := replaceExt(path, ".wav")
	if err := checkOverwrite(outPath); err != nil {
		return err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	return flac.WriteWAV(out, buf, int(stream.Info.BitsPerSample))
}

func convertWebP(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	img, err := webp.Decode(raw)
	if err != nil {
		return err
	}

	outPath := replaceExt(path, ".ppm")
	if err := checkOverwrite(outPath); err != nil {
		return err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	return webp.WritePPM(out, img)
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func checkOverwrite(path string) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, use -f to overwrite", path)
	}
	return nil
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Image payload commands",
	Long:  `Parent command for converting images to and from base64 payloads.`,
}

var imageEncodeCmd = &cobra.Command{
	Use:   "encode <file>",
	Short: "Print the base64 encoding of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		encoded, err := newCodec().EncodeFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", encoded)
		return nil
	},
}

var decodeOutput string

var imageDecodeCmd = &cobra.Command{
	Use:   "decode <payload-file|->",
	Short: "Decode a base64 payload into a file",
	Long:  `Read a base64 payload from a file (or stdin with "-") and write the decoded bytes to --output.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var payload []byte
		var err error
		if args[0] == "-" {
			payload, err = io.ReadAll(cmd.InOrStdin())
		} else {
			payload, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}
		return newCodec().DecodeToFile(string(payload), decodeOutput)
	},
}

var imageInspectCmd = &cobra.Command{
	Use:   "inspect <file>...",
	Short: "Print format and dimensions of images",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		codec := newCodec()
		for _, path := range args {
			info, err := codec.Inspect(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%dx%d\n", path, info.Format, info.Width, info.Height)
		}
		return nil
	},
}

var prepareOutput string
var prepareSize int
var prepareQuality int

var imagePrepareCmd = &cobra.Command{
	Use:   "prepare <file>",
	Short: "Center-crop and resize an image to the model input size",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		codec := newCodec()
		codec.SetQuality(prepareQuality)
		return codec.Prepare(args[0], prepareOutput, prepareSize)
	},
}

func init() {
	rootCmd.AddCommand(imageCmd)
	imageCmd.AddCommand(imageEncodeCmd, imageDecodeCmd, imageInspectCmd, imagePrepareCmd)

	imageDecodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "inputImage.jpg", "Destination file")
	imagePrepareCmd.Flags().StringVarP(&prepareOutput, "output", "o", "", "Destination file; extension selects the format (required)")
	imagePrepareCmd.Flags().IntVarP(&prepareSize, "size", "s", 224, "Edge length of the square output")
	imagePrepareCmd.Flags().IntVarP(&prepareQuality, "quality", "q", 85, "WebP/JPEG quality")
	imagePrepareCmd.MarkFlagRequired("output")
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prefset/internal/parser"
	"prefset/internal/share"
)

func shareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Encode and decode compact share payloads",
	}
	cmd.AddCommand(shareEncodeCmd())
	cmd.AddCommand(shareDecodeCmd())
	cmd.AddCommand(shareApplyCmd())
	return cmd
}

func shareEncodeCmd() *cobra.Command {
	var baseURL string
	var legacy bool
	cmd := &cobra.Command{
		Use:   "encode <file>",
		Short: "Encode a preference set against the starter pack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			codec, err := loadCodec(cfg)
			if err != nil {
				return err
			}
			set, err := readSet(args[0])
			if err != nil {
				return err
			}

			var payload string
			if legacy {
				payload, err = codec.EncodeDense(set.Topics)
			} else {
				payload, err = codec.Encode(set.Topics)
			}
			if err != nil {
				return err
			}

			if baseURL != "" {
				fmt.Fprintln(os.Stdout, share.BuildURL(baseURL, payload, legacy))
				return nil
			}
			fmt.Fprintln(os.Stdout, payload)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "", "Print a share url built on this base url")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "Emit the legacy dense payload")
	return cmd
}

func shareDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <payload|url>",
		Short: "Decode a share payload into pack coordinates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			codec, err := loadCodec(cfg)
			if err != nil {
				return err
			}
			payload, err := decodeShareArg(codec, args[0])
			if err != nil {
				return err
			}

			index := codec.Index()
			fmt.Fprintf(os.Stdout, "pack %s\n", payload.V)
			for _, tuple := range payload.TIP {
				if index.ValidTopic(tuple[0]) {
					fmt.Fprintf(os.Stdout, "%-24s importance %d\n", index.TopicID(tuple[0]), tuple[1])
				}
			}
			for _, tuple := range payload.DSP {
				if index.ValidDirection(tuple[0], tuple[1]) {
					fmt.Fprintf(os.Stdout, "%-24s stars %d\n", index.DirectionID(tuple[0], tuple[1]), tuple[2])
				}
			}
			return nil
		},
	}
	return cmd
}

func shareApplyCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "apply <file> <payload|url>",
		Short: "Write decoded share values onto a preference set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			codec, err := loadCodec(cfg)
			if err != nil {
				return err
			}
			set, err := readSet(args[0])
			if err != nil {
				return err
			}
			payload, err := decodeShareArg(codec, args[1])
			if err != nil {
				return err
			}

			result := codec.Apply(payload, set.Topics)
			set.Topics = result.Topics
			target := out
			if target == "" {
				target = args[0]
			}
			if err := parser.WriteFile(target, set); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Applied share values to %d topic(s) in %s\n", result.Applied, target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of updating <file> in place")
	return cmd
}

// decodeShareArg accepts a share url, a bare fragment, or a raw payload.
func decodeShareArg(codec *share.Codec, arg string) (*share.Payload, error) {
	if _, ok := share.ExtractFragment(arg); ok {
		return codec.DecodeURL(arg)
	}
	return codec.Decode(arg)
}

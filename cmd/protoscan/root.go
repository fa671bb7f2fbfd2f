package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/anirudhraja/protoscan/internal/config"
	"github.com/anirudhraja/protoscan/internal/logging"
)

type app struct {
	configPath string
	logLevel   string
	hexInput   bool

	cfg    config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "protoscan",
		Short: "Read fields out of protobuf bytes without a schema",
		Long: `Protoscan inspects protobuf-encoded bytes without a schema.

Fields are addressed by number and 1-based occurrence, e.g. "2[1].1" is the
first field 1 inside the first field 2. Aliases for paths can be defined in
the config file under [paths].

Examples:
  protoscan dump message.bin            # Print every field as JSON
  protoscan get 2.1 message.bin         # Print the string at 2[1].1[1]
  protoscan --hex count 3 < blob.hex    # Count field 3 in hex input
  protoscan resolve chat.Message content.text --schema protos`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&a.hexInput, "hex", false, "input is hex text instead of raw bytes")

	rootCmd.AddCommand(
		a.dumpCmd(),
		a.getCmd(),
		a.existsCmd(),
		a.countCmd(),
		a.resolveCmd(),
		a.digestCmd(),
		a.configCmd(),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.cfg = config.Default()
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if cmd.Flags().Changed("log-level") {
		a.cfg.LogLevel = a.logLevel
	}

	a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), "protoscan", a.cfg.LogLevel, a.cfg.LogJSON)
	if a.configPath != "" {
		a.logger.Debug().Str("path", a.configPath).Msg("config loaded")
	}
	return nil
}

// readInput reads the named file, or stdin when name is empty or "-"
func (a *app) readInput(cmd *cobra.Command, name string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if name == "" || name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if !a.hexInput {
		return data, nil
	}

	text := strings.Join(strings.Fields(string(data)), "")
	decoded, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("decode hex input: %w", err)
	}
	return decoded, nil
}

// readRawInput opens the named file or stdin without hex decoding
func (a *app) readRawInput(cmd *cobra.Command, name string) (io.Reader, error) {
	if name == "" || name == "-" {
		return cmd.InOrStdin(), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return bytes.NewReader(data), nil
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/anirudhraja/protoscan"
	"github.com/anirudhraja/protoscan/digest"
	"github.com/anirudhraja/protoscan/wire"
)

func (a *app) dumpCmd() *cobra.Command {
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Print every field as JSON, guessing nested messages and strings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.readInput(cmd, argAt(args, 0))
			if err != nil {
				return err
			}

			opts := protoscan.DumpOptions{MaxDepth: a.cfg.Dump.MaxDepth}
			if cmd.Flags().Changed("max-depth") {
				opts.MaxDepth = maxDepth
			}

			out, dumpErr := protoscan.DumpJSON(data, opts)
			if out != nil {
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			}
			if dumpErr != nil {
				a.logger.Warn().Err(dumpErr).Int("bytes", len(data)).Msg("dump stopped at corrupt field")
				return dumpErr
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "nesting depth; negative disables nesting")
	return cmd
}

func (a *app) getCmd() *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "get <path> [file]",
		Short: "Print the field at a path",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.cfg.ResolvePath(args[0])
			if err != nil {
				return err
			}
			data, err := a.readInput(cmd, argAt(args, 1))
			if err != nil {
				return err
			}

			field, err := protoscan.NewReader(data).ResolveField(path)
			if err != nil {
				a.logger.Debug().Err(err).Str("path", path.String()).Msg("lookup failed")
				return err
			}

			out := cmd.OutOrStdout()
			switch as {
			case "string":
				fmt.Fprintln(out, string(field.Payload))
			case "hex", "bytes":
				fmt.Fprintln(out, hex.EncodeToString(field.Payload))
			case "varint":
				v, err := field.Varint()
				if err != nil {
					return fmt.Errorf("field at %s is not a varint: %w", path, err)
				}
				fmt.Fprintln(out, v)
			default:
				return fmt.Errorf("unknown output format %q", as)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&as, "as", "string", "output format: string, bytes or varint")
	return cmd
}

func (a *app) existsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <field> [file]",
		Short: "Report whether a top-level field is present",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseFieldNumber(args[0])
			if err != nil {
				return err
			}
			data, err := a.readInput(cmd, argAt(args, 1))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), protoscan.NewReader(data).Exists(number))
			return nil
		},
	}
}

func (a *app) countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count <field> [file]",
		Short: "Count occurrences of a top-level field",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseFieldNumber(args[0])
			if err != nil {
				return err
			}
			data, err := a.readInput(cmd, argAt(args, 1))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), protoscan.NewReader(data).Count(number))
			return nil
		},
	}
}

func (a *app) resolveCmd() *cobra.Command {
	var schemaDirs []string

	cmd := &cobra.Command{
		Use:   "resolve <message> <dotted>",
		Short: "Translate a named field path into a numeric path using .proto files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs := append(append([]string{}, a.cfg.SchemaDirs...), schemaDirs...)
			if len(dirs) == 0 {
				return fmt.Errorf("no schema directories given")
			}

			scanner := protoscan.New(dirs)
			for _, dir := range dirs {
				if err := scanner.LoadSchema(dir); err != nil {
					return err
				}
			}
			a.logger.Debug().
				Strs("dirs", dirs).
				Int("messages", len(scanner.ListMessages())).
				Msg("schemas loaded")

			path, err := scanner.Resolve(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&schemaDirs, "schema", nil, "directory or file holding .proto schemas")
	return cmd
}

func (a *app) digestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "digest [file]",
		Short: "Render JSON-lines messages into per-conversation text",
		Long: `Digest reads one JSON message per line:

  {"id":"1","conversation":"c1","sender":"alice","kind":"CHAT","content":"<base64>"}

and renders them with the rules from the config file. The accumulated text of
each conversation is printed when the input ends.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := a.cfg.DigestRules()
			if err != nil {
				return err
			}
			data, err := a.readRawInput(cmd, argAt(args, 0))
			if err != nil {
				return err
			}

			coord := digest.NewCoordinator(
				digest.WithExtractor(digest.NewExtractor(rules...)),
				digest.WithLogger(a.logger),
			)

			scanner := bufio.NewScanner(data)
			scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
			line := 0
			for scanner.Scan() {
				line++
				if len(scanner.Bytes()) == 0 {
					continue
				}
				var msg digest.Message
				if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
					return fmt.Errorf("line %d: %w", line, err)
				}
				coord.Process(msg)
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read messages: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, id := range coord.Conversations() {
				fmt.Fprintf(out, "== %s ==\n%s\n", id, coord.Text(id))
			}
			if n := coord.PendingCount(); n > 0 {
				a.logger.Info().Int("pending", n).Msg("messages still awaiting results")
			}
			return nil
		},
	}
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := a.cfg.Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})
	return cmd
}

func parseFieldNumber(s string) (wire.FieldNumber, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n < 1 || n > uint64(wire.MaxFieldNumber) {
		return 0, fmt.Errorf("invalid field number %q", s)
	}
	return wire.FieldNumber(n), nil
}

package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/DeadlyParkour777/problemset/pkg/problemform"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const stdinName = "-"

var errInvalidFiles = errors.New("one or more problem files are invalid")

func newValidateCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "validate <file>... | -",
		Short: "Check problem files and print field errors",
		Long: "validate reads each problem file (JSON, or YAML for .yaml/.yml files; " +
			"use - for stdin) and prints its field errors as JSON. " +
			"It exits with a non-zero status when any file is invalid.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invalid := 0
			for _, name := range args {
				ok, err := validateFile(cmd.InOrStdin(), cmd.OutOrStdout(), name, format)
				if err != nil {
					return err
				}
				if !ok {
					invalid++
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%w: %d of %d", errInvalidFiles, invalid, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", "Input format: auto, json or yaml")
	return cmd
}

// validateFile reports whether the named problem file is valid and writes
// its result to out.
func validateFile(stdin io.Reader, out io.Writer, name, format string) (bool, error) {
	var (
		data []byte
		err  error
	)
	if name == stdinName {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}

	sub, err := decodeSubmission(data, resolveFormat(name, format))
	if err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	res := problemform.Validate(sub)

	status := "ok"
	if !res.Valid() {
		status = fmt.Sprintf("%d errors", res.Count())
	}
	fmt.Fprintf(out, "%s: %s\n", name, status)

	encoded, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintln(out, string(encoded))

	return res.Valid(), nil
}

func resolveFormat(name, format string) string {
	if format != "" && format != "auto" {
		return strings.ToLower(format)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func decodeSubmission(data []byte, format string) (problemform.Submission, error) {
	var sub problemform.Submission

	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&sub); err != nil {
			return sub, err
		}
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			return sub, errors.New("unexpected data after JSON value")
		}
	case "yaml":
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return sub, err
		}
		if err := checkYAMLText(&doc); err != nil {
			return sub, err
		}
		if err := doc.Decode(&sub); err != nil {
			return sub, err
		}
	default:
		return sub, fmt.Errorf("unknown format %q", format)
	}

	return sub, nil
}

// checkYAMLText rejects mapping values that YAML resolves to something other
// than a string or null, such as 0 or false. yaml.v3 would otherwise turn
// them into text.
func checkYAMLText(node *yaml.Node) error {
	switch node.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range node.Content {
			if err := checkYAMLText(child); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			if value.Kind == yaml.ScalarNode {
				if tag := value.ShortTag(); tag != "!!str" && tag != "!!null" {
					return fmt.Errorf("line %d: %s must be a string, got %s", value.Line, key.Value, tag)
				}
				continue
			}
			if err := checkYAMLText(value); err != nil {
				return err
			}
		}
	}
	return nil
}

package main

import (
	"fmt"
	"github.com/RuiFG/storagebox/backend"
	"github.com/RuiFG/storagebox/internal/container"
	"github.com/RuiFG/storagebox/snapshot"
	"github.com/RuiFG/storagebox/store"
	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"io"
)

// parseValue reads value as json when it parses, as a plain string otherwise.
func parseValue(value string) any {
	var v any
	if err := sonic.UnmarshalString(value, &v); err != nil {
		return value
	}
	return v
}

func printValue(w io.Writer, v any, output string) error {
	var (
		bytes []byte
		err   error
	)
	switch output {
	case "yaml":
		bytes, err = yaml.Marshal(v)
	case "json":
		if bytes, err = sonic.ConfigStd.MarshalIndent(v, "", "  "); err == nil {
			bytes = append(bytes, '\n')
		}
	default:
		return errors.Errorf("unknown output %q", output)
	}
	if err != nil {
		return errors.WithMessage(err, "failed to format value")
	}
	_, err = w.Write(bytes)
	return err
}

func withStore(cmd *cobra.Command, fn func(s *store.Store) error) (err error) {
	s, err := container.NewStore(cmd.Context(), application)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); err == nil {
			err = closeErr
		}
	}()
	return fn(s)
}

func init() {
	var output string
	getCommand := &cobra.Command{
		Use:   "get <key>",
		Short: "print a property, rehydrating from the session snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *store.Store) error {
				v, err := s.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printValue(cmd.OutOrStdout(), v, output)
			})
		},
	}
	getCommand.Flags().StringVarP(&output, "output", "o", "json", "json or yaml")

	var refresh bool
	setCommand := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "set a property and persist the whole snapshot, value is parsed as json when possible",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *store.Store) error {
				if _, err := s.Rehydrate(cmd.Context()); err != nil {
					return err
				}
				opts := []store.WriteOption{store.Persist()}
				if refresh {
					opts = append(opts, store.RefreshPersistence())
				}
				return s.SetAsync(cmd.Context(), args[0], parseValue(args[1]), opts...).Wait(cmd.Context())
			})
		},
	}
	setCommand.Flags().BoolVar(&refresh, "refresh", false, "delete the snapshot before rewriting it")

	var dumpOutput string
	dumpCommand := &cobra.Command{
		Use:   "dump",
		Short: "print the whole persisted snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			codec, err := snapshot.ParseCodec(application.Snapshot.Codec)
			if err != nil {
				return err
			}
			b, err := container.NewBackend(cmd.Context(), application, nil)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := b.Close(); err == nil {
					err = closeErr
				}
			}()
			blob, err := b.Read(cmd.Context(), snapshot.Key)
			if err != nil || blob == nil {
				return err
			}
			persisted, err := codec.Decode(blob)
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), map[string]any{
				"schemaVersion": persisted.SchemaVersion,
				"entries":       persisted.Entries,
			}, dumpOutput)
		},
	}
	dumpCommand.Flags().StringVarP(&dumpOutput, "output", "o", "json", "json or yaml")

	destroyCommand := &cobra.Command{
		Use:   "destroy",
		Short: "delete the persisted snapshot of the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *store.Store) error {
				return s.Destroy(cmd.Context())
			})
		},
	}

	sessionCommand := &cobra.Command{Use: "session", Short: "session helpers"}
	sessionCommand.AddCommand(&cobra.Command{
		Use:   "new",
		Short: "print a fresh session id",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), backend.NewSessionID())
		},
	})

	Command.AddCommand(getCommand, setCommand, dumpCommand, destroyCommand, sessionCommand)
}

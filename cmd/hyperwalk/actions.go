package main

import (
	"fmt"

	"github.com/aretw0/hyperwalk"
	"github.com/aretw0/hyperwalk/pkg/domain"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <start-uri>",
	Short: "Follow the links and print the response of the resource reached",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, s, err := newBuilder(cmd, args)
		if err != nil {
			return err
		}
		resp, err := b.Get(cmd.Context())
		if err != nil {
			return err
		}
		return s.printer.Response(resp, "")
	},
}

var resourceCmd = &cobra.Command{
	Use:   "resource <start-uri>",
	Short: "Follow the links and print the parsed resource reached",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, s, err := newBuilder(cmd, args)
		if err != nil {
			return err
		}
		res, err := b.GetResource(cmd.Context())
		if err != nil {
			return err
		}
		return s.printer.Value(res)
	},
}

var uriCmd = &cobra.Command{
	Use:   "uri <start-uri>",
	Short: "Follow the links and print the address of the resource reached, without requesting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, s, err := newBuilder(cmd, args)
		if err != nil {
			return err
		}
		uri, err := b.GetURI(cmd.Context())
		if err != nil {
			return err
		}
		if s.cfg.Output == "text" {
			fmt.Fprintln(cmd.OutOrStdout(), uri)
			return nil
		}
		return s.printer.Value(map[string]string{"uri": uri})
	},
}

type writeFunc func(b *hyperwalk.Builder, cmd *cobra.Command, body any) (*domain.Response, string, error)

func writeCommand(use, short string, withBody bool, do writeFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <start-uri>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readBody(cmd)
			if err != nil {
				return err
			}
			b, s, err := newBuilder(cmd, args)
			if err != nil {
				return err
			}
			resp, uri, err := do(b, cmd, body)
			if err != nil {
				return err
			}
			return s.printer.Response(resp, uri)
		},
	}
	if withBody {
		cmd.Flags().StringP("data", "d", "", "JSON request body, or @file to read it from a file")
	}
	return cmd
}

func init() {
	rootCmd.AddCommand(getCmd, resourceCmd, uriCmd)

	rootCmd.AddCommand(writeCommand("post", "Follow the links and POST a JSON body to the resource reached", true,
		func(b *hyperwalk.Builder, cmd *cobra.Command, body any) (*domain.Response, string, error) {
			return b.Post(cmd.Context(), body)
		}))
	rootCmd.AddCommand(writeCommand("put", "Follow the links and PUT a JSON body to the resource reached", true,
		func(b *hyperwalk.Builder, cmd *cobra.Command, body any) (*domain.Response, string, error) {
			return b.Put(cmd.Context(), body)
		}))
	rootCmd.AddCommand(writeCommand("patch", "Follow the links and PATCH the resource reached with a JSON body", true,
		func(b *hyperwalk.Builder, cmd *cobra.Command, body any) (*domain.Response, string, error) {
			return b.Patch(cmd.Context(), body)
		}))
	rootCmd.AddCommand(writeCommand("delete", "Follow the links and DELETE the resource reached", false,
		func(b *hyperwalk.Builder, cmd *cobra.Command, _ any) (*domain.Response, string, error) {
			return b.Delete(cmd.Context())
		}))
}

// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"qasmc/internal/gatelib"
	"qasmc/internal/lsp"
)

const lsName = "qasmc"

var log = commonlog.GetLogger("qasmc.lsp")

func main() {
	var verbosity int
	var gates string

	cmd := &cobra.Command{
		Use:           "qasmc-lsp",
		Short:         "OpenQASM language server over stdio",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			commonlog.Configure(verbosity, nil)
			return serve(gates)
		},
	}
	cmd.Flags().IntVar(&verbosity, "verbosity", 1, "log verbosity")
	cmd.Flags().StringVarP(&gates, "gates", "g", "", "gate library file, JSON or YAML (default embedded)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func serve(gates string) error {
	var lib *gatelib.Library
	if gates != "" {
		var err error
		if lib, err = gatelib.Load(gates); err != nil {
			return err
		}
	}

	qasmHandler := lsp.NewQasmHandler(lib)

	handler := protocol.Handler{
		Initialize:                     qasmHandler.Initialize,
		Initialized:                    qasmHandler.Initialized,
		Shutdown:                       qasmHandler.Shutdown,
		SetTrace:                       qasmHandler.SetTrace,
		TextDocumentDidOpen:            qasmHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           qasmHandler.TextDocumentDidClose,
		TextDocumentDidChange:          qasmHandler.TextDocumentDidChange,
		TextDocumentSemanticTokensFull: qasmHandler.TextDocumentSemanticTokensFull,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Info("starting qasmc language server")
	return s.RunStdio()
}

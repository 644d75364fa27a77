// SPDX-License-Identifier: Apache-2.0
package main

import (
	stderrors "errors"
	"fmt"
	"os"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		if !stderrors.Is(err, errCompilationFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

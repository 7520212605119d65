// =============================================================================
// Prisme Transactions - Main Entry Point
// =============================================================================
//
// USAGE:
//   prisme process   - Convert every input file to a Prisme transaction file
//   prisme export    - Export a 10Q file to an .xlsx workbook
//   prisme validate  - Validate configuration files without processing
//   prisme version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/                 : CLI command definitions (Cobra)
//   - internal/field       : Fixed-width field primitives and errors
//   - internal/g68, g69    : Prisme G68 and G69 writers
//   - internal/tenq        : 10Q writer, parser and file reader
//   - internal/converter   : Batch pipeline from rows to output files
//   - pkg/utils            : File discovery, archival and run logs
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/prisme-transactions/cmd"
)

func main() {
	cmd.Execute()
}

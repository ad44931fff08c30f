// Package fileutil holds file permission modes shared by the output writers.
package fileutil

import "os"

// OwnerReadWrite is the file permission mode for merged output files, which
// may carry credentials or other sensitive configuration (owner read/write
// only).
const OwnerReadWrite os.FileMode = 0o600

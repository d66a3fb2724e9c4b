// Package logstore persists process engine log entries as append-only text
// files and reads them back.
//
// # Addressing
//
// One scheme is active per configuration:
//   - flat:   {root}/{processModelId}.log, shared by all correlations
//   - nested: {root}/{correlationId}/{processModelId}, one file per pair
//
// Only the nested scheme supports reading a whole correlation.
//
// # Failure semantics
//
//   - A missing file on a single-file read is an empty result, not an error.
//   - Any other filesystem error is returned wrapped; fs.ErrNotExist stays
//     detectable with errors.Is.
//   - A malformed line aborts the read of its file with a *LineError. A
//     correlation read fails as a whole on the first malformed file.
//
// No locking is done. Concurrent writers rely on append-mode atomicity of
// the underlying filesystem.
package logstore

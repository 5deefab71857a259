package embedding

import (
	"fmt"
	"io"

	"yase/internal/domain"
	"yase/internal/logger"
	"yase/internal/textenc"
)

// bytesPerEntryGuess estimates entries from file size to presize the index.
const bytesPerEntryGuess = 1024

// Load reads a table file in the named encoding. The file is streamed once;
// progress is reported in bytes against the file size.
func Load(path, encoding string, obs domain.ProgressObserver) (*Table, error) {
	f, err := textenc.Open(path, encoding)
	if err != nil {
		return nil, fmt.Errorf("open table %s: %w", path, err)
	}
	defer f.Close()

	t, err := read(f.LineReader, f.Size(), obs)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}
	return t, nil
}

// Read parses a table from r. size is used for progress only and may be 0.
func Read(r io.Reader, encoding string, size int64, obs domain.ProgressObserver) (*Table, error) {
	lr, err := textenc.NewLineReader(r, encoding)
	if err != nil {
		return nil, err
	}
	return read(lr, size, obs)
}

func read(lr *textenc.LineReader, size int64, obs domain.ProgressObserver) (*Table, error) {
	if obs == nil {
		obs = domain.NopObserver{}
	}
	b := NewBuilder(int(size / bytesPerEntryGuess))
	for {
		line, ok, err := lr.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		b.AddLine(line)
		obs.OnProgress(domain.StageTable, lr.Consumed(), size)
	}
	t := b.Table()
	obs.OnStageDone(domain.StageTable, t.stats.Lines)

	st := t.Stats()
	logger.Info("table: %d entries from %d lines, dims %d..%d", st.Entries, st.Lines, st.MinDim, st.MaxDim)
	if st.MalformedFields > 0 {
		logger.Debug("table: dropped %d non-numeric fields", st.MalformedFields)
	}
	if st.Duplicates > 0 {
		logger.Debug("table: %d duplicate keys overwritten", st.Duplicates)
	}
	if st.Ragged() {
		logger.Warn("table: vector dimensions vary between %d and %d", st.MinDim, st.MaxDim)
	}
	return t, nil
}

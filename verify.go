package franklin

import (
	"fmt"
	"slices"

	"github.com/xuri/excelize/v2"

	"github.com/aerissecure/franklin/view"
)

// VerifyError describes a report that does not read back as written.
type VerifyError struct {
	Path   string
	Sheet  string
	Reason string
}

func (e *VerifyError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("verify %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("verify %s: sheet %s: %s", e.Path, e.Sheet, e.Reason)
}

// Verify opens the report at path with an independent reader and checks the
// sheet order, every header row and the pinned column widths against views.
func Verify(path string, views []*view.View) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("verify %s: %w", path, err)
	}
	defer f.Close()

	want := make([]string, len(views))
	for i, v := range views {
		want[i] = v.Name()
	}
	if got := f.GetSheetList(); !slices.Equal(got, want) {
		return &VerifyError{Path: path, Reason: fmt.Sprintf("sheets %v, want %v", got, want)}
	}

	for _, v := range views {
		rows, err := f.GetRows(v.Name())
		if err != nil {
			return fmt.Errorf("verify %s: %w", path, err)
		}
		if len(rows) == 0 {
			return &VerifyError{Path: path, Sheet: v.Name(), Reason: "no header row"}
		}
		if cols := v.Layout().Columns(); !slices.Equal(rows[0], cols) {
			return &VerifyError{Path: path, Sheet: v.Name(), Reason: fmt.Sprintf("header %v, want %v", rows[0], cols)}
		}
		for name, w := range PinnedWidths {
			pos, ok := v.Layout().Position(name)
			if !ok {
				continue
			}
			col, err := excelize.ColumnNumberToName(pos)
			if err != nil {
				return fmt.Errorf("verify %s: %w", path, err)
			}
			got, err := f.GetColWidth(v.Name(), col)
			if err != nil {
				return fmt.Errorf("verify %s: %w", path, err)
			}
			if got != w {
				return &VerifyError{Path: path, Sheet: v.Name(), Reason: fmt.Sprintf("column %s width %v, want %v", name, got, w)}
			}
		}
	}
	return nil
}

package widgets_test

import (
	"testing"

	"github.com/deevus/sankhya-tui/widgets"
)

func TestTable_Draw_AlignedColumns(t *testing.T) {
	tbl := &widgets.Table{
		Columns: []widgets.TableColumn{
			{Width: 10},
			{Width: 6, AlignRight: true},
			{Width: 8, AlignRight: true},
		},
		Header: []string{"NUPLAN", "OP%", "STATUS"},
		Rows: [][]string{
			{"tplan", "0.28%", "created"},
			{"dplan", "0.38%", "failed"},
		},
		Gap: 2,
	}

	ctx := testDrawContext(40, 10)
	surf, err := tbl.Draw(ctx)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}

	// Should have 3 rows: header + 2 data
	if surf.Size.Height != 3 {
		t.Fatalf("expected height=3, got %d", surf.Size.Height)
	}

	// Check header row: "NUPLAN" starts at col 0
	if g := cellText(surf.Buffer[0]); g != "N" {
		t.Errorf("header col 0: expected 'N', got %q", g)
	}

	// "OP%" is right-aligned in width 6 starting at col 12 (10+2 gap).
	// "OP%" is 3 chars, right-aligned in 6 = 3 offset, so col 15.
	if g := cellText(surf.Buffer[15]); g != "O" {
		t.Errorf("header OP col 15: expected 'O', got %q", g)
	}

	// Data row 1 starts at row 1 (offset = 1*40 = 40)
	// "tplan" at col 0
	if g := cellText(surf.Buffer[40]); g != "t" {
		t.Errorf("row1 col 0: expected 't', got %q", g)
	}

	// "0.28%" is 5 chars, right-aligned in 6 = 1 offset, col 13
	if g := cellText(surf.Buffer[40+13]); g != "0" {
		t.Errorf("row1 cpu col 13: expected '0', got %q", g)
	}

	// Row 2: "dplan" at col 0
	if g := cellText(surf.Buffer[80]); g != "d" {
		t.Errorf("row2 col 0: expected 'd', got %q", g)
	}

	// Both "0.28%" and "0.38%" should start at the same column (13)
	if g := cellText(surf.Buffer[80+13]); g != "0" {
		t.Errorf("row2 cpu col 13: expected '0', got %q", g)
	}
}

func TestTable_Draw_NoHeader(t *testing.T) {
	tbl := &widgets.Table{
		Columns: []widgets.TableColumn{
			{Width: 8},
			{Width: 6},
		},
		Rows: [][]string{
			{"hello", "world"},
		},
	}

	ctx := testDrawContext(30, 5)
	surf, err := tbl.Draw(ctx)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}

	if surf.Size.Height != 1 {
		t.Errorf("expected height=1 (no header), got %d", surf.Size.Height)
	}
}

func TestTable_Draw_TruncatesLongText(t *testing.T) {
	tbl := &widgets.Table{
		Columns: []widgets.TableColumn{
			{Width: 4},
		},
		Rows: [][]string{
			{"toolongname"},
		},
	}

	ctx := testDrawContext(20, 5)
	surf, err := tbl.Draw(ctx)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}

	// Should only write 4 chars
	if g := cellText(surf.Buffer[0]); g != "t" {
		t.Errorf("col 0: expected 't', got %q", g)
	}
	if g := cellText(surf.Buffer[3]); g != "l" {
		t.Errorf("col 3: expected 'l', got %q", g)
	}
	// Col 4 should be empty (beyond column width)
	if g := cellText(surf.Buffer[4]); g != "" {
		t.Errorf("col 4: expected empty, got %q", g)
	}
}

func TestTable_Draw_EmptyPlaceholder(t *testing.T) {
	tbl := &widgets.Table{
		Columns: []widgets.TableColumn{{Width: 8}, {Width: 8}},
		Header:  []string{"NUPLAN", "OP"},
		Empty:   "No operations created.",
	}

	surf, err := tbl.Draw(testDrawContext(30, 5))
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if surf.Size.Height != 2 {
		t.Fatalf("expected height=2 (header + placeholder), got %d", surf.Size.Height)
	}
	if got := rowText(surf, 1); got != "No operations created." {
		t.Errorf("unexpected placeholder row %q", got)
	}
}

func TestTable_Draw_EmptyWithoutPlaceholder(t *testing.T) {
	tbl := &widgets.Table{Columns: []widgets.TableColumn{{Width: 8}}}

	surf, err := tbl.Draw(testDrawContext(30, 5))
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if surf.Size.Height != 0 {
		t.Errorf("expected height=0, got %d", surf.Size.Height)
	}
}

func TestTable_Draw_Overflow(t *testing.T) {
	tbl := &widgets.Table{
		Columns: []widgets.TableColumn{{Width: 6}},
		Header:  []string{"NUPLAN"},
		Rows:    [][]string{{"1"}, {"2"}, {"3"}, {"4"}, {"5"}},
	}

	surf, err := tbl.Draw(testDrawContext(20, 4))
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if surf.Size.Height != 4 {
		t.Fatalf("expected height=4, got %d", surf.Size.Height)
	}
	if got := rowText(surf, 2); got != "2" {
		t.Errorf("row 2: expected %q, got %q", "2", got)
	}
	if got := rowText(surf, 3); got != "+3 more" {
		t.Errorf("row 3: expected overflow marker, got %q", got)
	}
}

package mdcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckClean(t *testing.T) {
	md := "# Title\n\nSee [docs](https://example.com) and `code`.\n\n| A | B |\n| 1 | 2 |\n\n```\nraw ` tick\n```\n"
	assert.Equal(t, Findings{}, New().Check(md))
}

func TestCheckTableShape(t *testing.T) {
	md := "| A | B |\n| 1 |\n"
	f := New().Check(md)
	assert.Equal(t, 1, f.TableShapes)
	assert.Equal(t, 1, f.Total())
}

func TestCheckTableShapeOncePerTable(t *testing.T) {
	md := "| A | B |\n| 1 |\n| 1 | 2 | 3 |\n\ntext\n\n| X |\n| Y | Z |\n"
	assert.Equal(t, 2, New().Check(md).TableShapes)
}

func TestCheckEscapedPipe(t *testing.T) {
	md := "| a \\| b | c |\n| 1 | 2 |\n"
	assert.Zero(t, New().Check(md).TableShapes)
}

func TestCheckFences(t *testing.T) {
	assert.Equal(t, 1, New().Check("```\ncode\n").UnbalancedFences)
	assert.Zero(t, New().Check("~~~\ncode\n~~~\n").UnbalancedFences)
}

func TestCheckCodeSpans(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"plain", 0},
		{"`ok`", 0},
		{"``has ` inside``", 0},
		{"`a`b`", 1},
		{"`open", 1},
		{"escaped \\` tick", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, New().Check(tt.line).BrokenCodeSpans, "line %q", tt.line)
	}
}

func TestCheckEmptyTargets(t *testing.T) {
	md := "[a]() and ![b]() and [c](https://c)\n"
	assert.Equal(t, 2, New().Check(md).EmptyTargets)
}

func TestCheckDoesNotModify(t *testing.T) {
	md := "| A | B |\n| 1 |\n"
	before := md
	_ = New().Check(md)
	assert.Equal(t, before, md)
}

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticsAdd(t *testing.T) {
	var total Diagnostics
	a := Diagnostics{TagsRemoved: 2, BlockedLinks: 1, Replacements: 3}
	a.AddWarning(WarnListStructure, "<li> 3 != </li> 2")
	b := Diagnostics{TagsRemoved: 1, TableShapes: 1}

	total.Add(a)
	total.Add(b)

	assert.Equal(t, 3, total.TagsRemoved)
	assert.Equal(t, 1, total.BlockedLinks)
	assert.Equal(t, 3, total.Replacements)
	assert.Equal(t, 1, total.TableShapes)
	assert.Equal(t, []Warning{{Category: WarnListStructure, Detail: "<li> 3 != </li> 2"}}, total.Warnings)
}

func TestDiagnosticsHasWarnings(t *testing.T) {
	assert.False(t, (&Diagnostics{TagsRemoved: 5, BlockedLinks: 2}).HasWarnings())
	assert.True(t, (&Diagnostics{SchemelessImages: 1}).HasWarnings())
	assert.True(t, (&Diagnostics{EmptyTargets: 1}).HasWarnings())

	var d Diagnostics
	d.AddWarning(WarnTableStructure, "<td> 2 != </td> 1")
	assert.True(t, d.HasWarnings())
}

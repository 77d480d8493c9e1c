package core

// Warning is a non-fatal finding raised while converting a row.
type Warning struct {
	Category string `json:"category" yaml:"category"`
	Detail   string `json:"detail" yaml:"detail"`
}

// Warning categories.
const (
	WarnListStructure  = "Malformed list structure:"
	WarnTableStructure = "Malformed table structure:"
	WarnCensusDrift    = "Census mismatch:"
)

// Diagnostics records every corrective action taken on one row. It never
// influences output content. Values are folded with Add, so a batch total
// is just the sum of its rows.
type Diagnostics struct {
	// Markup removal and conversion.
	BlocksRemoved       int `json:"blocks_removed" yaml:"blocks_removed"`
	CommentsRemoved     int `json:"comments_removed" yaml:"comments_removed"`
	TagsRemoved         int `json:"tags_removed" yaml:"tags_removed"`
	EntitiesDecoded     int `json:"entities_decoded" yaml:"entities_decoded"`
	EscapesDecoded      int `json:"escapes_decoded" yaml:"escapes_decoded"`
	AnchorsConverted    int `json:"anchors_converted" yaml:"anchors_converted"`
	ImagesConverted     int `json:"images_converted" yaml:"images_converted"`
	HeadingsConverted   int `json:"headings_converted" yaml:"headings_converted"`
	ListItemsConverted  int `json:"list_items_converted" yaml:"list_items_converted"`
	TableCellsConverted int `json:"table_cells_converted" yaml:"table_cells_converted"`
	BlocksConverted     int `json:"blocks_converted" yaml:"blocks_converted"`
	InlineConverted     int `json:"inline_converted" yaml:"inline_converted"`

	// URL scheme classes.
	BlockedLinks      int `json:"blocked_links" yaml:"blocked_links"`
	BlockedImages     int `json:"blocked_images" yaml:"blocked_images"`
	SchemelessLinks   int `json:"schemeless_links" yaml:"schemeless_links"`
	SchemelessImages  int `json:"schemeless_images" yaml:"schemeless_images"`
	OtherSchemeLinks  int `json:"other_scheme_links" yaml:"other_scheme_links"`
	OtherSchemeImages int `json:"other_scheme_images" yaml:"other_scheme_images"`

	// Open/close mismatches, one per family per row.
	ListMismatches  int `json:"list_mismatches" yaml:"list_mismatches"`
	TableMismatches int `json:"table_mismatches" yaml:"table_mismatches"`

	// Character filter.
	ControlRemoved   int `json:"control_removed" yaml:"control_removed"`
	ZeroWidthRemoved int `json:"zero_width_removed" yaml:"zero_width_removed"`
	TabsRemoved      int `json:"tabs_removed" yaml:"tabs_removed"`
	NewlinesRemoved  int `json:"newlines_removed" yaml:"newlines_removed"`
	NonASCIIRemoved  int `json:"non_ascii_removed" yaml:"non_ascii_removed"`
	Replacements     int `json:"replacements" yaml:"replacements"`
	Suppressed       int `json:"suppressed" yaml:"suppressed"`

	// Markdown output checks.
	UnbalancedFences int `json:"unbalanced_fences" yaml:"unbalanced_fences"`
	BrokenCodeSpans  int `json:"broken_code_spans" yaml:"broken_code_spans"`
	EmptyTargets     int `json:"empty_targets" yaml:"empty_targets"`
	TableShapes      int `json:"table_shapes" yaml:"table_shapes"`

	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Add folds o into d.
func (d *Diagnostics) Add(o Diagnostics) {
	d.BlocksRemoved += o.BlocksRemoved
	d.CommentsRemoved += o.CommentsRemoved
	d.TagsRemoved += o.TagsRemoved
	d.EntitiesDecoded += o.EntitiesDecoded
	d.EscapesDecoded += o.EscapesDecoded
	d.AnchorsConverted += o.AnchorsConverted
	d.ImagesConverted += o.ImagesConverted
	d.HeadingsConverted += o.HeadingsConverted
	d.ListItemsConverted += o.ListItemsConverted
	d.TableCellsConverted += o.TableCellsConverted
	d.BlocksConverted += o.BlocksConverted
	d.InlineConverted += o.InlineConverted

	d.BlockedLinks += o.BlockedLinks
	d.BlockedImages += o.BlockedImages
	d.SchemelessLinks += o.SchemelessLinks
	d.SchemelessImages += o.SchemelessImages
	d.OtherSchemeLinks += o.OtherSchemeLinks
	d.OtherSchemeImages += o.OtherSchemeImages

	d.ListMismatches += o.ListMismatches
	d.TableMismatches += o.TableMismatches

	d.ControlRemoved += o.ControlRemoved
	d.ZeroWidthRemoved += o.ZeroWidthRemoved
	d.TabsRemoved += o.TabsRemoved
	d.NewlinesRemoved += o.NewlinesRemoved
	d.NonASCIIRemoved += o.NonASCIIRemoved
	d.Replacements += o.Replacements
	d.Suppressed += o.Suppressed

	d.UnbalancedFences += o.UnbalancedFences
	d.BrokenCodeSpans += o.BrokenCodeSpans
	d.EmptyTargets += o.EmptyTargets
	d.TableShapes += o.TableShapes

	d.Warnings = append(d.Warnings, o.Warnings...)
}

// AddWarning records a non-fatal finding.
func (d *Diagnostics) AddWarning(category, detail string) {
	d.Warnings = append(d.Warnings, Warning{Category: category, Detail: detail})
}

// HasWarnings reports whether any warning-class finding was recorded.
func (d *Diagnostics) HasWarnings() bool {
	return len(d.Warnings) > 0 ||
		d.OtherSchemeLinks+d.OtherSchemeImages > 0 ||
		d.SchemelessLinks+d.SchemelessImages > 0 ||
		d.UnbalancedFences+d.BrokenCodeSpans+d.EmptyTargets+d.TableShapes > 0
}

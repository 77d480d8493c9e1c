package convert

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/gaurav-prasanna/pagescrub/core/charfilter"
)

// ErrInvalidRequest wraps every configuration problem found by Validate.
var ErrInvalidRequest = errors.New("invalid conversion request")

// Format selects which renderings a conversion produces.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatBoth     Format = "both"
)

// Mode controls the character filter and the declared output encoding.
type Mode string

const (
	// ModeASCII filters to printable ASCII. This is the default.
	ModeASCII Mode = "ascii"
	// ModeUTF keeps non-ASCII text but still drops control and zero-width
	// characters.
	ModeUTF Mode = "utf"
	// ModeRaw disables the character filter entirely.
	ModeRaw Mode = "raw"
)

// Table delimiters accepted by Request.TableDelimiter.
const (
	DelimComma = "comma"
	DelimTab   = "tab"
)

// Request is the per-run conversion configuration. The zero value is
// completed by Normalize with the defaults below.
type Request struct {
	Format         Format `validate:"required,oneof=text markdown both" yaml:"format"`
	TableDelimiter string `validate:"required,oneof=comma tab" yaml:"table_delimiter"`
	// ReplaceChar replaces filtered characters. Empty removes them.
	ReplaceChar string `validate:"omitempty,len=1,printascii" yaml:"replace_char"`
	Mode        Mode   `validate:"required,oneof=ascii utf raw" yaml:"mode"`
	NoTabs      bool   `yaml:"no_tabs"`
	NoNewlines  bool   `yaml:"no_newlines"`
	KeepFooter  bool   `yaml:"keep_footer"`
	// CaptureNoTags exposes the tag-free text before character filtering.
	CaptureNoTags bool `yaml:"capture_notags"`
}

var validate = validator.New()

// DefaultRequest returns text output with comma tables in ASCII mode.
func DefaultRequest() Request {
	return Request{
		Format:         FormatText,
		TableDelimiter: DelimComma,
		Mode:           ModeASCII,
	}
}

// Normalize fills empty fields with their defaults.
func (r Request) Normalize() Request {
	def := DefaultRequest()
	if r.Format == "" {
		r.Format = def.Format
	}
	if r.TableDelimiter == "" {
		r.TableDelimiter = def.TableDelimiter
	}
	if r.Mode == "" {
		r.Mode = def.Mode
	}
	return r
}

// Validate reports the first configuration problem, wrapped in
// ErrInvalidRequest.
func (r Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s %q fails %q", ErrInvalidRequest, fe.Field(), fe.Value(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if r.TableDelimiter == DelimTab && r.NoTabs {
		return fmt.Errorf("%w: tab table delimiter cannot be combined with tab removal", ErrInvalidRequest)
	}
	return nil
}

// WantsText reports whether plain text output is requested.
func (r Request) WantsText() bool {
	return r.Format == FormatText || r.Format == FormatBoth
}

// WantsMarkdown reports whether Markdown output is requested.
func (r Request) WantsMarkdown() bool {
	return r.Format == FormatMarkdown || r.Format == FormatBoth
}

// Delimiter returns the literal table cell delimiter for text output.
func (r Request) Delimiter() string {
	if r.TableDelimiter == DelimTab {
		return "\t"
	}
	return ","
}

// Policy returns the character filter policy for the request.
func (r Request) Policy() charfilter.Policy {
	return charfilter.Policy{
		Replace:      r.ReplaceChar,
		KeepTabs:     !r.NoTabs,
		KeepNewlines: !r.NoNewlines,
		ASCIIOnly:    r.Mode == ModeASCII,
	}
}

// Encoding names the output encoding: "ascii" unless utf or raw mode.
func (r Request) Encoding() string {
	if r.Mode == ModeASCII {
		return "ascii"
	}
	return "utf-8"
}

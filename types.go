package tabskema

import (
	"context"
	"log/slog"

	"github.com/reoring/tabskema/i18n"
)

// UniquePolicy controls whether uniqueness state survives repeated Validate calls.
type UniquePolicy int

const (
	UniqueAccumulate  UniquePolicy = iota // Keep seen values across Validate calls.
	UniqueResetPerRun                     // Clear seen values at the start of each Validate.
)

// HeaderPolicy controls how duplicate header names are treated.
type HeaderPolicy int

const (
	HeaderAlias  HeaderPolicy = iota // Duplicates resolve to the first occurrence.
	HeaderStrict                     // Duplicates are rejected by New.
)

// RowPolicy controls how rows whose length differs from the header are treated.
type RowPolicy int

const (
	RowLenient RowPolicy = iota // Missing cells read as empty; extra cells are ignored.
	RowStrict                   // Validate fails with ErrMalformedInput before scanning.
)

// Option configures a Validator.
type Option func(*options)

type options struct {
	unique     UniquePolicy
	header     HeaderPolicy
	rows       RowPolicy
	logger     *slog.Logger
	translator i18n.Translator
}

func defaultOptions() options {
	return options{
		unique: UniqueAccumulate,
		header: HeaderAlias,
		rows:   RowLenient,
		logger: slog.New(discardHandler{}),
	}
}

// discardHandler mirrors slog.DiscardHandler (Go 1.24+) for older toolchains.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// WithUniquePolicy selects the uniqueness accumulation policy.
func WithUniquePolicy(p UniquePolicy) Option { return func(o *options) { o.unique = p } }

// WithHeaderPolicy selects how duplicate header names are handled.
func WithHeaderPolicy(p HeaderPolicy) Option { return func(o *options) { o.header = p } }

// WithRowPolicy selects how misaligned rows are handled.
func WithRowPolicy(p RowPolicy) Option { return func(o *options) { o.rows = p } }

// WithLogger sets the logger used for registration and run summaries.
// Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTranslator pins the Translator used for messages. Without it the
// package-level translator from i18n is consulted at message time.
func WithTranslator(tr i18n.Translator) Option { return func(o *options) { o.translator = tr } }

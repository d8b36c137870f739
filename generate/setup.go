// Package generate implements program commands: encoding of a single
// declaration and expansion of declaration sources into generated files.
package generate

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"cstrgen/common"
	"cstrgen/config"
	"cstrgen/emit"
	"cstrgen/encoder"
)

// NewEncoder builds encoder from generator configuration.
func NewEncoder(cfg *config.GeneratorConfig) (*encoder.Encoder, error) {
	opts := encoder.Options{
		Policy:                cfg.Narrowing,
		Visibility:            cfg.Visibility,
		SuppressUnusedWarning: cfg.SuppressUnusedWarning,
		SuppressNamingWarning: cfg.SuppressNamingWarning,
	}
	if cfg.Narrowing == common.NarrowingPolicyCharset {
		cs, err := encoder.LookupCharset(cfg.Charset)
		if err != nil {
			return nil, fmt.Errorf("unable to use narrowing character set: %w", err)
		}
		opts.Charset = cs
	}
	enc, err := encoder.New(opts)
	if err != nil {
		return nil, fmt.Errorf("unable to create encoder: %w", err)
	}
	return enc, nil
}

// newRenderer prepares renderer for format using configured templates.
func newRenderer(cfg *config.GeneratorConfig, format common.OutputFmt) (emit.Renderer, error) {
	opts, err := emit.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	r, err := emit.New(format, opts)
	if err != nil {
		return nil, fmt.Errorf("unable to create %s renderer: %w", format, err)
	}
	return r, nil
}

func parseFormat(name string, log *zap.Logger) common.OutputFmt {
	format, err := common.ParseOutputFmt(name)
	if err != nil {
		log.Warn("Unknown output format requested, switching to rust", zap.Error(err))
		format = common.OutputFmtRust
	}
	return format
}

// lookupCodePage returns nil for empty or unknown names, unknown is reported.
func lookupCodePage(name string, log *zap.Logger) encoding.Encoding {
	if len(name) == 0 {
		return nil
	}
	cp, err := ianaindex.IANA.Encoding(name)
	if err != nil || cp == nil {
		log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", name), zap.Error(err))
		return nil
	}
	n, _ := ianaindex.IANA.Name(cp)
	log.Debug("Forcefully decoding all unmarked sources", zap.String("charset", n))
	return cp
}

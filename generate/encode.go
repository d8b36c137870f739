package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cstrgen/common"
	"cstrgen/emit"
	"cstrgen/encoder"
	"cstrgen/state"
)

// Encode is "encode" command action: produces a single declaration from
// command line arguments.
func Encode(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("encode")

	if cmd.Args().Len() < 2 {
		return errors.New("symbol name and text have to be specified")
	}
	name, text, fname := cmd.Args().Get(0), cmd.Args().Get(1), cmd.Args().Get(2)
	if cmd.Args().Len() > 3 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[3:]))
	}

	format := parseFormat(cmd.String("to"), log)
	export := cmd.Bool("export")

	dest := fname
	if len(dest) == 0 {
		dest = "STDOUT"
	}
	log.Info("Encoding declaration", zap.String("symbol", name), zap.Bool("export", export), zap.Stringer("format", format), zap.String("file", dest))

	// destination is not touched until declaration is ready
	buf := new(bytes.Buffer)
	if err := encodeOne(env, name, text, export, format, buf); err != nil {
		return err
	}
	if len(fname) == 0 {
		if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("unable to write declaration: %w", err)
		}
		return nil
	}
	if err := prepareOutput(fname, cmd.Bool("overwrite"), log); err != nil {
		return err
	}
	if err := os.WriteFile(fname, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("unable to write destination file '%s': %w", fname, err)
	}
	return nil
}

func encodeOne(env *state.LocalEnv, name, text string, export bool, format common.OutputFmt, w io.Writer) error {
	enc, err := NewEncoder(&env.Cfg.Generator)
	if err != nil {
		return err
	}

	var d *encoder.Declaration
	if export {
		d, err = enc.Export(encoder.Invocation{Args: []encoder.Argument{encoder.Ident(name), encoder.Literal(text)}})
	} else {
		d, err = enc.EncodeString(name, text)
	}
	if err != nil {
		return fmt.Errorf("unable to encode declaration: %w", err)
	}

	r, err := newRenderer(&env.Cfg.Generator, format)
	if err != nil {
		return err
	}
	buf := new(bytes.Buffer)
	if err := r.Render(buf, &emit.Unit{Declarations: []*encoder.Declaration{d}}); err != nil {
		return fmt.Errorf("unable to generate output: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("unable to write declaration: %w", err)
	}
	env.Rpt.StoreData("declaration"+format.Ext(), buf.Bytes())
	return nil
}

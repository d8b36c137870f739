package generate

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"cstrgen/archive"
	"cstrgen/common"
	"cstrgen/emit"
	"cstrgen/encoder"
	"cstrgen/invocation"
	"cstrgen/state"
)

// ErrSourcesFailed is returned by Expand when at least one declaration
// source could not be turned into output.
var ErrSourcesFailed = errors.New("some declaration sources failed")

// Expand is "expand" command action.
func Expand(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("expand")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	format := parseFormat(cmd.String("to"), log)

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")
	env.CodePage = lookupCodePage(cmd.String("source-cp"), log)

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, format, log)
}

// expander keeps what is shared by all sources of a single run.
type expander struct {
	env    *state.LocalEnv
	log    *zap.Logger
	enc    *encoder.Encoder
	r      emit.Renderer
	format common.OutputFmt
	exts   []string

	processed, failed int
}

// process handles the core logic independently of CLI framework. It
// determines the input type (directory, archive, or single file) and
// processes accordingly.
func process(ctx context.Context, src, dst string, format common.OutputFmt, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	enc, err := NewEncoder(&env.Cfg.Generator)
	if err != nil {
		return err
	}
	r, err := newRenderer(&env.Cfg.Generator, format)
	if err != nil {
		return err
	}
	x := &expander{env: env, log: log, enc: enc, r: r, format: format, exts: env.Cfg.Generator.SourceExtensions}

	if err := x.walk(ctx, src, dst); err != nil {
		return err
	}
	if x.failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrSourcesFailed, x.failed, x.processed)
	}
	if x.processed == 0 {
		log.Warn("No declaration sources found", zap.String("source", src))
	}
	return nil
}

func (x *expander) walk(ctx context.Context, src, dst string) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			return x.processDir(ctx, head, dst)
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			// we need to look inside to see if path makes sense
			tail = filepath.ToSlash(strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator)))
			if err := x.processArchive(ctx, head, tail, "", dst); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			return nil
		}

		if len(tail) != 0 {
			return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}
		ok, enc, err := isSourceFile(head, x.exts)
		if err != nil {
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if !ok {
			// explicitly named file is accepted regardless of extension
			// unless it is binary
			if ok, enc, err = isSourceFile(head, []string{filepath.Ext(head)}); err != nil || !ok {
				return fmt.Errorf("input was not recognized as declaration source (%s)", head)
			}
		}
		x.handle(ctx, func() (io.ReadCloser, error) { return os.Open(head) }, enc, filepath.Base(head), dst, zap.String("file", head))
		return nil
	}
	return fmt.Errorf("input source was not found (%s)", src)
}

// processDir finds declaration sources and archives under directory and
// processes them in natural order of their paths.
func (x *expander) processDir(ctx context.Context, dir, dst string) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			x.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Sort(natural.StringSlice(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		isArchive, err := isArchiveFile(path)
		if err != nil {
			x.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if isArchive {
			if err := x.processArchive(ctx, path, "", filepath.Dir(rel), dst); err != nil {
				x.log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			}
			continue
		}

		ok, enc, err := isSourceFile(path, x.exts)
		if err != nil {
			x.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if !ok {
			x.log.Debug("Skipping file, not recognized as declaration source or archive", zap.String("file", path))
			continue
		}
		x.handle(ctx, func() (io.ReadCloser, error) { return os.Open(path) }, enc, rel, dst, zap.String("file", path))
	}
	return nil
}

// processArchive processes declaration sources inside archive located under
// "pathIn". Outputs are placed under "pathOut".
func (x *expander) processArchive(ctx context.Context, path, pathIn, pathOut, dst string) error {
	match := func(name string) bool { return hasSourceExt(name, x.exts) }
	return archive.Walk(path, pathIn, match, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		ok, enc, err := isSourceInArchive(f, x.exts)
		if err != nil {
			x.log.Warn("Skipping file in archive", zap.String("archive", arc), zap.String("path", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		if !ok {
			x.log.Debug("Skipping file, not recognized as declaration source", zap.String("archive", arc), zap.String("file", f.FileHeader.Name))
			return nil
		}

		pathInArchive := f.FileHeader.Name
		if cp := x.env.CodePage; cp != nil && f.FileHeader.NonUTF8 {
			// zip does not define file name encoding, use forced one
			if n, err := cp.NewDecoder().String(pathInArchive); err == nil {
				pathInArchive = n
			} else {
				n, _ = ianaindex.IANA.Name(cp)
				x.log.Warn("Unable to convert archive name from specified encoding",
					zap.String("charset", n), zap.String("path", pathInArchive), zap.Error(err))
			}
		}
		open := func() (io.ReadCloser, error) { return f.Open() }
		x.handle(ctx, open, enc, filepath.Join(pathOut, filepath.FromSlash(pathInArchive)), dst,
			zap.String("archive", arc), zap.String("file", f.FileHeader.Name))
		return nil
	})
}

// handle processes single source and accounts for the result.
func (x *expander) handle(ctx context.Context, open func() (io.ReadCloser, error), enc srcEncoding, src, dst string, fields ...zap.Field) {
	x.processed++

	r, err := open()
	if err == nil {
		defer r.Close()
		err = x.processSource(ctx, selectReader(r, enc, x.env.CodePage), src, dst)
	}
	if err != nil {
		x.failed++
		x.log.Error("Unable to process declaration source", append(fields, zap.Error(err))...)
	}
}

// processSource expands single declaration source. "src" is the path of the
// source relative to the original path (just base name when file was
// specified directly). Nothing is written when source has problems, every
// problem is logged.
func (x *expander) processSource(ctx context.Context, r io.Reader, src, dst string) (rerr error) {
	var outputName string

	x.log.Debug("Expansion starting", zap.String("from", src))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			x.log.Error("Expansion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("expansion panic: %v", r)
		} else if rerr == nil {
			x.log.Info("Expansion completed", zap.String("from", src), zap.String("to", outputName), zap.Duration("elapsed", time.Since(start)))
		}
	}(time.Now())

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("unable to read declaration source (%s): %w", src, err)
	}

	calls, perr := invocation.Parse(filepath.ToSlash(src), data)
	xs := invocation.Expand(calls, x.enc)
	if x.env.Rpt != nil {
		x.env.Rpt.StoreData("expansions/"+filepath.ToSlash(src)+".txt", []byte(invocation.Dump(xs)))
	}
	decls, xerr := invocation.Declarations(xs)
	if err := invocation.SortDiagnostics(multierr.Append(perr, xerr)); err != nil {
		diags := multierr.Errors(err)
		for _, d := range diags {
			x.log.Error("Invalid declaration", zap.Error(d))
		}
		x.env.Rpt.StoreDiagnostics(src, err)
		return fmt.Errorf("%d problem(s) found in %s", len(diags), src)
	}

	unit := &emit.Unit{Source: filepath.ToSlash(src), Declarations: decls}
	for _, name := range unit.Duplicates() {
		// resolving this is linker's job
		x.log.Warn("Symbol is declared more than once", zap.String("source", src), zap.String("symbol", name))
	}

	outputName = buildOutputPath(unit, src, dst, x.format, x.env, x.log)
	if err := prepareOutput(outputName, x.env.Overwrite, x.log); err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := x.r.Render(buf, unit); err != nil {
		return fmt.Errorf("unable to generate output: %w", err)
	}
	if err := os.WriteFile(outputName, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}

	if x.env.Rpt != nil {
		if rel, err := filepath.Rel(dst, outputName); err == nil {
			x.env.Rpt.Store("result/"+filepath.ToSlash(rel), outputName)
		}
		x.env.Rpt.StoreData("symbols.txt", symbolListing(unit))
	}
	return nil
}

// prepareOutput makes sure output file could be created.
func prepareOutput(outputName string, overwrite bool, log *zap.Logger) error {
	if _, err := os.Stat(outputName); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		return os.Remove(outputName)
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}

func symbolListing(u *emit.Unit) []byte {
	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "%s\n", u.Source)
	for _, name := range u.Symbols() {
		fmt.Fprintf(buf, "\t%s\n", name)
	}
	return buf.Bytes()
}

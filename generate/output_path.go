package generate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"cstrgen/common"
	"cstrgen/config"
	"cstrgen/emit"
	"cstrgen/state"
)

// Values is a struct that holds variables we make available for output name
// template expansion.
type Values struct {
	Context string
	// Source is base name of declaration source without extension.
	Source  string
	Dir     string
	Format  string
	Symbols []string
}

// buildOutputPath returns output file path for declaration source src
// (relative to processed directory or archive). It uses either default
// naming scheme or user-defined template and takes into account whether to
// preserve source directory structure.
func buildOutputPath(u *emit.Unit, src, dst string, format common.OutputFmt, env *state.LocalEnv, log *zap.Logger) string {
	outDir := determineOutputDir(src, dst, env)
	defaultFile := buildDefaultFileName(src, format, env)

	if env.Cfg.Generator.OutputNameTemplate == "" {
		return filepath.Join(outDir, defaultFile)
	}

	expandedName, err := expandTemplate(u, src, config.OutputNameTemplateFieldName, env.Cfg.Generator.OutputNameTemplate, format)
	if err != nil || strings.TrimSpace(expandedName) == "" {
		log.Warn("Unable to prepare output filename, using default", zap.String("source", src), zap.Error(err))
		return filepath.Join(outDir, defaultFile)
	}
	return assemblePathWithSubdirs(outDir, filepath.FromSlash(expandedName), format, env)
}

func determineOutputDir(src, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.Dir(src))
}

func baseName(src string) string {
	return strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
}

func buildDefaultFileName(src string, format common.OutputFmt, env *state.LocalEnv) string {
	return cleanPathSegment(baseName(src), env) + format.Ext()
}

func expandTemplate(u *emit.Unit, src string, name config.TemplateFieldName, field string, format common.OutputFmt) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context: string(name),
		Source:  baseName(src),
		Dir:     filepath.ToSlash(filepath.Dir(src)),
		Format:  format.String(),
		Symbols: u.Symbols(),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output
// path, cleaning and transliterating segments as needed.
func assemblePathWithSubdirs(outDir, expandedName string, format common.OutputFmt, env *state.LocalEnv) string {
	pathSegments := splitPath(expandedName)
	if len(pathSegments) == 0 {
		return outDir
	}

	dirParts := make([]string, 0, len(pathSegments)+1)
	dirParts = append(dirParts, outDir)
	for _, segment := range pathSegments[:len(pathSegments)-1] {
		dirParts = append(dirParts, cleanPathSegment(segment, env))
	}
	dirParts = append(dirParts, cleanPathSegment(pathSegments[len(pathSegments)-1], env)+format.Ext())
	return filepath.Join(dirParts...)
}

func splitPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)

	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" {
			break
		}
	}
	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Generator.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}

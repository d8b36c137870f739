package generate

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"cstrgen/common"
	"cstrgen/config"
	"cstrgen/emit"
	"cstrgen/encoder"
	"cstrgen/state"
)

func setupTestEnvForOutputPath(t *testing.T, noDirs, transliterate bool, template string) *state.LocalEnv {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Generator.FileNameTransliterate = transliterate
	cfg.Generator.OutputNameTemplate = template
	return &state.LocalEnv{Log: zaptest.NewLogger(t), Cfg: cfg, NoDirs: noDirs}
}

func testUnit() *emit.Unit {
	return &emit.Unit{
		Source: "dir/greetings.cstr",
		Declarations: []*encoder.Declaration{
			{Name: "b10"}, {Name: "b2"},
		},
	}
}

func TestBuildOutputPath(t *testing.T) {
	dst := filepath.FromSlash("/out")
	src := filepath.Join("dir", "Привет мир.cstr")

	tests := []struct {
		name          string
		noDirs        bool
		transliterate bool
		template      string
		format        common.OutputFmt
		want          string
	}{
		{"default keeps dirs", false, false, "", common.OutputFmtRust, "/out/dir/Привет мир.rs"},
		{"default no dirs", true, false, "", common.OutputFmtC, "/out/Привет мир.c"},
		{"transliterate", true, true, "", common.OutputFmtH, "/out/privet-mir.h"},
		{"template", true, false, `{{ .Format }}/{{ .Source }}`, common.OutputFmtYaml, "/out/yaml/Привет мир.yaml"},
		{"template with symbols", true, false, `{{ first .Symbols }}_{{ .Dir }}`, common.OutputFmtIon, "/out/b2_dir.ion"},
		{"template transliterated", false, true, `Сборка/{{ .Source }}`, common.OutputFmtRust, "/out/dir/sborka/privet-mir.rs"},
		{"broken template", true, false, `{{ .Nope `, common.OutputFmtRust, "/out/Привет мир.rs"},
		{"empty expansion", true, false, `{{ "" }}`, common.OutputFmtRust, "/out/Привет мир.rs"},
		{"escaping template", true, false, `../../{{ .Source }}`, common.OutputFmtRust, "/out/_bad_file_name_/_bad_file_name_/Привет мир.rs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, tt.noDirs, tt.transliterate, tt.template)
			got := buildOutputPath(testUnit(), src, dst, tt.format, env, env.Log)
			if want := filepath.FromSlash(tt.want); got != want {
				t.Errorf("buildOutputPath() = %q, want %q", got, want)
			}
		})
	}
}

func TestSplitPath(t *testing.T) {
	got := splitPath(filepath.FromSlash("a/b/c/"))
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("splitPath() = %v", got)
	}
	if got := splitPath(""); len(got) != 0 {
		t.Errorf("splitPath(\"\") = %v", got)
	}
}

func TestExpandTemplate(t *testing.T) {
	got, err := expandTemplate(testUnit(), "dir/x.cstr", config.OutputNameTemplateFieldName, `{{ .Context }}:{{ join "," .Symbols }}`, common.OutputFmtC)
	if err != nil {
		t.Fatal(err)
	}
	if want := "output_name_template:b2,b10"; got != want {
		t.Errorf("expandTemplate() = %q, want %q", got, want)
	}
}

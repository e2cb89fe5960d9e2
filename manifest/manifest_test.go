package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	const path = "/proj/eagle.yaml"
	for _, test := range []struct {
		src     string
		want    *Manifest
		wantErr string
	}{
		{
			src: "name: hello\nsources: [lib.eg, main.eg]\n",
			want: &Manifest{
				Path:    path,
				Name:    "hello",
				Sources: []string{"/proj/lib.eg", "/proj/main.eg"},
				Output:  "text",
			},
		},
		{
			src: "name: calc\nsources:\n  - /abs/calc.eg\nscript: true\noutput: json\n",
			want: &Manifest{
				Path:    path,
				Name:    "calc",
				Sources: []string{"/abs/calc.eg"},
				Script:  true,
				Output:  "json",
			},
		},
		{src: "", wantErr: "is empty"},
		{src: "name: x\nsources: [a.eg]\nflavor: mild\n", wantErr: "field flavor not found"},
		{src: "sources: []\n", wantErr: "name must be provided"},
		{src: "name: x\n", wantErr: "sources must list at least one file"},
		{src: "name: x\nsources: [a.eg, ./a.eg]\n", wantErr: `sources[1] "./a.eg" is listed twice`},
		{src: "name: x\nsources: [a.eg, '']\n", wantErr: "sources[1] must be a non-empty path"},
		{src: "name: x\nsources: [a.eg]\noutput: xml\n", wantErr: `output "xml" must be text or json`},
	} {
		got, err := decode(path, strings.NewReader(test.src))
		if test.wantErr != "" {
			if err == nil {
				t.Errorf("decode(%q) succeeded, want error containing %q", test.src, test.wantErr)
			} else if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("decode(%q) = %v, want error containing %q", test.src, err, test.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("decode(%q): %v", test.src, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("decode(%q) mismatch (-want +got):\n%s", test.src, diff)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, Filename)
	require.NoError(t, os.WriteFile(path, []byte("name: demo\nsources: [demo.eg]\n"), 0666))

	m, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "demo", m.Name)
	require.Equal(t, []string{filepath.Join(dir, "demo.eg")}, m.Sources)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

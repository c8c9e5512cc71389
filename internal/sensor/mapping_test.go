package sensor

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Mapping
		wantErr error
	}{
		{
			name:  "single device",
			input: "AABBCCDDEEFF=LivingRoom\n",
			want:  Mapping{{ID: "AABBCCDDEEFF", Name: "LivingRoom"}},
		},
		{
			name:  "colons stripped from identifier",
			input: "A4:C1:38:00:11:22=Kitchen",
			want:  Mapping{{ID: "A4C138001122", Name: "Kitchen"}},
		},
		{
			name:  "colons kept in name",
			input: "A4:C1:38:00:11:22=Shed: north wall",
			want:  Mapping{{ID: "A4C138001122", Name: "Shed: north wall"}},
		},
		{
			name:  "blank lines and comments skipped",
			input: "# bedroom sensors\n\nA4C138000001=Bedroom\n  \nA4C138000002=Landing\n",
			want: Mapping{
				{ID: "A4C138000001", Name: "Bedroom"},
				{ID: "A4C138000002", Name: "Landing"},
			},
		},
		{
			name:  "duplicate keeps first position and last name",
			input: "A=One\nB=Two\nA=Three\n",
			want: Mapping{
				{ID: "A", Name: "Three"},
				{ID: "B", Name: "Two"},
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:    "missing separator",
			input:   "AABBCCDDEEFF LivingRoom",
			wantErr: ErrMalformedMapping,
		},
		{
			name:    "equals in name",
			input:   "AABBCCDDEEFF=Living=Room",
			wantErr: ErrMalformedMapping,
		},
		{
			name:    "empty identifier",
			input:   ":::=Ghost",
			wantErr: ErrEmptyIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParse_ErrorNamesLine(t *testing.T) {
	_, err := Parse(strings.NewReader("A=1\nbroken\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Parse() error = %v, want mention of line 2", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.conf")
	if err := os.WriteFile(path, []byte("AA:BB:CC:DD:EE:FF=LivingRoom\n"), 0600); err != nil {
		t.Fatalf("write mapping: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if name, ok := m.Lookup("AABBCCDDEEFF"); !ok || name != "LivingRoom" {
		t.Errorf("Lookup() = %q, %v; want LivingRoom, true", name, ok)
	}
	if !reflect.DeepEqual(m.IDs(), []string{"AABBCCDDEEFF"}) {
		t.Errorf("IDs() = %v", m.IDs())
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.conf")); err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestNormalizeID(t *testing.T) {
	if got := NormalizeID(" a4:c1:38:00:11:22 "); got != "a4c138001122" {
		t.Errorf("NormalizeID() = %q", got)
	}
}

package vibrato

import (
	"io"

	"gopkg.in/yaml.v3"
)

// Manifest is an optional human-authored metadata sidecar (dictionary.yaml)
// compiled alongside the MeCab source files. It never affects
// tokenization; it's carried through to the binary format's reserved
// trailer section (serialize.go) purely for provenance and debug output,
// the way alasdairforsythe-tokenmonster/training uses yaml.v3 for its own
// vocabulary config files.
type Manifest struct {
	Name            string `yaml:"name"`
	License         string `yaml:"license"`
	Charset         string `yaml:"charset"`
	MatrixPrecision string `yaml:"matrix_precision"`
}

// LoadManifest parses a dictionary.yaml sidecar.
func LoadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Write serializes the manifest back to YAML.
func (m *Manifest) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(m)
}

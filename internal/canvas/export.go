package canvas

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
)

const dataURLPrefix = "data:image/png;base64,"

// ExportPNG encodes the surface pixels as PNG.
func (m *Manager) ExportPNG(problemID string) ([]byte, error) {
	var b bytes.Buffer
	err := m.withSurface(problemID, func(s *surface) error {
		return png.Encode(&b, s.buf)
	})
	if err != nil {
		return nil, fmt.Errorf("could not export surface: %w", err)
	}

	return b.Bytes(), nil
}

// ExportDataURL encodes the surface as a `data:image/png;base64,...` URL.
func (m *Manager) ExportDataURL(problemID string) (string, error) {
	data, err := m.ExportPNG(problemID)
	if err != nil {
		return "", err
	}

	return dataURLPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// ExportAll exports every surface as a data URL keyed by problem ID.
func (m *Manager) ExportAll() (map[string]string, error) {
	res := map[string]string{}
	for _, id := range m.Surfaces() {
		u, err := m.ExportDataURL(id)
		if err != nil {
			return nil, fmt.Errorf("could not export %q surface: %w", id, err)
		}
		res[id] = u
	}

	return res, nil
}

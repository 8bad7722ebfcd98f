package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"example.com/fc2csv/internal/common"
)

type Item struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	Sha256 string `json:"sha256"`
	Type   string `json:"type"`
}

type Manifest struct {
	CreatedAt time.Time `json:"createdAt"`
	ShaAlgo   string    `json:"shaAlgo"`
	Items     []Item    `json:"items"`
}

// Build hashes every path in order. Duplicate paths are listed once.
func Build(paths []string) (Manifest, error) {
	m := Manifest{CreatedAt: time.Now().UTC(), ShaAlgo: "sha256"}
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		hex, sz, err := common.Sha256OfFile(p)
		if err != nil {
			return m, err
		}
		m.Items = append(m.Items, Item{Path: p, Size: sz, Sha256: hex, Type: TypeOf(p)})
	}
	return m, nil
}

// TypeOf classifies a file by extension.
func TypeOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fc2":
		return "fc2"
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	case ".pdf":
		return "pdf"
	case ".jsonl":
		return "jsonl"
	default:
		return "other"
	}
}

// Find returns the item recorded for path.
func (m Manifest) Find(path string) (Item, bool) {
	for _, it := range m.Items {
		if it.Path == path {
			return it, true
		}
	}
	return Item{}, false
}

func Save(m Manifest, out string) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(out, b, 0644)
}

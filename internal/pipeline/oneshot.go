package pipeline

import (
	"fmt"
	"os"

	"eolgames/internal/config"
)

func ExtractFile(path string, profile config.Profile) (DocumentResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return DocumentResult{}, err
	}
	defer f.Close()

	res, err := NewExtractor(profile).ExtractHTML(f)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

package openapi

import (
	"github.com/pb33f/libopenapi"

	"github.com/agentstation/smoketest/pkg/errors"
)

// SpecInfo describes what kind of API document a file holds.
type SpecInfo struct {
	Type     string `json:"type" yaml:"type"`         // openapi, swagger, ...
	Version  string `json:"version" yaml:"version"`   // declared version, e.g. 3.0.3
	Format   string `json:"format" yaml:"format"`     // oas3, oas2, ...
	FileType string `json:"fileType" yaml:"fileType"` // yaml or json
}

// Inspect classifies a document without building a full model.
func Inspect(data []byte) (SpecInfo, error) {
	doc, err := libopenapi.NewDocument(data)
	if err != nil {
		return SpecInfo{}, errors.WrapParse("openapi", "", err)
	}

	info := doc.GetSpecInfo()
	if info == nil {
		return SpecInfo{}, errors.NewParseError("openapi", "", "no spec info", nil)
	}

	return SpecInfo{
		Type:     info.SpecType,
		Version:  info.Version,
		Format:   info.SpecFormat,
		FileType: info.SpecFileType,
	}, nil
}

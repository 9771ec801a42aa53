package docmark

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// FileConfig is the decoded form of an HCL settings file:
//
//	markup_style          = "CoupaMarkUp"
//	processed_text        = "PROCESSED"
//	repeat_mode           = "single"
//	host_policy           = "restyle"
//	remove_repeat_markers = false
//	log_level             = "info"
//
//	variables = {
//	  Val_1  = "Acme Corp"
//	  Amount = 42
//	}
//
// Every attribute is optional. Variable values may be strings, numbers or
// bools; they are converted to strings.
type FileConfig struct {
	MarkupStyle         *string   `hcl:"markup_style,optional"`
	ProcessedText       *string   `hcl:"processed_text,optional"`
	RepeatMode          *string   `hcl:"repeat_mode,optional"`
	HostPolicy          *string   `hcl:"host_policy,optional"`
	RemoveRepeatMarkers *bool     `hcl:"remove_repeat_markers,optional"`
	LogLevel            *string   `hcl:"log_level,optional"`
	RawVariables        cty.Value `hcl:"variables,optional"`

	// Variables holds RawVariables converted to strings
	Variables Variables
}

// LoadConfigFile parses and decodes an HCL settings file
func LoadConfigFile(path string) (*FileConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", path, diags.Error())
	}
	return decodeConfigFile(file, path)
}

// ParseConfig decodes HCL settings held in memory. filename is used in
// diagnostics only.
func ParseConfig(src []byte, filename string) (*FileConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", filename, diags.Error())
	}
	return decodeConfigFile(file, filename)
}

func decodeConfigFile(file *hcl.File, path string) (*FileConfig, error) {
	var fc FileConfig
	diags := gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", path, diags.Error())
	}

	vars, err := variablesFromCty(fc.RawVariables)
	if err != nil {
		return nil, fmt.Errorf("invalid variables in %s: %w", path, err)
	}
	fc.Variables = vars

	GetLogger().WithField("path", path).Debug("decoded config file with %d variables", len(vars))
	return &fc, nil
}

func variablesFromCty(v cty.Value) (Variables, error) {
	vars := make(Variables)
	if v.IsNull() {
		return vars, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("variables must be known values")
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("variables must be an object, got %s", ty.FriendlyName())
	}

	for it := v.ElementIterator(); it.Next(); {
		key, val := it.Element()
		name := key.AsString()
		if val.IsNull() {
			return nil, fmt.Errorf("variable %q is null", name)
		}
		sv, err := convert.Convert(val, cty.String)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		vars[name] = sv.AsString()
	}
	return vars, nil
}

// Apply overlays the settings present in the file on c
func (fc *FileConfig) Apply(c *Config) error {
	if fc.MarkupStyle != nil {
		c.MarkupStyle = *fc.MarkupStyle
	}
	if fc.ProcessedText != nil {
		c.ProcessedText = *fc.ProcessedText
	}
	if fc.RepeatMode != nil {
		mode, err := ParseRepeatMode(*fc.RepeatMode)
		if err != nil {
			return err
		}
		c.RepeatMode = mode
	}
	if fc.HostPolicy != nil {
		policy, err := ParseHostPolicy(*fc.HostPolicy)
		if err != nil {
			return err
		}
		c.HostPolicy = policy
	}
	if fc.RemoveRepeatMarkers != nil {
		c.RemoveRepeatMarkers = *fc.RemoveRepeatMarkers
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	return c.Validate()
}

package registry

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Alia5/gohidpp/hidpp/hlog"
	"github.com/Alia5/gohidpp/hidpp/profile"
	"github.com/Alia5/gohidpp/internal/configpaths"
)

// SensorSpec is the YAML description of a profile.Sensor. Kind selects
// between the two concrete sensors restored from original_source's
// hidpp10/Sensor.h/.cpp.
type SensorSpec struct {
	Kind string `yaml:"kind"` // "list" or "range"

	// Kind: "list"
	Resolutions []uint `yaml:"resolutions,omitempty"`
	// Kind: "list", alternative to Resolutions: a [First,Last] step range.
	First uint `yaml:"first,omitempty"`
	Last  uint `yaml:"last,omitempty"`
	Step  uint `yaml:"step,omitempty"`

	// Kind: "range"
	Min           uint `yaml:"min,omitempty"`
	Max           uint `yaml:"max,omitempty"`
	RatioDividend uint `yaml:"ratio_dividend,omitempty"`
	RatioDivisor  uint `yaml:"ratio_divisor,omitempty"`
}

func (s SensorSpec) resolve() (profile.Sensor, error) {
	switch s.Kind {
	case "list":
		if len(s.Resolutions) > 0 {
			return profile.NewListSensor(s.Resolutions...), nil
		}
		if s.Last == 0 {
			return nil, fmt.Errorf("list sensor needs either resolutions or first/last/step")
		}
		return profile.NewListSensorRange(s.First, s.Last, s.Step), nil
	case "range":
		if s.Max == 0 || s.RatioDividend == 0 || s.RatioDivisor == 0 {
			return nil, fmt.Errorf("range sensor needs min/max/step/ratio_dividend/ratio_divisor")
		}
		return profile.NewRangeSensor(s.Min, s.Max, s.Step, s.RatioDividend, s.RatioDivisor), nil
	default:
		return nil, fmt.Errorf("unknown sensor kind %q", s.Kind)
	}
}

// FamilySpec is one YAML table entry: a device family's vendor/product id
// plus the profile/directory codec it should use.
type FamilySpec struct {
	Name      string `yaml:"name"`
	VendorID  uint16 `yaml:"vendor_id"`
	ProductID uint16 `yaml:"product_id"`

	// ProfileFormat selects the profile.Format implementation: one of
	// "g500", "g9", "g700", "v2". v1 formats (g500/g9/g700) require Sensor.
	ProfileFormat string      `yaml:"profile_format"`
	Sensor        *SensorSpec `yaml:"sensor,omitempty"`

	// DirectoryFormat selects the profile.DirectoryFormat: "v1" or "v2".
	// LEDCount only applies to "v1" (default 4, matching
	// HIDPP10::getProfileDirectoryFormat).
	DirectoryFormat string `yaml:"directory_format"`
	LEDCount        int    `yaml:"led_count,omitempty"`
}

func (s FamilySpec) resolve(log hlog.Logger) (Family, error) {
	f := Family{Name: s.Name, VendorID: s.VendorID, ProductID: s.ProductID}

	switch s.ProfileFormat {
	case "g500", "g9", "g700":
		if s.Sensor == nil {
			return Family{}, fmt.Errorf("profile_format %q requires a sensor", s.ProfileFormat)
		}
		sensor, err := s.Sensor.resolve()
		if err != nil {
			return Family{}, fmt.Errorf("sensor: %w", err)
		}
		switch s.ProfileFormat {
		case "g500":
			f.Profile = profile.NewG500Format(sensor, log)
		case "g9":
			f.Profile = profile.NewG9Format(sensor, log)
		case "g700":
			f.Profile = profile.NewG700Format(sensor, log)
		}
	case "v2":
		f.Profile = profile.NewV2Format(log)
	default:
		return Family{}, fmt.Errorf("unknown profile_format %q", s.ProfileFormat)
	}

	switch s.DirectoryFormat {
	case "", "v1":
		ledCount := s.LEDCount
		if ledCount == 0 {
			ledCount = 4
		}
		f.Directory = profile.NewV1DirectoryFormat(ledCount, log)
	case "v2":
		f.Directory = profile.NewV2DirectoryFormat(log)
	default:
		return Family{}, fmt.Errorf("unknown directory_format %q", s.DirectoryFormat)
	}

	return f, nil
}

// Document is the top-level YAML document: a flat list of family specs.
type Document struct {
	Families []FamilySpec `yaml:"families"`
}

// Load decodes a YAML document from r and registers every family it names.
func Load(r io.Reader, log hlog.Logger) error {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("registry: decode: %w", err)
	}
	return LoadSpecs(doc.Families, log)
}

// LoadDefault searches the candidate paths configpaths.FamilyTableCandidates
// builds for userPath (pass "" to skip straight to the standard search order)
// and loads the first families.yaml it finds. It returns an error naming the
// candidates tried if none exist.
func LoadDefault(userPath string, log hlog.Logger) (string, error) {
	candidates := configpaths.FamilyTableCandidates(userPath)
	for _, candidate := range candidates {
		f, err := os.Open(candidate)
		if err != nil {
			continue
		}
		defer f.Close()
		if err := Load(f, log); err != nil {
			return candidate, fmt.Errorf("registry: %s: %w", candidate, err)
		}
		return candidate, nil
	}
	return "", fmt.Errorf("registry: no families.yaml found (tried %q)", candidates)
}

// Marshal renders specs to YAML in the Document shape that Load decodes. It
// encodes only the given specs and does not read the registered families
// (a Family does not retain the FamilySpec or SensorSpec it was built from).
func Marshal(specs []FamilySpec) ([]byte, error) {
	return yaml.Marshal(Document{Families: specs})
}
